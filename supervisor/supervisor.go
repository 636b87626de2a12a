// Copyright 2026 The geyserbench Authors
// Licensed under the GNU Lesser General Public License v3; see LICENSE.

// Package supervisor wires together the shared coordination state, spawns
// one provider per configured endpoint, and drives the run to completion
// (spec.md §4.6): own the SIGINT/SIGTERM handling and the top-level
// lifecycle, delegate the real work to the components it holds.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"go.uber.org/atomic"

	"github.com/corvus-labs/geyserbench/adminhttp"
	"github.com/corvus-labs/geyserbench/backend"
	"github.com/corvus-labs/geyserbench/clock"
	"github.com/corvus-labs/geyserbench/compare"
	"github.com/corvus-labs/geyserbench/config"
	gblog "github.com/corvus-labs/geyserbench/log"
	"github.com/corvus-labs/geyserbench/metrics"
	"github.com/corvus-labs/geyserbench/provider"
	"github.com/corvus-labs/geyserbench/queue"
	"github.com/corvus-labs/geyserbench/trace"
)

var logger = gblog.NewModuleLogger("supervisor")

// Run executes one full engine run against cfg: validates it, builds the
// shared state, spawns a provider per endpoint, awaits them all, and
// returns the final comparison report (spec.md §4.6).
func Run(ctx context.Context, cfg *config.Config) (compare.ComparisonReport, error) {
	if err := cfg.Validate(); err != nil {
		return compare.ComparisonReport{}, fmt.Errorf("invalid config: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	installSignalHandler(cancel)

	comparator := compare.NewComparator()
	var q *queue.Queue
	sink := backend.New(cfg.Backend)
	var drainWG sync.WaitGroup
	if cfg.Backend.Enabled {
		capacity := cfg.Backend.QueueCapacity
		if capacity <= 0 {
			capacity = 1024
		}
		q = queue.New(capacity)
		drainWG.Add(1)
		go func() {
			defer drainWG.Done()
			backend.Drain(runCtx, sink, q.Drain())
		}()
	}

	pctx := &provider.Context{
		Clock:              clock.New(),
		Comparator:         comparator,
		Queue:              q,
		Progress:           metrics.NewProgressTracker(cfg.Run.Transactions),
		Shutdown:           provider.NewShutdown(),
		SharedCounter:      atomic.NewInt64(0),
		ShuttingDown:       atomic.NewBool(false),
		TargetTransactions: cfg.Run.Transactions,
		TotalProducers:     len(cfg.Endpoints),
	}

	var admin *adminhttp.Server
	if cfg.Admin.Enabled {
		admin = adminhttp.New(cfg.Admin.Addr, comparator)
		if err := admin.Start(); err != nil {
			logger.Warn("admin http listener failed to start", "addr", cfg.Admin.Addr, "err", err)
			admin = nil
		}
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(cfg.Endpoints))
	running := atomic.NewInt64(0)
	for _, endpoint := range cfg.Endpoints {
		p, err := provider.New(endpoint, cfg.Run, pctx)
		if err != nil {
			return compare.ComparisonReport{}, fmt.Errorf("endpoint %s: %w", endpoint.Name, err)
		}
		metrics.SetProducersRunning(int(running.Inc()))

		wg.Add(1)
		go func(name string, p provider.Provider) {
			defer wg.Done()
			defer func() { metrics.SetProducersRunning(int(running.Dec())) }()
			if err := p.Run(runCtx); err != nil {
				errs <- fmt.Errorf("endpoint %s: %w", name, err)
			}
		}(endpoint.Name, p)
	}

	if admin != nil {
		admin.MarkReady()
	}

	// A producer's initial connect failure is fatal for the whole run
	// (spec.md §4.1, §7 condition 2): a partial set of producers would bias
	// the report, so the first one cancels every other producer and the run
	// aborts with no report. A later stream error only ends that one
	// producer and is merely logged.
	var fatalErr error
	var fatalOnce sync.Once
	collectDone := make(chan struct{})
	go func() {
		defer close(collectDone)
		for err := range errs {
			var connErr *provider.ConnectError
			if errors.As(err, &connErr) {
				fatalOnce.Do(func() {
					fatalErr = err
					cancel()
				})
				continue
			}
			logger.Warn("producer exited with error", "err", err)
		}
	}()

	wg.Wait()
	close(errs)
	<-collectDone

	if q != nil {
		q.Close()
	}
	drainWG.Wait()
	if err := sink.Close(); err != nil {
		logger.Warn("error closing backend sink", "err", err)
	}

	if fatalErr != nil {
		if admin != nil {
			admin.Stop()
		}
		return compare.ComparisonReport{}, fatalErr
	}

	if cfg.Trace.Enabled && gblog.TraceEnabled() {
		archiveTraceLogs(cfg)
	}

	report := comparator.Report()
	if admin != nil {
		admin.SetReport(report)
		admin.Stop()
	}
	return report, nil
}

// archiveTraceLogs uploads every per-endpoint trace log this run produced
// to S3, matching the "log-<endpoint_name>.txt" naming NewWorker uses.
func archiveTraceLogs(cfg *config.Config) {
	paths, err := filepath.Glob("log-*.txt")
	if err != nil {
		logger.Warn("failed to list trace logs for archival", "err", err)
		return
	}
	trace.Archive(cfg.Trace, paths)
}

// installSignalHandler cancels runCtx on SIGINT/SIGTERM for a graceful
// shutdown.
func installSignalHandler(cancel context.CancelFunc) {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigc
		logger.Info("received interrupt, shutting down")
		signal.Stop(sigc)
		cancel()
	}()
}
