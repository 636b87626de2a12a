// Copyright 2026 The geyserbench Authors
// Licensed under the GNU Lesser General Public License v3; see LICENSE.

package provider

import (
	"context"
	"fmt"
	"os"

	"github.com/corvus-labs/geyserbench/compare"
	"github.com/corvus-labs/geyserbench/config"
	gblog "github.com/corvus-labs/geyserbench/log"
	"github.com/corvus-labs/geyserbench/signature"
)

// Worker holds the per-producer state every concrete provider shares: its
// exclusively-owned Accumulator, its decoded account filter, and its
// optional trace log file (spec.md §4.1 side effects, §3 ownership).
type Worker struct {
	SourceName string
	wantRaw    [][]byte
	ctx        *Context
	acc        *compare.Accumulator
	traceFile  *os.File
	txCount    int

	logger *gblog.Logger
}

// NewWorker decodes the configured account set and opens the optional
// trace log file for endpoint. The trace file is only opened when trace
// logging is active (spec.md §4.1).
func NewWorker(endpoint config.Endpoint, run config.Run, pctx *Context) (*Worker, error) {
	wantRaw := make([][]byte, 0, len(run.Accounts))
	for _, acct := range run.Accounts {
		raw, err := signature.Decode(acct)
		if err != nil {
			return nil, fmt.Errorf("endpoint %s: invalid account %q: %w", endpoint.Name, acct, err)
		}
		wantRaw = append(wantRaw, raw)
	}

	w := &Worker{
		SourceName: endpoint.Name,
		wantRaw:    wantRaw,
		ctx:        pctx,
		acc:        compare.NewAccumulator(),
		logger:     gblog.NewModuleLogger("provider." + endpoint.Name),
	}

	if gblog.TraceEnabled() {
		path := fmt.Sprintf("log-%s.txt", endpoint.Name)
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("endpoint %s: opening trace log: %w", endpoint.Name, err)
		}
		w.traceFile = f
	}

	return w, nil
}

// HandleFrame runs one frame through steps 2-8 of the producer loop
// (spec.md §4.2): filter on account, encode+timestamp, trace, accumulate,
// and on novelty push downstream and check the quota.
func (w *Worker) HandleFrame(f Frame) {
	if !accountFilter(f, w.wantRaw) {
		return
	}

	elapsed, wallclock := snapshot(w.ctx)
	sig := signature.Encode(f.Signature)
	tx := compare.TransactionData{
		WallclockSecs:      wallclock,
		ElapsedSinceStart:  elapsed,
		StartWallclockSecs: w.ctx.Clock.StartWallclockSecs(),
	}

	if w.traceFile != nil {
		fmt.Fprintf(w.traceFile, "%f\t%s\t%s\n", wallclock, w.SourceName, sig)
	}

	w.txCount++

	if !w.acc.Record(sig, tx) {
		return
	}

	envelope, isNew := w.ctx.Comparator.NoteFirstSeen(w.SourceName, sig, tx, w.ctx.TotalProducers)
	if !isNew {
		return
	}

	if w.ctx.TargetTransactions > 0 {
		newValue := w.ctx.SharedCounter.Inc()
		if w.ctx.Progress != nil {
			w.ctx.Progress.Record(int(newValue))
		}
		if newValue >= int64(w.ctx.TargetTransactions) {
			if w.ctx.ShuttingDown.CAS(false, true) {
				w.ctx.Shutdown.Broadcast()
			}
		}
	}

	if w.ctx.Queue != nil {
		w.ctx.Queue.TryPush(envelope)
	}
}

// Finish drains the accumulator into the shared Comparator and releases the
// trace log file, both on every exit path (spec.md §4.1 step 4, §5 "Per-
// endpoint log file ... closed on exit via scoped resource acquisition").
func (w *Worker) Finish() {
	w.ctx.Comparator.AddBatch(w.SourceName, w.acc.Drain())
	if w.traceFile != nil {
		w.traceFile.Close()
	}
}

// logStreamErrors drains a rawstream error channel to the worker's logger.
// A receive error mid-run is non-fatal (spec.md §7 condition 3): it is
// logged and the producer loop exits normally once frames closes.
func logStreamErrors(w *Worker, errs <-chan error) {
	for err := range errs {
		w.logger.Warn("stream receive error", "source", w.SourceName, "err", err)
	}
}

// RunLoop drives the biased-shutdown producer loop shared by every
// concrete provider: a non-blocking shutdown pre-check, then a select
// between shutdown, context cancellation, and the next decoded frame
// (spec.md §4.2, §5, §9 — Go's select has no native bias so the priority is
// obtained with the pre-check).
func RunLoop(ctx context.Context, w *Worker, frames <-chan Frame) error {
	defer w.Finish()

	for {
		if w.ctx.Shutdown.Triggered() {
			return nil
		}
		select {
		case <-w.ctx.Shutdown.Done():
			return nil
		case <-ctx.Done():
			return nil
		case frame, ok := <-frames:
			if !ok {
				return nil
			}
			w.HandleFrame(frame)
		}
	}
}
