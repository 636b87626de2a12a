// Copyright 2026 The geyserbench Authors
// Licensed under the GNU Lesser General Public License v3; see LICENSE.

// Package trace optionally archives the per-endpoint trace log files
// (spec.md §6: "log-<endpoint_name>.txt") to S3 once a run finishes
// (SPEC_FULL.md §3 Trace section).
package trace

import (
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"

	"github.com/corvus-labs/geyserbench/config"
	gblog "github.com/corvus-labs/geyserbench/log"
)

var logger = gblog.NewModuleLogger("trace")

// Archive uploads every trace log named in paths to cfg's configured S3
// bucket/prefix. Individual upload failures are logged and do not stop the
// remaining uploads; archival is best-effort, the same policy the spec
// applies to the downstream sink.
func Archive(cfg config.Trace, paths []string) {
	if !cfg.Enabled || cfg.Bucket == "" || len(paths) == 0 {
		return
	}

	sess, err := session.NewSession()
	if err != nil {
		logger.Warn("failed to create aws session for trace archival", "err", err)
		return
	}
	uploader := s3manager.NewUploader(sess)

	for _, path := range paths {
		if err := archiveOne(uploader, cfg, path); err != nil {
			logger.Warn("failed to archive trace log", "path", path, "err", err)
		}
	}
}

func archiveOne(uploader *s3manager.Uploader, cfg config.Trace, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	key := fmt.Sprintf("%s/%s", cfg.Prefix, path)
	_, err = uploader.Upload(&s3manager.UploadInput{
		Bucket: aws.String(cfg.Bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	return err
}
