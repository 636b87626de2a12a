// Copyright 2026 The geyserbench Authors
// Licensed under the GNU Lesser General Public License v3; see LICENSE.

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/corvus-labs/geyserbench/compare"
)

// HTTPSink POSTs each envelope as a JSON body to a fixed URL. It is the
// simplest of the three sinks and the default (spec.md §6 default backend
// kind is "http").
type HTTPSink struct {
	url    string
	client *http.Client
}

// NewHTTP builds an HTTP sink targeting url.
func NewHTTP(url string) *HTTPSink {
	return &HTTPSink{
		url:    url,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

func (h *HTTPSink) Publish(ctx context.Context, env compare.SignatureEnvelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("http backend responded with status %d", resp.StatusCode)
	}
	return nil
}

func (h *HTTPSink) Close() error { return nil }
