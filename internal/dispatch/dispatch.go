// Package dispatch delivers finished classification payloads to the
// external task processor that posts them into the accounting system.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cajero-dev/cajero/internal/classify"
)

// Service POSTs operation sets as JSON. Delivery is best-effort: a
// failed dispatch is surfaced to the caller and logged, but it never
// rolls back the classification or any persisted state.
type Service struct {
	client   *http.Client
	url      string
	apiToken string
	log      *slog.Logger
}

func NewService(url, apiToken string, timeout time.Duration, log *slog.Logger) *Service {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Service{
		client:   &http.Client{Timeout: timeout},
		url:      url,
		apiToken: apiToken,
		log:      log,
	}
}

// Enabled reports whether a dispatch endpoint is configured. Without
// one, classification results are only returned to the caller.
func (s *Service) Enabled() bool {
	return s.url != ""
}

// Send delivers one operation set.
func (s *Service) Send(ctx context.Context, set *classify.OperationSet) error {
	if !s.Enabled() {
		return fmt.Errorf("dispatch endpoint not configured")
	}

	body, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("encoding operation set: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if s.apiToken != "" {
		req.Header.Set("Authorization", "Token "+s.apiToken)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Error("dispatch failed", "id_task", set.IDTask, "error", err)
		return fmt.Errorf("posting operation set %s: %w", set.IDTask, err)
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused.
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.log.Error("dispatch rejected", "id_task", set.IDTask, "status", resp.StatusCode)
		return fmt.Errorf("posting operation set %s: unexpected status %d", set.IDTask, resp.StatusCode)
	}

	s.log.Info("operation set dispatched", "id_task", set.IDTask, "operations", set.NumOps)

	return nil
}
