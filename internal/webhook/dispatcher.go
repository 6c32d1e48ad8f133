// Package webhook delivers the outbound lender-document notification: a
// fire-and-forget JSON POST, retried with exponential backoff, with the
// outcome logged and never surfaced to the uploading user.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// DocumentPayload describes an uploaded lender document to the receiver.
type DocumentPayload struct {
	DocumentID  string `json:"documentId"`
	LenderID    string `json:"lenderId"`
	LoanID      string `json:"loanId,omitempty"`
	ClientID    string `json:"clientId,omitempty"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	SizeBytes   int64  `json:"sizeBytes"`
	SignedURL   string `json:"signedUrl"`
}

// Dispatcher posts payloads to a configured endpoint.
type Dispatcher struct {
	url        string
	client     *http.Client
	log        *zap.Logger
	maxElapsed time.Duration
}

// NewDispatcher constructs a Dispatcher. An empty url disables delivery.
func NewDispatcher(url string, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		url:        url,
		client:     &http.Client{Timeout: 10 * time.Second},
		log:        log,
		maxElapsed: 30 * time.Second,
	}
}

// Enabled reports whether an endpoint is configured.
func (d *Dispatcher) Enabled() bool { return d.url != "" }

// DispatchAsync sends the payload in the background. No response is awaited
// by the caller; delivery failures are retried with backoff and then logged.
func (d *Dispatcher) DispatchAsync(payload DocumentPayload) {
	if !d.Enabled() {
		return
	}
	go func() {
		if err := d.dispatch(context.Background(), payload); err != nil {
			d.log.Error("lender document webhook delivery failed",
				zap.String("document", payload.DocumentID), zap.Error(err))
			return
		}
		d.log.Info("lender document webhook delivered",
			zap.String("document", payload.DocumentID))
	}()
}

func (d *Dispatcher) dispatch(ctx context.Context, payload DocumentPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	policy := backoff.WithContext(backoff.NewExponentialBackOff(
		backoff.WithMaxElapsedTime(d.maxElapsed),
	), ctx)

	return backoff.Retry(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := d.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 500 {
			return fmt.Errorf("webhook endpoint returned %d", resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			return backoff.Permanent(fmt.Errorf("webhook endpoint rejected payload with %d", resp.StatusCode))
		}
		return nil
	}, policy)
}
