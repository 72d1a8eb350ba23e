// Package email sends transactional email through the Resend HTTP API.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mammy-coker-hub/internal/pkg/logging"
)

var ErrNotConfigured = errors.New("RESEND_API_KEY is not configured")

type Message struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type Receipt struct {
	ID string `json:"id"`
}

// APIError carries the message Resend returned.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

type Resend struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *logging.Logger
}

func NewResend(baseURL, apiKey string, logger *logging.Logger) *Resend {
	if logger == nil {
		logger = logging.Nop()
	}
	if baseURL == "" {
		baseURL = "https://api.resend.com"
	}
	return &Resend{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  logger.With("component", "resend"),
	}
}

func (r *Resend) Send(ctx context.Context, m Message) (Receipt, error) {
	if r.apiKey == "" {
		return Receipt{}, ErrNotConfigured
	}
	b, err := json.Marshal(m)
	if err != nil {
		return Receipt{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/emails", bytes.NewReader(b))
	if err != nil {
		return Receipt{}, err
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return Receipt{}, fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(body, &eb)
		if eb.Message == "" {
			eb.Message = "Failed to send email"
		}
		r.logger.Warn("email rejected", "status", resp.StatusCode, "message", eb.Message)
		return Receipt{}, &APIError{Status: resp.StatusCode, Message: eb.Message}
	}

	var rec Receipt
	if err := json.Unmarshal(body, &rec); err != nil {
		return Receipt{}, fmt.Errorf("decode email receipt: %w", err)
	}
	return rec, nil
}
