// Package storage stores uploaded files in buckets, either through a hosted
// storage REST API or on local disk.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mammy-coker-hub/internal/pkg/logging"
)

var ErrNotConfigured = errors.New("storage is not configured")

// Error is a non-2xx answer from the storage API.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return fmt.Sprintf("storage: %d %s", e.Status, e.Message) }

type Client struct {
	baseURL    string
	serviceKey string
	http       *http.Client
	logger     *logging.Logger
}

func NewClient(baseURL, serviceKey string, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/") + "/storage/v1",
		serviceKey: serviceKey,
		http:       &http.Client{Timeout: 30 * time.Second},
		logger:     logger.With("component", "storage"),
	}
}

func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, s := range parts {
		parts[i] = url.PathEscape(s)
	}
	return strings.Join(parts, "/")
}

func (c *Client) Put(ctx context.Context, bucket, path string, body io.Reader, size int64, contentType string) error {
	if c.serviceKey == "" {
		return ErrNotConfigured
	}
	endpoint := c.baseURL + "/object/" + url.PathEscape(bucket) + "/" + escapePath(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return err
	}
	req.ContentLength = size
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Cache-Control", "max-age=3600")
	req.Header.Set("x-upsert", "false")
	return c.send(req)
}

// Remove deletes objects; missing objects are not an error.
func (c *Client) Remove(ctx context.Context, bucket string, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	if c.serviceKey == "" {
		return ErrNotConfigured
	}
	b, err := json.Marshal(map[string][]string{"prefixes": paths})
	if err != nil {
		return err
	}
	endpoint := c.baseURL + "/object/" + url.PathEscape(bucket)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, strings.NewReader(string(b)))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Content-Type", "application/json")
	return c.send(req)
}

func (c *Client) PublicURL(bucket, path string) string {
	return c.baseURL + "/object/public/" + url.PathEscape(bucket) + "/" + escapePath(path)
}

func (c *Client) send(req *http.Request) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("storage request %s: %w", req.Method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var eb struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	_ = json.Unmarshal(rb, &eb)
	msg := eb.Message
	if msg == "" {
		msg = eb.Error
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	c.logger.Warn("storage request failed", "method", req.Method, "path", req.URL.Path, "status", resp.StatusCode, "message", msg)
	return &Error{Status: resp.StatusCode, Message: msg}
}
