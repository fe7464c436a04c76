// Package bookingclient submits booking requests to a remote endpoint.
package bookingclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"planning/internal/adapters/http/perf"
	"planning/internal/domain/booking"
)

// DefaultTimeout bounds one submission round trip.
const DefaultTimeout = 30 * time.Second

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

// Endpoint errors
var (
	ErrRejected  = errors.New("booking rejected by endpoint")
	ErrBadStatus = errors.New("unexpected endpoint status")
)

// Response is the endpoint's JSON envelope.
type Response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// Message returns Data when it is a JSON string.
func (r Response) Message() string {
	var s string
	if err := json.Unmarshal(r.Data, &s); err != nil {
		return ""
	}
	return s
}

// Client posts urlencoded `courses` and `form` fields holding JSON documents.
type Client struct {
	Endpoint  string
	Action    string // optional `action` field
	Nonce     string // optional `nonce` field
	HTTP      *http.Client
	Collector *perf.Collector
}

// New creates a client with DefaultTimeout.
// PRE: endpoint is an absolute URL
func New(endpoint string, collector *perf.Collector) *Client {
	return &Client{
		Endpoint:  endpoint,
		HTTP:      &http.Client{Timeout: DefaultTimeout},
		Collector: collector,
	}
}

// Encode builds the form body for req.
func (c *Client) Encode(req booking.Request) (url.Values, error) {
	courses, err := json.Marshal(req.Courses)
	if err != nil {
		return nil, fmt.Errorf("encode courses: %w", err)
	}
	form, err := json.Marshal(req.Form)
	if err != nil {
		return nil, fmt.Errorf("encode form: %w", err)
	}
	v := url.Values{}
	v.Set("courses", string(courses))
	v.Set("form", string(form))
	if c.Action != "" {
		v.Set("action", c.Action)
	}
	if c.Nonce != "" {
		v.Set("nonce", c.Nonce)
	}
	return v, nil
}

// Submit sends req once.
// POST: Returns nil only for a 2xx response whose envelope reports success
func (c *Client) Submit(ctx context.Context, req booking.Request) error {
	values, err := c.Encode(req)
	if err != nil {
		return err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return fmt.Errorf("build booking request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Accept", "application/json")

	client := c.HTTP
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	start := time.Now()
	err = c.do(client, httpReq)
	c.Collector.RecordUpstream("booking.submit", start, err)
	if err != nil {
		slog.Warn("booking_submit_failed", "endpoint", c.Endpoint, "error", err)
		return err
	}
	slog.Info("booking_submitted", "endpoint", c.Endpoint, "courses", len(req.Courses))
	return nil
}

func (c *Client) do(client *http.Client, req *http.Request) error {
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("post booking: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read booking response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	var envelope Response
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode booking response: %w", err)
	}
	if !envelope.Success {
		if msg := envelope.Message(); msg != "" {
			return fmt.Errorf("%w: %s", ErrRejected, msg)
		}
		return ErrRejected
	}
	return nil
}
