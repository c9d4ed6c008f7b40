// Package timecheck performs the optional sanity check of the local
// clock against a public time service. It degrades to "unknown" on any
// failure and never blocks the timing workflow it supports.
package timecheck

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Status classifies a clock check.
type Status string

// Check outcomes. StatusUnknown covers offline, timeout, and any
// malformed response: the clock is unverifiable, not wrong.
const (
	StatusOK      Status = "ok"
	StatusNotOK   Status = "not_ok"
	StatusUnknown Status = "unknown"
)

// Defaults for the checker.
const (
	DefaultURL       = "https://worldtimeapi.org/api/timezone/Etc/UTC"
	defaultTimeout   = 5 * time.Second
	defaultTolerance = 60 * time.Second
)

// Result is the outcome of one check.
type Result struct {
	Status      Status    `json:"status"`
	LocalTime   time.Time `json:"local_time"`
	ServerTime  time.Time `json:"server_time,omitempty"`
	DiffSeconds int       `json:"diff_seconds,omitempty"`
	Error       string    `json:"error,omitempty"`
}

// Option applies a configuration option to the Checker.
type Option func(*Checker)

// WithURL points the checker at a different time service.
func WithURL(url string) Option {
	return func(c *Checker) {
		if url != "" {
			c.url = url
		}
	}
}

// WithTimeout bounds the whole check.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Checker) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithTolerance sets the acceptable absolute skew.
func WithTolerance(tolerance time.Duration) Option {
	return func(c *Checker) {
		if tolerance > 0 {
			c.tolerance = tolerance
		}
	}
}

// WithNow injects the local clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(c *Checker) {
		if now != nil {
			c.now = now
		}
	}
}

// Checker queries a worldtimeapi-style service.
type Checker struct {
	url       string
	timeout   time.Duration
	tolerance time.Duration
	client    *http.Client
	now       func() time.Time
}

// New creates a Checker with defaults.
func New(opts ...Option) *Checker {
	c := &Checker{
		url:       DefaultURL,
		timeout:   defaultTimeout,
		tolerance: defaultTolerance,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.client = &http.Client{Timeout: c.timeout}
	return c
}

// timeResponse is the subset of the service payload we read.
type timeResponse struct {
	DateTime string `json:"datetime"`
}

// Check compares the service clock to the local clock. It never returns
// an error: failure is a Result with StatusUnknown.
func (c *Checker) Check(ctx context.Context) Result {
	local := c.now()
	res := Result{Status: StatusUnknown, LocalTime: local}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	resp, err := c.client.Do(req)
	if err != nil {
		res.Error = "can't verify (offline)"
		return res
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		res.Error = fmt.Sprintf("time service returned %d", resp.StatusCode)
		return res
	}
	var payload timeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		res.Error = "malformed time service response"
		return res
	}
	server, err := time.Parse(time.RFC3339, payload.DateTime)
	if err != nil {
		res.Error = "malformed time service timestamp"
		return res
	}

	diff := server.Sub(local)
	if diff < 0 {
		diff = -diff
	}
	res.ServerTime = server
	res.DiffSeconds = int((diff + time.Second/2) / time.Second)
	if diff < c.tolerance {
		res.Status = StatusOK
	} else {
		res.Status = StatusNotOK
	}
	return res
}
