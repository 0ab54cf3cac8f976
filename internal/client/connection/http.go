// Package connection provides the network client for famcheck.
package connection

import (
	"context"
	"crypto/rand"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/famcheck-go/internal/client/request"
	"github.com/yndnr/famcheck-go/internal/core/domain"
	"github.com/yndnr/famcheck-go/internal/telemetry/logger"
	"github.com/yndnr/famcheck-go/internal/telemetry/metric"
)

// Header names added at dispatch time.
const (
	HeaderRequestID = "X-Request-ID"
	HeaderUserAgent = "User-Agent"
)

// DefaultTimeout is the transport timeout when none is configured.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is sent when the descriptor does not set one.
const DefaultUserAgent = "famcheck-cli/1.0"

// DefaultMaxBodySize caps how much of a response body is read.
const DefaultMaxBodySize = 4 << 20

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// String implements fmt.Stringer for debugging.
func (r *Response) String() string {
	return fmt.Sprintf("%d (%d bytes)", r.StatusCode, len(r.Body))
}

// Doer dispatches a descriptor and returns the raw response.
//
// Implementations return a transport-level error only when no response
// was received; status classification is left to the caller.
type Doer interface {
	Do(ctx context.Context, d *request.Descriptor) (*Response, error)
}

// Client dispatches descriptors over net/http.
//
// A Client holds no mutable state after construction and is safe for
// concurrent use.
type Client struct {
	client    *http.Client
	userAgent string
	metrics   *metric.ClientMetrics
	logger    logger.Logger
	maxBody   int64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client (transport, timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithTimeout sets the transport timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithTLSConfig sets the client TLS configuration. A nil cfg keeps the
// transport defaults.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(c *Client) {
		if cfg == nil {
			return
		}
		tr := http.DefaultTransport.(*http.Transport).Clone()
		tr.TLSClientConfig = cfg
		c.client.Transport = tr
	}
}

// WithUserAgent sets the default User-Agent.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithMetrics records every dispatch in m.
func WithMetrics(m *metric.ClientMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithMaxBodySize sets the largest response body the client accepts.
func WithMaxBodySize(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBody = n
		}
	}
}

// WithLogger sets the client logger. Without it the client logs through
// the logger carried by the request context.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a new network client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		client:    &http.Client{Timeout: DefaultTimeout},
		userAgent: DefaultUserAgent,
		maxBody:   DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do dispatches d and reads the full response.
// Any failure before a response is received is ErrTransportFailure.
func (c *Client) Do(ctx context.Context, d *request.Descriptor) (*Response, error) {
	reqID := newRequestID()
	ctx = logger.WithRequestID(ctx, reqID)
	if c.logger != nil {
		ctx = logger.WithLogger(ctx, c.logger)
	}
	log := logger.L(ctx).With("method", d.Method(), "path", d.Path())

	req, err := d.HTTPRequest(ctx)
	if err != nil {
		return nil, domain.ErrTransportFailure.WithDetails("create request").WithCause(err)
	}
	req.Header.Set(HeaderRequestID, reqID)
	if _, ok := d.Header(HeaderUserAgent); !ok && c.userAgent != "" {
		req.Header.Set(HeaderUserAgent, c.userAgent)
	}

	done := c.metrics.Start(d.Method(), d.Path())
	start := time.Now()

	httpResp, err := c.client.Do(req)
	if err != nil {
		done(string(domain.KindTransportFailure))
		log.Warn("request failed", "error", err, "elapsed", time.Since(start))
		return nil, domain.ErrTransportFailure.WithCause(err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, c.maxBody+1))
	if err != nil {
		done(string(domain.KindTransportFailure))
		log.Warn("read response body failed", "status", httpResp.StatusCode, "error", err)
		return nil, domain.ErrTransportFailure.WithDetails("read body").WithCause(err)
	}
	oversized := int64(len(body)) > c.maxBody
	if oversized {
		body = body[:c.maxBody]
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       body,
	}

	verr := Validate(resp)
	// An error status is reported as such; only a payload meant for
	// decoding fails on size.
	if oversized && verr == nil {
		done(string(domain.KindDecodeFailure))
		log.Warn("response body too large", "status", resp.StatusCode, "limit_bytes", c.maxBody)
		return nil, domain.ErrDecodeFailure.
			WithStatus(resp.StatusCode).
			WithDetails(fmt.Sprintf("response body exceeds the %d byte limit", c.maxBody))
	}

	outcome := metric.OutcomeOK
	if verr != nil {
		outcome = string(domain.KindOf(verr))
	}
	done(outcome)

	log.Debug("request completed",
		"status", resp.StatusCode,
		"bytes", len(body),
		"elapsed", time.Since(start))

	return resp, nil
}

// newRequestID returns a lexically sortable request ID.
func newRequestID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// IsCanceled reports whether err is a transport failure caused by
// context cancellation or deadline.
func IsCanceled(err error) bool {
	return errors.Is(err, domain.ErrTransportFailure) &&
		(errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded))
}

var _ Doer = (*Client)(nil)
