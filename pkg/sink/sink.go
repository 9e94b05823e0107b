package sink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"syscall"
	"time"
)

// maxDrainBytes caps how much of a response body is read before closing it.
const maxDrainBytes = 64 * 1024

// Field is one form field of the outbound payload.
type Field struct {
	Name  string
	Value string
}

// Fields is an ordered form payload.
type Fields []Field

// Delivery describes a completed Send.
type Delivery struct {
	// StatusCode of the response, 0 when Assumed.
	StatusCode int
	// Duration of the exchange.
	Duration time.Duration
	// Assumed is set when an unclassified error was reported as delivered
	// because of WithAssumeDeliveredOnUnknown.
	Assumed bool
	// Cause is the swallowed error when Assumed is set.
	Cause error
}

// Client posts form payloads to an external sink with a hard timeout.
// It never retries. Zero value is not usable; use New.
type Client struct {
	httpClient      HTTPClient
	timeout         time.Duration
	headers         map[string]string
	userAgent       string
	policy          Policy
	assumeDelivered bool
	onDelivery      []func(*Delivery, error)
}

// New creates a sink client.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		timeout:   DefaultTimeout,
		headers:   make(map[string]string),
		userAgent: "waitlist-sink/1.0",
		policy:    PolicyOpaque,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Timeout returns the configured request ceiling.
func (c *Client) Timeout() time.Duration { return c.timeout }

type exchange struct {
	status int
	err    error
}

// Send posts fields to endpoint as multipart/form-data.
//
// Send returns no later than the configured timeout (plus scheduling
// latency), even when the HTTP client ignores cancellation: the request runs
// in its own goroutine and Send stops waiting once the deadline passes.
func (c *Client) Send(ctx context.Context, endpoint string, fields Fields) (*Delivery, error) {
	delivery, err := c.send(ctx, endpoint, fields)
	if delivery != nil {
		for _, fn := range c.onDelivery {
			fn(delivery, err)
		}
	}
	return delivery, err
}

func (c *Client) send(ctx context.Context, endpoint string, fields Fields) (*Delivery, error) {
	if err := validateEndpoint(endpoint); err != nil {
		return nil, err
	}

	body, contentType, err := encode(fields)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrUnknown, err)
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	done := make(chan exchange, 1)
	go func() {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			done <- exchange{err: err}
			return
		}
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))
		_ = resp.Body.Close()
		done <- exchange{status: resp.StatusCode}
	}()

	var ex exchange
	select {
	case ex = <-done:
	case <-reqCtx.Done():
		ex = exchange{err: reqCtx.Err()}
	}

	delivery := &Delivery{StatusCode: ex.status, Duration: time.Since(start)}

	if ex.err != nil {
		classified := classify(reqCtx, ex.err)
		if c.assumeDelivered && errors.Is(classified, ErrUnknown) {
			delivery.Assumed = true
			delivery.Cause = classified
			return delivery, nil
		}
		return delivery, classified
	}

	if c.policy == PolicyStrict && (ex.status < 200 || ex.status >= 300) {
		return delivery, fmt.Errorf("%w: %d", ErrUnexpectedStatus, ex.status)
	}

	return delivery, nil
}

func validateEndpoint(endpoint string) error {
	if endpoint == "" {
		return fmt.Errorf("%w: URL is required", ErrInvalidURL)
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: only http and https schemes are supported", ErrInvalidURL)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: host is required", ErrInvalidURL)
	}

	return nil
}

func encode(fields Fields) ([]byte, string, error) {
	if len(fields) == 0 {
		return nil, "", fmt.Errorf("%w: no fields", ErrInvalidPayload)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range fields {
		if f.Name == "" {
			return nil, "", fmt.Errorf("%w: empty field name", ErrInvalidPayload)
		}
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, "", fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}

// classify wraps err with the matching delivery sentinel.
func classify(reqCtx context.Context, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(reqCtx.Err(), context.DeadlineExceeded), isTimeout(err):
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %w", ErrCanceled, err)
	case isNetwork(err):
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	default:
		return fmt.Errorf("%w: %w", ErrUnknown, err)
	}
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isNetwork(err error) bool {
	var (
		opErr   *net.OpError
		dnsErr  *net.DNSError
		addrErr *net.AddrError
	)
	switch {
	case errors.As(err, &opErr), errors.As(err, &dnsErr), errors.As(err, &addrErr):
		return true
	case errors.Is(err, syscall.ECONNREFUSED), errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ENETUNREACH), errors.Is(err, syscall.EHOSTUNREACH):
		return true
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		// peer closed the connection before a response arrived
		return true
	default:
		return false
	}
}
