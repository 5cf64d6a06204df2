package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/giteekit/internal/common"
	"github.com/dmitrijs2005/giteekit/internal/logging"
	"github.com/dmitrijs2005/giteekit/internal/netx"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://gitee.com/api/v5"
	DefaultTimeout = 30 * time.Second
)

// TokenSource supplies the token of the current account.
type TokenSource interface {
	CurrentToken(ctx context.Context) (string, bool)
}

// Config holds the settings for New. Zero values select the defaults.
type Config struct {
	// BaseURL is the API root. Defaults to DefaultBaseURL.
	BaseURL string

	// Timeout bounds each request. Defaults to DefaultTimeout.
	Timeout time.Duration

	// HTTPClient performs the requests. Defaults to a client with no
	// timeout of its own; Timeout is applied per request through the
	// context.
	HTTPClient *http.Client

	// OverrideToken, when set, is used for every request instead of the
	// current account's token.
	OverrideToken string

	// Tokens resolves the current account's token.
	Tokens TokenSource

	Logger logging.Logger

	// RateLimit caps outgoing requests per second. Zero disables it.
	RateLimit float64
	Burst     int

	UserAgent string

	// MaxBodyBytes caps buffered response bodies. Defaults to
	// netx.DefaultBodyLimit.
	MaxBodyBytes int64
}

// Request describes one API call. Path is relative to the base URL.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Body is JSON-encoded when non-nil.
	Body   any
	Header http.Header
}

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

type Client struct {
	baseURL   string
	timeout   time.Duration
	http      *http.Client
	tokens    TokenSource
	log       logging.Logger
	limiter   *rate.Limiter
	userAgent string
	maxBody   int64

	mu            sync.RWMutex
	overrideToken string
}

func New(cfg Config) (*Client, error) {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	base = strings.TrimRight(base, "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("gitee: invalid base URL %q", cfg.BaseURL)
	}

	c := &Client{
		baseURL:       base,
		timeout:       cfg.Timeout,
		http:          cfg.HTTPClient,
		tokens:        cfg.Tokens,
		log:           cfg.Logger,
		userAgent:     cfg.UserAgent,
		maxBody:       cfg.MaxBodyBytes,
		overrideToken: cfg.OverrideToken,
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.log == nil {
		c.log = logging.Nop()
	}
	c.log = c.log.With("component", "api")
	if c.userAgent == "" {
		c.userAgent = "giteekit"
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return c, nil
}

// SetOverrideToken replaces the client-wide override token. An empty value
// clears it.
func (c *Client) SetOverrideToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.overrideToken = token
}

// ResolveToken returns the token a request without an explicit
// Authorization header would carry.
func (c *Client) ResolveToken(ctx context.Context) (string, bool) {
	c.mu.RLock()
	override := c.overrideToken
	c.mu.RUnlock()

	if override != "" {
		return override, true
	}
	if c.tokens == nil {
		return "", false
	}
	tok, ok := c.tokens.CurrentToken(ctx)
	if !ok || tok == "" {
		return "", false
	}
	return tok, true
}

// AuthHeader formats token as an Authorization header value.
func AuthHeader(token string) string {
	return common.TokenScheme + " " + token
}

// Do sends r and returns the buffered response. Non-2xx statuses return an
// *APIError; transport failures wrap ErrUnavailable.
func (c *Client) Do(ctx context.Context, r Request) (*Response, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("gitee: rate limit wait: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.baseURL + r.Path
	if len(r.Query) > 0 {
		target += "?" + r.Query.Encode()
	}

	var body io.Reader
	if r.Body != nil {
		b, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("gitee: encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("gitee: build request: %w", err)
	}
	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json;charset=UTF-8")
	}
	requestID := req.Header.Get(common.RequestIDHeaderName)
	if requestID == "" {
		requestID = uuid.NewString()
		req.Header.Set(common.RequestIDHeaderName, requestID)
	}
	if req.Header.Get(common.AuthorizationHeaderName) == "" {
		if tok, ok := c.ResolveToken(ctx); ok {
			req.Header.Set(common.AuthorizationHeaderName, AuthHeader(tok))
		}
	}

	log := c.log.With("request_id", requestID, "method", method, "path", r.Path)
	log.Debug(ctx, "request",
		"query", netx.RedactQuery(req.URL.RawQuery),
		"headers", netx.RedactedHeaders(req.Header))

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn(ctx, "request failed", "err", err)
		return nil, fmt.Errorf("gitee: %s %s: %w: %w", method, r.Path, ErrUnavailable, err)
	}

	b, err := netx.ReadBody(resp, c.maxBody)
	if err != nil {
		return nil, fmt.Errorf("gitee: %s %s: %w: %w", method, r.Path, ErrUnavailable, err)
	}
	log.Debug(ctx, "response", "status", resp.StatusCode, "bytes", len(b), "elapsed", time.Since(start))

	if !netx.IsSuccess(resp.StatusCode) {
		apiErr := newAPIError(resp.StatusCode, b, requestID)
		log.Debug(ctx, "api error", "status", resp.StatusCode, "message", apiErr.Message)
		return nil, apiErr
	}

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: b}, nil
}

// getJSON performs r and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, r Request, out any) error {
	resp, err := c.Do(ctx, r)
	if err != nil {
		return err
	}
	if out == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return &DecodeError{Path: r.Path, Err: err}
	}
	return nil
}

// pathf builds an API path, escaping each argument as one path segment.
func pathf(format string, args ...string) string {
	escaped := make([]any, len(args))
	for i, a := range args {
		escaped[i] = url.PathEscape(a)
	}
	return fmt.Sprintf(format, escaped...)
}
