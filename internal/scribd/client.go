package scribd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/proxy"
	"golang.org/x/time/rate"

	"github.com/C0oki3s/scribdt/internal/model"
)

// Default client settings.
const (
	// DefaultTimeout bounds one request including the body read.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent is sent when no other User-Agent is configured.
	DefaultUserAgent = "ScribdT Tool"

	// DefaultMaxBodySize caps how much of a response is read.
	DefaultMaxBodySize = 32 * 1024 * 1024
)

// Client performs requests against the site.
// It holds a single http.Client so connections are pooled across workers.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger

	userAgent    string
	maxBodySize  int64
	timeout      time.Duration
	proxyAddress string
	cookies      []*http.Cookie
	rateLimit    float64
	transport    http.RoundTripper
}

// Option configures a Client.
type Option func(*Client)

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithMaxBodySize sets the maximum response body size.
func WithMaxBodySize(size int64) Option {
	return func(c *Client) {
		if size > 0 {
			c.maxBodySize = size
		}
	}
}

// WithProxy routes all requests through a SOCKS5 proxy at "host:port".
func WithProxy(address string) Option {
	return func(c *Client) {
		c.proxyAddress = address
	}
}

// WithCookies attaches session cookies to every request, on every host.
// Download URLs live on a different host than the search API and still
// need the session.
func WithCookies(cookies []*http.Cookie) Option {
	return func(c *Client) {
		c.cookies = cookies
	}
}

// WithRate caps outgoing requests at perSecond across all workers.
// Zero or negative disables the cap.
func WithRate(perSecond float64) Option {
	return func(c *Client) {
		c.rateLimit = perSecond
	}
}

// WithLogger sets the logger used for dropped-record warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTransport replaces the base round tripper. It is mainly useful in tests.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.transport = rt
	}
}

// NewClient creates a Client rooted at baseURL.
// It validates the proxy address format but does not connect to anything.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	c := &Client{
		baseURL:     u,
		logger:      slog.Default(),
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
		timeout:     DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	base := c.transport
	if base == nil {
		t, err := c.newTransport()
		if err != nil {
			return nil, err
		}
		base = t
	}

	jar, _ := cookiejar.New(nil) //nolint:errcheck // cookiejar.New only fails with invalid options

	c.httpClient = &http.Client{
		Transport: &headerInjectingTransport{
			base:   base,
			cookie: cookieHeader(c.cookies),
			headers: map[string]string{
				"User-Agent": c.userAgent,
			},
		},
		Timeout: c.timeout,
		Jar:     jar,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}

	if c.rateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(c.rateLimit), 1)
	}

	return c, nil
}

// newTransport builds the base transport, dialing through the SOCKS5 proxy
// when one is configured.
func (c *Client) newTransport() (*http.Transport, error) {
	t := http.DefaultTransport.(*http.Transport).Clone() //nolint:forcetypeassert // stdlib guarantees the type
	t.MaxIdleConnsPerHost = 16

	if c.proxyAddress == "" {
		return t, nil
	}
	if !isValidProxyAddress(c.proxyAddress) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidProxyAddress, c.proxyAddress)
	}

	dialer, err := proxy.SOCKS5("tcp", c.proxyAddress, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}

	t.Proxy = nil
	if cd, ok := dialer.(proxy.ContextDialer); ok {
		t.DialContext = cd.DialContext
	} else {
		t.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
			return dialer.Dial(network, addr)
		}
	}
	return t, nil
}

// isValidProxyAddress checks if the address is in valid "host:port" format.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	return err == nil && n >= 1 && n <= 65535
}

// cookieHeader renders cookies as a single Cookie header value.
func cookieHeader(cookies []*http.Cookie) string {
	parts := make([]string, 0, len(cookies))
	for _, ck := range cookies {
		parts = append(parts, ck.Name+"="+ck.Value)
	}
	return strings.Join(parts, "; ")
}

// headerInjectingTransport wraps an http.RoundTripper to inject
// fixed headers and cookies into every request, redirects included.
type headerInjectingTransport struct {
	base    http.RoundTripper
	cookie  string
	headers map[string]string
}

// RoundTrip implements http.RoundTripper.
func (t *headerInjectingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())

	if t.cookie != "" {
		if existing := clone.Header.Get("Cookie"); existing != "" {
			clone.Header.Set("Cookie", existing+"; "+t.cookie)
		} else {
			clone.Header.Set("Cookie", t.cookie)
		}
	}

	for key, value := range t.headers {
		if clone.Header.Get(key) == "" {
			clone.Header.Set(key, value)
		}
	}

	return t.base.RoundTrip(clone)
}

// response is a fully read HTTP response.
type response struct {
	url  string
	code int
	body []byte
}

func (r *response) ok() bool {
	return r.code >= 200 && r.code < 300
}

func (r *response) statusError() *StatusError {
	return &StatusError{URL: r.url, Code: r.code, Body: snippet(r.body)}
}

// get performs one GET request and reads the whole body.
// Non-2xx statuses are not errors here; callers classify them.
func (c *Client) get(ctx context.Context, rawURL, accept string) (*response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > c.maxBodySize {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, c.maxBodySize)
	}

	return &response{url: rawURL, code: resp.StatusCode, body: body}, nil
}

// endpoint resolves path segments against the base URL.
func (c *Client) endpoint(segments ...string) *url.URL {
	return c.baseURL.JoinPath(segments...)
}

// failure classifies a request error: anything that happened after ctx ended
// is a cancellation, everything else a failure.
func failure[T any](ctx context.Context, err error) model.Outcome[T] {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return model.Canceled[T](err)
	}
	return model.Failed[T](err)
}
