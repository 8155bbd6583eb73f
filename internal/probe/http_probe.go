package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/grillz/web/internal/domain"
)

// HTTPProbe issues GET {base}/health against the backend under test.
// The base URL is injected rather than read from the environment so tests
// can point it at an httptest server, or leave it empty.
type HTTPProbe struct {
	baseURL    string
	httpClient *http.Client
	limiter    Waiter
	hooks      Hooks
	maxBody    int64
}

// DefaultMaxBodyBytes caps how much of a health response is buffered.
const DefaultMaxBodyBytes = 4 << 20

type Option func(*HTTPProbe)

// WithLimiter makes every check wait for a token before dialling.
func WithLimiter(w Waiter) Option {
	return func(p *HTTPProbe) { p.limiter = w }
}

func WithHooks(h Hooks) Option {
	return func(p *HTTPProbe) { p.hooks = h }
}

// WithMaxBodyBytes overrides DefaultMaxBodyBytes.
func WithMaxBodyBytes(n int64) Option {
	return func(p *HTTPProbe) { p.maxBody = n }
}

// WithHTTPClient replaces the default client. Mostly useful in tests.
func WithHTTPClient(c *http.Client) Option {
	return func(p *HTTPProbe) { p.httpClient = c }
}

// NewHTTPProbe builds a probe for baseURL. A zero timeout disables the
// client-side deadline; the request context still applies.
func NewHTTPProbe(baseURL string, timeout time.Duration, opts ...Option) *HTTPProbe {
	p := &HTTPProbe{
		baseURL: baseURL,
		maxBody: DefaultMaxBodyBytes,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Check performs exactly one outbound request, or none when the base URL
// is missing.
func (p *HTTPProbe) Check(ctx context.Context) domain.Outcome {
	p.hooks.start()
	start := time.Now()
	out := p.check(ctx)
	p.hooks.settled(out, time.Since(start))
	return out
}

func (p *HTTPProbe) check(ctx context.Context) domain.Outcome {
	if p.baseURL == "" {
		return domain.Failure(domain.NewConfigError())
	}

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return domain.Failure(domain.NewTransportError(err))
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+HealthPath, nil)
	if err != nil {
		return domain.Failure(domain.NewTransportError(err))
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return domain.Failure(domain.NewTransportError(err))
	}
	defer resp.Body.Close()

	if !statusOK(resp.StatusCode) {
		return domain.Failure(domain.NewRequestError(resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, p.maxBody+1))
	if err != nil {
		return domain.Failure(domain.NewTransportError(fmt.Errorf("read response: %w", err)))
	}
	if int64(len(body)) > p.maxBody {
		return domain.Failure(domain.NewParseError(fmt.Errorf("response body exceeds %d bytes", p.maxBody)))
	}

	pretty, err := PrettyJSON(body)
	if err != nil {
		return domain.Failure(domain.NewParseError(err))
	}
	return domain.Success(pretty)
}

// statusOK matches the fetch API's Response.ok: any 2xx status.
func statusOK(code int) bool {
	return code >= 200 && code <= 299
}

// compile-time check that HTTPProbe implements Probe
var _ Probe = (*HTTPProbe)(nil)
