// Package amadeus implements the booking provider transport: authentication
// token caching, rate-limit/backoff handling and error classification for an
// Amadeus-style flight/hotel API.
package amadeus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/Jake-Oz/travel-ai/internal/domain"
	"github.com/Jake-Oz/travel-ai/internal/infrastructure/logger"
	"github.com/Jake-Oz/travel-ai/internal/infrastructure/timeutil"
)

// Default transport behavior; overridable through Config.
const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = 500 * time.Millisecond
	defaultMaxDelay    = 8 * time.Second
	defaultTimeout     = 30 * time.Second
)

// Config holds the transport configuration.
type Config struct {
	// BaseURL is the provider API root, e.g. https://test.api.amadeus.com
	BaseURL string

	// Credentials is the OAuth2 client-credentials pair. May be empty;
	// Configured() then reports false and callers skip provider legs.
	Credentials Credentials

	// MaxAttempts caps total attempts per request across 401 re-auth and
	// 429 backoff handling.
	MaxAttempts int

	// BaseDelay is the first 429 backoff delay when no Retry-After hint
	// is present; doubles per attempt up to MaxDelay.
	BaseDelay time.Duration
	MaxDelay  time.Duration

	// RequestsPerSecond and Burst throttle outbound calls client-side.
	RequestsPerSecond float64
	Burst             int

	// HTTPClient, Clock and Logger are injectable for tests.
	HTTPClient *http.Client
	Clock      timeutil.Clock
	Logger     *logger.Logger
}

// Client is the single point of authenticated, retried communication with
// the provider. Safe for concurrent use.
type Client struct {
	baseURL     string
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration

	http    *http.Client
	tokens  *tokenSource
	limiter *rate.Limiter
	log     *logger.Logger
}

// New creates a provider client from the given configuration.
func New(cfg Config) *Client {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = defaultBaseDelay
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = defaultMaxDelay
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 10
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 20
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: defaultTimeout}
	}
	if cfg.Clock == nil {
		cfg.Clock = timeutil.NewRealClock()
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}

	return &Client{
		baseURL:     cfg.BaseURL,
		maxAttempts: cfg.MaxAttempts,
		baseDelay:   cfg.BaseDelay,
		maxDelay:    cfg.MaxDelay,
		http:        cfg.HTTPClient,
		tokens:      newTokenSource(cfg.Credentials, cfg.BaseURL, cfg.HTTPClient, cfg.Clock),
		limiter:     rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		log:         cfg.Logger,
	}
}

// Configured reports whether provider credentials are present.
func (c *Client) Configured() bool {
	return !c.tokens.creds.Empty()
}

// request executes one authenticated provider call.
//
// Retry policy: a 401 invalidates the cached token and re-authenticates; a
// second consecutive 401 surfaces as an auth-category ProviderError. A 429 is
// retried honoring the Retry-After header when present, else with exponential
// backoff. Both paths share a cap of maxAttempts total attempts. Any other
// non-2xx is parsed into a classified ProviderError with no further retry.
func (c *Client) request(ctx context.Context, method, path string, query url.Values, body interface{}) ([]byte, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	consecutive401 := 0
	delay := c.baseDelay

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, method, reqURL, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("provider request %s %s: %w", method, path, err)
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read response body: %w", err)
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return respBody, nil

		case resp.StatusCode == http.StatusUnauthorized:
			c.tokens.Invalidate()
			consecutive401++
			if consecutive401 >= 2 || attempt == c.maxAttempts {
				return nil, parseProviderError(resp.StatusCode, path, respBody, resp.Header)
			}
			c.log.Warn().Str("path", path).Msg("Provider token rejected, re-authenticating")
			continue

		case resp.StatusCode == http.StatusTooManyRequests:
			consecutive401 = 0
			if attempt == c.maxAttempts {
				return nil, parseProviderError(resp.StatusCode, path, respBody, resp.Header)
			}
			wait := retryAfterHint(resp.Header)
			if wait <= 0 {
				wait = delay
				delay *= 2
				if delay > c.maxDelay {
					delay = c.maxDelay
				}
			}
			c.log.Warn().Str("path", path).Dur("wait", wait).Msg("Provider rate limited, backing off")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
			continue

		default:
			return nil, parseProviderError(resp.StatusCode, path, respBody, resp.Header)
		}
	}

	// Unreachable: every branch above either returns or retries.
	return nil, parseProviderError(http.StatusTooManyRequests, path, nil, nil)
}

// parseProviderError decodes a non-2xx body into a classified ProviderError.
// A body that is not the structured errors shape yields an entry-less error
// classified by status alone.
func parseProviderError(status int, path string, body []byte, header http.Header) *domain.ProviderError {
	var parsed errorResponse
	_ = json.Unmarshal(body, &parsed)

	entries := make([]domain.ProviderErrorEntry, 0, len(parsed.Errors))
	for _, e := range parsed.Errors {
		entry := domain.ProviderErrorEntry{
			Status: e.Status,
			Code:   e.Code,
			Title:  e.Title,
			Detail: e.Detail,
		}
		if e.Source != nil {
			entry.SourcePointer = e.Source.Pointer
		}
		entries = append(entries, entry)
	}

	perr := domain.NewProviderError(status, path, entries)
	if wait := retryAfterHint(header); wait > 0 {
		perr.RetryAfter = &wait
	}
	return perr
}

// retryAfterHint parses the Retry-After header as delay seconds.
func retryAfterHint(header http.Header) time.Duration {
	if header == nil {
		return 0
	}
	raw := header.Get("Retry-After")
	if raw == "" {
		return 0
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// Compile-time interface checks.
var (
	_ domain.BookingProvider = (*Client)(nil)
	_ domain.CityResolver    = (*Client)(nil)
)
