package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Jake-Oz/travel-ai/internal/domain"
	"github.com/Jake-Oz/travel-ai/internal/infrastructure/timeutil"
)

const (
	tokenPath = "/v1/security/oauth2/token"

	// tokenRefreshWindow is how long before expiry a cached token is
	// considered stale and refreshed proactively.
	tokenRefreshWindow = 60 * time.Second
)

// Credentials are the OAuth2 client-credentials pair for the provider.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// Empty reports whether no credentials were supplied.
func (c Credentials) Empty() bool {
	return c.ClientID == "" || c.ClientSecret == ""
}

// tokenSource caches a bearer token shared across all requests in the
// process. Access is mutex-guarded; concurrent refreshes are harmless since
// the token exchange is idempotent, but the cache write must be atomic.
type tokenSource struct {
	creds    Credentials
	tokenURL string
	http     *http.Client
	clock    timeutil.Clock

	mu     sync.Mutex
	token  string
	expiry time.Time
}

func newTokenSource(creds Credentials, baseURL string, httpClient *http.Client, clock timeutil.Clock) *tokenSource {
	return &tokenSource{
		creds:    creds,
		tokenURL: strings.TrimSuffix(baseURL, "/") + tokenPath,
		http:     httpClient,
		clock:    clock,
	}
}

// Token returns a cached valid token or performs a client-credentials
// exchange. Fails with a ConfigurationError if credentials are absent.
func (s *tokenSource) Token(ctx context.Context) (string, error) {
	if s.creds.Empty() {
		return "", domain.NewConfigurationError("provider credentials are not set")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && s.clock.Now().Add(tokenRefreshWindow).Before(s.expiry) {
		return s.token, nil
	}

	token, expiresIn, err := s.exchange(ctx)
	if err != nil {
		return "", err
	}

	s.token = token
	s.expiry = s.clock.Now().Add(time.Duration(expiresIn) * time.Second)
	return s.token, nil
}

// Invalidate drops the cached token so the next call re-authenticates.
// Called once on a 401 response.
func (s *tokenSource) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.expiry = time.Time{}
}

// exchange performs the OAuth2 client-credentials grant.
func (s *tokenSource) exchange(ctx context.Context) (string, int, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", s.creds.ClientID)
	form.Set("client_secret", s.creds.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.http.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("token exchange: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, fmt.Errorf("read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", 0, parseProviderError(resp.StatusCode, tokenPath, body, resp.Header)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", 0, fmt.Errorf("decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", 0, fmt.Errorf("%w: token response has no access_token", domain.ErrMalformedResponse)
	}

	return tr.AccessToken, tr.ExpiresIn, nil
}
