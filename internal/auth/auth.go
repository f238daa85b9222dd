package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/oauth2"

	"github.com/tickops/ticktick-mcp/internal/config"
	"github.com/tickops/ticktick-mcp/internal/logging"
)

// ErrNotConfigured is returned when an operation needs client credentials
// that were never provided.
var ErrNotConfigured = errors.New("missing TickTick client ID or client secret; run 'ticktick-mcp auth login' or set TICKTICK_CLIENT_ID and TICKTICK_CLIENT_SECRET")

// Authenticator owns the OAuth state for one logical session: credentials,
// provider endpoints, the in-memory access token, and the optional local
// callback listener. It is constructed once and passed explicitly to
// everything that needs it; there are no package-level singletons.
type Authenticator struct {
	creds     config.Credentials
	endpoints Endpoints
	tokenPath string
	logger    *slog.Logger

	// token is written by the callback listener goroutine and read by every
	// API call, so it is published through an atomic pointer.
	token atomic.Pointer[oauth2.Token]

	mu           sync.Mutex
	pendingState string
	listener     *http.Server
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithEndpoints overrides the provider endpoints (used in tests to point the
// exchange at a local server).
func WithEndpoints(e Endpoints) Option {
	return func(a *Authenticator) { a.endpoints = e }
}

// WithTokenPath overrides the token file location.
func WithTokenPath(path string) Option {
	return func(a *Authenticator) { a.tokenPath = path }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Authenticator) { a.logger = logger }
}

// New creates an Authenticator from the given credentials and loads any
// previously persisted token, so a process whose user logged in earlier
// starts out authenticated.
func New(creds config.Credentials, opts ...Option) *Authenticator {
	a := &Authenticator{
		creds:     creds,
		endpoints: EndpointsFor(creds.AccountType),
		tokenPath: TokenFile(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}

	tok, err := loadTokenFile(a.tokenPath)
	if err != nil {
		a.logger.Warn("failed to load persisted token", logging.Err(err))
	} else if tok != nil {
		a.token.Store(tok)
	}

	return a
}

// Endpoints returns the provider endpoints in use.
func (a *Authenticator) Endpoints() Endpoints {
	return a.endpoints
}

// IsConfigured reports whether client ID and client secret are both present.
func (a *Authenticator) IsConfigured() bool {
	return a.creds.IsConfigured()
}

// IsAuthenticated reports whether an access token is currently held in
// memory.
func (a *Authenticator) IsAuthenticated() bool {
	return a.AccessToken() != ""
}

// AccessToken returns the current access token, or "" when unauthenticated.
func (a *Authenticator) AccessToken() string {
	if tok := a.token.Load(); tok != nil {
		return tok.AccessToken
	}
	return ""
}

// oauthConfig builds the oauth2 configuration for this session. TickTick
// wants the client credentials as HTTP Basic auth on the token request, which
// is oauth2.AuthStyleInHeader.
func (a *Authenticator) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     a.creds.ClientID,
		ClientSecret: a.creds.ClientSecret,
		RedirectURL:  a.creds.EffectiveRedirectURI(),
		Scopes:       Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   a.endpoints.AuthURL,
			TokenURL:  a.endpoints.TokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
}

// newState generates a random state nonce for CSRF correlation.
func newState() (string, error) {
	buf := make([]byte, 10)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// AuthURL builds the authorization URL the user must open in a browser.
// The generated state nonce is remembered and verified against the callback.
func (a *Authenticator) AuthURL() (string, error) {
	if !a.IsConfigured() {
		return "", ErrNotConfigured
	}

	state, err := newState()
	if err != nil {
		return "", err
	}

	a.mu.Lock()
	a.pendingState = state
	a.mu.Unlock()

	return a.oauthConfig().AuthCodeURL(state), nil
}

// ExchangeCode trades an authorization code for an access token. On success
// the token is stored in memory and persisted to the token file, and true is
// returned. On any failure (unconfigured, network error, non-2xx status,
// malformed response) it returns false and leaves all prior state untouched.
func (a *Authenticator) ExchangeCode(ctx context.Context, code string) bool {
	if !a.IsConfigured() {
		return false
	}

	// TickTick expects the scope repeated in the token request body.
	tok, err := a.oauthConfig().Exchange(ctx, code,
		oauth2.SetAuthURLParam("scope", strings.Join(Scopes, " ")))
	if err != nil {
		a.logger.Error("token exchange failed", logging.Err(err))
		return false
	}
	if tok.AccessToken == "" {
		a.logger.Error("token exchange returned no access token")
		return false
	}

	a.token.Store(tok)

	if err := saveTokenFile(a.tokenPath, tok); err != nil {
		// The session is still authenticated in memory; only persistence
		// across restarts is lost.
		a.logger.Error("failed to persist token", logging.Err(err))
	} else {
		a.logger.Info("token saved", "path", a.tokenPath,
			"token", logging.SanitizeToken(tok.AccessToken))
	}

	return true
}

// Invalidate drops the in-memory token after the API rejected it with a 401,
// so subsequent calls short-circuit with a "not authenticated" failure
// instead of hitting the remote API again. The persisted token file is kept;
// only an explicit logout removes it.
func (a *Authenticator) Invalidate() {
	a.token.Store(nil)
}

// Logout drops the in-memory token and deletes the persisted token file.
func (a *Authenticator) Logout() error {
	a.token.Store(nil)
	return removeTokenFile(a.tokenPath)
}
