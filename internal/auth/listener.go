package auth

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/tickops/ticktick-mcp/internal/logging"
)

const successPage = `<!DOCTYPE html>
<html>
<head><title>Login Successful</title></head>
<body style="font-family: sans-serif; text-align: center; padding: 50px;">
<h1>&#10003; Authentication Successful</h1>
<p>TickTick has been connected. You can close this window and return to your terminal or AI agent.</p>
</body>
</html>`

const failurePage = `<!DOCTYPE html>
<html>
<head><title>Login Failed</title></head>
<body style="font-family: sans-serif; text-align: center; padding: 50px;">
<h1>Authentication Failed</h1>
<p>Could not exchange the authorization code for a token. Check the application logs and try again.</p>
</body>
</html>`

// StartCallbackListener starts the localhost HTTP listener that receives the
// OAuth redirect. It is idempotent: if a listener is already running this is
// a no-op. The port comes from the configured redirect URI.
//
// A bind failure (port taken by another process, bad URI) is logged and
// swallowed: authentication can still complete through manual code entry, so
// the flow degrades instead of failing.
func (a *Authenticator) StartCallbackListener() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.listener != nil {
		return
	}

	port, err := redirectPort(a.creds.EffectiveRedirectURI())
	if err != nil {
		a.logger.Warn("cannot determine callback port; falling back to manual code entry", logging.Err(err))
		return
	}

	ln, err := net.Listen("tcp", net.JoinHostPort("localhost", port))
	if err != nil {
		a.logger.Warn("failed to start callback listener; falling back to manual code entry",
			"port", port, logging.Err(err))
		return
	}

	srv := &http.Server{
		Handler:           http.HandlerFunc(a.handleCallback),
		ReadHeaderTimeout: 10 * time.Second,
	}
	a.listener = srv

	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			a.logger.Warn("callback listener stopped", logging.Err(err))
		}
	}()

	a.logger.Info("callback listener started", "port", port)
}

// ShutdownListener stops the callback listener if one is running. Safe to
// call at any time; long-running hosts (the MCP server) call it on teardown
// so the port is released without waiting for process exit.
func (a *Authenticator) ShutdownListener(ctx context.Context) error {
	a.mu.Lock()
	srv := a.listener
	a.listener = nil
	a.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// IsListening reports whether the callback listener is currently running.
func (a *Authenticator) IsListening() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.listener != nil
}

// handleCallback serves the browser redirect. A GET carrying a code query
// parameter triggers the exchange synchronously and answers with a
// human-readable status page; everything else is a 404 (favicon requests and
// the like). The HTTP response is best-effort UX only; the authoritative
// completion signal is IsAuthenticated.
func (a *Authenticator) handleCallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.NotFound(w, r)
		return
	}

	// Reject callbacks whose state does not match the one we issued. This
	// closes the CSRF gap between AuthURL and the redirect.
	a.mu.Lock()
	pending := a.pendingState
	a.mu.Unlock()
	if state := r.URL.Query().Get("state"); pending != "" && state != pending {
		a.logger.Warn("callback state mismatch; rejecting")
		http.Error(w, "state mismatch", http.StatusForbidden)
		return
	}

	ok := a.ExchangeCode(r.Context(), code)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if ok {
		_, _ = w.Write([]byte(successPage))
	} else {
		_, _ = w.Write([]byte(failurePage))
	}
}

// redirectPort extracts the listen port from the redirect URI.
func redirectPort(redirectURI string) (string, error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return "", err
	}
	if port := u.Port(); port != "" {
		return port, nil
	}
	return "80", nil
}
