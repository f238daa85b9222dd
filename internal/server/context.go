package server

import (
	"context"
	"sync"
	"time"

	"github.com/tickops/ticktick-mcp/internal/auth"
	"github.com/tickops/ticktick-mcp/internal/config"
	"github.com/tickops/ticktick-mcp/internal/instrumentation"
	"github.com/tickops/ticktick-mcp/internal/ticktick"
)

// listenerShutdownTimeout bounds how long Shutdown waits for the OAuth
// callback listener to drain.
const listenerShutdownTimeout = 5 * time.Second

// ServerContext holds the shared dependencies for the MCP server: the
// TickTick authenticator, the API client bound to it, and the optional
// instrumentation recorders.
type ServerContext struct {
	ctx         context.Context
	cancel      context.CancelFunc
	auth        *auth.Authenticator
	client      ticktick.API
	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger
	mu          sync.RWMutex
	shutdown    bool
}

// NewServerContext creates a new server context. Credentials are loaded
// from the config file and environment; a missing configuration is not an
// error, the authentication tools report it when invoked.
func NewServerContext(ctx context.Context) (*ServerContext, error) {
	shutdownCtx, cancel := context.WithCancel(ctx)

	creds := config.Load()
	authenticator := auth.New(creds)

	return &ServerContext{
		ctx:    shutdownCtx,
		cancel: cancel,
		auth:   authenticator,
		client: ticktick.NewClient(authenticator),
	}, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Auth returns the TickTick authenticator.
func (sc *ServerContext) Auth() *auth.Authenticator {
	return sc.auth
}

// TickTick returns the TickTick API client.
func (sc *ServerContext) TickTick() ticktick.API {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.client
}

// SetTickTickClient replaces the TickTick API client. Used by tests to
// inject a fake API.
func (sc *ServerContext) SetTickTickClient(client ticktick.API) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.client = client
}

// AccountType returns the configured account type ("global" or "china").
func (sc *ServerContext) AccountType() string {
	return string(config.Load().AccountType)
}

// Metrics returns the metrics recorder, or nil when instrumentation is
// not configured.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetMetrics sets the metrics recorder.
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = m
}

// AuditLogger returns the audit logger, or nil when audit logging is
// not configured.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// SetAuditLogger sets the audit logger.
func (sc *ServerContext) SetAuditLogger(al *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = al
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context. It stops the OAuth callback
// listener if one is running and cancels the server context. Safe to
// call more than once.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	if sc.shutdown {
		sc.mu.Unlock()
		return nil
	}
	sc.shutdown = true
	sc.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), listenerShutdownTimeout)
	defer cancel()
	err := sc.auth.ShutdownListener(ctx)

	sc.cancel()
	return err
}
