package cmd

import (
	"errors"

	"github.com/tickops/ticktick-mcp/internal/auth"
	"github.com/tickops/ticktick-mcp/internal/config"
	"github.com/tickops/ticktick-mcp/internal/ticktick"
)

// newAPIClient builds a TickTick client from the stored credentials, for the
// CLI commands that talk to the API directly.
func newAPIClient() (ticktick.API, error) {
	a := auth.New(config.Load())
	if !a.IsConfigured() {
		return nil, auth.ErrNotConfigured
	}
	if !a.IsAuthenticated() {
		return nil, errors.New("not authenticated; run 'ticktick-mcp auth login' first")
	}
	return ticktick.NewClient(a), nil
}

// resultErr converts a failed API result into an error, or nil on success.
func resultErr(r ticktick.Result) error {
	if msg, failed := ticktick.IsErr(r); failed {
		return errors.New(msg)
	}
	return nil
}
