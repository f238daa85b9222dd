// Package auth drives the OAuth 2.0 authorization-code flow against the
// TickTick provider and manages the resulting bearer token.
//
// The flow has three steps: build an authorization URL for the user's
// browser, receive the redirect on a localhost callback listener, and
// exchange the authorization code for an access token. The token is held in
// memory behind an atomic pointer (the callback listener writes it from its
// own goroutine) and persisted to ~/.ticktick/token.json so later processes
// start out authenticated.
//
// The callback listener is best-effort: if its port is taken the flow
// degrades to manual code entry instead of failing. There is no
// refresh-token handling; an expired token surfaces as a 401 from the API.
package auth
