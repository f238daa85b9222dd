// Package ticktick is the gateway to the TickTick Open API.
//
// Every call goes through a single request path that produces a uniform
// outcome: decoded JSON on success, or a map carrying an "error" key on any
// kind of failure (unauthenticated, transport error, non-2xx status,
// malformed body). Callers never receive a Go error from gateway methods;
// they branch on ticktick.IsErr instead, which keeps tool handlers and CLI
// commands on one code path.
//
// A 401 from the API invalidates the in-memory token so subsequent calls
// short-circuit locally until the user re-authenticates.
package ticktick
