// Package app wires the sales dashboard together: configuration,
// structured logging, OpenTelemetry providers, the dataset store, the
// websocket hub, the domain services and the chi router, plus graceful
// startup and shutdown of the HTTP server.
//
// The composition order matters: configuration and logging come first so
// every later failure is reported consistently, the dataset loads before
// the router so the first request sees a ready store, and the initial
// dataset load is deliberately non-fatal so a bad file leaves the API up
// in a degraded state that the health endpoint reports.
package app
