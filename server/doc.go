// Package server hosts linekit pipelines over HTTP using Gin, served over
// HTTP/1.1 and cleartext HTTP/2 (h2c).
//
// # Middleware
//
// Built-in middleware (server/middleware):
//
//   - Recovery: panic recovery with structured logging
//   - RequestID: request ID generation and propagation
//   - Tracing: one http.request span per request
//   - BodySizeLimit: request body size limit
//   - RequestLogger: request logging with duration tracking
//
// # Endpoints
//
//   - GET /health: health check aggregation
//   - GET /info: build information
//   - GET /v1/commands: the command catalog
//   - GET /v1/pipelines: the defined pipelines
//   - POST /v1/pipelines/:name/run: runs a defined pipeline over the
//     text body and answers text
//   - POST /v1/run: runs {"stages": [...], "lines": [...]} and answers
//     {"lines": [...]}
package server
