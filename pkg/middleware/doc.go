// Package middleware provides the observability layer of the sortable server.
//
// This package includes:
//   - Prometheus HTTP middleware and domain counters
//   - OpenTelemetry HTTP tracing middleware
//
// # Prometheus Metrics
//
// The Prometheus middleware records every HTTP request by chi route pattern:
//   - sortable_http_requests_total: requests by route, method and status
//   - sortable_http_request_duration_seconds: request duration by route
//
// Domain counters are recorded by the engine's collaborators:
//   - sortable_drag_events_total: inbound drag events by kind
//   - sortable_reorders_total: reorders applied to the store by type
//   - sortable_persist_posts_total: outbound order POSTs by outcome
//   - sortable_active_sessions: open WebSocket drag sessions
//   - sortable_websocket_errors_total: WebSocket errors by type
//
//	r := chi.NewRouter()
//	r.Use(middleware.Prometheus(middleware.WithNamespace("sortable")))
//	r.Handle("/metrics", middleware.Handler())
//
// # OpenTelemetry
//
// OpenTelemetry starts a server span per request using the global tracer
// provider and stores it in the request context, so store and persistence
// calls made with r.Context() join the trace.
package middleware
