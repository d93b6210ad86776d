// Package server serves the sortable admin pages, their drag sessions and
// the reorder API.
//
// Routes:
//
//	GET  /admin/{type}               sortable table page
//	GET  /ws/{type}                  WebSocket drag session
//	GET  /api/admin/items/{type}     entries of a type, by order
//	POST /api/admin/reorder/{type}   apply {"<id>": order, ...}
//	GET  /api/health                 liveness
//	GET  /metrics                    Prometheus, when enabled
//
// API responses use one envelope: {"result": ...} on success and
// {"error": {"code": ..., "message": ...}} on failure.
package server
