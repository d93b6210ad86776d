// Package errors provides structured, actionable error messages for sortable.
//
// Errors carry a stable code (e.g., "E100") that maps to a category, a short
// message, a longer explanation and an HTTP status. The API layer renders them
// into the JSON error envelope; the CLI prints them with Format.
//
// # Error Categories
//
//   - config: configuration file problems
//   - protocol: malformed WebSocket frames
//   - api: rejected reorder requests
//   - store: order store failures
//   - runtime: engine failures (invalid selectors, missing container)
//
// # Usage
//
//	err := errors.New("E120").
//	    WithDetail("id \"abc\" is not an integer").
//	    Wrap(parseErr)
//
//	fmt.Println(err.Format())
package errors
