// Package config loads sortable.json (or sortable.toml).
//
// A minimal configuration file only needs what differs from the defaults:
//
//	{
//	  "server": {"port": 9000},
//	  "store": {"driver": "sqlite", "path": "orders.db"},
//	  "seed": {"drinks": [{"id": 1, "name": "Negroni"}]}
//	}
//
// Sections:
//   - server: listen host and port
//   - store: order store driver (memory, sqlite, redis, s3) and its settings
//   - persist: where sorted orders are POSTed
//   - refresh: auto-refresh delay for drag sessions
//   - metrics: Prometheus exposition
//   - sortable: item, handle and name selectors
//   - seed: entries created for empty sortable types at startup
package config
