package clientdist

import _ "embed"

// SortableJS is the browser half of a drag session. It forwards pointer and
// drag events over WebSocket and applies the order frames it receives.
//
// It is served by the server at "/static/sortable.js".
//
//go:embed sortable.js
var SortableJS []byte
