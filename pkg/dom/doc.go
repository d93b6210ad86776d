// Package dom provides a live HTML tree that satisfies sortable.Node.
//
// A Document wraps a golang.org/x/net/html tree. Nodes handed out by a
// Document compare equal exactly when they wrap the same *html.Node, so the
// sortable engine can use them as identities. CSS selectors are compiled
// with cascadia and cached per Document.
//
// # Building trees
//
// Trees can be parsed or built with variadic factory functions:
//
//	tbody := dom.El("tbody",
//	    dom.El("tr", dom.Data("id", "1"),
//	        dom.El("td", dom.Class("drag-handle"), "::"),
//	        dom.El("td", "Negroni"),
//	    ),
//	)
//
// # Hydration IDs
//
// AssignHIDs gives every element a data-hid attribute ("h1", "h2", ...).
// Clients name event targets by hid and Lookup resolves them back to nodes.
//
// # Layout
//
// Bounds come from a Layout. StackLayout stacks sibling elements in fixed
// rows; Measured stores boxes reported by a client and falls back to another
// Layout for nodes it has not seen.
package dom
