package server

import (
	"net/http"
	"strconv"

	"golang.org/x/net/html"

	"github.com/go-chi/chi/v5"

	"github.com/vango-dev/sortable/pkg/dom"
	"github.com/vango-dev/sortable/pkg/store"
)

// RootSelector finds the sortable container of an admin page.
const RootSelector = `[data-sortable="true"]`

const pageStyle = `body{font-family:system-ui,sans-serif;margin:2rem}
table{border-collapse:collapse;min-width:24rem}
td{padding:.5rem .75rem;border-bottom:1px solid #ddd}
.drag-handle{cursor:grab;color:#888;width:1rem}
#sortable-countdown{color:#888;font-size:.875rem}`

// buildDocument lays out the admin page of typ. The page and every drag
// session of it are built by this function, so hydration ids agree as
// long as the entries do.
func (s *Server) buildDocument(typ string, entries []store.Entry) *dom.Document {
	idAttr := s.config.Sortable.IDAttr

	// The client mirrors the handle veto on dragstart, so it needs the selector.
	var handleAttr any
	if h := s.config.Sortable.Handle; h != "" {
		handleAttr = dom.Data("sortable-handle", h)
	}

	rows := make([]*html.Node, len(entries))
	for i, e := range entries {
		rows[i] = dom.El("tr",
			dom.Attr(idAttr, strconv.Itoa(e.ID)),
			dom.El("td", dom.Class("drag-handle"), dom.Text("☰")),
			dom.El("td", dom.Text(e.Name)),
		)
	}

	page := dom.El("html",
		dom.El("head",
			dom.El("meta", dom.Attr("charset", "utf-8")),
			dom.El("title", dom.Text("Sort "+typ)),
			dom.El("style", dom.Text(pageStyle)),
		),
		dom.El("body",
			dom.El("h1", dom.Text(typ)),
			dom.El("table",
				dom.El("tbody",
					dom.Data("sortable", "true"),
					dom.Data("sortable-type", typ),
					handleAttr,
					rows,
				),
			),
			dom.El("p", dom.ID("sortable-countdown")),
			dom.El("script", dom.Attr("src", "/static/sortable.js"), dom.Attr("defer", "")),
		),
	)

	doc := dom.NewDocument(page)
	doc.AssignHIDs()
	return doc
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	typ := chi.URLParam(r, "type")
	entries, err := s.store.List(r.Context(), typ)
	if err != nil {
		s.writeError(w, r, storeError(err, typ))
		return
	}

	doc := s.buildDocument(typ, entries)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte("<!DOCTYPE html>\n"))
	if err := doc.Render(w); err != nil {
		s.logger.Error("render failed", "type", typ, "error", err)
	}
}
