package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vango-dev/sortable/internal/errors"
	"github.com/vango-dev/sortable/pkg/middleware"
	"github.com/vango-dev/sortable/pkg/store"
)

// maxReorderBody bounds a reorder request body.
const maxReorderBody = 1 << 20

type envelopeError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type envelope struct {
	Result any            `json:"result,omitempty"`
	Error  *envelopeError `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeResult(w http.ResponseWriter, result any) {
	writeJSON(w, http.StatusOK, envelope{Result: result})
}

// writeError answers with the error envelope. Errors that carry no code
// are reported as E124 without their text.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var se *errors.SortableError
	if !stderrors.As(err, &se) {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
		se = errors.New("E124")
	}
	msg := se.Message
	if se.Detail != "" {
		msg += ": " + se.Detail
	}
	writeJSON(w, errors.HTTPStatus(se), envelope{Error: &envelopeError{Code: se.Code, Message: msg}})
}

// storeError maps store sentinels onto API errors.
func storeError(err error, typ string) error {
	switch {
	case stderrors.Is(err, store.ErrUnknownType):
		return errors.New("E121").WithDetailf("%q", typ)
	case stderrors.Is(err, store.ErrUnknownID):
		return errors.New("E122").Wrap(err).WithDetail(err.Error())
	}
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeResult(w, "OK")
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, r, errors.New("E123").WithDetail(r.URL.Path))
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	typ := chi.URLParam(r, "type")
	entries, err := s.store.List(r.Context(), typ)
	if err != nil {
		s.writeError(w, r, storeError(err, typ))
		return
	}
	writeResult(w, entries)
}

// handleReorder applies a {"<id>": order} body. Ids must be integers and
// orders non-negative integers.
func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	typ := chi.URLParam(r, "type")

	orders, err := decodeOrders(io.LimitReader(r.Body, maxReorderBody))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Reorder(r.Context(), typ, orders); err != nil {
		s.writeError(w, r, storeError(err, typ))
		return
	}

	middleware.RecordReorder(typ)
	s.logger.Info("reordered", "type", typ, "items", len(orders))
	writeResult(w, "OK")
}

func decodeOrders(body io.Reader) (map[int]int, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return nil, errors.New("E120").WithDetail("body must be a JSON object").Wrap(err)
	}
	if len(raw) == 0 {
		return nil, errors.New("E120").WithDetail("no orders")
	}

	orders := make(map[int]int, len(raw))
	for key, value := range raw {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, errors.New("E120").WithDetailf("id %q is not an integer", key)
		}
		var order int
		if err := json.Unmarshal(value, &order); err != nil {
			return nil, errors.New("E120").WithDetailf("order of %d is not an integer", id)
		}
		if order < 0 {
			return nil, errors.New("E120").WithDetailf("order of %d is negative", id)
		}
		orders[id] = order
	}
	return orders, nil
}
