// Package persist sends the order of a sorted container to the reorder API.
package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/sortable/internal/errors"
	"github.com/vango-dev/sortable/pkg/middleware"
	"github.com/vango-dev/sortable/pkg/sortable"
)

// ReorderPath is the API path prefix; the sortable type is appended.
const ReorderPath = "/api/admin/reorder/"

// DefaultTimeout bounds one background POST.
const DefaultTimeout = 10 * time.Second

// Client posts id → order maps.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *slog.Logger

	// IDAttr is the element attribute the listener keys orders by.
	IDAttr  string
	Timeout time.Duration

	tracer trace.Tracer
	// done, if set, is called after each background POST finishes.
	done func(err error)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.Logger = l }
}

// WithIDAttr sets the attribute orders are keyed by.
func WithIDAttr(attr string) Option {
	return func(c *Client) { c.IDAttr = attr }
}

// WithTimeout bounds each background POST.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.Timeout = d }
}

// WithDone registers a callback run after every background POST.
func WithDone(fn func(err error)) Option {
	return func(c *Client) { c.done = fn }
}

// New creates a Client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: http.DefaultClient,
		Logger:     slog.Default().With("component", "persist"),
		IDAttr:     sortable.DefaultIDAttr,
		Timeout:    DefaultTimeout,
		tracer:     otel.Tracer("sortable/persist"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the reorder URL for typ.
func (c *Client) Endpoint(typ string) string {
	return c.BaseURL + ReorderPath + url.PathEscape(typ)
}

// Post sends orders for typ and waits for the response. A non-2xx status
// is an error.
func (c *Client) Post(ctx context.Context, typ string, orders map[string]int) (err error) {
	ctx, span := c.tracer.Start(ctx, "persist.Post",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("sortable.type", typ),
			attribute.Int("sortable.items", len(orders)),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	body, err := json.Marshal(orders)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(typ), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Newf(errors.CategoryAPI, "persist: %s returned %s", c.Endpoint(typ), resp.Status)
	}
	return nil
}

// Listener returns a sorted listener that snapshots the container's orders
// and posts them in the background. It never fails the dispatch; outcomes
// are only logged and counted.
func (c *Client) Listener() sortable.Listener {
	return func(event string, ct *sortable.Container) error {
		typ := ct.Type()
		orders := ct.Snapshot(c.IDAttr)

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
			defer cancel()

			err := c.Post(ctx, typ, orders)
			if err != nil {
				middleware.RecordPersist(middleware.CategorizeError(err))
				c.Logger.Warn("post failed", "type", typ, "error", err)
			} else {
				middleware.RecordPersist("ok")
				c.Logger.Debug("posted", "type", typ, "items", len(orders))
			}
			if c.done != nil {
				c.done(err)
			}
		}()
		return nil
	}
}
