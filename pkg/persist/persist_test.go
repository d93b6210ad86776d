package persist

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	serrors "github.com/vango-dev/sortable/internal/errors"
	"github.com/vango-dev/sortable/pkg/dom"
	"github.com/vango-dev/sortable/pkg/sortable"
)

type captured struct {
	method      string
	path        string
	contentType string
	body        map[string]int
}

func newAPI(t *testing.T, status int) (*httptest.Server, chan captured) {
	t.Helper()
	ch := make(chan captured, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := captured{method: r.Method, path: r.URL.Path, contentType: r.Header.Get("Content-Type")}
		if err := json.NewDecoder(r.Body).Decode(&c.body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		ch <- c
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, ch
}

func TestPost(t *testing.T) {
	srv, ch := newAPI(t, http.StatusOK)
	c := New(srv.URL + "/")

	if err := c.Post(context.Background(), "tasks", map[string]int{"1": 1, "2": 0}); err != nil {
		t.Fatalf("Post: %v", err)
	}
	got := <-ch
	if got.method != http.MethodPost || got.path != "/api/admin/reorder/tasks" {
		t.Errorf("request = %s %s", got.method, got.path)
	}
	if got.contentType != "application/json" {
		t.Errorf("Content-Type = %q", got.contentType)
	}
	if got.body["1"] != 1 || got.body["2"] != 0 || len(got.body) != 2 {
		t.Errorf("body = %v", got.body)
	}
}

func TestPost_Non2xx(t *testing.T) {
	srv, _ := newAPI(t, http.StatusBadRequest)
	err := New(srv.URL).Post(context.Background(), "tasks", map[string]int{"1": 0})
	if err == nil || !strings.Contains(err.Error(), "400") {
		t.Fatalf("Post = %v, want 400 error", err)
	}
	var se *serrors.SortableError
	if !errors.As(err, &se) || se.Category != serrors.CategoryAPI {
		t.Errorf("Post error = %#v, want an api SortableError", err)
	}
}

func TestEndpoint_EscapesType(t *testing.T) {
	c := New("http://x")
	if got := c.Endpoint("a b"); got != "http://x/api/admin/reorder/a%20b" {
		t.Errorf("Endpoint = %q", got)
	}
}

func TestListener_PostsSnapshot(t *testing.T) {
	srv, ch := newAPI(t, http.StatusOK)
	done := make(chan error, 1)
	client := New(srv.URL, WithDone(func(err error) { done <- err }), WithTimeout(time.Second))

	doc, err := dom.ParseString(`<table><tbody data-sortable-type="tasks">` +
		`<tr data-id="10"><td>x</td><td>A</td></tr>` +
		`<tr data-id="20"><td>x</td><td>B</td></tr>` +
		`</tbody></table>`)
	if err != nil {
		t.Fatal(err)
	}
	root, err := doc.Find("tbody")
	if err != nil {
		t.Fatal(err)
	}
	c, err := sortable.New(root, sortable.WithConfig(sortable.TableConfig()))
	if err != nil {
		t.Fatal(err)
	}
	c.On(sortable.EventSorted, client.Listener())

	items := c.Items()
	if !items[1].MoveNextTo(items[0], sortable.Above) {
		t.Fatal("move failed")
	}
	if err := c.Trigger(sortable.EventSorted); err != nil {
		t.Fatalf("Trigger: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("background post: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("post did not complete")
	}
	got := <-ch
	if got.path != "/api/admin/reorder/tasks" {
		t.Errorf("path = %q", got.path)
	}
	if got.body["10"] != 1 || got.body["20"] != 0 {
		t.Errorf("body = %v", got.body)
	}
}

func TestListener_FailureDoesNotFailDispatch(t *testing.T) {
	done := make(chan error, 1)
	client := New("http://127.0.0.1:1", WithDone(func(err error) { done <- err }), WithTimeout(time.Second))

	doc, _ := dom.ParseString(`<ul data-sortable-type="t"><li data-id="1">A</li></ul>`)
	root, err := doc.Find("ul")
	if err != nil {
		t.Fatal(err)
	}
	c, err := sortable.New(root)
	if err != nil {
		t.Fatal(err)
	}
	c.On(sortable.EventSorted, client.Listener())
	if err := c.Trigger(sortable.EventSorted); err != nil {
		t.Fatalf("Trigger = %v, want nil", err)
	}
	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected post to fail")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("post did not complete")
	}
}
