package sortable_test

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/vango-dev/sortable/pkg/dom"
	"github.com/vango-dev/sortable/pkg/sortable"
)

// newList builds A, B, C, D as <li> items separated by whitespace and
// decorative dividers that are not items.
func newList(t *testing.T, opts ...sortable.Option) (*dom.Document, *sortable.Container) {
	t.Helper()
	ul := dom.El("ul", dom.Data("sortable-type", "drinks"))
	for i, name := range []string{"A", "B", "C", "D"} {
		if i > 0 {
			ul.AppendChild(dom.Text("\n  "))
			ul.AppendChild(dom.El("span", dom.Class("divider")))
		}
		ul.AppendChild(dom.El("li", dom.Data("id", strconv.Itoa(i+1)),
			dom.El("span", dom.Class("handle"), "::"),
			dom.El("span", dom.Class("name"), name),
		))
	}
	doc := dom.NewDocument(ul)

	base := []sortable.Option{
		sortable.WithItems("li"),
		sortable.WithHandle(".handle"),
		sortable.WithName(".name"),
	}
	c, err := sortable.New(doc.Root(), append(base, opts...)...)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return doc, c
}

func item(t *testing.T, c *sortable.Container, name string) *sortable.Item {
	t.Helper()
	for _, it := range c.Items() {
		if it.Name() == name {
			return it
		}
	}
	t.Fatalf("no item named %q", name)
	return nil
}

func part(t *testing.T, it *sortable.Item, selector string) sortable.Node {
	t.Helper()
	n, err := it.Element().Query(selector)
	if err != nil || n == nil {
		t.Fatalf("Query(%q) = %v, %v", selector, n, err)
	}
	return n
}

// orders renders the orders as "A=0 B=1 ..." in construction order.
func orders(c *sortable.Container) string {
	var parts []string
	for _, it := range c.Items() {
		parts = append(parts, it.Name()+"="+strconv.Itoa(it.Order()))
	}
	return strings.Join(parts, " ")
}

// live returns the item names in current tree order.
func live(c *sortable.Container) string {
	var names []string
	for _, n := range c.Root().Children() {
		if it := c.FindChild(n); it != nil {
			names = append(names, it.Name())
		}
	}
	return strings.Join(names, "")
}

func assertPermutation(t *testing.T, c *sortable.Container) {
	t.Helper()
	seen := make([]bool, c.Len())
	for _, it := range c.Items() {
		o := it.Order()
		if o < 0 || o >= c.Len() || seen[o] {
			t.Fatalf("orders are not a permutation: %s", orders(c))
		}
		seen[o] = true
	}
}

func TestNew(t *testing.T) {
	_, c := newList(t)

	if c.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", c.Len())
	}
	if got := orders(c); got != "A=0 B=1 C=2 D=3" {
		t.Errorf("orders = %s", got)
	}
	if c.Type() != "drinks" {
		t.Errorf("Type() = %q, want drinks", c.Type())
	}
	for _, it := range c.Items() {
		if it.Handle() == nil {
			t.Errorf("%s: handle not resolved", it.Name())
		}
		if !it.Element().Contains(it.Handle()) {
			t.Errorf("%s: handle outside element", it.Name())
		}
		if it.State() != sortable.StateIdle {
			t.Errorf("%s: state = %v, want Idle", it.Name(), it.State())
		}
	}
}

func TestNewDefaultsToElementChildren(t *testing.T) {
	doc := dom.NewDocument(dom.El("ol", dom.El("li", "a"), dom.Text(" "), dom.El("li", "b")))
	c, err := sortable.New(doc.Root())
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
	if c.Config().IDAttr != sortable.DefaultIDAttr {
		t.Errorf("IDAttr = %q", c.Config().IDAttr)
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := sortable.New(nil); err == nil {
		t.Error("New(nil) should fail")
	}

	doc := dom.NewDocument(dom.El("ul", dom.El("li")))
	if _, err := sortable.New(doc.Root(), sortable.WithItems("li[[")); err == nil {
		t.Error("invalid items selector should fail")
	}
	if _, err := sortable.New(doc.Root(), sortable.WithHandle("::bogus(")); err == nil {
		t.Error("invalid handle selector should fail")
	}
}

func TestTableConfig(t *testing.T) {
	doc, err := dom.ParseString(`<table data-sortable="true" data-sortable-type="drinks"><tbody>` +
		`<tr data-id="10"><td class="drag-handle">::</td><td>Negroni</td></tr>` +
		`<tr data-id="11"><td class="drag-handle">::</td><td> Daiquiri </td></tr>` +
		`</tbody></table>`)
	if err != nil {
		t.Fatal(err)
	}
	table, _ := doc.Find(`[data-sortable="true"]`)
	c, err := sortable.New(table, sortable.WithConfig(sortable.TableConfig()))
	if err != nil {
		t.Fatal(err)
	}

	items := c.Items()
	if len(items) != 2 || items[0].Name() != "Negroni" || items[1].Name() != "Daiquiri" {
		t.Fatalf("items = %v", orders(c))
	}
	snap := c.Snapshot("")
	if snap["10"] != 0 || snap["11"] != 1 {
		t.Errorf("Snapshot = %v", snap)
	}
}

func TestMoveNextTo_Scenarios(t *testing.T) {
	tests := []struct {
		name       string
		dragged    string
		target     string
		where      sortable.Placement
		wantOrders string
		wantLive   string
	}{
		{"D above B", "D", "B", sortable.Above, "A=0 B=2 C=3 D=1", "ADBC"},
		{"D below B", "D", "B", sortable.Below, "A=0 B=1 C=3 D=2", "ABDC"},
		{"A below C", "A", "C", sortable.Below, "A=2 B=0 C=1 D=3", "BCAD"},
		{"A above D", "A", "D", sortable.Above, "A=2 B=0 C=1 D=3", "BCAD"},
		{"B below D", "B", "D", sortable.Below, "A=0 B=3 C=1 D=2", "ACDB"},
		{"C above A", "C", "A", sortable.Above, "A=1 B=2 C=0 D=3", "CABD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, c := newList(t)
			if !item(t, c, tt.dragged).MoveNextTo(item(t, c, tt.target), tt.where) {
				t.Fatal("MoveNextTo reported no change")
			}
			if got := orders(c); got != tt.wantOrders {
				t.Errorf("orders = %s, want %s", got, tt.wantOrders)
			}
			if got := live(c); got != tt.wantLive {
				t.Errorf("live order = %s, want %s", got, tt.wantLive)
			}
			assertPermutation(t, c)
		})
	}
}

func TestMoveNextTo_AlreadyInPlace(t *testing.T) {
	doc, c := newList(t)
	before := doc.String()

	a, b := item(t, c, "A"), item(t, c, "B")
	if a.MoveNextTo(b, sortable.Above) {
		t.Error("A is already above B; expected no-op")
	}
	if b.MoveNextTo(a, sortable.Below) {
		t.Error("B is already below A; expected no-op")
	}
	if a.MoveNextTo(a, sortable.Above) {
		t.Error("moving next to itself should be a no-op")
	}
	if a.MoveNextTo(b, "sideways") {
		t.Error("unknown placement should be a no-op")
	}

	if got := orders(c); got != "A=0 B=1 C=2 D=3" {
		t.Errorf("orders = %s", got)
	}
	if doc.String() != before {
		t.Error("tree changed on a no-op move")
	}
}

func TestReorder_GapShiftsTarget(t *testing.T) {
	tests := []struct {
		dragged, target string
		where           sortable.Placement
		want            string
	}{
		// The target's new rank combines the closed gap and the push.
		{"D", "B", sortable.Below, "A=0 B=1 C=3 D=2"},
		{"A", "C", sortable.Below, "A=2 B=0 C=1 D=3"},
		{"A", "C", sortable.Above, "A=1 B=0 C=2 D=3"},
		{"D", "B", sortable.Above, "A=0 B=2 C=3 D=1"},
	}
	for _, tt := range tests {
		t.Run(tt.dragged+" "+string(tt.where)+" "+tt.target, func(t *testing.T) {
			_, c := newList(t)
			if !c.Reorder(item(t, c, tt.dragged), item(t, c, tt.target), tt.where) {
				t.Fatal("Reorder reported no change")
			}
			if got := orders(c); got != tt.want {
				t.Errorf("orders = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestReorder_RejectsBadInput(t *testing.T) {
	_, c := newList(t)
	_, other := newList(t)
	a, d := item(t, c, "A"), item(t, c, "D")

	cases := []struct {
		name    string
		dragged *sortable.Item
		target  *sortable.Item
		where   sortable.Placement
	}{
		{"unknown placement", d, a, "middle"},
		{"empty placement", d, a, ""},
		{"self target", a, a, sortable.Above},
		{"nil target", a, nil, sortable.Below},
		{"foreign item", item(t, other, "B"), a, sortable.Above},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if c.Reorder(tt.dragged, tt.target, tt.where) {
				t.Error("Reorder should report no change")
			}
			if got := orders(c); got != "A=0 B=1 C=2 D=3" {
				t.Errorf("orders = %s", got)
			}
		})
	}
}

func TestReorder_PermutationInvariant(t *testing.T) {
	_, c := newList(t)
	rng := rand.New(rand.NewSource(7))
	items := c.Items()

	for step := 0; step < 500; step++ {
		dragged := items[rng.Intn(len(items))]
		target := items[rng.Intn(len(items))]
		where := sortable.Above
		if rng.Intn(2) == 1 {
			where = sortable.Below
		}
		dragged.MoveNextTo(target, where)

		assertPermutation(t, c)

		// Orders track the live tree exactly.
		for rank, name := range live(c) {
			if got := item(t, c, string(name)).Order(); got != rank {
				t.Fatalf("step %d: %c has order %d, live rank %d (%s)", step, name, got, rank, orders(c))
			}
		}
	}
}

func TestSiblings(t *testing.T) {
	_, c := newList(t)
	a, b, d := item(t, c, "A"), item(t, c, "B"), item(t, c, "D")

	if a.Prev() != nil {
		t.Error("A has no previous item")
	}
	if a.Next() != b {
		t.Error("A.Next() should skip whitespace and dividers to reach B")
	}
	if b.Prev() != a {
		t.Error("B.Prev() should be A")
	}
	if d.Next() != nil {
		t.Error("D has no next item")
	}

	d.MoveNextTo(b, sortable.Above)
	if a.Next() != d || d.Next() != b {
		t.Error("siblings should follow the live tree after a move")
	}
}

func TestFindChild(t *testing.T) {
	doc, c := newList(t)
	b := item(t, c, "B")

	if got := c.FindChild(part(t, b, ".name")); got != b {
		t.Error("node inside B should resolve to B")
	}
	dividers, _ := doc.FindAll(".divider")
	for _, div := range dividers {
		if c.FindChild(div) != nil {
			t.Error("divider must not resolve to an item")
		}
	}
	if c.FindChild(c.Root()) != nil {
		t.Error("the root itself is not an item")
	}
	if c.FindChild(nil) != nil {
		t.Error("nil resolves to nothing")
	}
	outside := dom.NewDocument(dom.El("li")).Root()
	if c.FindChild(outside) != nil {
		t.Error("nodes outside the container resolve to nothing")
	}
}

func TestDragLifecycle(t *testing.T) {
	_, c := newList(t)
	b, d := item(t, c, "B"), item(t, c, "D")

	var sorted int
	c.On(sortable.EventSorted, func(event string, got *sortable.Container) error {
		if event != sortable.EventSorted || got != c {
			t.Errorf("listener got (%q, %p)", event, got)
		}
		sorted++
		return nil
	})

	dispatch := func(kind sortable.EventKind, target sortable.Node, y float64) {
		t.Helper()
		if err := c.Dispatch(sortable.Event{Kind: kind, Target: target, Y: y}); err != nil {
			t.Fatalf("Dispatch(%s) error: %v", kind, err)
		}
	}

	// Pointer down outside the handle vetoes the drag.
	dispatch(sortable.EventPointerDown, part(t, d, ".name"), 0)
	if d.State() != sortable.StateArmed {
		t.Fatalf("state = %v, want Armed", d.State())
	}
	dispatch(sortable.EventDragStart, d.Element(), 0)
	if d.State() != sortable.StateIdle {
		t.Errorf("vetoed drag state = %v, want Idle", d.State())
	}
	if d.Element().Attr("style") != "" {
		t.Error("vetoed drag must not detach the element")
	}

	// Drag moves are ignored while idle.
	dispatch(sortable.EventDragOver, part(t, b, ".name"), 0)
	dispatch(sortable.EventDrag, d.Element(), 0)
	if got := orders(c); got != "A=0 B=1 C=2 D=3" {
		t.Errorf("orders changed while idle: %s", got)
	}

	// Pointer down on the handle starts the drag.
	dispatch(sortable.EventPointerDown, part(t, d, ".handle"), 0)
	dispatch(sortable.EventDragStart, d.Element(), 0)
	if d.State() != sortable.StateDragging {
		t.Fatalf("state = %v, want Dragging", d.State())
	}
	if got := d.Element().Attr("style"); got != "transform: "+sortable.DetachTransform {
		t.Errorf("style = %q", got)
	}

	dispatch(sortable.EventDragOver, part(t, b, ".name"), 0)
	if c.Hovered() != b {
		t.Fatal("B should be hovered")
	}

	dispatch(sortable.EventDrag, d.Element(), b.Midpoint()-1)
	if got := orders(c); got != "A=0 B=2 C=3 D=1" {
		t.Errorf("after drag above B: %s", got)
	}

	// Same side again is a no-op even though B moved down.
	dispatch(sortable.EventDrag, d.Element(), b.Midpoint()-1)
	if got := live(c); got != "ADBC" {
		t.Errorf("live = %s, want ADBC", got)
	}

	dispatch(sortable.EventDrag, d.Element(), b.Midpoint()+1)
	if got := orders(c); got != "A=0 B=1 C=3 D=2" {
		t.Errorf("after drag below B: %s", got)
	}

	// Hovering the dragged item itself does nothing.
	dispatch(sortable.EventDragOver, d.Element(), 0)
	dispatch(sortable.EventDrag, d.Element(), -100)
	if got := live(c); got != "ABDC" {
		t.Errorf("live = %s, want ABDC", got)
	}

	dispatch(sortable.EventDrop, d.Element(), 0)
	if sorted != 1 {
		t.Errorf("sorted fired %d times, want 1", sorted)
	}

	dispatch(sortable.EventDragEnd, d.Element(), 0)
	if d.State() != sortable.StateIdle {
		t.Errorf("state = %v, want Idle", d.State())
	}
	if got := d.Element().Attr("style"); got != "transform: "+sortable.ResetTransform {
		t.Errorf("style = %q", got)
	}
	if c.Hovered() != nil {
		t.Error("hovered should be cleared at drag end")
	}
}

func TestDragStartWithoutHandle(t *testing.T) {
	_, c := newList(t, sortable.WithConfig(sortable.Config{Items: "li", Name: ".name"}))
	a := item(t, c, "A")
	if a.Handle() != nil {
		t.Fatal("no handle configured")
	}
	if !a.DragStart() {
		t.Error("without a handle any drag start is accepted")
	}
}

func TestHandleSelectorWithoutMatch(t *testing.T) {
	_, c := newList(t, sortable.WithHandle(".grip"))
	a := item(t, c, "A")
	a.PointerDown(part(t, a, ".name"))
	if !a.DragStart() {
		t.Error("a handle selector that matches nothing leaves the whole item draggable")
	}
}

func TestDragOverOutside(t *testing.T) {
	_, c := newList(t)
	if c.DragOver(c.Root()) {
		t.Error("dragover on the container itself should not accept")
	}
	if c.Hovered() != nil {
		t.Error("hovered should be nil")
	}
}

func TestTriggerOrder(t *testing.T) {
	_, c := newList(t)
	var calls []string

	c.On(sortable.EventSorted, func(string, *sortable.Container) error {
		calls = append(calls, "L1")
		return nil
	}).On(sortable.EventSorted, func(string, *sortable.Container) error {
		calls = append(calls, "L2")
		return nil
	}).On("other", func(string, *sortable.Container) error {
		calls = append(calls, "other")
		return nil
	})

	if err := c.Trigger(sortable.EventSorted); err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(calls, ","); got != "L1,L2" {
		t.Errorf("calls = %s, want L1,L2", got)
	}
	if c.Listeners(sortable.EventSorted) != 2 {
		t.Errorf("Listeners = %d", c.Listeners(sortable.EventSorted))
	}
	if err := c.Trigger("nobody"); err != nil {
		t.Errorf("Trigger with no listeners: %v", err)
	}
}

func TestTriggerStopsOnError(t *testing.T) {
	_, c := newList(t)
	boom := errors.New("boom")
	var second bool

	c.On(sortable.EventSorted, func(string, *sortable.Container) error { return boom })
	c.On(sortable.EventSorted, func(string, *sortable.Container) error {
		second = true
		return nil
	})

	if err := c.Trigger(sortable.EventSorted); !errors.Is(err, boom) {
		t.Errorf("Trigger() = %v, want boom", err)
	}
	if second {
		t.Error("second listener should not run after a failure")
	}
}

func TestDispatchUnknownKind(t *testing.T) {
	_, c := newList(t)
	if err := c.Dispatch(sortable.Event{Kind: "wheel", Target: c.Root()}); err == nil {
		t.Error("expected error for unknown kind")
	}
}

type sliceSource struct {
	events []sortable.Event
}

func (s *sliceSource) Next(ctx context.Context) (sortable.Event, error) {
	if len(s.events) == 0 {
		return sortable.Event{}, io.EOF
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev, nil
}

func TestRun(t *testing.T) {
	_, c := newList(t)
	a, c3 := item(t, c, "A"), item(t, c, "C")

	var snap map[string]int
	c.On(sortable.EventSorted, func(_ string, c *sortable.Container) error {
		snap = c.Snapshot("data-id")
		return errors.New("listener failures do not stop the loop")
	})

	src := &sliceSource{events: []sortable.Event{
		{Kind: sortable.EventPointerDown, Target: part(t, a, ".handle")},
		{Kind: sortable.EventDragStart, Target: a.Element()},
		{Kind: sortable.EventDragOver, Target: part(t, c3, ".name")},
		{Kind: sortable.EventDrag, Target: a.Element(), Y: c3.Midpoint() + 5},
		{Kind: sortable.EventDrop, Target: c3.Element()},
		{Kind: sortable.EventDragEnd, Target: a.Element()},
	}}

	if err := c.Run(context.Background(), src); !errors.Is(err, io.EOF) {
		t.Fatalf("Run() = %v, want io.EOF", err)
	}
	want := map[string]int{"1": 2, "2": 0, "3": 1, "4": 3}
	for id, o := range want {
		if snap[id] != o {
			t.Errorf("snapshot[%s] = %d, want %d (%v)", id, snap[id], o, snap)
		}
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	_, c := newList(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Run(ctx, &sliceSource{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
}

func TestStateString(t *testing.T) {
	for s, want := range map[sortable.State]string{
		sortable.StateIdle:     "Idle",
		sortable.StateArmed:    "Armed",
		sortable.StateDragging: "Dragging",
		sortable.State(9):      "Unknown",
	} {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", s, s.String(), want)
		}
	}
}
