package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/net/html"

	"github.com/vango-dev/sortable/pkg/dom"
	"github.com/vango-dev/sortable/pkg/persist"
	"github.com/vango-dev/sortable/pkg/sortable"
)

var (
	playTitleStyle  = lipgloss.NewStyle().Bold(true)
	playCursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	playDragStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("213"))
	playLogStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	playHelpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")).Padding(0, 2)
)

// maxLog is the number of event log lines kept on screen.
const maxLog = 6

type playKeys struct {
	Up     key.Binding
	Down   key.Binding
	Grab   key.Binding
	Drop   key.Binding
	Cancel key.Binding
	Quit   key.Binding
}

func newPlayKeys() playKeys {
	return playKeys{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Grab:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "grab")),
		Drop:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// playModel drives a Container with the events a browser would send:
// rows are one terminal line tall, so an item's midpoint is its rank + 0.5.
type playModel struct {
	keys      playKeys
	doc       *dom.Document
	container *sortable.Container
	cursor    int
	dragging  *sortable.Item
	log       []string
}

func playCmd() *cobra.Command {
	var post string

	cmd := &cobra.Command{
		Use:   "play [names...]",
		Short: "Reorder a list in the terminal",
		Long: `Reorder a list in the terminal with the same engine the server runs.

Move with the arrow keys, grab a row with space, move it and drop it
with enter. Every drop prints the id → order map that would be stored;
with --post it is also sent to a running server.

Examples:
  sortable play
  sortable play Alpha Beta Gamma Delta
  sortable play --post=http://localhost:8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"Alpha", "Beta", "Gamma", "Delta", "Epsilon"}
			}
			var client *persist.Client
			if post != "" {
				client = persist.New(post)
			}
			m, err := newPlayModel(args, client)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(m).Run()
			return err
		},
	}

	cmd.Flags().StringVar(&post, "post", "", "Base URL of a server to post sorted orders to")
	return cmd
}

func newPlayModel(names []string, client *persist.Client) (*playModel, error) {
	rows := make([]*html.Node, len(names))
	for i, name := range names {
		rows[i] = dom.El("li", dom.Data("id", strconv.Itoa(i+1)), dom.Text(name))
	}
	list := dom.El("ul", dom.Data("sortable-type", "play"), rows)
	doc := dom.NewDocument(list, dom.WithLayout(dom.StackLayout{RowHeight: 1}))

	c, err := sortable.New(doc.Root())
	if err != nil {
		return nil, err
	}

	m := &playModel{keys: newPlayKeys(), doc: doc, container: c}
	c.On(sortable.EventSorted, func(event string, c *sortable.Container) error {
		m.logf("sorted %s", formatOrders(c.Snapshot("")))
		return nil
	})
	if client != nil {
		c.On(sortable.EventSorted, client.Listener())
	}
	return m, nil
}

func (m *playModel) Init() tea.Cmd { return nil }

func (m *playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Up):
		m.move(-1)
	case key.Matches(keyMsg, m.keys.Down):
		m.move(1)
	case key.Matches(keyMsg, m.keys.Grab):
		m.grab()
	case key.Matches(keyMsg, m.keys.Drop):
		m.release(true)
	case key.Matches(keyMsg, m.keys.Cancel):
		m.release(false)
	}
	return m, nil
}

// ranked returns the items in live order.
func (m *playModel) ranked() []*sortable.Item {
	items := m.container.Items()
	sort.Slice(items, func(i, j int) bool { return items[i].Order() < items[j].Order() })
	return items
}

func (m *playModel) move(delta int) {
	items := m.ranked()
	next := m.cursor + delta
	if next < 0 || next >= len(items) {
		return
	}
	if m.dragging == nil {
		m.cursor = next
		return
	}

	// Hover the neighbour, then drag just past its midpoint.
	target := items[next]
	y := target.Midpoint() - 0.1
	if delta > 0 {
		y = target.Midpoint() + 0.1
	}
	m.dispatch(sortable.EventDragOver, target.Element(), 0)
	m.dispatch(sortable.EventDrag, m.dragging.Element(), y)
	m.cursor = m.dragging.Order()
}

func (m *playModel) grab() {
	if m.dragging != nil {
		return
	}
	it := m.ranked()[m.cursor]
	m.dispatch(sortable.EventPointerDown, it.Element(), 0)
	m.dispatch(sortable.EventDragStart, it.Element(), 0)
	if it.State() == sortable.StateDragging {
		m.dragging = it
		m.logf("grabbed %s", it.Element().Text())
	}
}

func (m *playModel) release(drop bool) {
	if m.dragging == nil {
		return
	}
	el := m.dragging.Element()
	if drop {
		m.dispatch(sortable.EventDrop, el, 0)
	}
	m.dispatch(sortable.EventDragEnd, el, 0)
	m.dragging = nil
}

func (m *playModel) dispatch(kind sortable.EventKind, target sortable.Node, y float64) {
	if err := m.container.Dispatch(sortable.Event{Kind: kind, Target: target, Y: y}); err != nil {
		m.logf("%s: %v", kind, err)
	}
}

func (m *playModel) logf(format string, args ...any) {
	m.log = append(m.log, fmt.Sprintf(format, args...))
	if len(m.log) > maxLog {
		m.log = m.log[len(m.log)-maxLog:]
	}
}

func (m *playModel) View() string {
	var b strings.Builder
	b.WriteString(playTitleStyle.Render("sortable play"))
	b.WriteString("\n\n")

	for i, it := range m.ranked() {
		line := fmt.Sprintf("%d. %s", i+1, it.Element().Text())
		switch {
		case it == m.dragging:
			b.WriteString(playDragStyle.Render("≡ " + line))
		case i == m.cursor:
			b.WriteString(playCursorStyle.Render("→ " + line))
		default:
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	for _, l := range m.log {
		b.WriteString(playLogStyle.Render(l))
		b.WriteString("\n")
	}

	help := []string{}
	for _, k := range []key.Binding{m.keys.Up, m.keys.Down, m.keys.Grab, m.keys.Drop, m.keys.Cancel, m.keys.Quit} {
		h := k.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	b.WriteString("\n")
	b.WriteString(playHelpStyle.Render(strings.Join(help, " • ")))
	return b.String()
}

// formatOrders renders an id → order map sorted by order.
func formatOrders(orders map[string]int) string {
	ids := make([]string, 0, len(orders))
	for id := range orders {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return orders[ids[i]] < orders[ids[j]] })
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%s:%d", id, orders[id])
	}
	return "{" + strings.Join(parts, " ") + "}"
}
