package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/ascent/internal/cli/formatter"
	"github.com/alexanderramin/ascent/internal/contract"
	"github.com/alexanderramin/ascent/internal/domain"
	"github.com/alexanderramin/ascent/internal/service"
	"github.com/alexanderramin/ascent/internal/store"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

type watchKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

var watchKeys = watchKeyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Toggle:  key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle done")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
}

func (k watchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Refresh, k.Quit}
}

// snapshotMsg carries a store snapshot; closed is set when the feed ends.
type snapshotMsg struct {
	snap   store.Snapshot
	closed bool
}

type statsMsg struct {
	view   contract.StatsView
	closed bool
}

type todayLoadedMsg struct {
	view *contract.TodayView
	err  error
}

type toggledMsg struct {
	itemID string
	err    error
}

// watchRow is one selectable line of the live action list.
type watchRow struct {
	item    contract.TodayItem
	carried bool
}

// watchModel is a live dashboard: the action list follows store snapshots
// through a Tracker, and stats follow StatsService.Watch.
type watchModel struct {
	ctx       context.Context
	app       *App
	learnerID string
	tracker   *service.Tracker

	snapshots <-chan store.Snapshot
	stats     <-chan contract.StatsView

	today  *contract.TodayView
	view   *contract.StatsView
	rows   []watchRow
	cursor int
	notice string
	err    error
	bar    progress.Model
}

func newWatchModel(ctx context.Context, app *App, learnerID string, tracker *service.Tracker, snapshots <-chan store.Snapshot, stats <-chan contract.StatsView) *watchModel {
	return &watchModel{
		ctx:       ctx,
		app:       app,
		learnerID: learnerID,
		tracker:   tracker,
		snapshots: snapshots,
		stats:     stats,
		bar: progress.New(
			progress.WithSolidFill(string(formatter.ColorGreen)),
			progress.WithWidth(30),
		),
	}
}

func (m *watchModel) Init() tea.Cmd {
	return tea.Batch(m.nextSnapshot(), m.nextStats(), m.loadToday())
}

func (m *watchModel) nextSnapshot() tea.Cmd {
	ch := m.snapshots
	return func() tea.Msg {
		snap, ok := <-ch
		return snapshotMsg{snap: snap, closed: !ok}
	}
}

func (m *watchModel) nextStats() tea.Cmd {
	ch := m.stats
	return func() tea.Msg {
		view, ok := <-ch
		return statsMsg{view: view, closed: !ok}
	}
}

func (m *watchModel) loadToday() tea.Cmd {
	ctx, journey, id := m.ctx, m.app.Journey, m.learnerID
	return func() tea.Msg {
		req := contract.NewTodayRequest(id)
		req.RecordVisit = false
		view, err := journey.Today(ctx, req)
		return todayLoadedMsg{view: view, err: err}
	}
}

func (m *watchModel) toggle(itemID string) tea.Cmd {
	ctx, tracker := m.ctx, m.tracker
	return func() tea.Msg {
		_, err := tracker.Toggle(ctx, itemID)
		return toggledMsg{itemID: itemID, err: err}
	}
}

func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		if msg.closed {
			return m, nil
		}
		m.tracker.Reconcile(msg.snap)
		return m, tea.Batch(m.nextSnapshot(), m.loadToday())

	case statsMsg:
		if msg.closed {
			return m, nil
		}
		view := msg.view
		m.view = &view
		return m, m.nextStats()

	case todayLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.today = msg.view
		m.rows = buildWatchRows(msg.view)
		if m.cursor >= len(m.rows) {
			m.cursor = max(len(m.rows)-1, 0)
		}
		return m, nil

	case toggledMsg:
		if msg.err != nil {
			m.notice = formatter.StyleRed.Render(fmt.Sprintf("%s: %v", msg.itemID, msg.err))
		} else {
			m.notice = ""
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, watchKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, watchKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, watchKeys.Down):
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		case key.Matches(msg, watchKeys.Refresh):
			return m, m.loadToday()
		case key.Matches(msg, watchKeys.Toggle):
			if m.cursor >= len(m.rows) {
				return m, nil
			}
			row := m.rows[m.cursor]
			if row.item.Auto {
				m.notice = formatter.Dim("Completed automatically from your profile and assessment.")
				return m, nil
			}
			return m, m.toggle(row.item.ID)
		}
	}
	return m, nil
}

func buildWatchRows(v *contract.TodayView) []watchRow {
	rows := make([]watchRow, 0, len(v.Items)+len(v.CarriedOver))
	for _, it := range v.Items {
		rows = append(rows, watchRow{item: it})
	}
	for _, it := range v.CarriedOver {
		rows = append(rows, watchRow{item: it, carried: true})
	}
	return rows
}

func (m *watchModel) completed(row watchRow) bool {
	if row.item.Auto {
		return row.item.Completed
	}
	return m.tracker.ItemStatus(row.item.ID) == domain.ItemCompleted
}

func (m *watchModel) View() string {
	var b strings.Builder

	switch {
	case m.err != nil:
		b.WriteString(formatter.StyleRed.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	case m.today == nil:
		b.WriteString(formatter.Dim("Loading…"))
		b.WriteString("\n")
	default:
		b.WriteString(formatter.Header("Today · " + m.today.DateKey))
		b.WriteString("\n")
		b.WriteString(formatter.PhaseBadge(m.today.Position.Phase) + "  " + formatter.PositionLine(m.today.Position))
		b.WriteString("\n\n")
		m.writeRows(&b)
		if m.today.Position.WeekNumber > 0 {
			b.WriteString("\n")
			b.WriteString(m.bar.ViewAs(float64(m.today.WeekPercent) / 100))
			b.WriteString("\n")
		}
	}

	if m.view != nil {
		s := m.view.Stats
		fmt.Fprintf(&b, "\n%s %d  %s %d  %s %d  %s %d\n",
			formatter.Bold("Points"), s.TotalPoints,
			formatter.Bold("Streak"), s.CurrentStreak,
			formatter.Bold("Perfect weeks"), s.PerfectWeeks,
			formatter.Bold("Badges"), len(m.view.Badges))
	}

	if m.notice != "" {
		b.WriteString("\n" + m.notice + "\n")
	}
	b.WriteString("\n" + formatter.Dim(helpLine(watchKeys.ShortHelp())))
	return b.String()
}

func (m *watchModel) writeRows(b *strings.Builder) {
	if len(m.rows) == 0 {
		b.WriteString(formatter.Dim("No actions scheduled."))
		b.WriteString("\n")
		return
	}
	for i, row := range m.rows {
		cursor := "  "
		if i == m.cursor {
			cursor = formatter.StyleHeader.Render("> ")
		}
		label := row.item.Label
		if row.carried {
			label += " " + formatter.CarryBadge(row.item.CarryCount, row.item.LastChance)
		}
		if !row.item.Auto && m.tracker.Pending(row.item.ID) {
			label += formatter.Dim(" …")
		}
		fmt.Fprintf(b, "%s%s %s\n", cursor, formatter.Checkbox(m.completed(row)), label)
	}
}

func helpLine(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, k := range bindings {
		h := k.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " · ")
}
