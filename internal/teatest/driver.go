// Package teatest drives bubbletea models synchronously in tests.
//
// Update is called directly and every returned Cmd is run and fed back
// until nothing is left. A Cmd that blocks, such as a read from a live
// snapshot feed with nothing queued, is parked after a short timeout; its
// message is delivered later by Await or Settle.
package teatest

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDepth bounds how many chained Cmds one Send may run.
const MaxDepth = 100

// CmdTimeout is how long a Cmd may block before it is parked. Service calls
// against an in-memory database finish well inside it.
var CmdTimeout = 50 * time.Millisecond

// Driver feeds messages to a tea.Model and drains the resulting Cmds. All
// Update calls happen on the test goroutine.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once a Cmd produced tea.QuitMsg. Later sends are
	// ignored, as they would be by a real program.
	Quitting bool

	late chan tea.Msg
}

func New(t *testing.T, model tea.Model) *Driver {
	t.Helper()
	return &Driver{T: t, Model: model, late: make(chan tea.Msg, 64)}
}

// Start runs the model's Init command.
func (d *Driver) Start() *Driver {
	d.T.Helper()
	d.drain(d.Model.Init(), 0)
	return d
}

// Send dispatches msg through Update and drains what it returns.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	updated, cmd := d.Model.Update(msg)
	d.Model = updated
	d.drain(cmd, 0)
}

// Press sends one character key.
func (d *Driver) Press(r rune) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func (d *Driver) PressUp() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyUp})
}

func (d *Driver) PressDown() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyDown})
}

func (d *Driver) View() string {
	return d.Model.View()
}

// Await delivers the next message from a parked Cmd. It reports false when
// none arrives within timeout.
func (d *Driver) Await(timeout time.Duration) bool {
	d.T.Helper()
	select {
	case msg := <-d.late:
		d.handle(msg, 0)
		return true
	case <-time.After(timeout):
		return false
	}
}

// Settle delivers parked messages until cond holds or timeout passes.
func (d *Driver) Settle(cond func() bool, timeout time.Duration) bool {
	d.T.Helper()
	deadline := time.Now().Add(timeout)
	for !cond() {
		left := time.Until(deadline)
		if left <= 0 || !d.Await(left) {
			return cond()
		}
	}
	return true
}

func (d *Driver) drain(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDepth {
		d.T.Logf("teatest: stopped draining at depth %d", MaxDepth)
		return
	}
	if msg, ok := d.run(cmd); ok {
		d.handle(msg, depth)
	}
}

func (d *Driver) handle(msg tea.Msg, depth int) {
	d.T.Helper()
	switch msg := msg.(type) {
	case nil:
	case tea.BatchMsg:
		for _, sub := range msg {
			d.drain(sub, depth+1)
		}
	case tea.QuitMsg:
		d.Quitting = true
	default:
		if d.Quitting {
			return
		}
		updated, next := d.Model.Update(msg)
		d.Model = updated
		d.drain(next, depth+1)
	}
}

// run executes cmd, parking it when it does not return within CmdTimeout.
func (d *Driver) run(cmd tea.Cmd) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(CmdTimeout):
		go func() { d.late <- <-ch }()
		return nil, false
	}
}
