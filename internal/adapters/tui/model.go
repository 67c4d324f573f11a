// Package tui is a terminal standings board: a pool of teams and one slot
// per rank, edited with the keyboard.
//
// Load, move and submit run as tea.Cmds. Every result carries the
// generation of the session it was issued for, and results from an older
// generation are dropped.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	service "github.com/okian/pennant/internal/app"
	"github.com/okian/pennant/internal/domain/catalog"
	"github.com/okian/pennant/internal/domain/standings"
)

// Editor is the slice of the prediction service the board drives.
type Editor interface {
	OpenSession(ctx context.Context, owner string, league catalog.League) (service.SessionView, error)
	Move(ctx context.Context, id, owner, itemID string, dst standings.Destination) (service.MoveResult, error)
	Submit(ctx context.Context, id, owner string) (service.SessionView, error)
	CloseSession(ctx context.Context, id, owner string) error
}

type loadedMsg struct {
	gen  uint64
	view service.SessionView
	err  error
}

type movedMsg struct {
	gen uint64
	seq uint64
	res service.MoveResult
	err error
}

type submittedMsg struct {
	gen  uint64
	view service.SessionView
	err  error
}

type closedMsg struct{}

// Model is the bubbletea model for one owner's board.
type Model struct {
	ctx    context.Context
	editor Editor
	owner  string
	league catalog.League

	gen     uint64
	moveSeq uint64
	view    service.SessionView
	loaded  bool
	pending bool

	// cursor indexes the pool entries followed by the rank slots.
	cursor int
	held   string

	status   string
	err      error
	quitting bool
}

// New builds a board for owner's league predictions.
func New(ctx context.Context, editor Editor, owner string, league catalog.League) Model {
	return Model{ctx: ctx, editor: editor, owner: owner, league: league, pending: true}
}

// Init starts the first load.
func (m Model) Init() tea.Cmd {
	return m.loadCmd(m.gen)
}

func (m Model) loadCmd(gen uint64) tea.Cmd {
	editor, ctx, owner, league := m.editor, m.ctx, m.owner, m.league
	return func() tea.Msg {
		v, err := editor.OpenSession(ctx, owner, league)
		return loadedMsg{gen: gen, view: v, err: err}
	}
}

func (m Model) moveCmd(itemID string, dst standings.Destination) tea.Cmd {
	editor, ctx, owner, id, gen, seq := m.editor, m.ctx, m.owner, m.view.ID, m.gen, m.moveSeq
	return func() tea.Msg {
		res, err := editor.Move(ctx, id, owner, itemID, dst)
		return movedMsg{gen: gen, seq: seq, res: res, err: err}
	}
}

func (m Model) submitCmd() tea.Cmd {
	editor, ctx, owner, id, gen := m.editor, m.ctx, m.owner, m.view.ID, m.gen
	return func() tea.Msg {
		v, err := editor.Submit(ctx, id, owner)
		return submittedMsg{gen: gen, view: v, err: err}
	}
}

func (m Model) closeCmd(id string) tea.Cmd {
	if id == "" {
		return nil
	}
	editor, ctx, owner := m.editor, m.ctx, m.owner
	return func() tea.Msg {
		_ = editor.CloseSession(ctx, id, owner)
		return closedMsg{}
	}
}

// Update applies one message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.gen != m.gen || m.quitting {
			// Superseded or abandoned load: close its session.
			if msg.gen == m.gen {
				m.pending = false
			}
			var cmd tea.Cmd
			if msg.err == nil {
				cmd = m.closeCmd(msg.view.ID)
			}
			if cmd == nil && m.quitting && msg.gen == m.gen {
				cmd = tea.Quit
			}
			return m, cmd
		}
		m.pending = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.view, m.loaded, m.err = msg.view, true, nil
		m.status = "loaded"
		if msg.view.LoadFailed {
			m.status = "could not load your saved prediction; starting empty"
		}
		m.clampCursor()
		return m, nil

	case movedMsg:
		if msg.gen != m.gen || msg.seq != m.moveSeq {
			return m, nil
		}
		m.pending = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.view, m.err = msg.res.Session, nil
		if msg.res.Applied {
			m.status = "moved"
		} else {
			m.status = "can't move there: " + msg.res.Reason
		}
		m.clampCursor()
		return m, nil

	case submittedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.pending = false
		if msg.view.ID != "" {
			m.view = msg.view
		}
		if msg.err != nil {
			m.err = msg.err
			if errors.Is(msg.err, standings.ErrIncompleteAssignment) {
				m.status = "fill every rank before saving"
			}
			return m, nil
		}
		m.err = nil
		m.status = "saved"
		return m, nil

	case closedMsg:
		// While quitting, wait for a load still in flight so its session is closed too.
		if m.quitting && (m.loaded || !m.pending) {
			return m, tea.Quit
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "ctrl+c":
		if m.quitting {
			return m, tea.Quit
		}
		m.quitting = true
		if m.pending && !m.loaded {
			// The session is closed when the load lands.
			return m, nil
		}
		if cmd := m.closeCmd(m.view.ID); cmd != nil {
			return m, cmd
		}
		return m, tea.Quit
	case "r":
		old := m.view.ID
		m.gen++
		m.pending, m.loaded, m.held = true, false, ""
		m.view = service.SessionView{}
		m.status = "reloading"
		return m, tea.Batch(m.closeCmd(old), m.loadCmd(m.gen))
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < m.cells()-1 {
			m.cursor++
		}
		return m, nil
	case "esc":
		m.held = ""
		return m, nil
	}

	if !m.loaded || m.pending {
		return m, nil
	}

	switch key {
	case " ", "space":
		if id := m.itemUnderCursor(); id != "" {
			m.held = id
			m.status = "picked up " + m.label(id)
		}
		return m, nil
	case "0", "p":
		return m.drop(standings.Pool)
	case "enter":
		if !m.view.Complete {
			m.status = "fill every rank before saving"
			return m, nil
		}
		m.pending = true
		m.status = "saving"
		return m, m.submitCmd()
	}
	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(m.view.Slots) {
		return m.drop(standings.Rank(n))
	}
	return m, nil
}

// drop moves the held item, or the one under the cursor, to dst.
func (m Model) drop(dst standings.Destination) (tea.Model, tea.Cmd) {
	id := m.held
	if id == "" {
		id = m.itemUnderCursor()
	}
	if id == "" {
		return m, nil
	}
	m.held = ""
	m.moveSeq++
	m.pending = true
	return m, m.moveCmd(id, dst)
}

func (m Model) cells() int { return len(m.view.Pool) + len(m.view.Slots) }

func (m *Model) clampCursor() {
	if n := m.cells(); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

func (m Model) itemUnderCursor() string {
	if m.cursor < len(m.view.Pool) {
		return m.view.Pool[m.cursor].ID
	}
	if item, ok := m.view.ItemAt(m.cursor - len(m.view.Pool) + 1); ok {
		return item.ID
	}
	return ""
}

func (m Model) label(id string) string {
	for _, it := range m.view.Pool {
		if it.ID == id {
			return it.Label
		}
	}
	for _, s := range m.view.Slots {
		if s.Item != nil && s.Item.ID == id {
			return s.Item.Label
		}
	}
	return id
}

// Saved reports whether the last submit succeeded.
func (m Model) Saved() bool { return m.status == "saved" }

// Err returns the last error shown on the board.
func (m Model) Err() error { return m.err }

// Run shows the board until the user quits.
func Run(ctx context.Context, editor Editor, owner string, league catalog.League) error {
	final, err := tea.NewProgram(New(ctx, editor, owner, league), tea.WithContext(ctx), tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("run board: %w", err)
	}
	if m, ok := final.(Model); ok && m.err != nil && !m.Saved() {
		return m.err
	}
	return nil
}
