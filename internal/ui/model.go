package ui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amalg/go-robots/internal/arena"
	"github.com/amalg/go-robots/internal/game"
)

// stateUpdateMsg carries a new game state from the driver.
type stateUpdateMsg game.Snapshot

// errMsg carries an error.
type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

// Model is the Bubbletea model for the game.
type Model struct {
	driver   Driver
	state    *game.Snapshot
	err      error
	quitting bool
}

// NewModel creates a new TUI model playing through d.
func NewModel(d Driver) Model {
	return Model{driver: d}
}

// Init starts listening for state updates.
func (m Model) Init() tea.Cmd {
	return waitForState(m.driver)
}

// Update handles incoming messages (key presses, state updates).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case stateUpdateMsg:
		state := game.Snapshot(msg)
		m.state = &state
		return m, waitForState(m.driver)

	case errMsg:
		m.err = msg.err
		return m, tea.Quit
	}

	return m, nil
}

// View renders the current game state.
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	if m.err != nil {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff4444")).
			Render("Error: "+m.err.Error()) + "\n"
	}

	board := RenderBoard(m.state)
	hud := RenderHUD(m.state)

	// Layout: board on the left, HUD on the right
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		board,
		"  ",
		hud,
	) + "\n"
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var action game.Action
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "up", "w":
		action = game.Move(arena.North)
	case "right", "d":
		action = game.Move(arena.East)
	case "down", "s":
		action = game.Move(arena.South)
	case "left", "a":
		action = game.Move(arena.West)
	case " ", ".":
		action = game.Stand()
	default:
		return m, nil
	}

	if err := m.driver.Act(action); err != nil && !errors.Is(err, game.ErrGameOver) {
		m.err = err
		return m, tea.Quit
	}
	return m, nil
}

// waitForState returns a Cmd that waits for the next state update.
func waitForState(d Driver) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-d.States()
		if !ok {
			return errMsg{err: fmt.Errorf("game connection closed")}
		}
		return stateUpdateMsg(state)
	}
}
