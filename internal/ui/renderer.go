package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/amalg/go-robots/internal/arena"
	"github.com/amalg/go-robots/internal/game"
)

// messageLines is how many recent messages the HUD shows.
const messageLines = 5

// Color palette
var (
	// Tile styles
	wallStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#3a3a3a")).
			Foreground(lipgloss.Color("#555555"))

	emptyStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1a1a2e")).
			Foreground(lipgloss.Color("#444466"))

	// Trail shades, lightest first; visits beyond the last reuse it
	trailStyles = []lipgloss.Style{
		lipgloss.NewStyle().Background(lipgloss.Color("#1a1a2e")).Foreground(lipgloss.Color("#2f6f4f")),
		lipgloss.NewStyle().Background(lipgloss.Color("#1a1a2e")).Foreground(lipgloss.Color("#3fa06f")),
		lipgloss.NewStyle().Background(lipgloss.Color("#1a1a2e")).Foreground(lipgloss.Color("#5fd08f")),
	}

	robotStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1a1a2e")).
			Foreground(lipgloss.Color("#ff4444")).
			Bold(true)

	playerStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#00ff88")).
			Foreground(lipgloss.Color("#1a1a2e")).
			Bold(true)

	deadPlayerStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1a1a2e")).
			Foreground(lipgloss.Color("#666666")).
			Strikethrough(true)

	// HUD styles
	hudBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff8844")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

	lostStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff4444")).
			Bold(true)

	wonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ff88")).
			Bold(true).
			Blink(true)
)

// RenderBoard converts the game state into a styled terminal string,
// one line per arena row.
func RenderBoard(state *game.Snapshot) string {
	if state == nil || state.Rows == 0 {
		return "Waiting for game state..."
	}

	robots := make(map[arena.Position]int, len(state.Robots))
	for _, r := range state.Robots {
		robots[r.Pos]++
	}

	var trail arena.History
	for _, p := range state.History {
		trail.Record(p.Row, p.Col)
	}

	var rows []string
	for r := 1; r <= state.Rows; r++ {
		var cells []string
		for c := 1; c <= state.Cols; c++ {
			pos := arena.Position{Row: r, Col: c}
			cells = append(cells, renderCell(state, pos, robots[pos], trail.Visits(r, c)))
		}
		rows = append(rows, strings.Join(cells, ""))
	}

	return strings.Join(rows, "\n")
}

// renderCell renders a single board cell with the appropriate style.
// Each cell is 2 characters wide for a square-ish appearance.
func renderCell(state *game.Snapshot, pos arena.Position, robots, visits int) string {
	// Priority: Player > Robot > Wall > Trail > Empty
	if state.Player.Pos == pos {
		if state.Player.Dead {
			return deadPlayerStyle.Render("* ")
		}
		return playerStyle.Render("@ ")
	}

	switch {
	case robots == 1:
		return robotStyle.Render("R ")
	case robots > 9:
		return robotStyle.Render("9 ")
	case robots > 1:
		return robotStyle.Render(fmt.Sprintf("%d ", robots))
	}

	if state.Terrain.At(pos.Row, pos.Col) == arena.Wall {
		return wallStyle.Render("██")
	}

	if visits > 0 {
		idx := visits - 1
		if idx >= len(trailStyles) {
			idx = len(trailStyles) - 1
		}
		return trailStyles[idx].Render("· ")
	}

	return emptyStyle.Render(". ")
}

// RenderHUD renders the heads-up display showing game status and the
// latest messages.
func RenderHUD(state *game.Snapshot) string {
	if state == nil {
		return ""
	}

	var parts []string

	parts = append(parts, titleStyle.Render("ROBOTS"))
	parts = append(parts, "")

	switch state.Status {
	case game.StatusRunning:
		parts = append(parts, "Survive the robots!")
	case game.StatusLost:
		parts = append(parts, lostStyle.Render("GAME OVER: the player died"))
	case game.StatusWon:
		parts = append(parts, wonStyle.Render("YOU SURVIVED!"))
	}
	parts = append(parts, "")

	round := fmt.Sprintf("Round:  %d", state.Round)
	if state.MaxRounds > 0 {
		round += fmt.Sprintf("/%d", state.MaxRounds)
	}
	parts = append(parts, round)
	parts = append(parts, fmt.Sprintf("Robots: %d", len(state.Robots)))
	parts = append(parts, fmt.Sprintf("Player: %s", state.Player.Pos))
	parts = append(parts, "")

	parts = append(parts, dimStyle.Render("Log:"))
	msgs := state.Messages
	if len(msgs) > messageLines {
		msgs = msgs[len(msgs)-messageLines:]
	}
	for _, m := range msgs {
		parts = append(parts, "  "+m)
	}

	parts = append(parts, "")
	parts = append(parts, dimStyle.Render("WASD/Arrows: Move | Space: Stand | Q: Quit"))

	return hudBorderStyle.Render(strings.Join(parts, "\n"))
}
