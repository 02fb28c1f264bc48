package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/amalg/go-robots/internal/game"
	"github.com/amalg/go-robots/internal/logging"
	"github.com/amalg/go-robots/internal/ui"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run plays one local game. Deferred cleanup, including the final log
// flush, has finished by the time it returns.
func run(args []string, out io.Writer) error {
	defaults := game.DefaultConfig()
	fs := flag.NewFlagSet("robots", flag.ContinueOnError)
	rows := fs.Int("rows", defaults.Rows, "Arena rows")
	cols := fs.Int("cols", defaults.Cols, "Arena columns")
	robots := fs.Int("robots", defaults.Robots, "Number of robots")
	walls := fs.Float64("walls", defaults.WallDensity, "Wall density (0.0 to 0.5)")
	seed := fs.Int64("seed", 0, "RNG seed (0: time-based)")
	strategy := fs.String("strategy", string(defaults.Strategy), "Robot strategy: random or chase")
	rounds := fs.Int("rounds", 0, "Rounds to survive to win (0: unlimited)")
	logFile := fs.String("log", "", "Log file path (default: discard logs)")
	debug := fs.Bool("debug", false, "Log every turn")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Logs must never reach the terminal while the TUI is running.
	logger, err := logging.New(*logFile, *debug)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logger.Sync()

	cfg := game.Config{
		Rows:        *rows,
		Cols:        *cols,
		Robots:      *robots,
		WallDensity: *walls,
		Seed:        *seed,
		Strategy:    game.Strategy(*strategy),
		MaxRounds:   *rounds,
	}

	session, err := game.NewSession(cfg, logger)
	if err != nil {
		// A misconfigured arena cannot be played
		logger.Error("invalid configuration", zap.Error(err))
		return fmt.Errorf("invalid configuration: %w", err)
	}

	driver := ui.NewLocalDriver(session)
	defer driver.Close()

	p := tea.NewProgram(ui.NewModel(driver), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}

	snap := session.Snapshot()
	fmt.Fprintf(out, "Game %s after %d rounds. Cells visited: %d\n", snap.Status, snap.Round, len(snap.History))
	return nil
}
