package game

import (
	"fmt"

	"github.com/amalg/go-robots/internal/arena"
)

// ActionType is the kind of turn the player takes.
type ActionType int

const (
	ActionStand ActionType = iota
	ActionMove
)

// Action is the player's input for one turn.
type Action struct {
	Type ActionType      `json:"type"`
	Dir  arena.Direction `json:"dir"` // Only relevant for ActionMove
}

// Stand and Move build the two kinds of Action.
func Stand() Action                 { return Action{Type: ActionStand} }
func Move(d arena.Direction) Action { return Action{Type: ActionMove, Dir: d} }

// Status is the current game phase.
type Status int

const (
	StatusRunning Status = iota // Player alive, rounds remain
	StatusLost                  // Player died
	StatusWon                   // Player survived every round
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusLost:
		return "lost"
	case StatusWon:
		return "won"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Strategy selects how robots pick their moves.
type Strategy string

const (
	StrategyRandom Strategy = "random"
	StrategyChase  Strategy = "chase"
)

// Config holds configurable parameters for a game session. It replaces
// process-wide game globals: the seed and strategy travel with the session.
type Config struct {
	Rows        int      `json:"rows"`
	Cols        int      `json:"cols"`
	Robots      int      `json:"robots"`
	WallDensity float64  `json:"wall_density"` // 0.0 to 0.5
	Seed        int64    `json:"seed"`         // 0 means time-based
	Strategy    Strategy `json:"strategy"`
	MaxRounds   int      `json:"max_rounds"` // 0 means unlimited
}

// DefaultConfig returns a sensible default game configuration.
func DefaultConfig() Config {
	return Config{
		Rows:        10,
		Cols:        12,
		Robots:      6,
		WallDensity: 0.1,
		Strategy:    StrategyRandom,
	}
}

// Validate checks the config against the arena limits.
func (c Config) Validate() error {
	if c.Rows < 1 || c.Rows > arena.MaxRows || c.Cols < 1 || c.Cols > arena.MaxCols {
		return &arena.ConfigError{
			Err: fmt.Errorf("%w: %dx%d (max %dx%d)", arena.ErrBadDimensions, c.Rows, c.Cols, arena.MaxRows, arena.MaxCols),
		}
	}
	if c.Robots < 0 || c.Robots > arena.MaxRobots {
		return &arena.ConfigError{Err: fmt.Errorf("%w: %d (max %d)", arena.ErrTooManyRobots, c.Robots, arena.MaxRobots)}
	}
	if c.WallDensity < 0 || c.WallDensity > 0.5 {
		return fmt.Errorf("wall density %.2f outside [0, 0.5]", c.WallDensity)
	}
	if c.MaxRounds < 0 {
		return fmt.Errorf("max rounds %d is negative", c.MaxRounds)
	}
	switch c.Strategy {
	case StrategyRandom, StrategyChase:
	default:
		return fmt.Errorf("unknown robot strategy %q", c.Strategy)
	}
	return nil
}

// ActorView is the display-facing state of one actor.
type ActorView struct {
	ID   string         `json:"id"`
	Pos  arena.Position `json:"pos"`
	Dead bool           `json:"dead,omitempty"`
}

// Snapshot is a deep copy of a session, safe for rendering or serialization.
type Snapshot struct {
	SessionID string           `json:"session_id"`
	Rows      int              `json:"rows"`
	Cols      int              `json:"cols"`
	Terrain   arena.Terrain    `json:"terrain"`
	Player    ActorView        `json:"player"`
	Robots    []ActorView      `json:"robots"`
	History   []arena.Position `json:"history"`
	Round     int              `json:"round"`
	MaxRounds int              `json:"max_rounds"`
	Status    Status           `json:"status"`
	Messages  []string         `json:"messages"`
}

// RobotsAt counts robots at pos in the snapshot.
func (s *Snapshot) RobotsAt(pos arena.Position) int {
	n := 0
	for _, r := range s.Robots {
		if r.Pos == pos {
			n++
		}
	}
	return n
}

// TurnResult reports what happened during one Step.
type TurnResult struct {
	Outcome arena.Outcome `json:"outcome"`
	Caught  bool          `json:"caught,omitempty"` // A robot moved onto the player
	Round   int           `json:"round"`
	Status  Status        `json:"status"`
}
