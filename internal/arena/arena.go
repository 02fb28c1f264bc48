package arena

import (
	"fmt"
)

// Arena is the fixed-size grid the player and robots live in.
// It holds references to its actors but does not validate their moves.
type Arena struct {
	rows    int
	cols    int
	terrain Terrain
	player  *Player
	robots  []*Robot
	history History
}

// NewArena creates an empty arena with no terrain.
func NewArena(rows, cols int) (*Arena, error) {
	return NewArenaWithTerrain(rows, cols, nil)
}

// NewArenaWithTerrain creates an arena using the given tile grid.
// A nil terrain means every cell is Empty.
func NewArenaWithTerrain(rows, cols int, terrain Terrain) (*Arena, error) {
	if rows < 1 || rows > MaxRows || cols < 1 || cols > MaxCols {
		return nil, &ConfigError{
			Err: fmt.Errorf("%w: %dx%d (max %dx%d)", ErrBadDimensions, rows, cols, MaxRows, MaxCols),
		}
	}
	if terrain == nil {
		terrain = NewTerrain(rows, cols)
	}
	if len(terrain) != rows {
		return nil, &ConfigError{Err: fmt.Errorf("%w: terrain has %d rows, want %d", ErrBadDimensions, len(terrain), rows)}
	}
	for r := range terrain {
		if len(terrain[r]) != cols {
			return nil, &ConfigError{Err: fmt.Errorf("%w: terrain row %d has %d cols, want %d", ErrBadDimensions, r+1, len(terrain[r]), cols)}
		}
	}
	return &Arena{
		rows:    rows,
		cols:    cols,
		terrain: terrain.Clone(),
	}, nil
}

func (a *Arena) Rows() int { return a.rows }
func (a *Arena) Cols() int { return a.cols }

// History returns the shared visit log.
func (a *Arena) History() *History {
	return &a.history
}

// Terrain returns a copy of the tile grid.
func (a *Arena) Terrain() Terrain {
	return a.terrain.Clone()
}

// InBounds reports whether (row, col) lies on the grid.
func (a *Arena) InBounds(row, col int) bool {
	return row >= 1 && row <= a.rows && col >= 1 && col <= a.cols
}

// CanEnter reports whether an actor may occupy (row, col).
func (a *Arena) CanEnter(row, col int) bool {
	return a.InBounds(row, col) && a.terrain.At(row, col) != Wall
}

// Player returns the arena's player, or nil if none was added.
func (a *Arena) Player() *Player {
	return a.player
}

// Robots returns the robots in creation order.
func (a *Arena) Robots() []*Robot {
	out := make([]*Robot, len(a.robots))
	copy(out, a.robots)
	return out
}

func (a *Arena) RobotCount() int {
	return len(a.robots)
}

// NumberOfRobotsAt counts robots at (row, col). Empty and out-of-range
// cells both report 0.
func (a *Arena) NumberOfRobotsAt(row, col int) int {
	n := 0
	for _, r := range a.robots {
		if r.row == row && r.col == col {
			n++
		}
	}
	return n
}

// AddPlayer creates the arena's player at (row, col).
func (a *Arena) AddPlayer(row, col int) (*Player, error) {
	if a.player != nil {
		return nil, &ConfigError{What: "player", Row: row, Col: col, Err: ErrPlayerExists}
	}
	p, err := NewPlayer(a, row, col)
	if err != nil {
		return nil, err
	}
	a.player = p
	return p, nil
}

// AddRobot creates a robot at (row, col).
func (a *Arena) AddRobot(row, col int) (*Robot, error) {
	if len(a.robots) >= MaxRobots {
		return nil, &ConfigError{What: "robot", Row: row, Col: col, Err: ErrTooManyRobots}
	}
	r, err := NewRobot(a, row, col)
	if err != nil {
		return nil, err
	}
	a.robots = append(a.robots, r)
	return r, nil
}

// MoveRobots moves every robot one step in the direction chosen for it.
// A robot that ends its step on the live player's cell kills the player.
// It reports whether that happened.
func (a *Arena) MoveRobots(choose func(*Robot) Direction) bool {
	caught := false
	for _, r := range a.robots {
		r.Move(choose(r))
		if a.player != nil && !a.player.IsDead() &&
			r.row == a.player.row && r.col == a.player.col {
			a.player.setDead()
			caught = true
		}
	}
	return caught
}

// checkPlacement validates the starting cell of a new actor.
func checkPlacement(a *Arena, what string, row, col int) error {
	if a == nil {
		return &ConfigError{What: what, Row: row, Col: col, Err: ErrNoArena}
	}
	if !a.InBounds(row, col) {
		return &ConfigError{What: what, Row: row, Col: col, Err: ErrOutOfBounds}
	}
	if !a.CanEnter(row, col) {
		return &ConfigError{What: what, Row: row, Col: col, Err: ErrBlockedCell}
	}
	return nil
}
