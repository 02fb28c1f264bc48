package arena

import (
	"fmt"
	"strings"
)

// Limits on arena size and population.
const (
	MaxRows   = 20
	MaxCols   = 20
	MaxRobots = 100
)

// Direction is one of the four compass moves.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// Directions lists every direction in a fixed order.
var Directions = [...]Direction{North, East, South, West}

// Delta returns the (row, col) offset of a single step in d.
// North decreases the row, East increases the column.
func (d Direction) Delta() (int, int) {
	switch d {
	case North:
		return -1, 0
	case East:
		return 0, 1
	case South:
		return 1, 0
	case West:
		return 0, -1
	default:
		return 0, 0
	}
}

// Valid reports whether d is one of the four compass directions.
func (d Direction) Valid() bool {
	return d >= North && d <= West
}

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// ParseDirection accepts full names and single-letter abbreviations.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "north", "n":
		return North, nil
	case "east", "e":
		return East, nil
	case "south", "s":
		return South, nil
	case "west", "w":
		return West, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// Position is a 1-indexed cell on the grid.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Step returns the neighbouring cell in direction d. No bounds check.
func (p Position) Step(d Direction) Position {
	dr, dc := d.Delta()
	return Position{Row: p.Row + dr, Col: p.Col + dc}
}

// OutcomeKind classifies the result of a turn action.
type OutcomeKind int

const (
	Stood    OutcomeKind = iota
	Moved                // Position changed, still alive
	Blocked              // Target cell out of bounds or a wall
	Died                 // Walked into a robot
	Rejected             // Actor is dead and may not act
)

func (k OutcomeKind) String() string {
	switch k {
	case Stood:
		return "stood"
	case Moved:
		return "moved"
	case Blocked:
		return "blocked"
	case Died:
		return "died"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Outcome is the game feedback of a single action. It is never an error.
type Outcome struct {
	Kind    OutcomeKind `json:"kind"`
	Message string      `json:"message"`
}

func (o Outcome) String() string {
	return o.Message
}

// Outcome messages.
const (
	MsgStand      = "Player stands."
	MsgBlocked    = "Player couldn't move; player stands."
	MsgDied       = "Player walked into a robot and died."
	MsgDead       = "Player is dead."
	MsgCaught     = "A robot caught the player."
	msgMovePrefix = "Player moved "
)

func movedMessage(d Direction) string {
	return msgMovePrefix + d.String() + "."
}
