package arena

import (
	"github.com/google/uuid"
)

// Robot is a computer-controlled actor. Robots may share a cell.
type Robot struct {
	id    uuid.UUID
	arena *Arena
	row   int
	col   int
}

// NewRobot creates a robot at (row, col) in a. Like NewPlayer, it does not
// register the robot; see Arena.AddRobot.
func NewRobot(a *Arena, row, col int) (*Robot, error) {
	if err := checkPlacement(a, "robot", row, col); err != nil {
		return nil, err
	}
	return &Robot{
		id:    uuid.New(),
		arena: a,
		row:   row,
		col:   col,
	}, nil
}

func (r *Robot) ID() uuid.UUID { return r.id }
func (r *Robot) Row() int      { return r.row }
func (r *Robot) Col() int      { return r.col }
func (r *Robot) Pos() Position { return Position{Row: r.row, Col: r.col} }

// Move steps the robot one cell in dir, staying put if the step is blocked.
// It reports whether the robot moved.
func (r *Robot) Move(dir Direction) bool {
	newRow, newCol, ok := AttemptMove(r.arena, dir, r.row, r.col)
	if !ok {
		return false
	}
	r.row, r.col = newRow, newCol
	return true
}
