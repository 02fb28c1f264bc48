package arena

import (
	"github.com/google/uuid"
)

// Player is the human-controlled actor. Once dead it stays dead.
type Player struct {
	id    uuid.UUID
	arena *Arena
	row   int
	col   int
	dead  bool
}

// NewPlayer creates a player at (row, col) in a. It fails with a
// *ConfigError if a is nil or the cell cannot be occupied.
// It does not register the player with the arena; see Arena.AddPlayer.
func NewPlayer(a *Arena, row, col int) (*Player, error) {
	if err := checkPlacement(a, "player", row, col); err != nil {
		return nil, err
	}
	return &Player{
		id:    uuid.New(),
		arena: a,
		row:   row,
		col:   col,
	}, nil
}

func (p *Player) ID() uuid.UUID { return p.id }
func (p *Player) Row() int      { return p.row }
func (p *Player) Col() int      { return p.col }
func (p *Player) Pos() Position { return Position{Row: p.row, Col: p.col} }
func (p *Player) IsDead() bool  { return p.dead }

// Stand keeps the player in place and logs the turn.
func (p *Player) Stand() Outcome {
	if p.dead {
		return Outcome{Kind: Rejected, Message: MsgDead}
	}
	p.arena.history.Record(p.row, p.col)
	return Outcome{Kind: Stood, Message: MsgStand}
}

// Move steps the player one cell in dir.
//
// A blocked step leaves the player in place. A step onto a robot kills the
// player, who remains shown on the fatal cell. Blocked and survived steps
// append one history entry; the fatal step appends none.
func (p *Player) Move(dir Direction) Outcome {
	if p.dead {
		return Outcome{Kind: Rejected, Message: MsgDead}
	}

	newRow, newCol, ok := AttemptMove(p.arena, dir, p.row, p.col)
	if !ok {
		p.arena.history.Record(p.row, p.col)
		return Outcome{Kind: Blocked, Message: MsgBlocked}
	}

	p.row, p.col = newRow, newCol
	if p.arena.NumberOfRobotsAt(p.row, p.col) > 0 {
		p.setDead()
		return Outcome{Kind: Died, Message: MsgDied}
	}
	p.arena.history.Record(p.row, p.col)
	return Outcome{Kind: Moved, Message: movedMessage(dir)}
}

func (p *Player) setDead() {
	p.dead = true
}
