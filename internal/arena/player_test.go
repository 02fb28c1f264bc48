package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttemptMove(t *testing.T) {
	terrain := NewTerrain(5, 5)
	terrain[2][3] = Wall // (3,4)
	a, err := NewArenaWithTerrain(5, 5, terrain)
	require.NoError(t, err)

	tests := []struct {
		name     string
		dir      Direction
		row, col int
		wantRow  int
		wantCol  int
		wantOK   bool
	}{
		{"north", North, 3, 3, 2, 3, true},
		{"south", South, 3, 3, 4, 3, true},
		{"west", West, 3, 3, 3, 2, true},
		{"east into wall", East, 3, 3, 3, 3, false},
		{"off top edge", North, 1, 2, 1, 2, false},
		{"off left edge", West, 1, 1, 1, 1, false},
		{"off bottom edge", South, 5, 5, 5, 5, false},
		{"off right edge", East, 2, 5, 2, 5, false},
		{"invalid direction", Direction(7), 3, 3, 3, 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, c, ok := AttemptMove(a, tt.dir, tt.row, tt.col)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantRow, r)
			assert.Equal(t, tt.wantCol, c)
		})
	}

	_, _, ok := AttemptMove(nil, North, 3, 3)
	assert.False(t, ok)
}

func TestAttemptMoveIsPure(t *testing.T) {
	a := newTestArena(t, 5, 5)
	p, err := a.AddPlayer(3, 3)
	require.NoError(t, err)

	AttemptMove(a, North, p.Row(), p.Col())
	assert.Equal(t, Position{Row: 3, Col: 3}, p.Pos())
	assert.Equal(t, 0, a.History().Len())
}

func TestPlayerStand(t *testing.T) {
	a := newTestArena(t, 5, 5)
	p, err := a.AddPlayer(3, 3)
	require.NoError(t, err)

	out := p.Stand()
	assert.Equal(t, Stood, out.Kind)
	assert.Equal(t, "Player stands.", out.Message)
	assert.Equal(t, Position{Row: 3, Col: 3}, p.Pos())
	assert.Equal(t, []Position{{Row: 3, Col: 3}}, a.History().Entries())
}

func TestPlayerMoveNorth(t *testing.T) {
	a := newTestArena(t, 5, 5)
	p, err := a.AddPlayer(3, 3)
	require.NoError(t, err)

	out := p.Move(North)
	assert.Equal(t, Moved, out.Kind)
	assert.Equal(t, "Player moved north.", out.Message)
	assert.Equal(t, Position{Row: 2, Col: 3}, p.Pos())
	assert.False(t, p.IsDead())
	assert.Equal(t, 1, a.History().Len())

	last, ok := a.History().Last()
	require.True(t, ok)
	assert.Equal(t, Position{Row: 2, Col: 3}, last)
}

func TestPlayerMoveMessages(t *testing.T) {
	a := newTestArena(t, 5, 5)
	p, err := a.AddPlayer(3, 3)
	require.NoError(t, err)

	assert.Equal(t, "Player moved east.", p.Move(East).Message)
	assert.Equal(t, "Player moved south.", p.Move(South).Message)
	assert.Equal(t, "Player moved west.", p.Move(West).Message)
	assert.Equal(t, Position{Row: 4, Col: 3}, p.Pos())
}

func TestPlayerWalksIntoRobot(t *testing.T) {
	a := newTestArena(t, 5, 5)
	_, err := a.AddRobot(2, 3)
	require.NoError(t, err)
	p, err := a.AddPlayer(3, 3)
	require.NoError(t, err)

	out := p.Move(North)
	assert.Equal(t, Died, out.Kind)
	assert.Equal(t, "Player walked into a robot and died.", out.Message)
	assert.True(t, p.IsDead())
	assert.Equal(t, Position{Row: 2, Col: 3}, p.Pos())
	// The fatal step is not logged
	assert.Zero(t, a.History().Len())

	// Dead players may not act again
	for _, out := range []Outcome{p.Move(South), p.Move(East), p.Stand()} {
		assert.Equal(t, Rejected, out.Kind)
		assert.Equal(t, "Player is dead.", out.Message)
	}
	assert.True(t, p.IsDead())
	assert.Equal(t, Position{Row: 2, Col: 3}, p.Pos())
	assert.Zero(t, a.History().Len())

	// The corpse is still where it fell
	assert.Equal(t, 1, a.NumberOfRobotsAt(2, 3))
}

func TestPlayerBlockedAtCorner(t *testing.T) {
	a := newTestArena(t, 5, 5)
	p, err := a.AddPlayer(1, 1)
	require.NoError(t, err)

	for _, d := range []Direction{West, North} {
		out := p.Move(d)
		assert.Equal(t, Blocked, out.Kind)
		assert.Equal(t, "Player couldn't move; player stands.", out.Message)
		assert.Equal(t, Position{Row: 1, Col: 1}, p.Pos())
	}
	assert.Equal(t, []Position{{Row: 1, Col: 1}, {Row: 1, Col: 1}}, a.History().Entries())
}

func TestPlayerBlockedByWall(t *testing.T) {
	terrain := NewTerrain(3, 3)
	terrain[0][1] = Wall // (1,2)
	a, err := NewArenaWithTerrain(3, 3, terrain)
	require.NoError(t, err)
	p, err := a.AddPlayer(2, 2)
	require.NoError(t, err)

	out := p.Move(North)
	assert.Equal(t, Blocked, out.Kind)
	assert.Equal(t, Position{Row: 2, Col: 2}, p.Pos())
	assert.Equal(t, 1, a.History().Len())
}

func TestHistoryGrowsOncePerTurn(t *testing.T) {
	a := newTestArena(t, 4, 4)
	p, err := a.AddPlayer(2, 2)
	require.NoError(t, err)

	turns := []func() Outcome{
		p.Stand,
		func() Outcome { return p.Move(North) },
		func() Outcome { return p.Move(North) }, // blocked
		func() Outcome { return p.Move(East) },
		p.Stand,
		func() Outcome { return p.Move(South) },
	}
	for i, turn := range turns {
		turn()
		assert.Equal(t, i+1, a.History().Len())
		assert.True(t, a.InBounds(p.Row(), p.Col()))
	}

	assert.Equal(t, []Position{
		{Row: 2, Col: 2},
		{Row: 1, Col: 2},
		{Row: 1, Col: 2},
		{Row: 1, Col: 3},
		{Row: 1, Col: 3},
		{Row: 2, Col: 3},
	}, a.History().Entries())
	assert.Equal(t, 2, a.History().Visits(1, 2))
	assert.Equal(t, 0, a.History().Visits(4, 4))
}

func TestHistoryEntriesIsCopy(t *testing.T) {
	var h History
	h.Record(1, 1)
	entries := h.Entries()
	entries[0] = Position{Row: 9, Col: 9}

	last, ok := h.Last()
	require.True(t, ok)
	assert.Equal(t, Position{Row: 1, Col: 1}, last)

	var empty History
	_, ok = empty.Last()
	assert.False(t, ok)
	assert.Zero(t, empty.Visits(1, 1))

	h.Record(1, 1)
	assert.Equal(t, 2, h.Visits(1, 1))
}
