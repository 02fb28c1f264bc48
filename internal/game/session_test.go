package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amalg/go-robots/internal/arena"
)

// openConfig is a 5x5 arena with no walls and no robots; the player starts
// at (3,3).
func openConfig() Config {
	return Config{
		Rows:     5,
		Cols:     5,
		Seed:     1,
		Strategy: StrategyRandom,
	}
}

func newTestSession(t *testing.T, cfg Config) *Session {
	t.Helper()
	s, err := NewSession(cfg, nil)
	require.NoError(t, err)
	return s
}

func TestNewSessionDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 42
	s := newTestSession(t, cfg)

	a := s.arena
	assert.Equal(t, cfg.Rows, a.Rows())
	assert.Equal(t, cfg.Cols, a.Cols())
	assert.Equal(t, cfg.Robots, a.RobotCount())
	assert.Equal(t, StatusRunning, s.Status())

	p := a.Player()
	require.NotNil(t, p)
	assert.Equal(t, arena.Position{Row: 5, Col: 6}, p.Pos())

	seen := make(map[arena.Position]bool)
	for _, r := range a.Robots() {
		assert.True(t, a.CanEnter(r.Row(), r.Col()))
		assert.Greater(t, manhattan(r.Pos(), p.Pos()), 1, "robot %v too close to player", r.Pos())
		assert.False(t, seen[r.Pos()], "robots must start on distinct cells")
		seen[r.Pos()] = true
	}
}

func TestNewSessionInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"zero rows", func(c *Config) { c.Rows = 0 }, arena.ErrBadDimensions},
		{"too many cols", func(c *Config) { c.Cols = arena.MaxCols + 1 }, arena.ErrBadDimensions},
		{"too many robots", func(c *Config) { c.Robots = arena.MaxRobots + 1 }, arena.ErrTooManyRobots},
		{"negative robots", func(c *Config) { c.Robots = -1 }, arena.ErrTooManyRobots},
		{"bad density", func(c *Config) { c.WallDensity = 0.9 }, nil},
		{"negative rounds", func(c *Config) { c.MaxRounds = -1 }, nil},
		{"bad strategy", func(c *Config) { c.Strategy = "teleport" }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := openConfig()
			tt.mutate(&cfg)
			_, err := NewSession(cfg, nil)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				var cfgErr *arena.ConfigError
				assert.True(t, errors.As(err, &cfgErr))
			}
		})
	}
}

func TestNewSessionNotEnoughRoom(t *testing.T) {
	cfg := openConfig()
	cfg.Rows, cfg.Cols = 3, 3
	cfg.Robots = 5 // Only the four corners are far enough from (2,2)

	_, err := NewSession(cfg, nil)
	assert.ErrorIs(t, err, arena.ErrTooManyRobots)

	cfg.Robots = 4
	s := newTestSession(t, cfg)
	assert.Equal(t, 4, s.arena.RobotCount())
}

func TestSessionSeedIsDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 99
	cfg.WallDensity = 0.3

	a := newTestSession(t, cfg).Snapshot()
	b := newTestSession(t, cfg).Snapshot()

	assert.Equal(t, a.Terrain, b.Terrain)
	require.Len(t, b.Robots, len(a.Robots))
	for i := range a.Robots {
		assert.Equal(t, a.Robots[i].Pos, b.Robots[i].Pos)
	}
}

func TestStepStand(t *testing.T) {
	s := newTestSession(t, openConfig())

	res, err := s.Step(Stand())
	require.NoError(t, err)
	assert.Equal(t, arena.Stood, res.Outcome.Kind)
	assert.Equal(t, 1, res.Round)
	assert.Equal(t, StatusRunning, res.Status)

	snap := s.Snapshot()
	assert.Equal(t, []arena.Position{{Row: 3, Col: 3}}, snap.History)
	assert.Equal(t, []string{"Player stands."}, snap.Messages)
}

func TestStepMoveNorth(t *testing.T) {
	s := newTestSession(t, openConfig())

	res, err := s.Step(Move(arena.North))
	require.NoError(t, err)
	assert.Equal(t, "Player moved north.", res.Outcome.Message)
	assert.Equal(t, arena.Position{Row: 2, Col: 3}, s.Snapshot().Player.Pos)
}

func TestStepWalkIntoRobot(t *testing.T) {
	s := newTestSession(t, openConfig())
	_, err := s.arena.AddRobot(2, 3)
	require.NoError(t, err)

	res, err := s.Step(Move(arena.North))
	require.NoError(t, err)
	assert.Equal(t, arena.Died, res.Outcome.Kind)
	assert.Equal(t, arena.MsgDied, res.Outcome.Message)
	assert.Equal(t, StatusLost, res.Status)
	assert.False(t, res.Caught)

	snap := s.Snapshot()
	assert.True(t, snap.Player.Dead)
	assert.Equal(t, arena.Position{Row: 2, Col: 3}, snap.Player.Pos)
	assert.Empty(t, snap.History)
	// Robots do not move once the player is dead
	assert.Equal(t, 1, snap.RobotsAt(arena.Position{Row: 2, Col: 3}))

	_, err = s.Step(Move(arena.South))
	assert.ErrorIs(t, err, ErrGameOver)
	assert.Equal(t, 1, s.Snapshot().Round)
}

func TestStepChasingRobotCatchesPlayer(t *testing.T) {
	cfg := openConfig()
	cfg.Strategy = StrategyChase
	s := newTestSession(t, cfg)
	r, err := s.arena.AddRobot(3, 5)
	require.NoError(t, err)

	res, err := s.Step(Stand())
	require.NoError(t, err)
	assert.False(t, res.Caught)
	assert.Equal(t, arena.Position{Row: 3, Col: 4}, r.Pos())

	res, err = s.Step(Stand())
	require.NoError(t, err)
	assert.True(t, res.Caught)
	assert.Equal(t, StatusLost, res.Status)
	assert.Equal(t, arena.Stood, res.Outcome.Kind)

	snap := s.Snapshot()
	assert.True(t, snap.Player.Dead)
	assert.Equal(t, arena.MsgCaught, snap.Messages[len(snap.Messages)-1])
	assert.Len(t, snap.History, 2)
}

func TestStepSurviveRounds(t *testing.T) {
	cfg := openConfig()
	cfg.MaxRounds = 3
	s := newTestSession(t, cfg)

	for i := 0; i < 3; i++ {
		_, err := s.Step(Stand())
		require.NoError(t, err)
	}
	assert.Equal(t, StatusWon, s.Status())

	_, err := s.Step(Stand())
	assert.ErrorIs(t, err, ErrGameOver)
}

func TestStepInvalidAction(t *testing.T) {
	s := newTestSession(t, openConfig())

	_, err := s.Step(Action{Type: ActionType(9)})
	assert.ErrorIs(t, err, ErrInvalidAction)

	snap := s.Snapshot()
	assert.Equal(t, 0, snap.Round)
	assert.Empty(t, snap.History)
}

func TestStepInvalidDirectionIsBlocked(t *testing.T) {
	s := newTestSession(t, openConfig())

	res, err := s.Step(Move(arena.Direction(42)))
	require.NoError(t, err)
	assert.Equal(t, arena.Blocked, res.Outcome.Kind)
	assert.Equal(t, arena.Position{Row: 3, Col: 3}, s.Snapshot().Player.Pos)
}

func TestOnTurnReceivesCopy(t *testing.T) {
	s := newTestSession(t, openConfig())

	var got []Snapshot
	s.OnTurn(func(snap Snapshot) {
		got = append(got, snap)
		// Calling back into the session must not deadlock
		_ = s.Status()
	})

	_, err := s.Step(Move(arena.East))
	require.NoError(t, err)
	_, err = s.Step(Stand())
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Round)
	assert.Equal(t, 2, got[1].Round)

	got[1].History[0] = arena.Position{Row: 9, Col: 9}
	got[1].Terrain[0][0] = arena.Wall
	snap := s.Snapshot()
	assert.Equal(t, arena.Position{Row: 3, Col: 4}, snap.History[0])
	assert.Equal(t, arena.Empty, snap.Terrain[0][0])
}

func TestMessageLogIsBounded(t *testing.T) {
	s := newTestSession(t, openConfig())
	for i := 0; i < maxMessages+10; i++ {
		_, err := s.Step(Stand())
		require.NoError(t, err)
	}
	snap := s.Snapshot()
	assert.Len(t, snap.Messages, maxMessages)
	assert.Len(t, snap.History, maxMessages+10)
}

func TestChaseStep(t *testing.T) {
	open, err := arena.NewArena(5, 5)
	require.NoError(t, err)

	d, ok := chaseStep(open, arena.Position{Row: 3, Col: 1}, arena.Position{Row: 3, Col: 4})
	require.True(t, ok)
	assert.Equal(t, arena.East, d)

	d, ok = chaseStep(open, arena.Position{Row: 5, Col: 2}, arena.Position{Row: 1, Col: 2})
	require.True(t, ok)
	assert.Equal(t, arena.North, d)

	_, ok = chaseStep(open, arena.Position{Row: 2, Col: 2}, arena.Position{Row: 2, Col: 2})
	assert.False(t, ok)

	terrain := arena.NewTerrain(1, 3)
	terrain[0][1] = arena.Wall
	split, err := arena.NewArenaWithTerrain(1, 3, terrain)
	require.NoError(t, err)
	_, ok = chaseStep(split, arena.Position{Row: 1, Col: 1}, arena.Position{Row: 1, Col: 3})
	assert.False(t, ok)
}
