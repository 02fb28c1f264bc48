package game

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/amalg/go-robots/internal/arena"
)

// maxMessages bounds the session's message log.
const maxMessages = 50

var (
	ErrGameOver      = errors.New("game is over")
	ErrInvalidAction = errors.New("invalid action")
)

// Session is the turn controller for one arena. Each turn the player acts,
// then every robot moves. Steps are serialized so snapshots can be read
// from other goroutines; sessions never share state with each other.
type Session struct {
	ID     uuid.UUID
	Config Config

	arena    *arena.Arena
	rng      *rand.Rand
	choose   chooser
	status   Status
	round    int
	messages []string
	logger   *zap.Logger
	mu       sync.Mutex
	onTurn   func(Snapshot) // Callback after each step with a COPY of state
}

// NewSession builds the arena described by cfg: terrain, the player in the
// centre cell and robots on random free cells away from the player.
// Configuration problems are returned as *arena.ConfigError where they
// concern the arena itself.
func NewSession(cfg Config, logger *zap.Logger) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	start := arena.Position{Row: (cfg.Rows + 1) / 2, Col: (cfg.Cols + 1) / 2}
	terrain := arena.GenerateTerrain(cfg.Rows, cfg.Cols, cfg.WallDensity, rng, start)
	a, err := arena.NewArenaWithTerrain(cfg.Rows, cfg.Cols, terrain)
	if err != nil {
		return nil, fmt.Errorf("create arena: %w", err)
	}
	if _, err := a.AddPlayer(start.Row, start.Col); err != nil {
		return nil, fmt.Errorf("place player: %w", err)
	}
	if err := placeRobots(a, start, cfg.Robots, rng); err != nil {
		return nil, fmt.Errorf("place robots: %w", err)
	}

	s := &Session{
		ID:     uuid.New(),
		Config: cfg,
		arena:  a,
		rng:    rng,
		status: StatusRunning,
		logger: logger,
	}
	s.choose = newChooser(cfg.Strategy, a, rng)
	s.logger = logger.With(zap.String("session", s.ID.String()))
	s.logger.Info("session created",
		zap.Int("rows", cfg.Rows),
		zap.Int("cols", cfg.Cols),
		zap.Int("robots", cfg.Robots),
		zap.Int64("seed", seed),
		zap.String("strategy", string(cfg.Strategy)),
	)
	return s, nil
}

// placeRobots puts n robots on distinct enterable cells that are neither the
// player's start nor next to it.
func placeRobots(a *arena.Arena, start arena.Position, n int, rng *rand.Rand) error {
	if n == 0 {
		return nil
	}

	var free []arena.Position
	for r := 1; r <= a.Rows(); r++ {
		for c := 1; c <= a.Cols(); c++ {
			if !a.CanEnter(r, c) || manhattan(arena.Position{Row: r, Col: c}, start) <= 1 {
				continue
			}
			free = append(free, arena.Position{Row: r, Col: c})
		}
	}
	if len(free) < n {
		return &arena.ConfigError{
			Err: fmt.Errorf("%w: %d robots but only %d free cells", arena.ErrTooManyRobots, n, len(free)),
		}
	}

	rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })
	for _, p := range free[:n] {
		if _, err := a.AddRobot(p.Row, p.Col); err != nil {
			return err
		}
	}
	return nil
}

func manhattan(a, b arena.Position) int {
	dr := a.Row - b.Row
	if dr < 0 {
		dr = -dr
	}
	dc := a.Col - b.Col
	if dc < 0 {
		dc = -dc
	}
	return dr + dc
}

// OnTurn sets a callback that is invoked after every step with a copy of
// the state. Used by the UI and the network server to push updates.
func (s *Session) OnTurn(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onTurn = fn
}

// Status returns the current game phase.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Step plays one turn: the player's action, then the robots.
// Game feedback such as a blocked move or death is reported in the
// TurnResult; errors are reserved for misuse.
// IMPORTANT: the callback runs after the lock is released, it may call
// back into the session.
func (s *Session) Step(a Action) (TurnResult, error) {
	s.mu.Lock()

	if s.status != StatusRunning {
		s.mu.Unlock()
		return TurnResult{}, ErrGameOver
	}

	res, err := s.stepLocked(a)
	if err != nil {
		s.mu.Unlock()
		return TurnResult{}, err
	}

	snap := s.snapshotLocked()
	cb := s.onTurn
	s.mu.Unlock()

	if cb != nil {
		cb(snap)
	}
	return res, nil
}

// stepLocked MUST be called while s.mu is held.
func (s *Session) stepLocked(a Action) (TurnResult, error) {
	p := s.arena.Player()

	var out arena.Outcome
	switch a.Type {
	case ActionStand:
		out = p.Stand()
	case ActionMove:
		out = p.Move(a.Dir)
	default:
		return TurnResult{}, fmt.Errorf("%w: type %d", ErrInvalidAction, a.Type)
	}

	s.round++
	s.addMessage(out.Message)
	res := TurnResult{Outcome: out}

	if !p.IsDead() && s.arena.MoveRobots(s.choose) {
		res.Caught = true
		s.addMessage(arena.MsgCaught)
	}

	switch {
	case p.IsDead():
		s.status = StatusLost
	case s.Config.MaxRounds > 0 && s.round >= s.Config.MaxRounds:
		s.status = StatusWon
		s.addMessage(fmt.Sprintf("Player survived %d rounds.", s.round))
	}

	res.Round = s.round
	res.Status = s.status

	s.logger.Debug("turn",
		zap.Int("round", s.round),
		zap.String("outcome", out.Kind.String()),
		zap.Stringer("pos", p.Pos()),
		zap.Bool("caught", res.Caught),
		zap.Stringer("status", s.status),
	)
	if s.status != StatusRunning {
		s.logger.Info("game over", zap.Int("round", s.round), zap.Stringer("status", s.status))
	}
	return res, nil
}

func (s *Session) addMessage(msg string) {
	s.messages = append(s.messages, msg)
	if len(s.messages) > maxMessages {
		s.messages = s.messages[len(s.messages)-maxMessages:]
	}
}

// Snapshot returns a deep copy of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// snapshotLocked MUST be called while s.mu is held.
func (s *Session) snapshotLocked() Snapshot {
	p := s.arena.Player()

	robots := s.arena.Robots()
	robotViews := make([]ActorView, len(robots))
	for i, r := range robots {
		robotViews[i] = ActorView{ID: r.ID().String(), Pos: r.Pos()}
	}

	messages := make([]string, len(s.messages))
	copy(messages, s.messages)

	return Snapshot{
		SessionID: s.ID.String(),
		Rows:      s.arena.Rows(),
		Cols:      s.arena.Cols(),
		Terrain:   s.arena.Terrain(),
		Player:    ActorView{ID: p.ID().String(), Pos: p.Pos(), Dead: p.IsDead()},
		Robots:    robotViews,
		History:   s.arena.History().Entries(),
		Round:     s.round,
		MaxRounds: s.Config.MaxRounds,
		Status:    s.status,
		Messages:  messages,
	}
}
