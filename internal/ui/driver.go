package ui

import (
	"sync"

	"github.com/amalg/go-robots/internal/game"
)

// Driver feeds the UI with state and carries the player's actions to a
// game, local or remote. network.Client implements it.
type Driver interface {
	Act(a game.Action) error
	States() <-chan game.Snapshot
	Close() error
}

// LocalDriver plays a Session in-process.
type LocalDriver struct {
	session *game.Session
	states  chan game.Snapshot

	mu     sync.Mutex // Guards states against a send after close
	closed bool
}

// NewLocalDriver wraps s and queues its current state.
func NewLocalDriver(s *game.Session) *LocalDriver {
	d := &LocalDriver{
		session: s,
		states:  make(chan game.Snapshot, 10),
	}
	s.OnTurn(d.push)
	d.push(s.Snapshot())
	return d
}

// Act plays one turn. The new state arrives on States.
func (d *LocalDriver) Act(a game.Action) error {
	_, err := d.session.Step(a)
	return err
}

func (d *LocalDriver) States() <-chan game.Snapshot {
	return d.states
}

// Close detaches from the session and closes the state channel.
func (d *LocalDriver) Close() error {
	d.session.OnTurn(nil)

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.closed {
		d.closed = true
		close(d.states)
	}
	return nil
}

// push never blocks: a slow reader only misses stale states. A Step that
// picked up the callback before Close may still call it; that state is
// dropped.
func (d *LocalDriver) push(s game.Snapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	select {
	case d.states <- s:
	default:
		select {
		case <-d.states:
		default:
		}
		d.states <- s
	}
}
