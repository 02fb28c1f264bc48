package arena

import (
	"errors"
	"fmt"
)

var (
	ErrNoArena       = errors.New("actor must be created in some arena")
	ErrOutOfBounds   = errors.New("coordinates out of bounds")
	ErrBlockedCell   = errors.New("cell is blocked by terrain")
	ErrBadDimensions = errors.New("invalid arena dimensions")
	ErrTooManyRobots = errors.New("too many robots")
	ErrPlayerExists  = errors.New("arena already has a player")
)

// ConfigError reports a setup mistake that leaves the arena unusable.
// Callers should treat it as fatal.
type ConfigError struct {
	What string
	Row  int
	Col  int
	Err  error
}

func (e *ConfigError) Error() string {
	if e.What == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s (%d,%d): %v", e.What, e.Row, e.Col, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
