package game

import (
	"math/rand"

	"github.com/beefsack/go-astar"

	"github.com/amalg/go-robots/internal/arena"
)

// chooser picks the direction a robot moves this round.
type chooser func(r *arena.Robot) arena.Direction

// newChooser returns the robot move picker for the given strategy.
func newChooser(s Strategy, a *arena.Arena, rng *rand.Rand) chooser {
	random := func(*arena.Robot) arena.Direction {
		return arena.Directions[rng.Intn(len(arena.Directions))]
	}
	if s != StrategyChase {
		return random
	}

	return func(r *arena.Robot) arena.Direction {
		p := a.Player()
		if p == nil {
			return random(r)
		}
		if d, ok := chaseStep(a, r.Pos(), p.Pos()); ok {
			return d
		}
		return random(r)
	}
}

// chaseStep returns the first direction on a shortest walkable path from
// `from` to `to`. It fails when no path exists or from == to.
func chaseStep(a *arena.Arena, from, to arena.Position) (arena.Direction, bool) {
	path, _, found := astar.Path(pathCell{a: a, pos: from}, pathCell{a: a, pos: to})
	// Path runs from the goal back to the start.
	if !found || len(path) < 2 {
		return 0, false
	}
	next := path[len(path)-2].(pathCell).pos
	for _, d := range arena.Directions {
		if from.Step(d) == next {
			return d, true
		}
	}
	return 0, false
}

// pathCell adapts an arena cell to astar.Pather.
type pathCell struct {
	a   *arena.Arena
	pos arena.Position
}

func (c pathCell) PathNeighbors() []astar.Pather {
	neighbors := make([]astar.Pather, 0, len(arena.Directions))
	for _, d := range arena.Directions {
		n := c.pos.Step(d)
		if c.a.CanEnter(n.Row, n.Col) {
			neighbors = append(neighbors, pathCell{a: c.a, pos: n})
		}
	}
	return neighbors
}

func (c pathCell) PathNeighborCost(to astar.Pather) float64 {
	return 1
}

// PathEstimatedCost is the Manhattan distance, exact on an open grid.
func (c pathCell) PathEstimatedCost(to astar.Pather) float64 {
	t := to.(pathCell).pos
	dr := c.pos.Row - t.Row
	if dr < 0 {
		dr = -dr
	}
	dc := c.pos.Col - t.Col
	if dc < 0 {
		dc = -dc
	}
	return float64(dr + dc)
}
