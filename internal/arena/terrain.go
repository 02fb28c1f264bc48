package arena

import (
	"math/rand"
)

// TileType is the terrain of a single cell.
type TileType int

const (
	Empty TileType = iota
	Wall           // Blocks every actor
)

// Terrain is a rows × cols tile grid, indexed [row-1][col-1].
type Terrain [][]TileType

// NewTerrain returns an all-empty grid.
func NewTerrain(rows, cols int) Terrain {
	t := make(Terrain, rows)
	for r := range t {
		t[r] = make([]TileType, cols)
	}
	return t
}

// GenerateTerrain scatters walls at the given density.
//
// Layout rules:
//   - Cells listed in keepClear and their orthogonal neighbours stay Empty
//   - Every other cell becomes a Wall with probability density
func GenerateTerrain(rows, cols int, density float64, rng *rand.Rand, keepClear ...Position) Terrain {
	t := NewTerrain(rows, cols)
	if density <= 0 || rng == nil {
		return t
	}

	safe := makeSafeSet(keepClear)
	for r := 1; r <= rows; r++ {
		for c := 1; c <= cols; c++ {
			if safe[Position{Row: r, Col: c}] {
				continue
			}
			if rng.Float64() < density {
				t[r-1][c-1] = Wall
			}
		}
	}
	return t
}

// makeSafeSet returns the cells that must stay clear: each given cell plus
// its four neighbours, so a spawn point is never walled in.
func makeSafeSet(cells []Position) map[Position]bool {
	safe := make(map[Position]bool)
	for _, p := range cells {
		safe[p] = true
		for _, d := range Directions {
			safe[p.Step(d)] = true
		}
	}
	return safe
}

// At returns the tile at (row, col). Out-of-range cells read as Wall.
func (t Terrain) At(row, col int) TileType {
	if row < 1 || row > len(t) || col < 1 || col > len(t[row-1]) {
		return Wall
	}
	return t[row-1][col-1]
}

// Clone returns a deep copy.
func (t Terrain) Clone() Terrain {
	out := make(Terrain, len(t))
	for r := range t {
		out[r] = make([]TileType, len(t[r]))
		copy(out[r], t[r])
	}
	return out
}
