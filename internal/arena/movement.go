package arena

// AttemptMove computes a single step from (row, col) in direction dir.
// The step fails when the target is off the grid, is a wall, or dir is not
// a compass direction; the starting cell is returned in that case.
// It has no side effects.
func AttemptMove(a *Arena, dir Direction, row, col int) (int, int, bool) {
	if a == nil || !dir.Valid() {
		return row, col, false
	}

	dr, dc := dir.Delta()
	newRow, newCol := row+dr, col+dc

	// Bounds and terrain
	if !a.CanEnter(newRow, newCol) {
		return row, col, false
	}

	return newRow, newCol, true
}
