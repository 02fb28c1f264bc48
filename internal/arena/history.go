package arena

// History is the append-only log of cells visited by the player,
// one entry per turn.
// The zero value is an empty log.
type History struct {
	entries []Position
	visits  map[Position]int
}

// Record appends a visit to (row, col).
func (h *History) Record(row, col int) {
	pos := Position{Row: row, Col: col}
	h.entries = append(h.entries, pos)
	if h.visits == nil {
		h.visits = make(map[Position]int)
	}
	h.visits[pos]++
}

// Len returns the number of recorded turns.
func (h *History) Len() int {
	return len(h.entries)
}

// Entries returns a copy of the log in insertion order.
func (h *History) Entries() []Position {
	out := make([]Position, len(h.entries))
	copy(out, h.entries)
	return out
}

// Last returns the most recent entry, if any.
func (h *History) Last() (Position, bool) {
	if len(h.entries) == 0 {
		return Position{}, false
	}
	return h.entries[len(h.entries)-1], true
}

// Visits counts how many turns ended on (row, col).
func (h *History) Visits(row, col int) int {
	return h.visits[Position{Row: row, Col: col}]
}
