package tables

// ODMatrix is the preloaded origin-destination travel-time lookup, in
// seconds. Not every (origin, destination) pair is guaranteed to be
// present; a miss is reported via the ok return so callers can apply
// their own fallback (spec.md §4.1: substitute 60s, or fail UNKNOWN_GRID,
// depending on call site).
type ODMatrix struct {
	ids  []GridID
	data map[GridID]map[GridID]float64
}

// NewODMatrix builds an ODMatrix from the row/column grid-id order and a
// dense seconds matrix of the same dimensions.
func NewODMatrix(ids []GridID, seconds [][]float64) *ODMatrix {
	m := &ODMatrix{
		ids:  ids,
		data: make(map[GridID]map[GridID]float64, len(ids)),
	}
	for i, origin := range ids {
		row := make(map[GridID]float64, len(ids))
		for j, dest := range ids {
			if i < len(seconds) && j < len(seconds[i]) {
				row[dest] = seconds[i][j]
			}
		}
		m.data[origin] = row
	}
	return m
}

// Lookup returns the base travel time in seconds between origin and
// destination, and whether the pair was present in the matrix.
func (m *ODMatrix) Lookup(origin, destination GridID) (float64, bool) {
	row, ok := m.data[origin]
	if !ok {
		return 0, false
	}
	v, ok := row[destination]
	return v, ok
}

// Has reports whether grid id g appears as a row (origin) in the matrix.
func (m *ODMatrix) Has(g GridID) bool {
	_, ok := m.data[g]
	return ok
}
