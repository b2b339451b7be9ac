package tables

import "fmt"

// Tables bundles the three read-only, process-wide reference datasets:
// the OD matrix, the station table, and the traffic table. It is
// constructed once at startup and passed by reference into every
// constructor that needs it; none of its fields are ever mutated after
// NewTables returns.
type Tables struct {
	OD       *ODMatrix
	Traffic  TrafficTable
	Stations []Depot

	urbanMethod UrbanMethod

	// active holds the indices into Stations usable as allocation depots,
	// i.e. IsStation() rows with SKIP_STATION_INDEX excluded. Index
	// stability into Stations is preserved; "active" only filters which
	// indices participate in allocation/dispatch.
	active []int
}

// NewTables validates and assembles a Tables value. skipStationIndex < 0
// disables the exclusion (SPEC_FULL §4 "SKIP_STATION_INDEX").
func NewTables(od *ODMatrix, traffic TrafficTable, stations []Depot, urbanMethod UrbanMethod, skipStationIndex int) (*Tables, error) {
	if od == nil {
		return nil, fmt.Errorf("tables: OD matrix is nil: %w", ErrIOMissing)
	}
	if len(stations) == 0 {
		return nil, fmt.Errorf("tables: station table is empty: %w", ErrIOMissing)
	}

	t := &Tables{
		OD:          od,
		Traffic:     traffic,
		Stations:    stations,
		urbanMethod: urbanMethod,
	}
	for i, d := range stations {
		if !d.IsStation() {
			continue
		}
		if i == skipStationIndex {
			continue
		}
		t.active = append(t.active, i)
	}
	if len(t.active) == 0 {
		return nil, fmt.Errorf("tables: no active depots after applying SKIP_STATION_INDEX=%d: %w", skipStationIndex, ErrConfigInvalid)
	}
	return t, nil
}

// ActiveDepotIndices returns the indices into Stations usable as
// allocation/dispatch targets, in stable ascending order. This is the D
// in the T×D genotype (spec.md §3).
func (t *Tables) ActiveDepotIndices() []int {
	return t.active
}

// IsUrban resolves the configured urbanity method for depot index i.
func (t *Tables) IsUrban(stationIndex int) bool {
	return IsUrban(t.Stations[stationIndex], t.urbanMethod)
}

// Hospitals returns the indices of rows tagged Hospital.
func (t *Tables) Hospitals() []int {
	var out []int
	for i, d := range t.Stations {
		if d.Type == DepotTypeHospital {
			out = append(out, i)
		}
	}
	return out
}
