package tables

import "testing"

func newTestTables(t *testing.T, skipStationIndex int) *Tables {
	t.Helper()
	od := NewODMatrix([]GridID{1, 2}, [][]float64{
		{0, 300},
		{300, 0},
	})
	stations := []Depot{
		{Name: "Depot A", Type: DepotTypeDepot, Grid: 1},
		{Name: "Depot B", Type: DepotTypeDepot, Grid: 2},
		{Name: "Hospital", Type: DepotTypeHospital, Grid: 2},
	}
	tbl, err := NewTables(od, TrafficTable{}, stations, UrbanMethod5km, skipStationIndex)
	if err != nil {
		t.Fatalf("NewTables: %v", err)
	}
	return tbl
}

func TestActiveDepotIndicesExcludesHospitalsAndSkipped(t *testing.T) {
	tbl := newTestTables(t, -1)
	got := tbl.ActiveDepotIndices()
	if len(got) != 2 {
		t.Fatalf("expected 2 active depots, got %v", got)
	}
}

func TestSkipStationIndexExcludesDepot(t *testing.T) {
	tbl := newTestTables(t, 0)
	got := tbl.ActiveDepotIndices()
	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("expected only depot index 1 active, got %v", got)
	}
}

func TestODMatrixLookupMiss(t *testing.T) {
	tbl := newTestTables(t, -1)
	if _, ok := tbl.OD.Lookup(1, 99); ok {
		t.Fatalf("expected miss for unknown destination")
	}
}

func TestNewTablesRejectsEmptyStations(t *testing.T) {
	od := NewODMatrix(nil, nil)
	if _, err := NewTables(od, TrafficTable{}, nil, UrbanMethod5km, -1); err == nil {
		t.Fatalf("expected error for empty station table")
	}
}
