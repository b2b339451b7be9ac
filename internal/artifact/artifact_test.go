package artifact

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Emergency-Optimizers/Simulator-sub000/internal/ambulance"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/event"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/genotype"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/tables"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/travel"
)

func fixtureTables(t *testing.T) *tables.Tables {
	t.Helper()
	od := tables.NewODMatrix([]tables.GridID{1, 2}, [][]float64{{0, 300}, {300, 0}})
	stations := []tables.Depot{
		{Name: "Depot A", Type: tables.DepotTypeDepot, Grid: 1, UrbanSettlement5km: true},
		{Name: "Depot B", Type: tables.DepotTypeDepot, Grid: 2},
	}
	tbl, err := tables.NewTables(od, tables.TrafficTable{}, stations, tables.UrbanMethod5km, -1)
	if err != nil {
		t.Fatalf("NewTables: %v", err)
	}
	return tbl
}

func TestWriteEventsCSVRoundTrips(t *testing.T) {
	tbl := fixtureTables(t)
	ev := &event.Event{ID: 1, Triage: travel.TriageAcute, DepotIndexResponsible: 0}
	ev.Metrics[event.MetricCreation] = 10
	ev.Metrics[event.MetricAppointment] = 20

	path := filepath.Join(t.TempDir(), "events.csv")
	if err := WriteEventsCSV(path, []*event.Event{ev}, tbl); err != nil {
		t.Fatalf("WriteEventsCSV: %v", err)
	}

	rows := readCSV(t, path)
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d", len(rows))
	}
	if rows[1][0] != "1" || rows[1][1] != "A" || rows[1][2] != "true" {
		t.Fatalf("unexpected row contents: %v", rows[1])
	}
}

func TestWriteAmbulancesCSV(t *testing.T) {
	amb := ambulance.New(0, 1, 2)
	amb.TimeUnavailable = 500
	path := filepath.Join(t.TempDir(), "ambulances.csv")
	if err := WriteAmbulancesCSV(path, []*ambulance.Ambulance{amb}); err != nil {
		t.Fatalf("WriteAmbulancesCSV: %v", err)
	}
	rows := readCSV(t, path)
	if rows[1][2] != "500" {
		t.Fatalf("expected time_unavailable=500, got %v", rows[1])
	}
}

func TestWriteGenotypeCSV(t *testing.T) {
	m := genotype.Matrix{{3, 2}, {1, 4}}
	path := filepath.Join(t.TempDir(), "genotype.csv")
	if err := WriteGenotypeCSV(path, m); err != nil {
		t.Fatalf("WriteGenotypeCSV: %v", err)
	}
	rows := readCSV(t, path)
	if len(rows) != 2 || rows[0][0] != "3" || rows[1][1] != "4" {
		t.Fatalf("unexpected genotype.csv contents: %v", rows)
	}
}

func TestWriteHeuristicJSONAndSummarizeGeneration(t *testing.T) {
	a := genotype.New(genotype.Matrix{{2, 2}})
	a.RawObjectives = map[genotype.ObjectiveKey]float64{genotype.ObjViolationOverall: 0.1}
	b := genotype.New(genotype.Matrix{{1, 3}})
	b.RawObjectives = map[genotype.ObjectiveKey]float64{genotype.ObjViolationOverall: 0.3}

	gm := SummarizeGeneration(0, []*genotype.Individual{a, b})
	if gm.Diversity != 2 {
		t.Fatalf("expected diversity 2 (|2-1|+|2-3|), got %v", gm.Diversity)
	}
	if gm.ObjectiveAverages[string(genotype.ObjViolationOverall)] != 0.2 {
		t.Fatalf("expected objective average 0.2, got %v", gm.ObjectiveAverages)
	}

	path := filepath.Join(t.TempDir(), "heuristic.json")
	if err := WriteHeuristicJSON(path, []GenerationMetrics{gm}); err != nil {
		t.Fatalf("WriteHeuristicJSON: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	var decoded []GenerationMetrics
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshaling: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Generation != 0 {
		t.Fatalf("unexpected decoded contents: %v", decoded)
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening %s: %v", path, err)
	}
	defer func() { _ = f.Close() }()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading csv %s: %v", path, err)
	}
	return rows
}
