package travel

import (
	"math/rand"
	"testing"
	"time"

	"github.com/Emergency-Optimizers/Simulator-sub000/internal/tables"
)

func newOracleTables(t *testing.T) *tables.Tables {
	t.Helper()
	od := tables.NewODMatrix([]tables.GridID{1, 2}, [][]float64{
		{0, 300},
		{300, 0},
	})
	var traffic tables.TrafficTable
	for h := range traffic {
		for d := range traffic[h] {
			traffic[h][d] = 1.5
		}
	}
	stations := []tables.Depot{
		{Name: "A", Type: tables.DepotTypeDepot, Grid: 1},
		{Name: "B", Type: tables.DepotTypeDepot, Grid: 2},
	}
	tbl, err := tables.NewTables(od, traffic, stations, tables.UrbanMethod5km, -1)
	if err != nil {
		t.Fatalf("NewTables: %v", err)
	}
	return tbl
}

func TestEstimateUnknownGrid(t *testing.T) {
	tbl := newOracleTables(t)
	o := New(tbl, DefaultConfig(), rand.New(rand.NewSource(1)))
	_, err := o.Estimate(1, 999, TriageUrgent, time.Now(), false)
	if err != ErrUnknownGrid {
		t.Fatalf("expected ErrUnknownGrid, got %v", err)
	}
}

func TestEstimateOrFallbackUsesSixtySeconds(t *testing.T) {
	tbl := newOracleTables(t)
	cfg := DefaultConfig()
	cfg.NoiseStdev = 0 // isolate the fallback from noise
	o := New(tbl, cfg, rand.New(rand.NewSource(1)))
	got := o.EstimateOrFallback(1, 999, TriageUrgent, time.Now(), false)
	if got != 60 {
		t.Fatalf("expected 60s fallback, got %d", got)
	}
}

func TestEstimateAcuteFactorAppliesWhenNotTrafficForced(t *testing.T) {
	tbl := newOracleTables(t)
	cfg := DefaultConfig()
	cfg.NoiseStdev = 0
	o := New(tbl, cfg, rand.New(rand.NewSource(1)))
	got, err := o.Estimate(1, 2, TriageAcute, time.Now(), false)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	want := int64(300 * cfg.AcuteTravelFactor)
	if got != want {
		t.Fatalf("got %d, want %d", got, want)
	}
}

func TestEstimateTrafficFactorAppliesForScheduledTriage(t *testing.T) {
	tbl := newOracleTables(t)
	cfg := DefaultConfig()
	cfg.NoiseStdev = 0
	o := New(tbl, cfg, rand.New(rand.NewSource(1)))
	at := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	got, err := o.Estimate(1, 2, TriageScheduled, at, false)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if got != 450 { // 300 * 1.5
		t.Fatalf("got %d, want 450", got)
	}
}

func TestNoiseClampRespected(t *testing.T) {
	tbl := newOracleTables(t)
	cfg := DefaultConfig()
	cfg.ClampEnabled = true
	cfg.ClampMin = 1.0
	cfg.ClampMax = 1.0
	o := New(tbl, cfg, rand.New(rand.NewSource(42)))
	got, err := o.Estimate(1, 2, TriageUrgent, time.Now(), false)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if got != 300 {
		t.Fatalf("clamp to 1.0 should leave base unchanged, got %d", got)
	}
}
