package population

import (
	"math/rand"
	"testing"
	"time"

	"github.com/Emergency-Optimizers/Simulator-sub000/internal/dispatch"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/event"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/genotype"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/simrng"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/tables"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/travel"
)

func uniformTraffic() tables.TrafficTable {
	var tt tables.TrafficTable
	for h := 0; h < 24; h++ {
		for w := 0; w < 7; w++ {
			tt[h][w] = 1.0
		}
	}
	return tt
}

func newFixtureTables(t *testing.T) *tables.Tables {
	t.Helper()
	od := tables.NewODMatrix([]tables.GridID{1, 2, 3}, [][]float64{
		{0, 300, 600},
		{300, 0, 300},
		{600, 300, 0},
	})
	stations := []tables.Depot{
		{Name: "Depot A", Type: tables.DepotTypeDepot, Grid: 1, Population5km: 10},
		{Name: "Depot B", Type: tables.DepotTypeDepot, Grid: 2, Population5km: 5},
		{Name: "Hospital", Type: tables.DepotTypeHospital, Grid: 3},
	}
	tbl, err := tables.NewTables(od, uniformTraffic(), stations, tables.UrbanMethod5km, -1)
	if err != nil {
		t.Fatalf("NewTables: %v", err)
	}
	return tbl
}

func eventTemplate() []*event.Event {
	return []*event.Event{
		{
			ID:                                    1,
			Type:                                  event.AssigningAmbulance,
			Triage:                                travel.TriageUrgent,
			IncidentGridID:                        2,
			GridID:                                2,
			DepotIndexResponsible:                 1,
			AssignedAmbulanceID:                    event.NoAmbulance,
			CallReceived:                           0,
			SecondsWaitResourcePreparingDeparture: 30,
			SecondsWaitDepartureScene:             600,
			SecondsWaitAvailable:                  120,
		},
		{
			ID:                                    2,
			Type:                                  event.AssigningAmbulance,
			Triage:                                travel.TriageAcute,
			IncidentGridID:                        1,
			GridID:                                1,
			DepotIndexResponsible:                 0,
			AssignedAmbulanceID:                    event.NoAmbulance,
			CallReceived:                           100,
			Timer:                                 100,
			SecondsWaitResourcePreparingDeparture: 30,
			SecondsWaitDepartureScene:             600,
			SecondsWaitAvailable:                  120,
		},
	}
}

func newCore(t *testing.T, sort SortPolicy, activeObjectives []genotype.ObjectiveKey, weights map[genotype.ObjectiveKey]float64) *EvolutionaryCore {
	t.Helper()
	tbl := newFixtureTables(t)
	cfg := travel.DefaultConfig()
	cfg.NoiseStdev = 0
	oracle := travel.New(tbl, cfg, rand.New(rand.NewSource(1)))

	depots := []tables.Depot{tbl.Stations[0], tbl.Stations[1]}
	evalCfg := genotype.EvalConfig{
		Tables:             tbl,
		ActiveDepotIdx:     []int{0, 1},
		Oracle:             oracle,
		Epoch:              time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Strategy:           &dispatch.Random{},
		PrioritizeTriage:   true,
		ResponseRestricted: false,
		ScheduleBreaks:     false,
		ShiftStart:         0,
		ShiftLength:        86400,
		NumSegments:        2,
		FleetSize:          2,
		ActiveObjectives:   activeObjectives,
		ObjectiveWeights:   weights,
	}

	return &EvolutionaryCore{
		Selection:            &TournamentSelection{Size: 2},
		Sort:                 sort,
		EvalConfig:           evalCfg,
		EventTemplate:        eventTemplate(),
		Tables:               tbl,
		Depots:               depots,
		PopulationSize:       4,
		NumSegments:          2,
		FleetSize:            2,
		CrossoverProbability: 0.9,
		MutationProbability:  0.3,
		MutationRowProb:      0.5,
		InitWeights:          genotype.InitWeights{genotype.InitUniform: 1},
		MutateWeights:        genotype.MutateWeights{genotype.MutateRedistribute: 1},
		MasterSeed:           simrng.Key(42),
		WallClockBudget:      time.Second,
		MaxGenerations:       2,
	}
}

func TestEvolveGAModeProducesRankedSurvivors(t *testing.T) {
	weights := map[genotype.ObjectiveKey]float64{genotype.ObjViolationOverall: 1}
	core := newCore(t, WeightedSumSort{}, nil, weights)

	final := core.Evolve()
	if len(final) != core.PopulationSize {
		t.Fatalf("expected %d survivors, got %d", core.PopulationSize, len(final))
	}
	for i := 1; i < len(final); i++ {
		if final[i].Fitness < final[i-1].Fitness {
			t.Fatalf("expected survivors sorted ascending by fitness, got %v then %v", final[i-1].Fitness, final[i].Fitness)
		}
	}
	for _, ind := range final {
		if !ind.Genotype.Valid(core.FleetSize) {
			t.Fatalf("expected every survivor genotype to keep row sum %d", core.FleetSize)
		}
	}
}

func TestEvolveNSGA2ModeAssignsFronts(t *testing.T) {
	objectives := []genotype.ObjectiveKey{genotype.ObjViolationUrban, genotype.ObjViolationRural}
	core := newCore(t, NSGA2Sort{}, objectives, nil)

	final := core.Evolve()
	if len(final) != core.PopulationSize {
		t.Fatalf("expected %d survivors, got %d", core.PopulationSize, len(final))
	}
	for _, ind := range final {
		if ind.FrontNumber < 0 {
			t.Fatalf("expected every survivor to have a non-negative front number")
		}
	}
}
