// cmd/root.go
package cmd

import (
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Emergency-Optimizers/Simulator-sub000/internal/artifact"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/config"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/dispatch"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/event"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/genotype"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/mcgen"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/population"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/simrng"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/tables"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/travel"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "ambudispatch",
	Short: "Ambulance emergency-response simulator and fleet-placement optimizer",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Load config and tables, run the simulator or optimizer, and write artifacts",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg, err := config.Load(configPath)
		if err != nil {
			logrus.Fatalf("loading config: %v", err)
		}

		if err := runHeuristic(cfg); err != nil {
			logrus.Fatalf("run failed: %v", err)
		}
		logrus.Info("run complete")
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load and type-check a config file without running anything",
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := config.Load(configPath); err != nil {
			logrus.Fatalf("config invalid: %v", err)
		}
		logrus.Info("config valid")
	},
}

// Execute runs the root command, exiting non-zero on unrecoverable I/O or
// config errors (spec.md §6 "CLI").
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to the run's YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
}

// runHeuristic loads tables and historical incidents, synthesizes the
// event scenario, dispatches on HEURISTIC, and writes the four run
// artifacts (spec.md §6 "CLI").
func runHeuristic(cfg *config.Config) error {
	tbl, err := loadTables(cfg)
	if err != nil {
		return err
	}

	partitioned := simrng.New(simrng.Key(cfg.Seed))
	oracle := travel.New(tbl, travelConfig(cfg), partitioned.ForSubsystem("travel_noise"))

	eventTemplate, err := synthesizeEvents(cfg, partitioned)
	if err != nil {
		return err
	}

	activeDepotIdx := tbl.ActiveDepotIndices()
	depots := make([]tables.Depot, len(activeDepotIdx))
	for i, idx := range activeDepotIdx {
		depots[i] = tbl.Stations[idx]
	}

	shiftStart, shiftLength := shiftWindowSeconds(cfg)
	evalCfg := genotype.EvalConfig{
		Tables:             tbl,
		ActiveDepotIdx:     activeDepotIdx,
		Oracle:             oracle,
		Epoch:              time.Date(cfg.Simulation.SimulateYear, time.Month(cfg.Simulation.SimulateMonth), cfg.Simulation.SimulateDay, 0, 0, 0, 0, time.UTC),
		Strategy:           dispatch.New(cfg.Dispatch.Strategy),
		PrioritizeTriage:   cfg.Dispatch.PrioritizeTriage,
		ResponseRestricted: cfg.Dispatch.ResponseRestricted,
		ScheduleBreaks:     cfg.Simulation.ScheduleBreaks,
		ShiftStart:         shiftStart,
		ShiftLength:        shiftLength,
		NumSegments:        cfg.Simulation.NumTimeSegments,
		FleetSize:          cfg.FleetSize(cfg.Simulation.SimulateDayShift),
	}
	if objectives := activeObjectives(cfg); objectives != nil {
		evalCfg.ActiveObjectives = objectives
	} else {
		evalCfg.ObjectiveWeights = weightedObjectives(cfg)
	}

	var best *genotype.Individual
	var history []artifact.GenerationMetrics

	if cfg.Optimizer.Heuristic == config.HeuristicNone {
		rng := rand.New(rand.NewSource(cfg.Seed))
		m := genotype.Initialize(evalCfg.NumSegments, evalCfg.FleetSize, depots, genotype.InitWeights{genotype.InitUniform: 1}, rng)
		ind := genotype.New(m)
		ind.Evaluate(eventTemplate, evalCfg, rng)
		best = ind
		history = append(history, artifact.SummarizeGeneration(0, []*genotype.Individual{ind}))
	} else {
		core := buildCore(cfg, evalCfg, eventTemplate, depots)
		final := core.Evolve()
		best = pickBest(cfg.Optimizer.Heuristic, final)
		history = core.History
	}

	return writeArtifacts(cfg, tbl, best, history)
}

// loadTables reads the OD matrix, stations, and traffic CSVs named by
// cfg (spec.md §6 "OD matrix", "Stations", "Traffic").
func loadTables(cfg *config.Config) (*tables.Tables, error) {
	od, err := tables.LoadODMatrixCSV(cfg.Tables.ODMatrixPath)
	if err != nil {
		return nil, err
	}
	traffic, err := tables.LoadTrafficCSV(cfg.Tables.TrafficPath)
	if err != nil {
		return nil, err
	}
	stations, err := tables.LoadStationsCSV(cfg.Tables.StationsPath)
	if err != nil {
		return nil, err
	}
	return tables.NewTables(od, traffic, stations, cfg.Tables.UrbanMethod, cfg.Tables.SkipStationIndex)
}

func travelConfig(cfg *config.Config) travel.Config {
	return travel.Config{
		AcuteTravelFactor: cfg.Dispatch.AcuteTravelFactor,
		NoiseMean:         cfg.Dispatch.NoiseMean,
		NoiseStdev:        cfg.Dispatch.NoiseStdev,
		ClampEnabled:      cfg.Dispatch.NoiseClampEnabled,
		ClampMin:          cfg.Dispatch.NoiseClampMin,
		ClampMax:          cfg.Dispatch.NoiseClampMax,
	}
}

// shiftWindowSeconds converts the configured hour window into the
// seconds-since-epoch-midnight ShiftStart/ShiftLength Evaluate needs.
// Shifts whose end hour is not after the start hour are treated as
// wrapping past midnight.
func shiftWindowSeconds(cfg *config.Config) (int64, int64) {
	start := int64(cfg.Simulation.DayShiftStart) * 3600
	end := int64(cfg.Simulation.DayShiftEnd) * 3600
	if end <= start {
		end += 24 * 3600
	}
	return start, end - start
}

// synthesizeEvents loads the historical incident table and resamples one
// day's scenario for the configured shift window (spec.md §6 "Event
// generator"). Overnight shifts that wrap past midnight are synthesized
// as a single generator call over [start, end) in absolute hours (end may
// exceed 24), a simplification of the true calendar-wraparound case.
func synthesizeEvents(cfg *config.Config, partitioned *simrng.Partitioned) ([]*event.Event, error) {
	historical, err := mcgen.LoadHistoricalCSV(cfg.Tables.HistoricalIncidentsPath)
	if err != nil {
		return nil, err
	}
	generator := mcgen.NewGenerator(historical)

	startHour := cfg.Simulation.DayShiftStart
	endHour := cfg.Simulation.DayShiftEnd
	if endHour <= startHour {
		endHour += 24
	}
	_, shiftLength := shiftWindowSeconds(cfg)

	genCfg := mcgen.GenerateConfig{
		Epoch:          time.Date(cfg.Simulation.SimulateYear, time.Month(cfg.Simulation.SimulateMonth), cfg.Simulation.SimulateDay, 0, 0, 0, 0, time.UTC),
		ShiftStartHour: startHour,
		ShiftEndHour:   endHour,
		CallsPerHour:   cfg.Simulation.CallsPerHour,
		ShiftLength:    shiftLength,
		NumSegments:    cfg.Simulation.NumTimeSegments,
	}
	return generator.Generate(genCfg, partitioned.ForSubsystem("event_generator"))
}

// activeObjectives returns cfg's NSGA-II objective vector, or nil when
// the config selects the GA weighted-sum mode instead (spec.md §6
// "objectives" vs "objective_weights").
func activeObjectives(cfg *config.Config) []genotype.ObjectiveKey {
	if len(cfg.Objective.Objectives) == 0 {
		return nil
	}
	out := make([]genotype.ObjectiveKey, len(cfg.Objective.Objectives))
	for i, name := range cfg.Objective.Objectives {
		out[i] = genotype.ObjectiveKey(name)
	}
	return out
}

func weightedObjectives(cfg *config.Config) map[genotype.ObjectiveKey]float64 {
	out := make(map[genotype.ObjectiveKey]float64, len(cfg.Objective.Weights))
	for name, w := range cfg.Objective.Weights {
		out[genotype.ObjectiveKey(name)] = w
	}
	return out
}

// buildCore wires an EvolutionaryCore for any of the four
// population-based heuristics, selecting the sort policy and attaching
// the memetic local-search hook for the MA/MEMETIC_NSGA2 variants
// (spec.md §4.7).
func buildCore(cfg *config.Config, evalCfg genotype.EvalConfig, eventTemplate []*event.Event, depots []tables.Depot) *population.EvolutionaryCore {
	core := &population.EvolutionaryCore{
		Selection:     &population.TournamentSelection{Size: cfg.Optimizer.TournamentSize},
		EvalConfig:    evalCfg,
		EventTemplate: eventTemplate,
		Tables:        evalCfg.Tables,
		Depots:        depots,

		PopulationSize: cfg.Optimizer.PopulationSize,
		NumSegments:    evalCfg.NumSegments,
		FleetSize:      evalCfg.FleetSize,

		CrossoverProbability: cfg.Mutation.CrossoverProbability,
		MutationProbability:  cfg.Mutation.MutationProbability,
		MutationRowProb:       cfg.Mutation.MutationRowProbability,

		InitWeights:   genotypeInitWeights(cfg),
		MutateWeights: mutateWeights(cfg),

		MasterSeed:      simrng.Key(cfg.Seed),
		WallClockBudget: time.Duration(cfg.Optimizer.WallClockBudgetSeconds) * time.Second,
		MaxGenerations:  cfg.Optimizer.GenerationSize,
	}

	switch cfg.Optimizer.Heuristic {
	case config.HeuristicNSGA2:
		core.Sort = population.NSGA2Sort{}
	case config.HeuristicMemeticNSGA2:
		core.Sort = population.NSGA2Sort{}
		core.Offspring = &population.LocalSearchHook{Probability: cfg.Optimizer.LocalSearchProbability}
	case config.HeuristicMA:
		core.Sort = population.WeightedSumSort{}
		core.Offspring = &population.LocalSearchHook{Probability: cfg.Optimizer.LocalSearchProbability}
	default: // HeuristicGA
		core.Sort = population.WeightedSumSort{}
	}
	return core
}

func genotypeInitWeights(cfg *config.Config) genotype.InitWeights {
	return genotype.InitWeights{
		genotype.InitRandom:                         cfg.Init.Random,
		genotype.InitUniform:                        cfg.Init.Uniform,
		genotype.InitPopulationProportionate2km:     cfg.Init.PopulationProportionate2km,
		genotype.InitPopulationProportionate5km:     cfg.Init.PopulationProportionate5km,
		genotype.InitPopulationProportionateCluster: cfg.Init.PopulationProportionateCluster,
		genotype.InitIncidentProportionate2km:       cfg.Init.IncidentProportionate2km,
		genotype.InitIncidentProportionate5km:       cfg.Init.IncidentProportionate5km,
		genotype.InitIncidentProportionateCluster:   cfg.Init.IncidentProportionateCluster,
	}
}

func mutateWeights(cfg *config.Config) genotype.MutateWeights {
	return genotype.MutateWeights{
		genotype.MutateRedistribute:       cfg.Mutation.Redistribute,
		genotype.MutateSwap:               cfg.Mutation.Swap,
		genotype.MutateScramble:           cfg.Mutation.Scramble,
		genotype.MutateNeighborDuplication: cfg.Mutation.NeighborDuplication,
	}
}

// pickBest resolves a single representative Individual from the final
// ranked population: the fittest for weighted-sum heuristics, or any
// front-0 member for NSGA-II heuristics (spec.md §6 "best.json").
func pickBest(h config.Heuristic, pop []*genotype.Individual) *genotype.Individual {
	switch h {
	case config.HeuristicNSGA2, config.HeuristicMemeticNSGA2:
		for _, ind := range pop {
			if ind.FrontNumber == 0 {
				return ind
			}
		}
		return pop[0]
	default:
		return pop[0]
	}
}

// writeArtifacts persists the four run artifacts into cfg.OutputDir,
// named by cfg.UniqueRunID (spec.md §6 "Artifacts").
func writeArtifacts(cfg *config.Config, tbl *tables.Tables, best *genotype.Individual, history []artifact.GenerationMetrics) error {
	dir := filepath.Join(cfg.OutputDir, cfg.UniqueRunID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	if err := artifact.WriteEventsCSV(filepath.Join(dir, "events.csv"), best.Events, tbl); err != nil {
		return err
	}
	if err := artifact.WriteGenotypeCSV(filepath.Join(dir, "genotype.csv"), best.Genotype); err != nil {
		return err
	}
	if err := artifact.WriteAmbulancesCSV(filepath.Join(dir, "ambulances.csv"), best.Ambulances); err != nil {
		return err
	}
	if err := artifact.WriteHeuristicJSON(filepath.Join(dir, "heuristic.json"), history); err != nil {
		return err
	}
	return nil
}
