// Package config loads the single YAML document that configures a run
// (spec.md §6 "Configuration surface"), decoded strictly so a typo'd key
// is a load-time error rather than a silently-ignored default (SPEC_FULL
// §1.1, following the teacher's cmd/default_config.go KnownFields(true)
// discipline).
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Emergency-Optimizers/Simulator-sub000/internal/tables"
)

// Heuristic selects which optimizer mode HEURISTIC runs (spec.md §6).
type Heuristic string

const (
	HeuristicNone         Heuristic = "NONE"
	HeuristicGA           Heuristic = "GA"
	HeuristicNSGA2        Heuristic = "NSGA2"
	HeuristicMA           Heuristic = "MA"
	HeuristicMemeticNSGA2 Heuristic = "MEMETIC_NSGA2"
)

// TablesConfig names the CSV inputs for internal/tables and internal/mcgen
// (SPEC_FULL §3).
type TablesConfig struct {
	ODMatrixPath            string             `yaml:"od_matrix_path"`
	StationsPath            string             `yaml:"stations_path"`
	TrafficPath             string             `yaml:"traffic_path"`
	HistoricalIncidentsPath string             `yaml:"historical_incidents_path"`
	UrbanMethod             tables.UrbanMethod `yaml:"urban_method"`
	SkipStationIndex        int                `yaml:"skip_station_index"`
}

// SimulationConfig groups scenario-date and shift-window knobs (spec.md
// §6 SIMULATE_*, DAY_SHIFT_*).
type SimulationConfig struct {
	SimulateYear              int  `yaml:"simulate_year"`
	SimulateMonth             int  `yaml:"simulate_month"`
	SimulateDay               int  `yaml:"simulate_day"`
	SimulateDayShift          bool `yaml:"simulate_day_shift"`
	SimulationGenerationWindowSize int `yaml:"simulation_generation_window_size"`
	DayShiftStart             int  `yaml:"day_shift_start"`
	DayShiftEnd               int  `yaml:"day_shift_end"`
	CallsPerHour              int  `yaml:"calls_per_hour"`
	NumTimeSegments           int  `yaml:"num_time_segments"`
	TotalAmbulancesDuringDay  int  `yaml:"total_ambulances_during_day"`
	TotalAmbulancesDuringNight int `yaml:"total_ambulances_during_night"`
	ScheduleBreaks            bool `yaml:"schedule_breaks"`
}

// DispatchConfig groups the dispatch-strategy knobs (spec.md §4.2, §6).
type DispatchConfig struct {
	Strategy          string `yaml:"dispatch_strategy"`
	PrioritizeTriage  bool   `yaml:"dispatch_strategy_prioritize_triage"`
	ResponseRestricted bool  `yaml:"dispatch_strategy_response_restricted"`
	AcuteTravelFactor float64 `yaml:"acute_travel_factor"`
	NoiseMean         float64 `yaml:"noise_mean"`
	NoiseStdev        float64 `yaml:"noise_stdev"`
	NoiseClampEnabled bool    `yaml:"noise_clamp_enabled"`
	NoiseClampMin     float64 `yaml:"noise_clamp_min"`
	NoiseClampMax     float64 `yaml:"noise_clamp_max"`
}

// GenotypeInitConfig holds the INIT_* lottery weights (spec.md §4.6,
// §6 GENOTYPE_INIT_*).
type GenotypeInitConfig struct {
	Random                         float64 `yaml:"genotype_init_random"`
	Uniform                        float64 `yaml:"genotype_init_uniform"`
	PopulationProportionate2km     float64 `yaml:"genotype_init_population_proportionate_2km"`
	PopulationProportionate5km     float64 `yaml:"genotype_init_population_proportionate_5km"`
	PopulationProportionateCluster float64 `yaml:"genotype_init_population_proportionate_cluster"`
	IncidentProportionate2km       float64 `yaml:"genotype_init_incident_proportionate_2km"`
	IncidentProportionate5km       float64 `yaml:"genotype_init_incident_proportionate_5km"`
	IncidentProportionateCluster   float64 `yaml:"genotype_init_incident_proportionate_cluster"`
}

// MutationConfig holds mutation rates and the MUTATION_* operator
// lottery weights (spec.md §4.6, §6).
type MutationConfig struct {
	MutationProbability  float64 `yaml:"mutation_probability"`
	CrossoverProbability float64 `yaml:"crossover_probability"`
	MutationRowProbability float64 `yaml:"mutation_row_probability"`
	Redistribute         float64 `yaml:"mutation_redistribute"`
	Swap                  float64 `yaml:"mutation_swap"`
	Scramble              float64 `yaml:"mutation_scramble"`
	NeighborDuplication   float64 `yaml:"mutation_neighbor_duplication"`
}

// ObjectiveConfig holds the active-objectives vector (NSGA-II modes) and
// the weighted-sum weights (GA mode) (spec.md §4.6, §6 OBJECTIVES,
// OBJECTIVE_WEIGHT_*).
type ObjectiveConfig struct {
	Objectives []string           `yaml:"objectives"`
	Weights    map[string]float64 `yaml:"objective_weights"`
}

// OptimizerConfig groups the evolutionary-loop sizing and termination
// knobs (spec.md §4.7, §6).
type OptimizerConfig struct {
	PopulationSize         int     `yaml:"population_size"`
	GenerationSize         int     `yaml:"generation_size"`
	LocalSearchProbability float64 `yaml:"local_search_probability"`
	Heuristic              Heuristic `yaml:"heuristic"`
	TournamentSize         int     `yaml:"tournament_size"`
	WallClockBudgetSeconds int     `yaml:"wall_clock_budget_seconds"`
}

// Config is the full run configuration (spec.md §6 "Configuration
// surface"), grouped by concern the way the teacher's cmd/default_config.go
// groups Config/DefaultConfig/Workload.
type Config struct {
	Tables    TablesConfig       `yaml:"tables"`
	Simulation SimulationConfig  `yaml:"simulation"`
	Dispatch  DispatchConfig     `yaml:"dispatch"`
	Init      GenotypeInitConfig `yaml:"genotype_init"`
	Mutation  MutationConfig     `yaml:"mutation"`
	Objective ObjectiveConfig    `yaml:"objective"`
	Optimizer OptimizerConfig    `yaml:"optimizer"`

	Seed        int64  `yaml:"seed"`
	UniqueRunID string `yaml:"unique_run_id"`
	OutputDir   string `yaml:"output_dir"`
}

// Load reads and strictly decodes path into a Config (spec.md §6, §7
// "CONFIG_INVALID"). Unrecognized keys are a load-time error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, ErrIOMissing)
	}

	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, fmt.Errorf("%v: %w", err, ErrConfigInvalid))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the cross-field invariants Load cannot catch by
// strict-decoding alone (spec.md §6/§7).
func (c *Config) Validate() error {
	if c.Optimizer.PopulationSize <= 0 {
		return fmt.Errorf("optimizer.population_size must be > 0: %w", ErrConfigInvalid)
	}
	if c.Simulation.NumTimeSegments <= 0 {
		return fmt.Errorf("simulation.num_time_segments must be > 0: %w", ErrConfigInvalid)
	}
	switch c.Dispatch.Strategy {
	case "RANDOM", "CLOSEST":
	default:
		return fmt.Errorf("dispatch.dispatch_strategy %q must be RANDOM or CLOSEST: %w", c.Dispatch.Strategy, ErrConfigInvalid)
	}
	switch c.Optimizer.Heuristic {
	case HeuristicNone, HeuristicGA, HeuristicNSGA2, HeuristicMA, HeuristicMemeticNSGA2:
	default:
		return fmt.Errorf("optimizer.heuristic %q is not a recognized heuristic: %w", c.Optimizer.Heuristic, ErrConfigInvalid)
	}
	switch c.Tables.UrbanMethod {
	case tables.UrbanMethod2km, tables.UrbanMethod5km, tables.UrbanMethodCluster:
	default:
		return fmt.Errorf("tables.urban_method %q is not recognized: %w", c.Tables.UrbanMethod, ErrConfigInvalid)
	}
	return nil
}

// FleetSize returns the K appropriate for dayShift (spec.md §6
// TOTAL_AMBULANCES_DURING_{DAY,NIGHT}).
func (c *Config) FleetSize(dayShift bool) int {
	if dayShift {
		return c.Simulation.TotalAmbulancesDuringDay
	}
	return c.Simulation.TotalAmbulancesDuringNight
}
