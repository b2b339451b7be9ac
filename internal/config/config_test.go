package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `
tables:
  od_matrix_path: od.csv
  stations_path: stations.csv
  traffic_path: traffic.csv
  historical_incidents_path: historical.csv
  urban_method: 5km
  skip_station_index: -1
simulation:
  simulate_year: 2023
  simulate_month: 6
  simulate_day: 15
  simulate_day_shift: true
  simulation_generation_window_size: 14
  day_shift_start: 8
  day_shift_end: 20
  calls_per_hour: 5
  num_time_segments: 4
  total_ambulances_during_day: 10
  total_ambulances_during_night: 6
  schedule_breaks: true
dispatch:
  dispatch_strategy: CLOSEST
  dispatch_strategy_prioritize_triage: true
  dispatch_strategy_response_restricted: false
  acute_travel_factor: 0.7953711902650347
  noise_mean: 1.0
  noise_stdev: 0.1
  noise_clamp_enabled: false
  noise_clamp_min: 0.95
  noise_clamp_max: 1.05
genotype_init:
  genotype_init_random: 1
  genotype_init_uniform: 1
mutation:
  mutation_probability: 0.3
  crossover_probability: 0.9
  mutation_row_probability: 0.2
  mutation_redistribute: 1
  mutation_swap: 1
  mutation_scramble: 1
  mutation_neighbor_duplication: 1
objective:
  objectives: ["VIOLATION_PCT_OVERALL"]
  objective_weights:
    VIOLATION_PCT_OVERALL: 1.0
optimizer:
  population_size: 50
  generation_size: 100
  local_search_probability: 0.1
  heuristic: NSGA2
  tournament_size: 3
  wall_clock_budget_seconds: 60
seed: 42
unique_run_id: run-001
output_dir: out
`

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Optimizer.Heuristic != HeuristicNSGA2 {
		t.Fatalf("expected HeuristicNSGA2, got %v", cfg.Optimizer.Heuristic)
	}
	if cfg.FleetSize(true) != 10 || cfg.FleetSize(false) != 6 {
		t.Fatalf("expected day=10 night=6 fleet sizes, got %d/%d", cfg.FleetSize(true), cfg.FleetSize(false))
	}
}

func TestLoadRejectsUnknownField(t *testing.T) {
	bad := validYAML + "\nnot_a_real_key: true\n"
	if _, err := Load(writeTemp(t, bad)); err == nil {
		t.Fatalf("expected an error for an unknown top-level key")
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected an error for a missing config file")
	}
}

func TestValidateRejectsBadDispatchStrategy(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Dispatch.Strategy = "TELEPORT"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected an error for an unrecognized dispatch strategy")
	}
}
