package genotype

import (
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/event"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/simulator"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/tables"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/travel"
)

// ObjectiveKey names one minimized objective (spec.md §4.6 "Objectives",
// all to be minimized).
type ObjectiveKey string

const (
	ObjAvgRespTimeAcuteUrban   ObjectiveKey = "AVG_RESPONSE_TIME_A_URBAN"
	ObjAvgRespTimeAcuteRural   ObjectiveKey = "AVG_RESPONSE_TIME_A_RURAL"
	ObjAvgRespTimeUrgentUrban  ObjectiveKey = "AVG_RESPONSE_TIME_H_URBAN"
	ObjAvgRespTimeUrgentRural  ObjectiveKey = "AVG_RESPONSE_TIME_H_RURAL"
	ObjAvgRespTimeSchedUrban   ObjectiveKey = "AVG_RESPONSE_TIME_V1_URBAN"
	ObjAvgRespTimeSchedRural   ObjectiveKey = "AVG_RESPONSE_TIME_V1_RURAL"
	ObjViolationOverall        ObjectiveKey = "VIOLATION_PCT_OVERALL"
	ObjViolationUrban          ObjectiveKey = "VIOLATION_PCT_URBAN"
	ObjViolationRural          ObjectiveKey = "VIOLATION_PCT_RURAL"
)

// AllObjectiveKeys is the fixed, ordered set of the six response-time
// buckets plus the three violation percentages (spec.md §4.6).
var AllObjectiveKeys = []ObjectiveKey{
	ObjAvgRespTimeAcuteUrban, ObjAvgRespTimeAcuteRural,
	ObjAvgRespTimeUrgentUrban, ObjAvgRespTimeUrgentRural,
	ObjAvgRespTimeSchedUrban, ObjAvgRespTimeSchedRural,
	ObjViolationOverall, ObjViolationUrban, ObjViolationRural,
}

// ComputeObjectives evaluates every objective in AllObjectiveKeys over
// processed against tbl (spec.md §4.6, §4.4).
func ComputeObjectives(processed []*event.Event, tbl *tables.Tables) map[ObjectiveKey]float64 {
	out := make(map[ObjectiveKey]float64, len(AllObjectiveKeys))
	out[ObjAvgRespTimeAcuteUrban] = simulator.AverageResponseTime(processed, tbl, travel.TriageAcute, true)
	out[ObjAvgRespTimeAcuteRural] = simulator.AverageResponseTime(processed, tbl, travel.TriageAcute, false)
	out[ObjAvgRespTimeUrgentUrban] = simulator.AverageResponseTime(processed, tbl, travel.TriageUrgent, true)
	out[ObjAvgRespTimeUrgentRural] = simulator.AverageResponseTime(processed, tbl, travel.TriageUrgent, false)
	out[ObjAvgRespTimeSchedUrban] = simulator.AverageResponseTime(processed, tbl, travel.TriageScheduled, true)
	out[ObjAvgRespTimeSchedRural] = simulator.AverageResponseTime(processed, tbl, travel.TriageScheduled, false)
	out[ObjViolationOverall] = simulator.ResponseTimeViolations(processed, tbl, nil)
	out[ObjViolationUrban] = violationsByUrbanity(processed, tbl, true)
	out[ObjViolationRural] = violationsByUrbanity(processed, tbl, false)
	return out
}

func violationsByUrbanity(processed []*event.Event, tbl *tables.Tables, urban bool) float64 {
	var filtered []*event.Event
	for _, ev := range processed {
		if tbl.IsUrban(ev.DepotIndexResponsible) == urban {
			filtered = append(filtered, ev)
		}
	}
	return simulator.ResponseTimeViolations(filtered, tbl, nil)
}

// WeightedFitness computes the GA weighted-sum fitness: sum_i weight_i *
// objective_i, over raw (not inverted) objectives (spec.md §4.6).
func WeightedFitness(raw map[ObjectiveKey]float64, weights map[ObjectiveKey]float64) float64 {
	var sum float64
	for k, w := range weights {
		sum += w * raw[k]
	}
	return sum
}

// NSGA2Vector inverts each of the enabled objectives (1/(1+obj), "larger
// is better") in the fixed order of keys, for NSGA-II's maximize-style
// domination/crowding machinery (spec.md §4.6).
func NSGA2Vector(raw map[ObjectiveKey]float64, keys []ObjectiveKey) []float64 {
	out := make([]float64, len(keys))
	for i, k := range keys {
		out[i] = 1 / (1 + raw[k])
	}
	return out
}

// Dominates reports whether a dominates b under the inverted ("larger is
// better") NSGA-II encoding: every component of a is >= the matching
// component of b, and strictly > in at least one (spec.md §4.6
// "Domination").
func Dominates(a, b []float64) bool {
	if len(a) != len(b) {
		panic("genotype: domination test on mismatched objective vectors")
	}
	strictlyBetter := false
	for i := range a {
		if a[i] < b[i] {
			return false
		}
		if a[i] > b[i] {
			strictlyBetter = true
		}
	}
	return strictlyBetter
}
