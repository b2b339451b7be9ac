// Package allocator materializes an ambulance roster from a genotype
// row and a depot table, assigns break schedules, and performs mid-day
// reallocation between time segments (spec.md §4.5).
package allocator

import (
	"math/rand"

	"github.com/Emergency-Optimizers/Simulator-sub000/internal/ambulance"
	"github.com/Emergency-Optimizers/Simulator-sub000/internal/tables"
)

const (
	breakLengthSeconds = 30 * 60
	shiftEdgeBuffer    = 60 * 60 // breaks stay >= 1h from shift start/end
	minBreakGap        = 4 * 60 * 60
)

// Allocator builds and rebalances ambulance rosters for one evaluation
// run (spec.md §4.5, §9 "arena + index" — owned by one Simulator run,
// never shared).
type Allocator struct {
	Tables         *tables.Tables
	ScheduleBreaks bool
	ShiftStart     int64
	ShiftLength    int64
}

// New constructs an Allocator bound to tbl, the shift window in seconds
// from epoch, and whether scheduled breaks are enabled.
func New(tbl *tables.Tables, scheduleBreaks bool, shiftStart, shiftLength int64) *Allocator {
	return &Allocator{Tables: tbl, ScheduleBreaks: scheduleBreaks, ShiftStart: shiftStart, ShiftLength: shiftLength}
}

// BuildRoster materializes one ambulance per unit of row[i] at active
// depot index activeDepotIdx[i], in depot order (spec.md §4.5, §9
// "first encountered in depot order"). The returned slice's length is
// sum(row) = K.
func (a *Allocator) BuildRoster(row []int, activeDepotIdx []int, rng *rand.Rand) []*ambulance.Ambulance {
	var roster []*ambulance.Ambulance
	nextID := 0
	for i, depotIdx := range activeDepotIdx {
		count := row[i]
		grid := a.Tables.Stations[depotIdx].Grid
		for local := 0; local < count; local++ {
			amb := ambulance.New(nextID, depotIdx, grid)
			nextID++
			if a.ScheduleBreaks {
				amb.ScheduledBreaks = a.breakSchedule(local, count)
			}
			roster = append(roster, amb)
		}
	}
	return roster
}

// breakSchedule lays two 30-minute breaks for the ambulanceNumber-th
// (0-indexed) ambulance at a depot with depotSize ambulances: both
// strictly inside the shift (>=1h after start, >=1h before end, >=4h
// apart), staggered across the depot's ambulances by (ambulanceNumber
// mod depotSize) x (4h / depotSize) (spec.md §4.5). When the shift fits
// the 1h buffers and one break but not a 4h gap, the second break is
// clamped to the latest legal start rather than omitted. When the shift
// cannot fit the 1h buffers plus one break, no breaks are scheduled.
func (a *Allocator) breakSchedule(ambulanceNumber, depotSize int) []int64 {
	if depotSize <= 0 {
		depotSize = 1
	}
	windowStart := a.ShiftStart + shiftEdgeBuffer
	windowEnd := a.ShiftStart + a.ShiftLength - shiftEdgeBuffer - breakLengthSeconds
	if windowEnd <= windowStart {
		return nil
	}

	stagger := int64(ambulanceNumber%depotSize) * (4 * 60 * 60 / int64(depotSize))
	first := windowStart + stagger%(windowEnd-windowStart+1)

	second := first + minBreakGap
	if second > windowEnd {
		second = windowEnd
	}
	if second-first < minBreakGap && first > windowStart {
		// Not enough room after staggering; anchor the pair to the start
		// of the window instead so the >=4h gap invariant still holds
		// whenever the shift itself is long enough to contain it.
		first = windowStart
		second = first + minBreakGap
		if second > windowEnd {
			second = windowEnd
		}
	}
	return []int64{first, second}
}

// Reallocate compares the roster's current depot distribution against
// newRow and moves each "surplus" ambulance's AllocatedDepotIndex to a
// "deficit" depot; no ambulance is teleported (CurrentGridID is left
// untouched) — it is routed home via the ordinary FINISHED ->
// PREPARING_DISPATCH_TO_DEPOT path the next time it completes a call
// (spec.md §4.5).
func (a *Allocator) Reallocate(roster []*ambulance.Ambulance, activeDepotIdx []int, newRow []int) {
	target := make(map[int]int, len(activeDepotIdx))
	for i, depotIdx := range activeDepotIdx {
		target[depotIdx] = newRow[i]
	}

	current := make(map[int][]*ambulance.Ambulance)
	for _, amb := range roster {
		current[amb.AllocatedDepotIndex] = append(current[amb.AllocatedDepotIndex], amb)
	}

	var surplus []*ambulance.Ambulance
	deficit := make(map[int]int)
	for depotIdx, want := range target {
		have := len(current[depotIdx])
		if have > want {
			surplus = append(surplus, current[depotIdx][want:]...)
		} else if have < want {
			deficit[depotIdx] = want - have
		}
	}

	for _, depotIdx := range activeDepotIdx {
		need := deficit[depotIdx]
		for need > 0 && len(surplus) > 0 {
			amb := surplus[0]
			surplus = surplus[1:]
			amb.AllocatedDepotIndex = depotIdx
			need--
		}
	}
}
