package genotype

import (
	"math/rand"
	"testing"
)

func TestMatrixValidAndRowSum(t *testing.T) {
	m := Matrix{{2, 3, 0}, {1, 1, 3}}
	if !m.Valid(5) {
		t.Fatalf("expected both rows to sum to 5")
	}
	if m.Valid(4) {
		t.Fatalf("did not expect rows to sum to 4")
	}
	if got := m.RowSum(0); got != 5 {
		t.Fatalf("RowSum(0) = %d, want 5", got)
	}
}

func TestMatrixCloneIsIndependent(t *testing.T) {
	m := Matrix{{1, 2}}
	cp := m.Clone()
	cp[0][0] = 99
	if m[0][0] == 99 {
		t.Fatalf("Clone shared backing array with original")
	}
}

func TestSegmentIndexClampsToRange(t *testing.T) {
	cases := []struct {
		tau, shiftStart, shiftLength int64
		numSegments                  int
		want                         int
	}{
		{tau: 0, shiftStart: 0, shiftLength: 36000, numSegments: 6, want: 0},
		{tau: -100, shiftStart: 0, shiftLength: 36000, numSegments: 6, want: 0},
		{tau: 35999, shiftStart: 0, shiftLength: 36000, numSegments: 6, want: 5},
		{tau: 1_000_000, shiftStart: 0, shiftLength: 36000, numSegments: 6, want: 5},
		{tau: 6000, shiftStart: 0, shiftLength: 36000, numSegments: 6, want: 1},
	}
	for _, c := range cases {
		got := SegmentIndex(c.tau, c.shiftStart, c.shiftLength, c.numSegments)
		if got != c.want {
			t.Errorf("SegmentIndex(%d, %d, %d, %d) = %d, want %d", c.tau, c.shiftStart, c.shiftLength, c.numSegments, got, c.want)
		}
	}
}

func TestNewMatrixIsZeroed(t *testing.T) {
	m := NewMatrix(3, 4)
	if len(m) != 3 || len(m[0]) != 4 {
		t.Fatalf("NewMatrix(3, 4) shape = %dx%d, want 3x4", len(m), len(m[0]))
	}
	if !m.Valid(0) {
		t.Fatalf("fresh zeroed matrix should be valid for k=0")
	}
}

func TestRepairRestoresRowSum(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	m := Matrix{{5, 0, 0}, {0, 0, 0}}
	Repair(m, 3, rng)
	for t := range m {
		if m.RowSum(t) != 3 {
			t.Fatalf("row %d sums to %d after Repair, want 3", t, m.RowSum(t))
		}
		for _, v := range m[t] {
			if v < 0 {
				t.Fatalf("row %d has negative entry after Repair", t)
			}
		}
	}
}

func TestRepairNoopWhenAlreadyValid(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	m := Matrix{{1, 1, 1}}
	Repair(m, 3, rng)
	if m.RowSum(0) != 3 {
		t.Fatalf("Repair changed an already-valid row")
	}
}
