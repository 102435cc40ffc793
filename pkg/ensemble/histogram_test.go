package ensemble

import (
	"math"
	"reflect"
	"testing"
)

func TestHistogramRecord(t *testing.T) {
	h := NewHistogram(10, 10.0)

	testCases := []struct {
		name     string
		depth    float64
		expected int
	}{
		{"top of layer", 0.0, 0},
		{"first bin", 0.5, 0},
		{"interior", 4.2, 4},
		{"bin boundary", 5.0, 5},
		{"last bin", 9.5, 9},
		{"at tau max", 10.0, 9},
		{"beyond tau max", 12.0, 9},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			before := h.Bins[tc.expected]
			h.Record(tc.depth)
			if h.Bins[tc.expected] != before+1 {
				t.Errorf("depth %g: bin %d count = %d, expected %d",
					tc.depth, tc.expected, h.Bins[tc.expected], before+1)
			}
		})
	}
}

func TestHistogramMergeAndTotal(t *testing.T) {
	a := NewHistogram(4, 8.0)
	b := NewHistogram(4, 8.0)

	a.Record(1.0) // bin 0
	a.Record(3.0) // bin 1
	b.Record(3.5) // bin 1
	b.Record(7.9) // bin 3

	a.Merge(b)

	expected := []int64{1, 2, 0, 1}
	if !reflect.DeepEqual(a.Bins, expected) {
		t.Errorf("merged bins = %v, expected %v", a.Bins, expected)
	}
	if a.Total() != 4 {
		t.Errorf("total = %d, expected 4", a.Total())
	}
	// The source histogram is untouched
	if b.Total() != 2 {
		t.Errorf("source total = %d, expected 2", b.Total())
	}
}

func TestHistogramPeakDepth(t *testing.T) {
	h := NewHistogram(4, 8.0)
	h.Record(1.0)
	h.Record(3.0)
	h.Record(3.5)

	// Bin 1 holds two events, its center is at depth 3
	if got := h.PeakDepth(); math.Abs(got-3.0) > 1e-12 {
		t.Errorf("peak depth = %g, expected 3.0", got)
	}
}

func TestHistogramClone(t *testing.T) {
	h := NewHistogram(3, 6.0)
	h.Record(1.0)

	clone := h.Clone()
	h.Record(1.0)
	h.Record(5.0)

	if clone.Total() != 1 {
		t.Errorf("clone total = %d, expected 1 after mutating the original", clone.Total())
	}
	if clone.TauMax != 6.0 {
		t.Errorf("clone tauMax = %g, expected 6.0", clone.TauMax)
	}
}
