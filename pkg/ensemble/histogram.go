package ensemble

// Histogram accumulates event counts over uniform optical depth bins
// spanning [0, TauMax]
type Histogram struct {
	Bins   []int64 `json:"bins"`
	TauMax float64 `json:"tauMax"`
}

// NewHistogram creates an empty histogram with the given bin count
func NewHistogram(bins int, tauMax float64) *Histogram {
	return &Histogram{
		Bins:   make([]int64, bins),
		TauMax: tauMax,
	}
}

// Record adds one event at the given optical depth.
// Depths at or beyond TauMax land in the last bin.
func (h *Histogram) Record(depth float64) {
	bin := int(depth / h.TauMax * float64(len(h.Bins)))
	if bin >= len(h.Bins) {
		bin = len(h.Bins) - 1
	}
	if bin < 0 {
		bin = 0
	}
	h.Bins[bin]++
}

// Merge adds the counts from another histogram with the same binning
func (h *Histogram) Merge(other *Histogram) {
	for i, count := range other.Bins {
		h.Bins[i] += count
	}
}

// Total returns the number of recorded events
func (h *Histogram) Total() int64 {
	var total int64
	for _, count := range h.Bins {
		total += count
	}
	return total
}

// PeakDepth returns the center depth of the fullest bin
func (h *Histogram) PeakDepth() float64 {
	peak := 0
	for i, count := range h.Bins {
		if count > h.Bins[peak] {
			peak = i
		}
	}
	binWidth := h.TauMax / float64(len(h.Bins))
	return (float64(peak) + 0.5) * binWidth
}

// Clone returns a deep copy
func (h *Histogram) Clone() *Histogram {
	bins := make([]int64, len(h.Bins))
	copy(bins, h.Bins)
	return &Histogram{Bins: bins, TauMax: h.TauMax}
}
