package ensemble

import (
	"github.com/df07/go-twostream-rt/pkg/core"
	"github.com/df07/go-twostream-rt/pkg/integrator"
)

// PathSample is one recorded trajectory, kept for visualization
type PathSample struct {
	Outcome    core.Outcome `json:"outcome"`
	ExitWeight float64      `json:"exitWeight"`
	Positions  []float64    `json:"positions"`
}

// Result aggregates a completed run. Reflectance, transmittance and
// absorptance are energy fractions and always sum to 1. The struct carries
// no timing data, so identical configurations produce identical results.
type Result struct {
	NumPhotons int   `json:"numPhotons"`
	Seed       int64 `json:"seed"`

	ReflectedCount   int64 `json:"reflectedCount"`
	TransmittedCount int64 `json:"transmittedCount"`
	AbsorbedCount    int64 `json:"absorbedCount"`

	ReflectedWeight   float64 `json:"reflectedWeight"`
	TransmittedWeight float64 `json:"transmittedWeight"`
	AbsorbedWeight    float64 `json:"absorbedWeight"`

	Reflectance   float64 `json:"reflectance"`
	Transmittance float64 `json:"transmittance"`
	Absorptance   float64 `json:"absorptance"`

	ScatterProfile    *Histogram `json:"scatterProfile"`
	AbsorptionProfile *Histogram `json:"absorptionProfile"`

	SamplePaths []PathSample `json:"samplePaths"`
	TotalSteps  int64        `json:"totalSteps"`
}

// tally accumulates statistics for a batch of photons before merging
type tally struct {
	photons int

	reflectedCount   int64
	transmittedCount int64
	absorbedCount    int64

	reflectedWeight   float64
	transmittedWeight float64
	absorbedWeight    float64

	scatterProfile    *Histogram
	absorptionProfile *Histogram

	paths      []PathSample
	totalSteps int64
}

func newTally(bins int, tauMax float64) *tally {
	return &tally{
		scatterProfile:    NewHistogram(bins, tauMax),
		absorptionProfile: NewHistogram(bins, tauMax),
	}
}

// addTrajectory folds one photon walk into the tally
func (t *tally) addTrajectory(traj integrator.Trajectory, recordPath bool) {
	t.photons++
	t.totalSteps += int64(traj.Steps)

	switch traj.Outcome {
	case core.Reflected:
		t.reflectedCount++
		t.reflectedWeight += traj.ExitWeight
	case core.Transmitted:
		t.transmittedCount++
		t.transmittedWeight += traj.ExitWeight
	case core.Absorbed:
		t.absorbedCount++
	}
	t.absorbedWeight += traj.AbsorbedWeight

	for _, ev := range traj.Events {
		switch ev.Kind {
		case core.EventScatter:
			t.scatterProfile.Record(ev.Depth)
		case core.EventAbsorb:
			t.absorptionProfile.Record(ev.Depth)
		}
	}

	if recordPath {
		t.paths = append(t.paths, PathSample{
			Outcome:    traj.Outcome,
			ExitWeight: traj.ExitWeight,
			Positions:  traj.Path,
		})
	}
}

// merge folds another tally into this one. Tallies must be merged in
// batch order to keep recorded paths in photon order.
func (t *tally) merge(other *tally) {
	t.photons += other.photons
	t.totalSteps += other.totalSteps

	t.reflectedCount += other.reflectedCount
	t.transmittedCount += other.transmittedCount
	t.absorbedCount += other.absorbedCount

	t.reflectedWeight += other.reflectedWeight
	t.transmittedWeight += other.transmittedWeight
	t.absorbedWeight += other.absorbedWeight

	t.scatterProfile.Merge(other.scatterProfile)
	t.absorptionProfile.Merge(other.absorptionProfile)

	t.paths = append(t.paths, other.paths...)
}

// result finalizes the tally into a detached Result. The tally can keep
// accumulating afterwards without aliasing the returned value.
func (t *tally) result(seed int64) *Result {
	res := &Result{
		NumPhotons:        t.photons,
		Seed:              seed,
		ReflectedCount:    t.reflectedCount,
		TransmittedCount:  t.transmittedCount,
		AbsorbedCount:     t.absorbedCount,
		ReflectedWeight:   t.reflectedWeight,
		TransmittedWeight: t.transmittedWeight,
		AbsorbedWeight:    t.absorbedWeight,
		ScatterProfile:    t.scatterProfile.Clone(),
		AbsorptionProfile: t.absorptionProfile.Clone(),
		SamplePaths:       append([]PathSample(nil), t.paths...),
		TotalSteps:        t.totalSteps,
	}

	if t.photons > 0 {
		n := float64(t.photons)
		res.Reflectance = t.reflectedWeight / n
		res.Transmittance = t.transmittedWeight / n
		res.Absorptance = t.absorbedWeight / n
	}

	return res
}
