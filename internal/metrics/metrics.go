// Package metrics measures a world after each update.
package metrics

import "github.com/san-kum/parched/internal/ball"

type Metric interface {
	Name() string
	Observe(visuals []ball.Visual, motions []ball.Motion, dt float32)
	Value() float64
	Reset()
}

// Standard is the set attached to headless runs and the live view.
func Standard(subSteps int) []Metric {
	return []Metric{
		NewKineticEnergy(subSteps),
		NewPenetration(),
		NewContainment(),
		NewPopulation(),
		NewStability(StabilityLimit),
	}
}

// Names lists the metric names Standard produces, in order.
func Names() []string {
	ms := Standard(1)
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Name()
	}
	return out
}

// Sample is one row of metric values recorded after an update.
type Sample struct {
	Frame  int                `json:"frame" db:"frame"`
	Time   float64            `json:"time" db:"time"`
	Balls  int                `json:"balls" db:"balls"`
	Values map[string]float64 `json:"values" db:"-"`
}

// Series extracts one metric across samples. Missing values read as zero.
func Series(samples []Sample, name string) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Values[name]
	}
	return out
}
