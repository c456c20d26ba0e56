package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

var ErrTooShort = errors.New("analysis: series too short")

// PowerSpectrum returns the magnitude of the first half of the DFT of data
// with its mean removed.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centred := make([]float64, len(data))
	for i, v := range data {
		centred[i] = v - mean
	}

	spectrum := fft.FFTReal(centred)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// Dominant returns the frequency in hertz of the strongest non-DC bin for
// samples spaced dt seconds apart, with its magnitude.
func Dominant(data []float64, dt float64) (freq, power float64, err error) {
	if len(data) < 4 || dt <= 0 {
		return 0, 0, ErrTooShort
	}
	ps := PowerSpectrum(data)
	idx := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > power {
			power = ps[i]
			idx = i
		}
	}
	return float64(idx) / (float64(len(data)) * dt), power, nil
}

type Stats struct {
	Mean, StdDev float64
	Min, Max     float64
	Final        float64
}

func Describe(data []float64) Stats {
	if len(data) == 0 {
		return Stats{}
	}
	s := Stats{Min: data[0], Max: data[0], Final: data[len(data)-1]}
	for _, v := range data {
		s.Mean += v
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	s.Mean /= float64(len(data))
	for _, v := range data {
		s.StdDev += (v - s.Mean) * (v - s.Mean)
	}
	s.StdDev = math.Sqrt(s.StdDev / float64(len(data)))
	return s
}

// SettleFrame returns the first index from which every value stays within
// tol of the final value.
func SettleFrame(data []float64, tol float64) int {
	if len(data) == 0 {
		return 0
	}
	final := data[len(data)-1]
	for i := len(data) - 1; i >= 0; i-- {
		if math.Abs(data[i]-final) > tol {
			return i + 1
		}
	}
	return 0
}
