package analysis

import (
	"errors"
	"math"
	"testing"
)

func sine(n int, freq, dt float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 3 + math.Sin(2*math.Pi*freq*float64(i)*dt)
	}
	return out
}

func TestDominant(t *testing.T) {
	tests := []struct {
		name string
		n    int
		freq float64
		dt   float64
	}{
		{"power of two", 256, 4, 1.0 / 64},
		{"odd length", 300, 2, 0.017},
		{"slow", 600, 0.5, 0.017},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, power, err := Dominant(sine(tt.n, tt.freq, tt.dt), tt.dt)
			if err != nil {
				t.Fatal(err)
			}
			resolution := 1 / (float64(tt.n) * tt.dt)
			if math.Abs(got-tt.freq) > resolution {
				t.Errorf("expected %f Hz within %f, got %f", tt.freq, resolution, got)
			}
			if power <= 0 {
				t.Error("expected positive power")
			}
		})
	}
}

func TestDominantTooShort(t *testing.T) {
	if _, _, err := Dominant([]float64{1, 2}, 0.1); !errors.Is(err, ErrTooShort) {
		t.Errorf("expected ErrTooShort, got %v", err)
	}
	if _, _, err := Dominant(make([]float64, 10), 0); !errors.Is(err, ErrTooShort) {
		t.Errorf("expected ErrTooShort for zero dt, got %v", err)
	}
}

func TestPowerSpectrumRemovesMean(t *testing.T) {
	ps := PowerSpectrum([]float64{5, 5, 5, 5, 5, 5, 5, 5})
	for i, v := range ps {
		if v > 1e-9 {
			t.Errorf("bin %d: expected zero for a constant series, got %f", i, v)
		}
	}
	if PowerSpectrum([]float64{1}) != nil {
		t.Error("expected nil for a single sample")
	}
}

func TestDescribe(t *testing.T) {
	s := Describe([]float64{1, 2, 3, 4})
	if s.Mean != 2.5 || s.Min != 1 || s.Max != 4 || s.Final != 4 {
		t.Errorf("unexpected stats %+v", s)
	}
	if math.Abs(s.StdDev-math.Sqrt(1.25)) > 1e-12 {
		t.Errorf("unexpected stddev %f", s.StdDev)
	}
	if (Describe(nil) != Stats{}) {
		t.Error("expected zero stats for no data")
	}
}

func TestSettleFrame(t *testing.T) {
	tests := []struct {
		data []float64
		want int
	}{
		{[]float64{5, 3, 1.05, 1.01, 1}, 2},
		{[]float64{1, 1, 1}, 0},
		{[]float64{0, 10}, 1},
		{nil, 0},
	}
	for _, tt := range tests {
		if got := SettleFrame(tt.data, 0.1); got != tt.want {
			t.Errorf("SettleFrame(%v) = %d, want %d", tt.data, got, tt.want)
		}
	}
}
