// Package audio plays an ambient pad whose brightness follows the world's
// kinetic energy.
package audio

import (
	"math"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/san-kum/parched/internal/sim"
)

const (
	SampleRate = 44100
	BufferSize = 1024
)

// Gm7 add9: G2, Bb2, D3, F3, A3
var chord = []float64{98.00, 116.54, 146.83, 174.61, 220.00}

// Synth is an output-only pad. OnUpdate feeds it from the world; Process
// fills audio buffers. The two may run on different goroutines.
type Synth struct {
	mu     sync.Mutex
	energy float64
	balls  int

	Time        float64
	smooth      float64
	filterState [2]float64
	delayLine   [2][]float64
	delayHead   int
	Volume      float64
}

func NewSynth() *Synth {
	delayLen := int(float64(SampleRate) * 0.6)
	return &Synth{
		delayLine: [2][]float64{make([]float64, delayLen), make([]float64, delayLen)},
		Volume:    0.25,
	}
}

var _ sim.Observer = (*Synth)(nil)

// OnUpdate implements sim.Observer.
func (s *Synth) OnUpdate(w *sim.World, dt float32) {
	e := w.Metrics()["kinetic_energy"]
	s.mu.Lock()
	s.energy = e
	s.balls = w.BallCount()
	s.mu.Unlock()
}

func (s *Synth) Energy() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.energy
}

// Cutoff is the low pass frequency for a smoothed energy level.
func Cutoff(energy float64) float64 {
	return 300.0 + math.Min(energy*2000.0, 900.0)
}

// Triangle Wave: Smooth, flute-like, no harsh buzz
func triangle(phase float64) float64 {
	p := phase - math.Floor(phase)
	return 4.0*math.Abs(p-0.5) - 1.0
}

// One pole low pass.
func lpf(sample, cutoff, dt, state float64) float64 {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	return state + alpha*(sample-state)
}

// Process fills a stereo buffer. An empty world plays silence.
func (s *Synth) Process(out [][]float32) {
	s.mu.Lock()
	target, balls := s.energy, s.balls
	s.mu.Unlock()

	s.smooth = s.smooth*0.995 + target*0.005
	cutoff := Cutoff(s.smooth)
	dt := 1.0 / float64(SampleRate)

	// the arena alone counts as empty
	vol := s.Volume
	if balls <= 1 {
		vol = 0
	}

	g := 1.0 / float64(len(chord))
	for i := range out[0] {
		var sampleL, sampleR float64
		for j, f := range chord {
			lfo := math.Sin(s.Time*0.2 + float64(j))
			sampleL += triangle(s.Time*f*0.999) * g * (0.7 + 0.3*lfo)
			sampleR += triangle(s.Time*f*1.001) * g * (0.7 + 0.3*lfo)
		}

		s.filterState[0] = lpf(sampleL, cutoff, dt, s.filterState[0])
		s.filterState[1] = lpf(sampleR, cutoff, dt, s.filterState[1])
		outL, outR := s.filterState[0], s.filterState[1]

		delayL := s.delayLine[0][s.delayHead]
		delayR := s.delayLine[1][s.delayHead]
		mixL := outL + delayL*0.3 + delayR*0.1
		mixR := outR + delayR*0.3 + delayL*0.1
		s.delayLine[0][s.delayHead] = mixL * 0.7
		s.delayLine[1][s.delayHead] = mixR * 0.7
		s.delayHead = (s.delayHead + 1) % len(s.delayLine[0])

		out[0][i] = float32(mixL * vol)
		out[1][i] = float32(mixR * vol)
		s.Time += dt
	}
}

// Player streams a Synth to the default output device.
type Player struct {
	Synth  *Synth
	stream *portaudio.Stream
}

func Start(s *Synth) (*Player, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, BufferSize, s.Process)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, err
	}
	return &Player{Synth: s, stream: stream}, nil
}

func (p *Player) Stop() error {
	defer portaudio.Terminate()
	if err := p.stream.Stop(); err != nil {
		return err
	}
	return p.stream.Close()
}
