package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

type wave int

const (
	waveSine wave = iota
	waveSquare
	waveSaw
	waveNoise
)

// oscillator produces a fixed-length tone, optionally sliding from freq to endFreq
type oscillator struct {
	freq, endFreq float64
	phase         float64
	length, pos   int
	wave          wave
	rate          beep.SampleRate
	rng           *rand.Rand
}

func newOscillator(freq, endFreq float64, d time.Duration, w wave, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:    freq,
		endFreq: endFreq,
		length:  rate.N(d),
		wave:    w,
		rate:    rate,
		rng:     rand.New(rand.NewSource(int64(freq*1000) + int64(d))),
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.pos >= o.length {
			return i, i > 0
		}
		var v float64
		switch o.wave {
		case waveSine:
			v = math.Sin(2 * math.Pi * o.phase)
		case waveSquare:
			v = 1
			if o.phase >= 0.5 {
				v = -1
			}
		case waveSaw:
			v = 2 * (o.phase - 0.5)
		case waveNoise:
			v = o.rng.Float64()*2 - 1
		}
		samples[i][0], samples[i][1] = v, v

		t := float64(o.pos) / float64(o.length)
		f := o.freq + (o.endFreq-o.freq)*t
		o.phase += f / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.pos++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope fades a stream in over attack and out over release
type envelope struct {
	s                    beep.Streamer
	pos, total, att, rel int
}

func newEnvelope(s beep.Streamer, d, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{s: s, total: rate.N(d), att: rate.N(attack), rel: rate.N(release)}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.s.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 1.0
		if e.pos < e.att {
			vol = float64(e.pos) / float64(e.att)
		}
		if left := e.total - e.pos; left < e.rel {
			vol = max(0, float64(left)/float64(e.rel))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.s.Err() }

// volume scales linearly; 0 mutes
func volume(s beep.Streamer, v float64) beep.Streamer {
	if v <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(v)}
}

// tone is one shaped oscillator
func tone(rate beep.SampleRate, w wave, from, to float64, d time.Duration) beep.Streamer {
	release := d / 3
	return newEnvelope(newOscillator(from, to, d, w, rate), d, 5*time.Millisecond, release, rate)
}
