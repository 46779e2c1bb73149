package audio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polarapocalypse/game"
)

func drain(t *testing.T, s interface {
	Stream([][2]float64) (int, bool)
}) (int, float64) {
	t.Helper()
	buf := make([][2]float64, 512)
	total, peak := 0, 0.0
	for i := 0; i < 1000; i++ {
		n, ok := s.Stream(buf)
		for _, smp := range buf[:n] {
			peak = max(peak, smp[0], -smp[0])
		}
		total += n
		if !ok {
			return total, peak
		}
	}
	t.Fatal("stream did not end")
	return 0, 0
}

func TestEveryCueHasAFiniteSound(t *testing.T) {
	for _, cue := range game.Cues {
		s := Sound(cue, sampleRate)
		require.NotNil(t, s, cue)
		n, peak := drain(t, s)
		assert.Positive(t, n, cue)
		assert.LessOrEqual(t, n, sampleRate.N(2*time.Second), cue)
		assert.Greater(t, peak, 0.0, cue)
	}
}

func TestUnknownCueIsSilent(t *testing.T) {
	assert.Nil(t, Sound(game.Cue("kazoo"), sampleRate))
}

func TestToneLength(t *testing.T) {
	n, _ := drain(t, tone(sampleRate, waveSine, 440, 440, 100*time.Millisecond))
	assert.Equal(t, sampleRate.N(100*time.Millisecond), n)
}

func TestPlayerWithoutSpeakerIsNoop(t *testing.T) {
	p := NewPlayer(Config{Enabled: false, Volume: 1}, nil)
	require.NoError(t, p.Init())
	assert.NotPanics(t, func() {
		for _, cue := range game.Cues {
			p.Play(cue)
		}
		p.Close()
	})
	assert.Zero(t, p.mixer.Len())
}
