package audio

import (
	"time"

	"github.com/gopxl/beep"

	"polarapocalypse/game"
)

const ms = time.Millisecond

// Sound synthesizes the effect for a cue. Unknown cues return nil.
func Sound(cue game.Cue, rate beep.SampleRate) beep.Streamer {
	switch cue {
	case game.CueShoot:
		return volume(tone(rate, waveSquare, 880, 440, 60*ms), 0.25)
	case game.CueMissile:
		return volume(tone(rate, waveSaw, 180, 620, 350*ms), 0.35)
	case game.CueExplosion:
		return volume(tone(rate, waveNoise, 0, 0, 600*ms), 0.6)
	case game.CueZombie:
		return volume(tone(rate, waveSaw, 110, 70, 300*ms), 0.4)
	case game.CueFire:
		return volume(beep.Mix(
			tone(rate, waveNoise, 0, 0, 400*ms),
			tone(rate, waveSaw, 220, 160, 400*ms),
		), 0.4)
	case game.CueWater:
		return volume(tone(rate, waveSine, 300, 520, 350*ms), 0.45)
	case game.CueIce:
		return volume(beep.Mix(
			tone(rate, waveSine, 1320, 1320, 300*ms),
			tone(rate, waveSine, 1980, 1760, 300*ms),
		), 0.3)
	case game.CuePickup:
		return volume(beep.Seq(
			tone(rate, waveSine, 988, 988, 70*ms),
			tone(rate, waveSine, 1319, 1319, 110*ms),
		), 0.35)
	case game.CueHorde:
		return volume(tone(rate, waveSquare, 98, 82, 900*ms), 0.35)
	case game.CueClick:
		return volume(tone(rate, waveSine, 1200, 1200, 30*ms), 0.3)
	case game.CueVictory:
		return volume(beep.Seq(
			tone(rate, waveSine, 523, 523, 150*ms),
			tone(rate, waveSine, 659, 659, 150*ms),
			tone(rate, waveSine, 784, 784, 150*ms),
			tone(rate, waveSine, 1047, 1047, 400*ms),
		), 0.4)
	case game.CueGameOver:
		return volume(beep.Seq(
			tone(rate, waveSaw, 392, 392, 250*ms),
			tone(rate, waveSaw, 311, 311, 250*ms),
			tone(rate, waveSaw, 196, 150, 700*ms),
		), 0.4)
	default:
		return nil
	}
}
