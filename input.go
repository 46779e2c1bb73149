package main

import (
	"github.com/hajimehoshi/ebiten/v2"

	"polarapocalypse/game"
	"polarapocalypse/render"
)

// keyboard tracks key states between frames so actions fire on press, not while held
type keyboard struct {
	prev map[ebiten.Key]bool
	now  map[ebiten.Key]bool
}

func newKeyboard() *keyboard {
	return &keyboard{prev: map[ebiten.Key]bool{}, now: map[ebiten.Key]bool{}}
}

var trackedKeys = []ebiten.Key{
	ebiten.KeyEscape, ebiten.KeyEnter, ebiten.KeySpace,
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3,
	ebiten.KeyM, ebiten.KeyX, ebiten.KeyC, ebiten.KeyT, ebiten.KeyU, ebiten.KeyR,
	ebiten.KeyF5, ebiten.KeyF9, ebiten.KeyF11,
	ebiten.KeyUp, ebiten.KeyDown,
}

// update samples every tracked key; call once per frame
func (k *keyboard) update() {
	k.prev, k.now = k.now, k.prev
	for _, key := range trackedKeys {
		k.now[key] = ebiten.IsKeyPressed(key)
	}
}

// pressed reports a key that went down this frame
func (k *keyboard) pressed(key ebiten.Key) bool {
	return k.now[key] && !k.prev[key]
}

func held(keys ...ebiten.Key) bool {
	for _, key := range keys {
		if ebiten.IsKeyPressed(key) {
			return true
		}
	}
	return false
}

// playerInput reads movement, aim and combat keys into the tick input
func (k *keyboard) playerInput(camera *render.Camera) game.Input {
	mx, my := ebiten.CursorPosition()
	return game.Input{
		Up:    held(ebiten.KeyW, ebiten.KeyUp),
		Down:  held(ebiten.KeyS, ebiten.KeyDown),
		Left:  held(ebiten.KeyA, ebiten.KeyLeft),
		Right: held(ebiten.KeyD, ebiten.KeyRight),

		Aim:    camera.ScreenToWorld(float64(mx), float64(my)),
		HasAim: true,

		Fire:    ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) || held(ebiten.KeySpace),
		Missile: held(ebiten.KeyM) || ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight),

		CastFire:  k.pressed(ebiten.KeyDigit1),
		CastWater: k.pressed(ebiten.KeyDigit2),
		CastIce:   k.pressed(ebiten.KeyDigit3),
		Recruit:   k.pressed(ebiten.KeyX),
	}
}
