package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"polarapocalypse/game"
)

const (
	minimapSize   = 180.0
	minimapMargin = 10.0
	minimapBlip   = 2.0
)

var (
	colorMinimapBackdrop = color.RGBA{0, 0, 0, 170}
	colorMinimapRing     = color.RGBA{90, 110, 130, 255}
)

// drawMinimap renders the whole map in the top right corner. Nations are scaled
// circles, units and zombies single blips, the player a larger dot.
func drawMinimap(screen *ebiten.Image, w *game.World, cfg game.Config) {
	ox := float64(screen.Bounds().Dx()) - minimapSize - minimapMargin
	oy := minimapMargin
	scale := minimapSize / max(cfg.MapWidth, cfg.MapHeight)
	mw, mh := cfg.MapWidth*scale, cfg.MapHeight*scale

	vector.DrawFilledRect(screen, float32(ox), float32(oy), float32(mw), float32(mh), colorMinimapBackdrop, false)
	vector.StrokeRect(screen, float32(ox), float32(oy), float32(mw), float32(mh), 1, colorMinimapRing, false)

	blip := func(p game.Vec2, r float64, clr color.Color) {
		x := ox + p.X*scale
		y := oy + p.Y*scale
		if x < ox || y < oy || x > ox+mw || y > oy+mh {
			return
		}
		vector.DrawFilledCircle(screen, float32(x), float32(y), float32(r), clr, false)
	}

	for _, n := range w.Nations {
		if n.Dead {
			continue
		}
		blip(n.Pos, max(3, n.Radius*scale), withAlpha(n.Color, 200))
		for _, u := range n.Units {
			if u.Alive() {
				blip(u.Pos, minimapBlip, n.Color)
			}
		}
	}
	zombie := game.GetFactionConfig(game.FactionZombie).Color
	for _, z := range w.Zombies {
		if z.Dead {
			continue
		}
		if z.Boss {
			blip(z.Pos, minimapBlip*2, colorBoss)
			continue
		}
		blip(z.Pos, minimapBlip, zombie)
	}
	for _, a := range w.Allies {
		if a.Alive() {
			blip(a.Pos, minimapBlip, colorAlly)
		}
	}
	if p := w.Player; p != nil && p.Alive() {
		blip(p.Pos, minimapBlip*2, colorPlayer)
	}
}
