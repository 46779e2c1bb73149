// Package render draws a simulation with ebiten.
package render

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"polarapocalypse/game"
)

var (
	colorBackground = color.RGBA{18, 24, 32, 255}
	colorGridLine   = color.RGBA{32, 42, 54, 255}
	colorMapEdge    = color.RGBA{90, 110, 130, 255}
	colorHealthBack = color.RGBA{100, 0, 0, 255}
	colorHealth     = color.RGBA{0, 255, 0, 255}
	colorPlayer     = color.RGBA{80, 200, 255, 255}
	colorAlly       = color.RGBA{120, 255, 160, 255}
	colorBoss       = color.RGBA{170, 60, 200, 255}
	colorRocket     = color.RGBA{255, 220, 80, 255}
)

var resourceColors = [game.ResourceKindCount]color.RGBA{
	game.ResourceMetal:       {170, 180, 190, 255},
	game.ResourceBinder:      {160, 140, 110, 255},
	game.ResourceElectronics: {60, 200, 120, 255},
	game.ResourceCrystal:     {120, 200, 255, 255},
	game.ResourceFuel:        {255, 150, 40, 255},
	game.ResourceAmmo:        {230, 230, 90, 255},
}

var magicColors = map[game.MagicType]color.RGBA{
	game.MagicFire:  {255, 90, 30, 90},
	game.MagicWater: {40, 120, 255, 90},
	game.MagicIce:   {180, 230, 255, 90},
}

// Renderer draws the world through a camera
type Renderer struct {
	camera *Camera
	hud    *HUD
}

// NewRenderer draws through camera
func NewRenderer(camera *Camera) *Renderer {
	return &Renderer{camera: camera, hud: NewHUD()}
}

// Camera returns the renderer's camera
func (r *Renderer) Camera() *Camera { return r.camera }

// Render draws one frame
func (r *Renderer) Render(screen *ebiten.Image, sim *game.Simulation) {
	w := sim.World()
	cfg := sim.Config()
	if w.Player != nil {
		r.camera.Follow(w.Player.Pos, cfg.MapWidth, cfg.MapHeight)
	}

	screen.Fill(colorBackground)
	r.drawGrid(screen, cfg)

	for _, res := range w.Resources {
		r.drawResource(screen, res)
	}
	for _, n := range w.Nations {
		r.drawNation(screen, n)
	}
	for _, m := range w.Effects {
		r.drawEffect(screen, m)
	}
	for _, z := range w.Zombies {
		r.drawZombie(screen, z, cfg.ZombieFadeTime)
	}
	for _, n := range w.Nations {
		for _, u := range n.Units {
			if u.Alive() {
				r.drawUnit(screen, &u.Entity, n.Color)
			}
		}
	}
	for _, a := range w.Allies {
		if a.Alive() {
			r.drawUnit(screen, &a.Entity, colorAlly)
		}
	}
	if p := w.Player; p != nil && p.Alive() {
		r.drawUnit(screen, &p.Entity, colorPlayer)
	}
	for _, p := range w.Projectiles {
		r.drawProjectile(screen, p)
	}
	for _, p := range w.Particles {
		r.drawParticle(screen, p)
	}

	r.drawOffscreenIndicators(screen, w)
	drawMinimap(screen, w, cfg)
	r.hud.Draw(screen, sim)
}

func (r *Renderer) drawGrid(screen *ebiten.Image, cfg game.Config) {
	const step = 200.0
	for x := 0.0; x <= cfg.MapWidth; x += step {
		x0, y0 := r.camera.WorldToScreen(game.Vec2{X: x})
		_, y1 := r.camera.WorldToScreen(game.Vec2{X: x, Y: cfg.MapHeight})
		vector.StrokeLine(screen, float32(x0), float32(y0), float32(x0), float32(y1), 1, colorGridLine, false)
	}
	for y := 0.0; y <= cfg.MapHeight; y += step {
		x0, y0 := r.camera.WorldToScreen(game.Vec2{Y: y})
		x1, _ := r.camera.WorldToScreen(game.Vec2{X: cfg.MapWidth, Y: y})
		vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y0), 1, colorGridLine, false)
	}
	x0, y0 := r.camera.WorldToScreen(game.Vec2{})
	x1, y1 := r.camera.WorldToScreen(game.Vec2{X: cfg.MapWidth, Y: cfg.MapHeight})
	vector.StrokeRect(screen, float32(x0), float32(y0), float32(x1-x0), float32(y1-y0), 2, colorMapEdge, false)
}

// drawUnit draws a circle with a heading line and a health bar when damaged
func (r *Renderer) drawUnit(screen *ebiten.Image, e *game.Entity, clr color.Color) {
	if !r.camera.Visible(e.Pos, e.Radius) {
		return
	}
	sx, sy := r.camera.WorldToScreen(e.Pos)
	radius := max(1, e.Radius*r.camera.Zoom)

	vector.DrawFilledCircle(screen, float32(sx), float32(sy), float32(radius), clr, true)

	dirLength := radius * 1.5
	endX := sx + math.Cos(e.Rotation)*dirLength
	endY := sy + math.Sin(e.Rotation)*dirLength
	vector.StrokeLine(screen, float32(sx), float32(sy), float32(endX), float32(endY), 2, clr, true)

	if e.HP < e.MaxHP {
		r.drawHealthBar(screen, sx, sy-radius, radius*2, e.HealthFraction())
	}
}

func (r *Renderer) drawHealthBar(screen *ebiten.Image, cx, top, width, fraction float64) {
	height := 4.0 * r.camera.Zoom
	x := cx - width/2
	y := top - height - 2
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(width), float32(height), colorHealthBack, true)
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(width*fraction), float32(height), colorHealth, true)
}

func (r *Renderer) drawNation(screen *ebiten.Image, n *game.Nation) {
	if !r.camera.Visible(n.Pos, n.Radius) {
		return
	}
	sx, sy := r.camera.WorldToScreen(n.Pos)
	radius := n.Radius * r.camera.Zoom
	clr := n.Color
	if n.Dead {
		clr = color.RGBA{60, 60, 60, 255}
	}
	vector.DrawFilledCircle(screen, float32(sx), float32(sy), float32(radius), withAlpha(clr, 110), true)
	vector.StrokeCircle(screen, float32(sx), float32(sy), float32(radius), 3, clr, true)
	vector.StrokeCircle(screen, float32(sx), float32(sy), float32(n.Attack.Range*r.camera.Zoom), 1, withAlpha(clr, 50), true)

	if n.Dead {
		return
	}
	r.drawHealthBar(screen, sx, sy-radius, radius*2, n.HealthFraction())
	r.hud.label(screen, n.Name, sx-radius, sy-radius-24, color.White)
	if n.IsHome() && n.RocketProgress > 0 {
		width := radius * 2
		vector.DrawFilledRect(screen, float32(sx-radius), float32(sy+radius+4), float32(width), 4, colorHealthBack, true)
		vector.DrawFilledRect(screen, float32(sx-radius), float32(sy+radius+4), float32(width*n.RocketProgress/100), 4, colorRocket, true)
	}
}

func (r *Renderer) drawZombie(screen *ebiten.Image, z *game.Zombie, fadeTime float64) {
	clr := game.GetFactionConfig(game.FactionZombie).Color
	if z.Boss {
		clr = colorBoss
	}
	if z.Dead {
		if z.FadeLeft <= 0 || !r.camera.Visible(z.Pos, z.Radius) {
			return
		}
		sx, sy := r.camera.WorldToScreen(z.Pos)
		alpha := uint8(160 * z.FadeLeft / fadeTime)
		vector.DrawFilledCircle(screen, float32(sx), float32(sy), float32(z.Radius*r.camera.Zoom), withAlpha(clr, alpha), true)
		return
	}
	r.drawUnit(screen, &z.Entity, clr)
}

func (r *Renderer) drawProjectile(screen *ebiten.Image, p *game.Projectile) {
	if p.Dead || !r.camera.Visible(p.Pos, p.Radius) {
		return
	}
	sx, sy := r.camera.WorldToScreen(p.Pos)
	clr := game.GetFactionConfig(p.Faction).Color
	switch p.Weapon {
	case game.WeaponTypeMissile:
		tailX := sx - math.Cos(p.Rotation)*p.Radius*2*r.camera.Zoom
		tailY := sy - math.Sin(p.Rotation)*p.Radius*2*r.camera.Zoom
		vector.StrokeLine(screen, float32(tailX), float32(tailY), float32(sx), float32(sy), 4, colorRocket, true)
	default:
		vector.DrawFilledCircle(screen, float32(sx), float32(sy), float32(max(2, p.Radius*0.4*r.camera.Zoom)), clr, true)
	}
}

func (r *Renderer) drawEffect(screen *ebiten.Image, m *game.MagicEffect) {
	if m.LifeLeft <= 0 || !r.camera.Visible(m.Pos, m.Radius) {
		return
	}
	sx, sy := r.camera.WorldToScreen(m.Pos)
	clr := magicColors[m.Magic]
	alpha := uint8(float64(clr.A) * min(1, m.LifeLeft/m.Duration))
	vector.DrawFilledCircle(screen, float32(sx), float32(sy), float32(m.Radius*r.camera.Zoom), withAlpha(clr, alpha), true)
}

func (r *Renderer) drawResource(screen *ebiten.Image, res *game.ResourceItem) {
	if res.Dead || !r.camera.Visible(res.Pos, res.Radius) {
		return
	}
	sx, sy := r.camera.WorldToScreen(res.Pos)
	half := float32(res.Radius * 0.5 * r.camera.Zoom)
	vector.DrawFilledRect(screen, float32(sx)-half, float32(sy)-half, half*2, half*2, resourceColors[res.Resource], true)
}

func (r *Renderer) drawParticle(screen *ebiten.Image, p *game.Particle) {
	if p.LifeLeft <= 0 || !r.camera.Visible(p.Pos, p.Radius) {
		return
	}
	sx, sy := r.camera.WorldToScreen(p.Pos)
	a := uint8(255 * max(0, min(1, p.Alpha)))
	vector.DrawFilledCircle(screen, float32(sx), float32(sy), float32(max(1, p.Radius*r.camera.Zoom)), withAlpha(p.Color, a), false)
}

func withAlpha(c color.RGBA, a uint8) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: a}
}
