package render

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"polarapocalypse/game"
)

const (
	lineHeight        = 16.0
	hudPadding        = 10.0
	indicatorMargin   = 24.0
	indicatorArrowLen = 16.0
	indicatorLabelX   = 10.0
	indicatorLabelY   = 14.0
	hudLabelMarginX   = 90.0
	hudLabelMarginY   = 16.0
)

var (
	colorPanel      = color.RGBA{0, 0, 0, 160}
	colorOverlay    = color.RGBA{0, 0, 0, 180}
	colorMagicBar   = color.RGBA{0, 200, 255, 255}
	colorTitle      = color.RGBA{200, 240, 255, 255}
	colorCountdown  = color.RGBA{255, 200, 120, 255}
	colorSelectable = color.RGBA{180, 180, 180, 255}
)

// HUD draws text panels, notifications and state overlays
type HUD struct {
	face *text.GoXFace

	// Selected is the unit highlighted on the menu screen
	Selected game.UnitType
}

// NewHUD uses the 7x13 bitmap face
func NewHUD() *HUD {
	return &HUD{face: text.NewGoXFace(basicfont.Face7x13)}
}

// HUD returns the renderer's HUD
func (r *Renderer) HUD() *HUD { return r.hud }

func (h *HUD) label(screen *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.LineSpacing = lineHeight
	text.Draw(screen, s, h.face, op)
}

func (h *HUD) centered(screen *ebiten.Image, s string, y float64, clr color.Color) {
	w, _ := text.Measure(s, h.face, lineHeight)
	h.label(screen, s, (float64(screen.Bounds().Dx())-w)/2, y, clr)
}

// Draw renders the HUD for the current state
func (h *HUD) Draw(screen *ebiten.Image, sim *game.Simulation) {
	switch sim.State() {
	case game.StateMenu:
		h.drawMenu(screen)
		return
	}
	h.drawStats(screen, sim)
	h.drawNotifications(screen, sim.Notifications())

	switch sim.State() {
	case game.StatePaused:
		h.drawOverlay(screen, "PAUSED", "Esc to resume", colorTitle)
	case game.StateVictory:
		h.drawOverlay(screen, "VICTORY", h.endLine(sim), game.ColorGood)
	case game.StateGameOver:
		h.drawOverlay(screen, "GAME OVER", h.endLine(sim), game.ColorBad)
	}
}

func (h *HUD) endLine(sim *game.Simulation) string {
	st := sim.Stats()
	return fmt.Sprintf("Wave %d | %d zombies | %d nations | Enter to play again",
		sim.Wave(), st.ZombiesKilled, st.NationsDestroyed)
}

func (h *HUD) drawStats(screen *ebiten.Image, sim *game.Simulation) {
	w := sim.World()
	p := w.Player
	if p == nil {
		return
	}

	lines := []string{
		fmt.Sprintf("%s  Lv %d", strings.ToUpper(p.UnitType.String()), p.Level),
		fmt.Sprintf("HP %.0f/%.0f", max(0, p.HP), p.MaxHP),
		fmt.Sprintf("Magic %.0f/%.0f", p.Magic, p.MaxMagic),
		fmt.Sprintf("Missiles %d/%d", p.Missiles, p.MaxMissiles),
		fmt.Sprintf("Allies %d", w.LiveAllies()),
	}
	if p.Dead {
		lines = append(lines, fmt.Sprintf("Respawn in %.1fs", p.RespawnLeft))
	}
	lines = append(lines, "")
	for k := game.ResourceKind(0); k < game.ResourceKindCount; k++ {
		lines = append(lines, fmt.Sprintf("%-12s %d", k.String(), p.Inventory[k]))
	}

	height := float64(len(lines))*lineHeight + hudPadding*2
	vector.DrawFilledRect(screen, 4, 4, 180, float32(height), colorPanel, false)
	h.label(screen, strings.Join(lines, "\n"), hudPadding, hudPadding, color.White)

	// magic bar under the panel
	frac := 0.0
	if p.MaxMagic > 0 {
		frac = p.Magic / p.MaxMagic
	}
	vector.DrawFilledRect(screen, 4, float32(height)+6, 180, 4, colorHealthBack, false)
	vector.DrawFilledRect(screen, 4, float32(height)+6, float32(180*frac), 4, colorMagicBar, false)

	home := w.HomeNation()
	right := float64(screen.Bounds().Dx())
	wave := fmt.Sprintf("Wave %d  next in %.0fs", sim.Wave(), math.Ceil(sim.WaveCountdown()))
	h.label(screen, wave, right/2-80, hudPadding, colorCountdown)
	if home != nil {
		rocket := fmt.Sprintf("Rocket %.0f%%", home.RocketProgress)
		h.label(screen, rocket, right/2-80, hudPadding+lineHeight, colorRocket)
	}
	h.label(screen, fmt.Sprintf("Zombies %d  Hostile nations %d", len(w.Zombies), w.LiveHostileNations()),
		right/2-80, hudPadding+2*lineHeight, color.White)
}

// drawNotifications lists recent messages bottom up, fading the oldest
func (h *HUD) drawNotifications(screen *ebiten.Image, notes []game.Notification) {
	y := float64(screen.Bounds().Dy()) - hudPadding - lineHeight
	for i := len(notes) - 1; i >= 0; i-- {
		n := notes[i]
		a := uint8(255 * min(1, n.Remaining))
		h.label(screen, n.Text, hudPadding, y, withAlpha(n.Color, a))
		y -= lineHeight
		if y < float64(screen.Bounds().Dy())/2 {
			break
		}
	}
}

func (h *HUD) drawOverlay(screen *ebiten.Image, title, sub string, clr color.Color) {
	b := screen.Bounds()
	cy := float64(b.Dy()) / 2
	vector.DrawFilledRect(screen, 0, float32(cy-50), float32(b.Dx()), 100, colorOverlay, false)
	h.centered(screen, title, cy-24, clr)
	h.centered(screen, sub, cy+8, color.White)
}

func (h *HUD) drawMenu(screen *ebiten.Image) {
	screen.Fill(colorBackground)
	b := screen.Bounds()
	cy := float64(b.Dy()) / 3
	h.centered(screen, "POLAR APOCALYPSE", cy, colorTitle)
	h.centered(screen, "Choose your unit", cy+2*lineHeight, color.White)

	for t := game.UnitType(0); t < game.UnitTypeCount; t++ {
		cfg := game.GetUnitTypeConfig(t)
		line := fmt.Sprintf("%d  %-8s HP %.0f  speed %.0f  damage %.0f", int(t)+1, cfg.Name, cfg.Health, cfg.Speed, cfg.Damage)
		clr := color.Color(colorSelectable)
		if t == h.Selected {
			line = "> " + line + " <"
			clr = colorPlayer
		}
		h.centered(screen, line, cy+float64(4+int(t)*2)*lineHeight, clr)
	}
	h.centered(screen, "Enter to start", cy+11*lineHeight, colorCountdown)
	h.centered(screen, "WASD move  mouse aim  click fire  M missile  1-3 magic  X recruit", cy+14*lineHeight, colorSelectable)
	h.centered(screen, "C fighter  T tank  U upgrade  R rocket  F5 save  F9 load  Esc pause", cy+15*lineHeight, colorSelectable)
}

// drawOffscreenIndicators draws edge-of-screen markers for live hostile nations
// that are not visible. Markers landing in the same corner are merged.
func (r *Renderer) drawOffscreenIndicators(screen *ebiten.Image, w *game.World) {
	if w.Player == nil {
		return
	}
	width, height := r.camera.Width, r.camera.Height
	minX, maxX := indicatorMargin, width-indicatorMargin
	minY, maxY := indicatorMargin, height-indicatorMargin

	type cornerStat struct {
		count   int
		minDist float64
		dir     game.Vec2
		pos     game.Vec2
		clr     color.Color
	}
	corners := map[[2]bool]*cornerStat{}

	drawIndicator := func(pos, dir game.Vec2, dist float64, count int, clr color.Color) {
		tip := pos.Add(dir.Scale(indicatorArrowLen * 0.6))
		tail := pos.Sub(dir.Scale(indicatorArrowLen * 0.4))
		vector.StrokeLine(screen, float32(tail.X), float32(tail.Y), float32(tip.X), float32(tip.Y), 2, clr, true)

		wingLen := indicatorArrowLen * 0.5
		for _, wing := range []game.Vec2{dir.Rotate(math.Pi / 6), dir.Rotate(-math.Pi / 6)} {
			end := tip.Sub(wing.Scale(wingLen))
			vector.StrokeLine(screen, float32(tip.X), float32(tip.Y), float32(end.X), float32(end.Y), 2, clr, true)
		}

		label := fmt.Sprintf("%.0f", dist)
		if count > 1 {
			label = fmt.Sprintf("%.0f (x%d)", dist, count)
		}
		lx := max(4, min(width-hudLabelMarginX, pos.X+indicatorLabelX))
		ly := max(4, min(height-hudLabelMarginY, pos.Y-indicatorLabelY))
		r.hud.label(screen, label, lx, ly, clr)
	}

	for _, n := range w.HostileNations(game.FactionPlayer) {
		if n.Dead || r.camera.Visible(n.Pos, n.Radius) {
			continue
		}
		dist := n.Pos.Dist(w.Player.Pos)
		sx, sy := r.camera.WorldToScreen(n.Pos)
		cx, cy := width/2, height/2
		dir := game.Vec2{X: sx - cx, Y: sy - cy}.Normalize()

		clamped := game.Vec2{X: max(minX, min(maxX, sx)), Y: max(minY, min(maxY, sy))}
		isCorner := (clamped.X == minX || clamped.X == maxX) && (clamped.Y == minY || clamped.Y == maxY)
		if !isCorner {
			drawIndicator(clamped, dir, dist, 1, n.Color)
			continue
		}
		key := [2]bool{clamped.X == minX, clamped.Y == minY}
		if stat, ok := corners[key]; ok {
			stat.count++
			if dist < stat.minDist {
				stat.minDist, stat.dir, stat.pos, stat.clr = dist, dir, clamped, n.Color
			}
			continue
		}
		corners[key] = &cornerStat{count: 1, minDist: dist, dir: dir, pos: clamped, clr: n.Color}
	}

	for _, stat := range corners {
		drawIndicator(stat.pos, stat.dir, stat.minDist, stat.count, stat.clr)
	}
}
