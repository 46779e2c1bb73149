package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"polarapocalypse/game"
	"polarapocalypse/render"
	"polarapocalypse/telemetry"
)

const (
	quickSlot   = 1
	saveTimeout = 2 * time.Second
)

// Host adapts a Simulation to ebiten: it polls the keyboard, ticks once per
// frame and draws the result
type Host struct {
	sim      *game.Simulation
	renderer *render.Renderer
	keys     *keyboard
	watchdog *telemetry.Watchdog
	logger   *slog.Logger

	width, height int
}

// NewHost creates a host drawing into a width x height window
func NewHost(sim *game.Simulation, width, height int, watchdog *telemetry.Watchdog, logger *slog.Logger) *Host {
	camera := render.NewCamera(float64(width), float64(height))
	return &Host{
		sim:      sim,
		renderer: render.NewRenderer(camera),
		keys:     newKeyboard(),
		watchdog: watchdog,
		logger:   logger,
		width:    width,
		height:   height,
	}
}

// Update implements ebiten.Game
func (h *Host) Update() error {
	start := time.Now()
	h.keys.update()

	if h.keys.pressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}

	switch h.sim.State() {
	case game.StateMenu:
		h.updateMenu()
		return nil
	case game.StatePaused:
		if h.keys.pressed(ebiten.KeyEscape) {
			h.sim.SetPaused(false)
		}
		return nil
	case game.StateGameOver:
		if h.keys.pressed(ebiten.KeyEnter) {
			h.sim.Start(h.renderer.HUD().Selected)
		}
		return nil
	case game.StatePlaying:
		if h.keys.pressed(ebiten.KeyEscape) {
			h.sim.SetPaused(true)
			return nil
		}
	case game.StateVictory:
		if h.keys.pressed(ebiten.KeyEnter) {
			h.sim.Start(h.renderer.HUD().Selected)
			return nil
		}
	}

	h.handleActions()
	dt := 1.0 / float64(ebiten.TPS())
	h.sim.Tick(dt, h.keys.playerInput(h.renderer.Camera()))

	if h.watchdog != nil {
		h.watchdog.Observe(time.Since(start))
	}
	return nil
}

func (h *Host) updateMenu() {
	hud := h.renderer.HUD()
	for i, key := range []ebiten.Key{ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3} {
		if h.keys.pressed(key) {
			hud.Selected = game.UnitType(i)
		}
	}
	if h.keys.pressed(ebiten.KeyUp) && hud.Selected > 0 {
		hud.Selected--
	}
	if h.keys.pressed(ebiten.KeyDown) && hud.Selected < game.UnitTypeCount-1 {
		hud.Selected++
	}
	if h.keys.pressed(ebiten.KeyEnter) {
		h.sim.Start(hud.Selected)
	}
}

// handleActions runs the one-shot economy and save commands. Failures are
// already reported to the player as notifications.
func (h *Host) handleActions() {
	var err error
	switch {
	case h.keys.pressed(ebiten.KeyC):
		_, err = h.sim.CraftAlly(game.UnitTypeFighter)
	case h.keys.pressed(ebiten.KeyT):
		_, err = h.sim.CraftAlly(game.UnitTypeTank)
	case h.keys.pressed(ebiten.KeyU):
		err = h.sim.UpgradeBase()
	case h.keys.pressed(ebiten.KeyR):
		_, err = h.sim.ContributeRocket()
	case h.keys.pressed(ebiten.KeyF5):
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		h.sim.SaveGame(ctx, quickSlot, "quicksave")
		cancel()
	case h.keys.pressed(ebiten.KeyF9):
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		h.sim.LoadGame(ctx, quickSlot)
		cancel()
	}
	if err != nil && !errors.Is(err, game.ErrInsufficientResources) {
		h.logger.Debug("action rejected", "err", err)
	}
}

// Draw implements ebiten.Game
func (h *Host) Draw(screen *ebiten.Image) {
	if h.sim.State() == game.StateMenu {
		h.renderer.HUD().Draw(screen, h.sim)
		return
	}
	h.renderer.Render(screen, h.sim)
}

// Layout implements ebiten.Game. The camera tracks the window size.
func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		h.width, h.height = outsideWidth, outsideHeight
		cam := h.renderer.Camera()
		cam.Width, cam.Height = float64(outsideWidth), float64(outsideHeight)
	}
	return h.width, h.height
}
