package spectator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"polarapocalypse/eventbus"
	"polarapocalypse/game"
	"polarapocalypse/save"
	"polarapocalypse/telemetry"
)

// SlotAdmin lists and deletes save slots
type SlotAdmin interface {
	Slots(ctx context.Context) ([]save.Meta, error)
	Delete(ctx context.Context, slot int) error
}

// ServerOptions wires the optional parts of the API
type ServerOptions struct {
	Slots   SlotAdmin
	Metrics *telemetry.Metrics
	Sampler *telemetry.ProcessSampler
	Bus     *eventbus.Bus
	Logger  *slog.Logger
}

// Status is the body of GET /status
type Status struct {
	Uptime  float64                 `json:"uptime_seconds"`
	Ticks   uint64                  `json:"ticks"`
	State   string                  `json:"state"`
	Clients int                     `json:"clients"`
	Process *telemetry.ProcessStats `json:"process,omitempty"`
	Events  *eventbus.Stats         `json:"events,omitempty"`
}

// Server is the spectator HTTP API
type Server struct {
	router  *gin.Engine
	loop    *Loop
	hub     *Hub
	opts    ServerOptions
	started time.Time
}

// NewServer builds the gin router for loop and hub
func NewServer(loop *Loop, hub *Hub, opts ServerOptions) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{router: router, loop: loop, hub: hub, opts: opts, started: time.Now()}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.router.GET("/state", s.handleState)
	s.router.GET("/status", s.handleStatus)
	if s.hub != nil {
		s.router.GET("/ws", gin.WrapF(s.hub.ServeWs))
	}
	if s.opts.Metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.opts.Metrics.Handler()))
	}

	slots := s.router.Group("/slots")
	{
		slots.GET("", s.handleListSlots)
		slots.POST("/:slot", s.handleSave)
		slots.POST("/:slot/load", s.handleLoad)
		slots.DELETE("/:slot", s.handleDelete)
	}
}

// Handler exposes the router
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is done, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		s.opts.Logger.Info("spectator api listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown spectator api: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleState(c *gin.Context) {
	c.JSON(http.StatusOK, s.loop.Summary())
}

func (s *Server) handleStatus(c *gin.Context) {
	st := Status{
		Uptime: time.Since(s.started).Seconds(),
		Ticks:  s.loop.Ticks(),
		State:  s.loop.Summary().State,
	}
	if s.hub != nil {
		st.Clients = s.hub.Clients(c.Request.Context())
	}
	if s.opts.Sampler != nil {
		if ps, err := s.opts.Sampler.Sample(); err == nil {
			st.Process = &ps
			if s.opts.Metrics != nil {
				s.opts.Metrics.ObserveProcess(ps)
			}
		}
	}
	if s.opts.Bus != nil {
		ev := s.opts.Bus.Stats()
		st.Events = &ev
		if s.opts.Metrics != nil {
			s.opts.Metrics.ObserveEvents(ev.Published, ev.Dropped)
		}
	}
	c.JSON(http.StatusOK, st)
}

func slotParam(c *gin.Context) (int, bool) {
	slot, err := strconv.Atoi(c.Param("slot"))
	if err != nil || slot < save.MinSlot || slot > save.MaxSlot {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("slot must be %d..%d", save.MinSlot, save.MaxSlot)})
		return 0, false
	}
	return slot, true
}

func (s *Server) handleListSlots(c *gin.Context) {
	if s.opts.Slots == nil {
		c.JSON(http.StatusOK, []save.Meta{})
		return
	}
	slots, err := s.opts.Slots.Slots(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if slots == nil {
		slots = []save.Meta{}
	}
	c.JSON(http.StatusOK, slots)
}

func (s *Server) handleSave(c *gin.Context) {
	slot, ok := slotParam(c)
	if !ok {
		return
	}
	name := c.DefaultQuery("name", fmt.Sprintf("slot %d", slot))
	s.runSlotCommand(c, slot, func(sim *game.Simulation) bool {
		return sim.SaveGame(c.Request.Context(), slot, name)
	})
}

func (s *Server) handleLoad(c *gin.Context) {
	slot, ok := slotParam(c)
	if !ok {
		return
	}
	s.runSlotCommand(c, slot, func(sim *game.Simulation) bool {
		return sim.LoadGame(c.Request.Context(), slot)
	})
}

func (s *Server) runSlotCommand(c *gin.Context, slot int, fn func(*game.Simulation) bool) {
	var ok bool
	if err := s.loop.Do(c.Request.Context(), func(sim *game.Simulation) { ok = fn(sim) }); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"slot": slot, "ok": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"slot": slot, "ok": true})
}

func (s *Server) handleDelete(c *gin.Context) {
	slot, ok := slotParam(c)
	if !ok {
		return
	}
	if s.opts.Slots == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no save storage"})
		return
	}
	if err := s.opts.Slots.Delete(c.Request.Context(), slot); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
