package spectator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polarapocalypse/game"
	"polarapocalypse/save"
	"polarapocalypse/telemetry"
)

type fixture struct {
	loop   *Loop
	server *Server
	slots  *save.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	codec, err := save.NewCodec()
	require.NoError(t, err)
	slots := save.NewManager(save.NewMemoryStore(), codec, nil)
	t.Cleanup(func() { slots.Close() })

	cfg := game.DefaultConfig()
	cfg.EnemyNationCount = 1
	sim, err := game.NewSimulation(cfg, game.Options{Saves: slots})
	require.NoError(t, err)
	sim.Start(game.UnitTypeFighter)

	hub := NewHub(nil)
	metrics := telemetry.NewMetrics()
	loop := NewLoop(sim, LoopOptions{
		Interval:       2 * time.Millisecond,
		Input:          game.NewAutopilot(),
		Metrics:        metrics,
		Hub:            hub,
		BroadcastEvery: 1,
	})
	sampler, err := telemetry.NewProcessSampler()
	require.NoError(t, err)
	server := NewServer(loop, hub, ServerOptions{Slots: slots, Metrics: metrics, Sampler: sampler})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go hub.Run(ctx)
	go func() {
		loop.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	require.Eventually(t, func() bool { return loop.Ticks() > 3 }, 2*time.Second, 5*time.Millisecond)
	return &fixture{loop: loop, server: server, slots: slots}
}

func (f *fixture) do(t *testing.T, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestHealthAndState(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/state")
	require.Equal(t, http.StatusOK, rec.Code)
	var sum game.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sum))
	assert.NotEmpty(t, sum.State)
	assert.Len(t, sum.Nations, 2)
	require.NotNil(t, sum.Player)
	assert.Equal(t, "fighter", sum.Player.Unit)
}

func TestSlotEndpoints(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/slots/3?name=outpost")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/slots")
	require.Equal(t, http.StatusOK, rec.Code)
	var metas []save.Meta
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &metas))
	require.Len(t, metas, 1)
	assert.Equal(t, "outpost", metas[0].Name)
	assert.Equal(t, 3, metas[0].Slot)

	assert.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/slots/3/load").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, f.do(t, http.MethodPost, "/slots/5/load").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/slots/11").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/slots/abc").Code)

	assert.Equal(t, http.StatusNoContent, f.do(t, http.MethodDelete, "/slots/3").Code)
	rec = f.do(t, http.MethodGet, "/slots")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestMetricsAndStatus(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "polar_ticks_total")

	rec = f.do(t, http.MethodGet, "/status")
	require.Equal(t, http.StatusOK, rec.Code)
	var st Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Positive(t, st.Ticks)
	assert.NotNil(t, st.Process)
	assert.Nil(t, st.Events)
}

func TestWebSocketStreamsSummaries(t *testing.T) {
	f := newFixture(t)
	ts := httptest.NewServer(f.server.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var sum game.Summary
	require.NoError(t, json.Unmarshal(msg, &sum))
	assert.NotEmpty(t, sum.State)
	assert.Positive(t, sum.Stats.Ticks)
}

func TestDoRunsOnLoop(t *testing.T) {
	f := newFixture(t)
	var state game.State
	require.NoError(t, f.loop.Do(context.Background(), func(sim *game.Simulation) {
		sim.SetPaused(true)
		state = sim.State()
	}))
	assert.Equal(t, game.StatePaused, state)
	assert.Equal(t, "paused", f.loop.Summary().State)
}
