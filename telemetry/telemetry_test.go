package telemetry

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polarapocalypse/game"
)

func TestObserveTick(t *testing.T) {
	m := NewMetrics()
	sum := game.Summary{
		Wave:    4,
		Zombies: 12,
		Allies:  2,
		Nations: []game.NationSummary{{Name: "Home", HP: 7500}},
		Stats:   game.Stats{ZombiesKilled: 9},
	}
	m.ObserveTick(3*time.Millisecond, sum)
	m.ObserveTick(2*time.Millisecond, sum)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ticks))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.entities.WithLabelValues("zombie")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.wave))
	assert.Equal(t, 9.0, testutil.ToFloat64(m.stats.WithLabelValues("zombies_killed")))
	assert.Equal(t, 7500.0, testutil.ToFloat64(m.nationHP.WithLabelValues("Home")))
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics()
	m.ObserveEvents(5, 1)
	m.ObserveProcess(ProcessStats{CPUPercent: 12.5, RSSBytes: 1 << 20, Goroutines: 8})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `polar_events{outcome="published"} 5`)
	assert.Contains(t, body, "polar_process_cpu_percent 12.5")
	assert.Contains(t, body, "polar_goroutines 8")
}

func TestProcessSampler(t *testing.T) {
	s, err := NewProcessSampler()
	require.NoError(t, err)
	ps, err := s.Sample()
	require.NoError(t, err)
	assert.Positive(t, ps.RSSBytes)
	assert.Positive(t, ps.Goroutines)
}

func TestProfilerSyncCapture(t *testing.T) {
	dir := t.TempDir()
	p, err := NewProfiler(dir, 50*time.Millisecond, time.Minute, nil)
	require.NoError(t, err)

	require.NoError(t, p.CaptureProfileSync("test", 50*time.Millisecond))
	assert.False(t, p.IsProfiling())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var cpu, tr bool
	for _, e := range entries {
		cpu = cpu || strings.HasSuffix(e.Name(), ".cpu.prof")
		tr = tr || strings.HasSuffix(e.Name(), ".trace")
	}
	assert.True(t, cpu)
	assert.True(t, tr)

	// The sync capture counts towards the cooldown
	assert.ErrorIs(t, p.CaptureProfile("again"), ErrProfileCooldown)
}

func TestWatchdogNeedsAStreak(t *testing.T) {
	p, err := NewProfiler(filepath.Join(t.TempDir(), "profiles"), 20*time.Millisecond, time.Hour, nil)
	require.NoError(t, err)
	w := &Watchdog{Budget: 16 * time.Millisecond, Limit: 3, Profiler: p}

	assert.False(t, w.Observe(20*time.Millisecond))
	assert.False(t, w.Observe(20*time.Millisecond))
	assert.False(t, w.Observe(5*time.Millisecond))
	assert.False(t, w.Observe(20*time.Millisecond))
	assert.False(t, w.Observe(20*time.Millisecond))
	assert.True(t, w.Observe(20*time.Millisecond))

	assert.Eventually(t, func() bool { return !p.IsProfiling() }, 2*time.Second, 10*time.Millisecond)
	for i := 0; i < 3; i++ {
		w.Observe(20 * time.Millisecond)
	}
	assert.False(t, p.IsProfiling())
}
