// Package telemetry exports simulation metrics to Prometheus and captures CPU
// profiles when ticks overrun their budget.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"polarapocalypse/game"
)

// Metrics holds every collector of a running game
type Metrics struct {
	gatherer prometheus.Gatherer

	tickDuration prometheus.Histogram
	ticks        prometheus.Counter
	entities     *prometheus.GaugeVec
	wave         prometheus.Gauge
	stats        *prometheus.GaugeVec
	nationHP     *prometheus.GaugeVec
	events       *prometheus.GaugeVec

	cpuPercent prometheus.Gauge
	rssBytes   prometheus.Gauge
	goroutines prometheus.Gauge
}

// NewMetrics registers the collectors on a fresh registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		gatherer: reg,
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "polar",
			Name:      "tick_duration_seconds",
			Help:      "Wall time spent in one simulation tick.",
			Buckets:   []float64{0.0005, 0.001, 0.002, 0.004, 0.008, 0.016, 0.033, 0.066},
		}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "polar",
			Name:      "ticks_total",
			Help:      "Simulation ticks run.",
		}),
		entities: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "polar",
			Name:      "entities",
			Help:      "Live entities by kind.",
		}, []string{"kind"}),
		wave: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "polar",
			Name:      "wave",
			Help:      "Number of the next zombie wave.",
		}),
		stats: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "polar",
			Name:      "game_stat",
			Help:      "Running counters of the current game.",
		}, []string{"stat"}),
		nationHP: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "polar",
			Name:      "nation_hp",
			Help:      "Current HP per nation.",
		}, []string{"nation"}),
		events: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "polar",
			Name:      "events",
			Help:      "Event bus messages by outcome.",
		}, []string{"outcome"}),
		cpuPercent: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "polar",
			Name:      "process_cpu_percent",
			Help:      "CPU used by the process.",
		}),
		rssBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "polar",
			Name:      "process_rss_bytes",
			Help:      "Resident memory of the process.",
		}),
		goroutines: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "polar",
			Name:      "goroutines",
			Help:      "Goroutines alive.",
		}),
	}
	reg.MustRegister(
		m.tickDuration, m.ticks, m.entities, m.wave, m.stats, m.nationHP, m.events,
		m.cpuPercent, m.rssBytes, m.goroutines,
	)
	return m
}

// ObserveTick records one tick and the world it left behind
func (m *Metrics) ObserveTick(d time.Duration, sum game.Summary) {
	m.tickDuration.Observe(d.Seconds())
	m.ticks.Inc()

	m.entities.WithLabelValues("zombie").Set(float64(sum.Zombies))
	m.entities.WithLabelValues("ally").Set(float64(sum.Allies))
	m.entities.WithLabelValues("enemy_unit").Set(float64(sum.EnemyUnits))
	m.entities.WithLabelValues("projectile").Set(float64(sum.Projectiles))
	m.entities.WithLabelValues("resource").Set(float64(sum.Resources))
	m.wave.Set(float64(sum.Wave))

	m.stats.WithLabelValues("zombies_killed").Set(float64(sum.Stats.ZombiesKilled))
	m.stats.WithLabelValues("units_killed").Set(float64(sum.Stats.UnitsKilled))
	m.stats.WithLabelValues("nations_destroyed").Set(float64(sum.Stats.NationsDestroyed))
	m.stats.WithLabelValues("projectiles_fired").Set(float64(sum.Stats.ProjectilesFired))
	m.stats.WithLabelValues("waves_spawned").Set(float64(sum.Stats.WavesSpawned))

	for _, n := range sum.Nations {
		m.nationHP.WithLabelValues(n.Name).Set(n.HP)
	}
}

// ObserveEvents records event bus counters
func (m *Metrics) ObserveEvents(published, dropped uint64) {
	m.events.WithLabelValues("published").Set(float64(published))
	m.events.WithLabelValues("dropped").Set(float64(dropped))
}

// ObserveProcess records a process sample
func (m *Metrics) ObserveProcess(ps ProcessStats) {
	m.cpuPercent.Set(ps.CPUPercent)
	m.rssBytes.Set(float64(ps.RSSBytes))
	m.goroutines.Set(float64(ps.Goroutines))
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
