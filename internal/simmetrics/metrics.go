// Package simmetrics exposes Prometheus counters/gauges/histograms for a
// running Env, following the teacher's bounded-cardinality metric design
// (internal/api/observability.go) generalized from a livestreamed match to a
// simulation step loop. No per-drone or per-episode labels: cardinality stays
// fixed regardless of episode count or agent count.
package simmetrics

import (
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	stepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arena_step_duration_seconds",
		Help:    "Time spent in one step_env call",
		Buckets: []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01},
	})

	episodesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_episodes_total",
		Help: "Episodes completed (round ended or draw by timeout)",
	})

	dronesAlive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arena_drones_alive",
		Help: "Drones still alive in the current episode",
	})

	suddenDeathActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arena_sudden_death_active",
		Help: "1 if sudden death is active in the current episode, else 0",
	})

	ringsPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_sudden_death_rings_total",
		Help: "Sudden-death wall rings placed across all episodes",
	})

	// weapon is bounded to WeaponKind.String()'s fixed set (numWeaponKinds).
	shotsFired = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arena_shots_fired_total",
		Help: "Projectiles fired, by weapon kind",
	}, []string{"weapon"})

	shotsHit = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arena_shots_hit_total",
		Help: "Projectile hits landed on a drone, by weapon kind",
	}, []string{"weapon"})

	weaponPickupsCollected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_weapon_pickups_collected_total",
		Help: "Weapon pickups collected across all episodes",
	})
)

// RecordStep observes one step_env call's wall-clock cost.
func RecordStep(d time.Duration) {
	stepDuration.Observe(d.Seconds())
}

// RecordEpisodeEnd increments the episode counter and resets the
// per-episode gauges ahead of the next reset_env call.
func RecordEpisodeEnd() {
	episodesTotal.Inc()
	dronesAlive.Set(0)
	suddenDeathActive.Set(0)
}

// UpdateDronesAlive sets the current alive-drone gauge.
func UpdateDronesAlive(n int) {
	dronesAlive.Set(float64(n))
}

// UpdateSuddenDeathActive records whether sudden death is currently active.
func UpdateSuddenDeathActive(active bool) {
	if active {
		suddenDeathActive.Set(1)
		return
	}
	suddenDeathActive.Set(0)
}

// RecordRingPlaced increments the sudden-death ring-placement counter.
func RecordRingPlaced() {
	ringsPlaced.Inc()
}

// RecordShotFired increments the fired-shots counter for weapon.
func RecordShotFired(weapon string) {
	shotsFired.WithLabelValues(weapon).Inc()
}

// RecordShotHit increments the landed-hits counter for weapon.
func RecordShotHit(weapon string) {
	shotsHit.WithLabelValues(weapon).Inc()
}

// RecordWeaponPickup increments the pickups-collected counter.
func RecordWeaponPickup() {
	weaponPickupsCollected.Inc()
}

// ServeConfig configures the metrics HTTP endpoint, matching the teacher's
// localhost-only debug server discipline (internal/api.ObservabilityConfig)
// since a benchmark harness has no other reason to open a network port.
type ServeConfig struct {
	Enabled    bool
	ListenAddr string // loopback by default; cmd/arenabench sets it from --metrics-addr, and Serve does not check that it is loopback
}

// DefaultServeConfig returns a disabled-by-default loopback config.
func DefaultServeConfig() ServeConfig {
	return ServeConfig{Enabled: false, ListenAddr: "127.0.0.1:9090"}
}

// Serve starts the Prometheus /metrics endpoint in the background if cfg is
// enabled. It never blocks the caller.
func Serve(cfg ServeConfig) {
	if !cfg.Enabled {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Printf("simmetrics: serving /metrics on %s", cfg.ListenAddr)
		if err := http.ListenAndServe(cfg.ListenAddr, mux); err != nil {
			log.Printf("simmetrics: server stopped: %v", err)
		}
	}()
}
