// Package metrics exposes Prometheus metrics for skater sessions.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vovakirdan/tui-skater/internal/core"
	"github.com/vovakirdan/tui-skater/internal/skater"
)

const namespace = "skater"

// Recorder holds the collectors on a private registry. It also counts game
// effects, so it can be teed into a game's effects sink.
type Recorder struct {
	registry *prometheus.Registry

	sessionsActive prometheus.Gauge
	gamesStarted   *prometheus.CounterVec
	gamesOver      prometheus.Counter
	finalScore     prometheus.Histogram
	highScore      prometheus.Gauge
	events         *prometheus.CounterVec
}

// NewRecorder creates and registers all collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		sessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of connected play sessions.",
		}),
		gamesStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_started_total",
			Help:      "Games started, by physics engine.",
		}, []string{"engine"}),
		gamesOver: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_over_total",
			Help:      "Games that ended in a wipeout.",
		}),
		finalScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "final_score",
			Help:      "Score at game over.",
			Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}),
		highScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "high_score",
			Help:      "Best score seen by this process.",
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Game events: jumps, gems and landings.",
		}, []string{"event"}),
	}

	r.registry.MustRegister(
		r.sessionsActive,
		r.gamesStarted,
		r.gamesOver,
		r.finalScore,
		r.highScore,
		r.events,
	)
	return r
}

// SessionOpened marks a connected player.
func (r *Recorder) SessionOpened() { r.sessionsActive.Inc() }

// SessionClosed marks a disconnected player.
func (r *Recorder) SessionClosed() { r.sessionsActive.Dec() }

// GameStarted counts a started game.
func (r *Recorder) GameStarted(engine string) {
	r.gamesStarted.WithLabelValues(engine).Inc()
}

// GameOver records a finished game.
func (r *Recorder) GameOver(score int) {
	r.gamesOver.Inc()
	r.finalScore.Observe(float64(score))
}

// HighScore publishes the current best score.
func (r *Recorder) HighScore(score int) {
	r.highScore.Set(float64(score))
}

func (r *Recorder) Jumped()          { r.events.WithLabelValues("jump").Inc() }
func (r *Recorder) GemCollected()    { r.events.WithLabelValues("gem").Inc() }
func (r *Recorder) Sparked(core.Vec) { r.events.WithLabelValues("landing").Inc() }

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Serve starts an HTTP server with /metrics on addr in the background. The
// returned function shuts it down.
func (r *Recorder) Serve(addr string, logger *log.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("Serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", "err", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

var _ skater.Effects = (*Recorder)(nil)
