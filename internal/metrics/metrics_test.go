package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vovakirdan/tui-skater/internal/core"
)

func TestRecorderCounters(t *testing.T) {
	r := NewRecorder()

	r.SessionOpened()
	r.SessionOpened()
	r.SessionClosed()
	if got := testutil.ToFloat64(r.sessionsActive); got != 1 {
		t.Errorf("sessions_active = %v, expected 1", got)
	}

	r.GameStarted("arcade")
	r.GameStarted("arcade")
	r.GameStarted("chipmunk")
	if got := testutil.ToFloat64(r.gamesStarted.WithLabelValues("arcade")); got != 2 {
		t.Errorf("games_started_total{engine=arcade} = %v, expected 2", got)
	}

	r.GameOver(120)
	r.HighScore(120)
	if got := testutil.ToFloat64(r.gamesOver); got != 1 {
		t.Errorf("games_over_total = %v, expected 1", got)
	}
	if got := testutil.ToFloat64(r.highScore); got != 120 {
		t.Errorf("high_score = %v, expected 120", got)
	}
	if got := testutil.CollectAndCount(r.finalScore); got != 1 {
		t.Errorf("final_score series = %d, expected 1", got)
	}
}

func TestRecorderEffects(t *testing.T) {
	r := NewRecorder()
	r.Jumped()
	r.Jumped()
	r.GemCollected()
	r.Sparked(core.Vec{})

	tests := []struct {
		event    string
		expected float64
	}{
		{"jump", 2},
		{"gem", 1},
		{"landing", 1},
	}
	for _, tc := range tests {
		if got := testutil.ToFloat64(r.events.WithLabelValues(tc.event)); got != tc.expected {
			t.Errorf("events_total{event=%s} = %v, expected %v", tc.event, got, tc.expected)
		}
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	r := NewRecorder()
	r.GameStarted("arcade")

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `skater_games_started_total{engine="arcade"} 1`) {
		t.Errorf("body missing games_started_total:\n%s", body)
	}
}
