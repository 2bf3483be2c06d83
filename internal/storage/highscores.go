package storage

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-skater/internal/skater"
)

// HighScores is the process-wide best score backed by a Store. It is safe
// for concurrent use by several games.
type HighScores struct {
	mu     sync.Mutex
	store  *Store
	best   int
	logger *log.Logger
}

// NewHighScores loads the best score from store. A nil store keeps the
// score in memory only.
func NewHighScores(store *Store, logger *log.Logger) *HighScores {
	if logger == nil {
		logger = log.Default()
	}
	h := &HighScores{store: store, logger: logger}
	if store != nil {
		best, err := store.BestScore()
		if err != nil {
			logger.Warn("cannot load best score", "err", err)
		}
		h.best = best
	}
	return h
}

// Best returns the best score.
func (h *HighScores) Best() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.best
}

// SetBest records score if it beats the best. Storage failures are logged
// and the in-memory value is kept.
func (h *HighScores) SetBest(score int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if score <= h.best {
		return
	}
	h.best = score
	if h.store == nil {
		return
	}
	if err := h.store.SetBestScore(score); err != nil {
		h.logger.Error("cannot save best score", "score", score, "err", err)
	}
}

var _ skater.HighScores = (*HighScores)(nil)
