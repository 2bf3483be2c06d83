package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreSaveRunAssignsUUID(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveRun(Run{Player: "local", Score: 42, Distance: 1234.5, Engine: "arcade"})
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("SaveRun() id = %q, expected a uuid: %v", id, err)
	}

	runs, err := store.TopRuns(10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("TopRuns() returned %d runs, expected 1", len(runs))
	}
	r := runs[0]
	if r.ID != id || r.Player != "local" || r.Score != 42 || r.Distance != 1234.5 || r.Engine != "arcade" {
		t.Errorf("TopRuns()[0] = %+v, expected the saved run", r)
	}

	if _, err := store.SaveRun(Run{ID: id, Score: 1}); err == nil {
		t.Error("SaveRun() with a duplicate id should fail")
	}
}

func TestStoreTopRunsOrderAndLimit(t *testing.T) {
	store := openTestStore(t)

	for _, score := range []int{100, 500, 300, 200, 400} {
		if _, err := store.SaveRun(Run{Score: score}); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	runs, err := store.TopRuns(3)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("Expected 3 runs with limit, got %d", len(runs))
	}
	if runs[0].Score != 500 || runs[1].Score != 400 || runs[2].Score != 300 {
		t.Errorf("Runs not in expected order: %v", runs)
	}

	all, err := store.TopRuns(0)
	if err != nil {
		t.Fatalf("TopRuns(0) failed: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("TopRuns(0) returned %d runs, expected the default limit to cover 5", len(all))
	}
}

func TestStoreBestScoreIsMonotonic(t *testing.T) {
	store := openTestStore(t)

	best, err := store.BestScore()
	if err != nil {
		t.Fatalf("BestScore() failed: %v", err)
	}
	if best != 0 {
		t.Errorf("BestScore() = %d on empty store, expected 0", best)
	}

	steps := []struct {
		set      int
		expected int
	}{
		{120, 120},
		{80, 120},
		{300, 300},
		{300, 300},
		{0, 300},
	}
	for _, s := range steps {
		if err := store.SetBestScore(s.set); err != nil {
			t.Fatalf("SetBestScore(%d) failed: %v", s.set, err)
		}
		best, err := store.BestScore()
		if err != nil {
			t.Fatalf("BestScore() failed: %v", err)
		}
		if best != s.expected {
			t.Errorf("after SetBestScore(%d): BestScore() = %d, expected %d", s.set, best, s.expected)
		}
	}
}

func TestStoreClearRuns(t *testing.T) {
	store := openTestStore(t)

	store.SaveRun(Run{Score: 100})
	store.SaveRun(Run{Score: 200})
	store.SetBestScore(200)

	if err := store.ClearRuns(); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}

	runs, _ := store.TopRuns(10)
	if len(runs) != 0 {
		t.Errorf("Expected 0 runs after clear, got %d", len(runs))
	}
	if best, _ := store.BestScore(); best != 0 {
		t.Errorf("BestScore() = %d after clear, expected 0", best)
	}
}

func TestStoreStats(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Runs != 0 || stats.BestScore != 0 {
		t.Errorf("Stats() on empty store = %+v, expected zeros", stats)
	}

	for _, score := range []int{10, 20, 60} {
		store.SaveRun(Run{Score: score})
	}
	store.SetBestScore(75)

	stats, err = store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Runs != 3 {
		t.Errorf("Runs = %d, expected 3", stats.Runs)
	}
	if stats.TotalScore != 90 {
		t.Errorf("TotalScore = %d, expected 90", stats.TotalScore)
	}
	if stats.AvgScore != 30 {
		t.Errorf("AvgScore = %v, expected 30", stats.AvgScore)
	}
	if stats.BestScore != 75 {
		t.Errorf("BestScore = %d, expected the persisted 75", stats.BestScore)
	}
}
