package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tui-gemfall/internal/multiplayer"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenCreatesFile(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created in nested directory")
	}
}

func TestStoreSaveAndRetrieveScores(t *testing.T) {
	store := openTestStore(t)

	for _, score := range []int{100, 50, 200} {
		if _, err := store.SaveScore("gemfall", score); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}
	if _, err := store.SaveScore("gemfall_zen", 500); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	scores, err := store.TopScores("gemfall", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("expected 3 scores, got %d", len(scores))
	}
	if scores[0].Score != 200 || scores[1].Score != 100 || scores[2].Score != 50 {
		t.Errorf("scores not descending: %v", scores)
	}

	zenScores, err := store.TopScores("gemfall_zen", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(zenScores) != 1 {
		t.Errorf("expected 1 zen score, got %d", len(zenScores))
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		store.SaveScore("gemfall", (i+1)*100)
	}

	scores, err := store.TopScores("gemfall", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("expected 3 scores with limit, got %d", len(scores))
	}
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("scores not in expected order: %v", scores)
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("gemfall")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("expected high score of 0 for empty game, got %d", high)
	}

	store.SaveScore("gemfall", 100)
	store.SaveScore("gemfall", 300)
	store.SaveScore("gemfall", 200)

	high, err = store.HighScore("gemfall")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("expected high score of 300, got %d", high)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore("gemfall", 100)
	store.SaveScore("gemfall", 200)
	store.SaveScore("gemfall_zen", 300)

	if err := store.ClearScores("gemfall"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	scores, _ := store.TopScores("gemfall", 10)
	if len(scores) != 0 {
		t.Errorf("expected 0 scores after clear, got %d", len(scores))
	}

	zenScores, _ := store.TopScores("gemfall_zen", 10)
	if len(zenScores) != 1 {
		t.Error("zen scores should not be affected by clearing gemfall")
	}
}

func TestStoreSaveAndQueryRace(t *testing.T) {
	store := openTestStore(t)

	rec := RaceRecord{
		MatchID:        "race-ABCDEF-1",
		GameID:         "gemfall_zen",
		Player1Session: "sess-1",
		Player2Session: "sess-2",
		Score1:         450,
		Score2:         320,
		WinnerSession:  "sess-1",
		EndReason:      "Time up",
		Duration:       180,
	}
	if _, err := store.SaveRace(rec); err != nil {
		t.Fatalf("SaveRace() failed: %v", err)
	}

	got, err := store.RaceByMatchID("race-ABCDEF-1")
	if err != nil {
		t.Fatalf("RaceByMatchID() failed: %v", err)
	}
	if got == nil {
		t.Fatal("RaceByMatchID() returned nil for saved race")
	}
	if got.Score1 != 450 || got.Score2 != 320 || got.WinnerSession != "sess-1" {
		t.Errorf("race record mismatch: %+v", got)
	}

	missing, err := store.RaceByMatchID("nonexistent")
	if err != nil {
		t.Fatalf("RaceByMatchID() failed: %v", err)
	}
	if missing != nil {
		t.Error("unknown match ID should return nil")
	}
}

func TestStorePlayerRaceHistory(t *testing.T) {
	store := openTestStore(t)

	store.SaveRace(RaceRecord{MatchID: "m1", GameID: "gemfall_zen", Player1Session: "alice", Player2Session: "bob", EndReason: "Time up"})
	store.SaveRace(RaceRecord{MatchID: "m2", GameID: "gemfall_zen", Player1Session: "carol", Player2Session: "alice", EndReason: "Time up"})
	store.SaveRace(RaceRecord{MatchID: "m3", GameID: "gemfall_zen", Player1Session: "carol", Player2Session: "bob", EndReason: "Time up"})

	history, err := store.PlayerRaceHistory("alice", 10)
	if err != nil {
		t.Fatalf("PlayerRaceHistory() failed: %v", err)
	}
	if len(history) != 2 {
		t.Errorf("expected 2 races for alice, got %d", len(history))
	}

	recent, err := store.RecentRaces(2)
	if err != nil {
		t.Fatalf("RecentRaces() failed: %v", err)
	}
	if len(recent) != 2 {
		t.Errorf("expected 2 recent races with limit, got %d", len(recent))
	}
}

func TestStoreSaveMatchResultAdapter(t *testing.T) {
	store := openTestStore(t)

	err := store.SaveMatchResult(multiplayer.MatchResultData{
		MatchID:        "race-XYZ-1",
		GameID:         "gemfall_zen",
		Player1Session: "p1",
		Player2Session: "p2",
		Score1:         100,
		Score2:         200,
		WinnerSession:  "p2",
		EndReason:      "Time up",
		DurationSecs:   180,
	})
	if err != nil {
		t.Fatalf("SaveMatchResult() failed: %v", err)
	}

	got, err := store.RaceByMatchID("race-XYZ-1")
	if err != nil || got == nil {
		t.Fatalf("saved race not found: %v", err)
	}
	if got.WinnerSession != "p2" || got.Duration != 180 {
		t.Errorf("race record mismatch: %+v", got)
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore("gemfall", 100)
	store.SaveScore("gemfall", 300)
	store.SaveScore("gemfall_zen", 50)

	stats, err := store.GetGameStats("gemfall")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 2 || stats.HighScore != 300 || stats.TotalScore != 400 {
		t.Errorf("stats mismatch: %+v", stats)
	}

	all, err := store.GetAllGamesStats()
	if err != nil {
		t.Fatalf("GetAllGamesStats() failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected stats for 2 games, got %d", len(all))
	}
	if all["gemfall_zen"].HighScore != 50 {
		t.Errorf("zen high score = %d, want 50", all["gemfall_zen"].HighScore)
	}
}
