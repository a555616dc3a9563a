package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	st, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	// Shared-cache memory databases outlive a single test; start clean.
	if _, err := st.db.Exec("DELETE FROM runs"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	return st
}

func TestOpen(t *testing.T) {
	st := openMemory(t)

	var name string
	err := st.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='runs'").Scan(&name)
	if err != nil {
		t.Fatalf("runs table not created: %v", err)
	}
}

func TestOpenFile(t *testing.T) {
	st, err := Open(filepath.Join(t.TempDir(), "mpkio.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer st.Close()

	var mode string
	if err := st.db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("expected wal, got %q", mode)
	}
}

func TestRecordAndFinishRun(t *testing.T) {
	st := openMemory(t)

	start := time.Now().Add(-2 * time.Second)
	id, err := st.RecordRun("export", "export_scene.pkmpk", "/tmp/out.mpk",
		map[string]any{"use_all": true, "optimize": false}, start)
	if err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}
	if len(id) != 36 {
		t.Errorf("expected uuid id, got %q", id)
	}

	runs, err := st.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if !runs[0].Finished.IsZero() || runs[0].Duration() != 0 {
		t.Error("running entry should have no finish time")
	}
	if runs[0].Keywords["use_all"] != true {
		t.Errorf("keywords not stored: %v", runs[0].Keywords)
	}

	if err := st.FinishRun(id, "FINISHED", nil, time.Now()); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}
	runs, _ = st.RecentRuns(10)
	if runs[0].Status != "FINISHED" || runs[0].Err != "" {
		t.Errorf("unexpected run: %+v", runs[0])
	}
	if runs[0].Duration() < 2*time.Second {
		t.Errorf("duration too short: %v", runs[0].Duration())
	}
}

func TestFinishRunRecordsError(t *testing.T) {
	st := openMemory(t)
	id, err := st.RecordRun("import", "import_scene.pkmpk", "/maps/a.mpk", map[string]any{}, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if err := st.FinishRun(id, "CANCELLED", errors.New("exit status 1"), time.Now()); err != nil {
		t.Fatal(err)
	}
	runs, _ := st.RecentRuns(1)
	if runs[0].Err != "exit status 1" || runs[0].Status != "CANCELLED" {
		t.Errorf("unexpected run: %+v", runs[0])
	}
}

func TestFinishUnknownRun(t *testing.T) {
	st := openMemory(t)
	err := st.FinishRun("nope", "FINISHED", nil, time.Now())
	if !errors.Is(err, ErrNoRun) {
		t.Errorf("expected ErrNoRun, got %v", err)
	}
}

func TestRecentRunsOrderAndLimit(t *testing.T) {
	st := openMemory(t)
	base := time.Now().Add(-time.Hour)
	for i, path := range []string{"a.mpk", "b.mpk", "c.mpk"} {
		if _, err := st.RecordRun("import", "import_scene.pkmpk", path, nil, base.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := st.RecentRuns(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Path != "c.mpk" || runs[1].Path != "b.mpk" {
		t.Errorf("expected newest first, got %s, %s", runs[0].Path, runs[1].Path)
	}
}
