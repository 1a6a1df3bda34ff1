package store

import (
	"errors"
	"testing"
	"time"

	"github.com/sadopc/focusknob/internal/ledger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/focusknob.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SaveLedger([]byte(`{"version":1,"streak":0,"days":[]}`)); err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen: should not re-migrate or lose the document.
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	if _, err := s2.LoadLedger(); err != nil {
		t.Fatalf("document lost on reopen: %v", err)
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Ledger document
// ============================================================

func TestLoadLedgerMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.LoadLedger()
	if !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ledger.ErrNotFound, got %v", err)
	}
}

func TestSaveLedgerOverwrites(t *testing.T) {
	s := newTestStore(t)
	s.SaveLedger([]byte("first"))
	s.SaveLedger([]byte("second"))

	got, err := s.LoadLedger()
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "second" {
		t.Fatalf("expected second, got %q", got)
	}

	var n int
	s.db.QueryRow(`SELECT COUNT(*) FROM ledger`).Scan(&n)
	if n != 1 {
		t.Fatalf("expected a single ledger row, got %d", n)
	}
}

func TestLedgerSurvivesReopen(t *testing.T) {
	path := t.TempDir() + "/focusknob.db"
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.Local)
	clock := func() time.Time { return now }

	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	l := ledger.Open(s, ledger.WithClock(clock))
	if err := l.AddSession(ledger.Work, 25); err != nil {
		t.Fatal(err)
	}
	if err := l.AddSession(ledger.Break, 5); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	l2 := ledger.Open(s2, ledger.WithClock(clock))

	d, ok := l2.Today()
	if !ok {
		t.Fatal("today's entry missing after reopen")
	}
	if d.WorkMinutes != 25 || d.BreakMinutes != 5 || d.Pomodoros != 1 {
		t.Fatalf("unexpected aggregates: %+v", d)
	}
	if l2.Streak() != 1 {
		t.Fatalf("streak = %d, want 1", l2.Streak())
	}
}

// ============================================================
// Settings
// ============================================================

func TestSettingsDefaults(t *testing.T) {
	s := newTestStore(t)

	defaults := map[string]string{
		KeyTheme:            "0",
		KeyTimerMinutes:     "25",
		KeyTaskTimerMinutes: "25",
	}

	for k, expected := range defaults {
		val, err := s.GetSetting(k)
		if err != nil {
			t.Fatalf("GetSetting(%q): %v", k, err)
		}
		if val != expected {
			t.Fatalf("GetSetting(%q) = %q, want %q", k, val, expected)
		}
	}
}

func TestSetSettingOverwrite(t *testing.T) {
	s := newTestStore(t)

	s.SetSetting("key", "v1")
	s.SetSetting("key", "v2")
	val, _ := s.GetSetting("key")
	if val != "v2" {
		t.Fatalf("expected v2, got %s", val)
	}
}

func TestGetSettingNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetSetting("nonexistent")
	if err == nil {
		t.Fatal("expected error for missing setting")
	}
}

func TestGetAllSettings(t *testing.T) {
	s := newTestStore(t)
	all, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) < 3 {
		t.Fatalf("expected at least 3 default settings, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Key >= all[i].Key {
			t.Fatalf("settings not sorted: %s >= %s", all[i-1].Key, all[i].Key)
		}
	}
}

func TestGetIntFallsBack(t *testing.T) {
	s := newTestStore(t)
	if got := s.GetInt("missing", 7); got != 7 {
		t.Fatalf("expected default 7, got %d", got)
	}
	s.SetSetting("bad", "seven")
	if got := s.GetInt("bad", 7); got != 7 {
		t.Fatalf("expected default for non-numeric value, got %d", got)
	}
	s.SetInt(KeyTimerMinutes, 40)
	if got := s.GetInt(KeyTimerMinutes, 25); got != 40 {
		t.Fatalf("expected 40, got %d", got)
	}
}

func TestThemeIndex(t *testing.T) {
	s := newTestStore(t)
	if s.ThemeIndex() != 0 {
		t.Fatalf("default theme = %d", s.ThemeIndex())
	}
	if err := s.SaveThemeIndex(3); err != nil {
		t.Fatal(err)
	}
	if s.ThemeIndex() != 3 {
		t.Fatalf("theme = %d, want 3", s.ThemeIndex())
	}
}

// ============================================================
// Close
// ============================================================

func TestCloseStore(t *testing.T) {
	s, _ := NewMemory()
	if err := s.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
}
