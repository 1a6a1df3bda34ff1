package clock

import (
	"testing"
	"time"
)

func TestWallFollowsBaseUntilSet(t *testing.T) {
	base := time.Date(2024, 1, 15, 9, 0, 0, 0, time.Local)
	w := NewWithBase(func() time.Time { return base })

	if !w.Now().Equal(base) {
		t.Fatalf("Now = %v, want %v", w.Now(), base)
	}
	if w.Synced() {
		t.Fatal("should not be synced before Set")
	}

	target := time.Date(2024, 3, 1, 12, 30, 0, 0, time.Local)
	w.Set(target)
	if !w.Now().Equal(target) {
		t.Fatalf("Now after Set = %v, want %v", w.Now(), target)
	}
	if !w.Synced() {
		t.Fatal("should be synced after Set")
	}

	base = base.Add(90 * time.Second)
	if want := target.Add(90 * time.Second); !w.Now().Equal(want) {
		t.Fatalf("Now = %v, want %v", w.Now(), want)
	}
}
