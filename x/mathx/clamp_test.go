package mathx

import (
	"testing"
	"time"
)

func TestClamp(t *testing.T) {
	if got := Clamp(5, 1, 3); got != 3 {
		t.Fatalf("Clamp high = %d", got)
	}
	if got := Clamp(-1, 3, 1); got != 1 {
		t.Fatalf("Clamp swapped bounds = %d", got)
	}
	if got := Clamp(30*time.Millisecond, time.Millisecond, time.Second); got != 30*time.Millisecond {
		t.Fatalf("Clamp duration = %v", got)
	}
}

func TestMax(t *testing.T) {
	if Max(0, 1) != 1 || Max(2, 1) != 2 {
		t.Fatal("Max")
	}
}
