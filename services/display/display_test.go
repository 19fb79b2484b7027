package display

import (
	"errors"
	"math"
	"strings"
	"testing"

	"flownix-node/services/sensors"
)

func blank(n int) string { return strings.Repeat(" ", n) }

func TestStatusTruncatesAndClears(t *testing.T) {
	m := NewMemory(16, 2)
	d := New(m, 16)

	d.Status("Connecting WiFi please wait", "Wokwi-GUEST")
	if got, want := m.Line(0), "Connecting WiFi "; got != want {
		t.Fatalf("line0 = %q, want %q", got, want)
	}
	if got, want := m.Line(1), "Wokwi-GUEST     "; got != want {
		t.Fatalf("line1 = %q, want %q", got, want)
	}
	if m.Clears != 1 || !d.InStatus() {
		t.Fatalf("clears=%d status=%v", m.Clears, d.InStatus())
	}
}

func TestReadingsOverwriteWithoutClearing(t *testing.T) {
	m := NewMemory(16, 2)
	d := New(m, 16)

	d.Readings(sensors.Climate{TempC: 23.5, Humidity: 45.9}, 123)
	if got, want := m.Line(0), "T:23.5\xdfC H:45%  "; got != want {
		t.Fatalf("line0 = %q, want %q", got, want)
	}
	if got, want := m.Line(1), "Water:123cm     "; got != want {
		t.Fatalf("line1 = %q, want %q", got, want)
	}

	// Shorter value must not leave stale digits behind.
	d.Readings(sensors.Climate{TempC: 9, Humidity: 5}, 7)
	if got, want := m.Line(0), "T:9.0\xdfC H:5%    "; got != want {
		t.Fatalf("line0 = %q, want %q", got, want)
	}
	if got, want := m.Line(1), "Water:7cm       "; got != want {
		t.Fatalf("line1 = %q, want %q", got, want)
	}
	if m.Clears != 0 {
		t.Fatalf("readings mode cleared %d times", m.Clears)
	}
}

func TestReadingsAfterStatusClearsOnce(t *testing.T) {
	m := NewMemory(16, 2)
	d := New(m, 16)
	d.Status("Data sent OK!", "")
	d.Readings(sensors.Climate{TempC: 20, Humidity: 50}, 1)
	d.Readings(sensors.Climate{TempC: 20, Humidity: 50}, 1)
	if m.Clears != 2 {
		t.Fatalf("clears = %d, want 2 (status + transition)", m.Clears)
	}
	if d.InStatus() {
		t.Fatal("still in status mode")
	}
}

func TestClear(t *testing.T) {
	m := NewMemory(16, 2)
	d := New(m, 16)
	d.Status("x", "y")
	d.Clear()
	if d.InStatus() || m.Line(0) != blank(16) || m.Line(1) != blank(16) {
		t.Fatalf("not cleared: %q %q", m.Line(0), m.Line(1))
	}
}

func TestReadingsLines_NaNAndLong(t *testing.T) {
	nan := float32(math.NaN())
	l1, l2 := ReadingsLines(sensors.Climate{TempC: nan, Humidity: nan, Err: errors.New("read")}, 0)
	if l1 != "T:nan\xdfC H:nan% " || l2 != "Water:0cm" {
		t.Fatalf("lines = %q / %q", l1, l2)
	}

	m := NewMemory(16, 2)
	d := New(m, 16)
	d.Readings(sensors.Climate{TempC: -12.34, Humidity: 100}, 123456)
	for y := 0; y < 2; y++ {
		if n := len(m.Line(y)); n != 16 {
			t.Fatalf("line %d has %d cells", y, n)
		}
	}
	if got, want := m.Line(0), "T:-12.3\xdfC H:100%"; got != want {
		t.Fatalf("line0 = %q, want %q", got, want)
	}
}
