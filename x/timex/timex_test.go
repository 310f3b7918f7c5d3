package timex

import (
	"testing"
	"time"
)

func TestCyclesFromMs(t *testing.T) {
	if got := CyclesFromMs(500, 216_000_000); got != 108_000_000 {
		t.Fatalf("CyclesFromMs(500, 216M) = %d", got)
	}
	if got := CyclesFromUs(10, 216_000_000); got != 2160 {
		t.Fatalf("CyclesFromUs(10, 216M) = %d", got)
	}
}

func TestDurationFromCycles(t *testing.T) {
	if got := DurationFromCycles(108_000_000, 216_000_000); got != 500*time.Millisecond {
		t.Fatalf("DurationFromCycles = %v, want 500ms", got)
	}
	if got := DurationFromCycles(1, 0); got != 0 {
		t.Fatalf("zero freq = %v", got)
	}
}

func TestPeriodFromHz(t *testing.T) {
	if PeriodFromHz(0) != 1_000_000_000 || PeriodFromHz(1000) != 1_000_000 {
		t.Fatal("PeriodFromHz")
	}
}
