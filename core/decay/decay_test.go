package decay

import (
	"errors"
	"testing"
	"time"
)

var calibration = time.Date(2026, 1, 10, 8, 30, 0, 0, time.UTC)

func TestActivityZeroElapsedDays(t *testing.T) {
	gbq, ci, err := Activity(100, calibration, "Ir-192", calibration)
	if err != nil {
		t.Fatalf("activity: %v", err)
	}
	if gbq != 100 {
		t.Errorf("gbq = %v, want 100", gbq)
	}
	if ci != 2.7 {
		t.Errorf("ci = %v, want 2.70", ci)
	}
}

func TestActivityOneHalfLife(t *testing.T) {
	// 74 whole days is the closest calendar distance to the 73.83 day
	// half-life of Ir-192.
	gbq, ci, err := Activity(100, calibration, "Ir-192", calibration.AddDate(0, 0, 74))
	if err != nil {
		t.Fatalf("activity: %v", err)
	}
	if gbq != 49.92 {
		t.Errorf("gbq = %v, want 49.92", gbq)
	}
	if ci != 1.35 {
		t.Errorf("ci = %v, want 1.35", ci)
	}
}

func TestActivityIgnoresTimeOfDay(t *testing.T) {
	// 23:59 on the previous calendar day is still a full-day step away.
	evening := time.Date(2026, 1, 10, 23, 59, 0, 0, time.UTC)
	nextMorning := time.Date(2026, 1, 11, 0, 1, 0, 0, time.UTC)
	g1, _, err := Activity(100, evening, "Ir-192", nextMorning)
	if err != nil {
		t.Fatalf("activity: %v", err)
	}
	g2, _, err := Activity(100, calibration, "Ir-192", calibration.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("activity: %v", err)
	}
	if g1 != g2 {
		t.Errorf("two-minute and 24-hour gaps across midnight must decay identically: %v vs %v", g1, g2)
	}
	same, _, err := Activity(100, calibration, "Ir-192", calibration.Add(10*time.Hour))
	if err != nil {
		t.Fatalf("activity: %v", err)
	}
	if same != 100 {
		t.Errorf("same calendar day must not decay, got %v", same)
	}
}

func TestActivityMonotonicallyNonIncreasing(t *testing.T) {
	prev := 1000.0
	for days := 0; days <= 400; days += 10 {
		gbq, _, err := Activity(1000, calibration, "Se-75", calibration.AddDate(0, 0, days))
		if err != nil {
			t.Fatalf("activity at %d days: %v", days, err)
		}
		if gbq > prev {
			t.Fatalf("activity increased at %d days: %v > %v", days, gbq, prev)
		}
		prev = gbq
	}
}

func TestActivityUnknownIsotope(t *testing.T) {
	_, _, err := Activity(100, calibration, "Co-60", calibration)
	if !errors.Is(err, ErrUnknownIsotope) {
		t.Fatalf("want ErrUnknownIsotope, got %v", err)
	}
}

func TestActivitySequentialRounding(t *testing.T) {
	// Ci derives from the rounded GBq value, not from the raw one.
	gbq, ci, err := Activity(3.7, calibration, "Cs-137", calibration.AddDate(0, 0, 30))
	if err != nil {
		t.Fatalf("activity: %v", err)
	}
	if want := round2(gbq / 37); ci != want {
		t.Errorf("ci = %v, want %v derived from rounded gbq %v", ci, want, gbq)
	}
}
