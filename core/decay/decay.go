// Package decay computes the activity of a sealed radioactive source at a
// given date from its calibrated nominal activity.
package decay

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrUnknownIsotope is returned when no half-life is registered for the
// requested isotope. This is a hard error, never a default.
var ErrUnknownIsotope = errors.New("unknown isotope")

// halfLifeDays holds the regulatory half-life constants, in days, for the
// isotopes carried by the source fleet.
var halfLifeDays = map[string]float64{
	"Cs-137": 11012.05,
	"Ir-192": 73.83,
	"Se-75":  119.78,
}

// HalfLifeDays returns the half-life of an isotope in days.
func HalfLifeDays(isotope string) (float64, error) {
	hl, ok := halfLifeDays[isotope]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownIsotope, isotope)
	}
	return hl, nil
}

// Activity returns the activity of a source at the target date, in GBq and in
// Ci (GBq / 37). The elapsed time is the calendar-date difference between the
// calibration date and the target date; time-of-day is intentionally ignored
// to match the regulatory convention, so decay steps at day boundaries only.
// Both values are rounded to two decimals sequentially, the Ci value being
// derived from the already-rounded GBq value, for audit reproducibility.
func Activity(a0 float64, a0Date time.Time, isotope string, at time.Time) (gbq, ci float64, err error) {
	hl, err := HalfLifeDays(isotope)
	if err != nil {
		return 0, 0, err
	}
	days := daysBetween(a0Date, at)
	gbq = round2(a0 * math.Pow(0.5, days/hl))
	ci = round2(gbq / 37)
	return gbq, ci, nil
}

// daysBetween counts whole calendar days from a to b, ignoring time-of-day.
func daysBetween(a, b time.Time) float64 {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return bd.Sub(ad).Hours() / 24
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
