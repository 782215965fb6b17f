// Package conflict finds overlapping-time bookings of a shared radioactive
// source across a batch of missions.
package conflict

import (
	"sort"
	"time"

	"github.com/16205/pmereporter/core/model"
)

// Booking is one reservation of a source by a mission. Derived transiently
// from the mission list; never persisted.
type Booking struct {
	SourceKey  string
	MissionKey string
	Start      time.Time
	End        time.Time
}

// Conflicts maps a source key to the sorted mission keys whose time windows
// overlap for that source. An empty map means no conflicts.
type Conflicts map[string][]string

// Empty reports whether no double-bookings were found.
func (c Conflicts) Empty() bool { return len(c) == 0 }

// SourceKeys returns the conflicting source keys in sorted order.
func (c Conflicts) SourceKeys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Detect returns every source booked by missions with overlapping time
// windows. Intervals are half-open: a mission ending exactly when another
// starts is not a conflict. Sources booked once, or several times without
// temporal overlap, are excluded. Booking counts per physical source are
// single digits, so the per-source pairwise scan is fine.
func Detect(missions []model.Mission) Conflicts {
	bookings := make(map[string][]Booking)
	for _, m := range missions {
		for _, s := range m.Sources {
			bookings[s] = append(bookings[s], Booking{
				SourceKey:  s,
				MissionKey: m.Key,
				Start:      m.Start,
				End:        m.End,
			})
		}
	}

	conflicts := make(Conflicts)
	for src, list := range bookings {
		if len(list) < 2 {
			continue
		}
		involved := make(map[string]bool)
		for i := 0; i < len(list); i++ {
			for j := i + 1; j < len(list); j++ {
				if overlaps(list[i], list[j]) {
					involved[list[i].MissionKey] = true
					involved[list[j].MissionKey] = true
				}
			}
		}
		if len(involved) == 0 {
			continue
		}
		keys := make([]string, 0, len(involved))
		for k := range involved {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		conflicts[src] = keys
	}
	if len(conflicts) == 0 {
		return nil
	}
	return conflicts
}

func overlaps(a, b Booking) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}
