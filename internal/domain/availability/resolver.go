// Package availability computes bookable time for a doctor at a location on
// a calendar date: recurring office-hour rules are resolved by scope
// precedence into working windows, booked appointments are subtracted, and
// the remaining free windows are chopped into fixed-size slots.
package availability

import (
	"sort"

	"github.com/google/uuid"

	"github.com/apptbook/apptbook/internal/domain/appointment"
	"github.com/apptbook/apptbook/internal/domain/officehours"
	"github.com/apptbook/apptbook/pkg/civil"
)

// Window is a contiguous time-of-day interval, half-open [Start, End).
type Window struct {
	Start civil.TimeOfDay `json:"time_start"`
	End   civil.TimeOfDay `json:"time_end"`
}

// Resolve determines the free windows for one day. Rules are filtered to the
// date's weekday, the single most specific scope with any rule wins
// outright (levels are never merged), and non-cancelled appointment
// intervals are subtracted from the winning windows.
//
// A day with no rule at any scope is closed: the result is empty, not an
// error. The output is sorted ascending and never overlaps.
func Resolve(rules []*officehours.Rule, appts []*appointment.Appointment, doctorID, locationID uuid.UUID, date civil.Date) []Window {
	working := workingWindows(rules, doctorID, locationID, date)
	for _, a := range appts {
		if a.Cancelled() {
			continue
		}
		working = subtract(working, Window{Start: a.TimeStart, End: a.TimeEnd})
	}
	return working
}

// workingWindows applies scope precedence and returns the raw rule
// intervals for the date's weekday, merged within the winning level so the
// output never overlaps even if an administrator entered overlapping shifts.
func workingWindows(rules []*officehours.Rule, doctorID, locationID uuid.UUID, date civil.Date) []Window {
	weekday := date.Weekday()

	byScope := make(map[officehours.Scope][]Window)
	for _, r := range rules {
		if r.DayOfWeek != weekday || !r.AppliesTo(doctorID, locationID) {
			continue
		}
		byScope[r.Scope()] = append(byScope[r.Scope()], Window{Start: r.StartTime, End: r.EndTime})
	}

	// Most specific level with at least one rule for the day wins; the
	// broader levels are ignored entirely.
	for _, scope := range []officehours.Scope{
		officehours.ScopeDoctorAtLocation,
		officehours.ScopeDoctor,
		officehours.ScopeLocation,
		officehours.ScopeGlobal,
	} {
		if windows := byScope[scope]; len(windows) > 0 {
			return mergeWindows(windows)
		}
	}
	return nil
}

// mergeWindows sorts and coalesces overlapping intervals. Touching
// intervals stay separate: two back-to-back shifts are distinct windows,
// and a slot must never straddle the shift boundary.
func mergeWindows(windows []Window) []Window {
	sort.Slice(windows, func(i, j int) bool { return windows[i].Start < windows[j].Start })
	merged := windows[:1]
	for _, w := range windows[1:] {
		last := &merged[len(merged)-1]
		if w.Start < last.End {
			if w.End > last.End {
				last.End = w.End
			}
			continue
		}
		merged = append(merged, w)
	}
	return merged
}

// subtract removes busy from every window in the set. Depending on where
// busy falls, a window survives untouched, shrinks, splits in two, or
// disappears. Busy intervals outside all windows are ignored.
func subtract(windows []Window, busy Window) []Window {
	if busy.Start >= busy.End {
		return windows
	}
	out := make([]Window, 0, len(windows)+1)
	for _, w := range windows {
		if busy.End <= w.Start || busy.Start >= w.End {
			out = append(out, w)
			continue
		}
		if busy.Start > w.Start {
			out = append(out, Window{Start: w.Start, End: busy.Start})
		}
		if busy.End < w.End {
			out = append(out, Window{Start: busy.End, End: w.End})
		}
	}
	return out
}
