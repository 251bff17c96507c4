package calendar

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/apptbook/apptbook/internal/domain/availability"
	"github.com/apptbook/apptbook/pkg/civil"
)

// Box is the placement of one event inside a day column. All values are
// percentages of the column's visible area.
type Box struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PlacedEvent pairs an event with its geometry.
type PlacedEvent struct {
	Event Event `json:"event"`
	Box   Box   `json:"box"`
}

// DayColumn is the week/day view layout for a single date.
type DayColumn struct {
	Date civil.Date    `json:"date"`
	// Events carry their computed boxes; overlap clusters split the width
	// evenly among their members.
	Events []PlacedEvent `json:"events"`
	// DisabledHours flags, per visible hour, the cells outside the weekly
	// working hours. Index 0 is StartHour.
	DisabledHours []bool `json:"disabled_hours"`
}

// WeekView is the layout output for a consecutive run of days.
type WeekView struct {
	StartHour int         `json:"start_hour"`
	EndHour   int         `json:"end_hour"`
	Days      []DayColumn `json:"days"`
}

// HourWindow is the visible portion of the day, [StartHour, EndHour) in
// whole hours.
type HourWindow struct {
	StartHour int
	EndHour   int
}

// DefaultHourWindow shows the common clinic day.
var DefaultHourWindow = HourWindow{StartHour: 7, EndHour: 20}

func (w HourWindow) valid() bool {
	return w.StartHour >= 0 && w.EndHour <= 24 && w.StartHour < w.EndHour
}

// clusters groups events whose time intervals transitively intersect. Each
// cluster divides the horizontal space among its members; an event that
// overlaps nothing sits alone in a cluster of one and spans the full width.
func clusters(events []Event) [][]Event {
	sorted := make([]Event, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	var out [][]Event
	var current []Event
	var currentEnd time.Time
	for _, e := range sorted {
		if len(current) > 0 && e.Start.Before(currentEnd) {
			current = append(current, e)
			if e.End.After(currentEnd) {
				currentEnd = e.End
			}
			continue
		}
		if len(current) > 0 {
			out = append(out, current)
		}
		current = []Event{e}
		currentEnd = e.End
	}
	if len(current) > 0 {
		out = append(out, current)
	}
	return out
}

// layoutDay computes boxes for one date's events within the visible hour
// window. Events that end before they start get a zero-size box so a bad
// record cannot break rendering.
func layoutDay(date civil.Date, events []Event, window HourWindow) []PlacedEvent {
	visibleMinutes := float64((window.EndHour - window.StartHour) * 60)
	startOfWindow := float64(window.StartHour * 60)

	placed := make([]PlacedEvent, 0, len(events))
	var sane []Event
	for _, e := range events {
		if e.End.Before(e.Start) {
			placed = append(placed, PlacedEvent{Event: e})
			continue
		}
		sane = append(sane, e)
	}

	for _, cluster := range clusters(sane) {
		k := len(cluster)
		width := 100.0 / float64(k)
		for i, e := range cluster {
			startMin := float64(e.Start.Hour()*60+e.Start.Minute()) - startOfWindow
			endMin := float64(e.End.Hour()*60+e.End.Minute()) - startOfWindow
			// Events reaching past midnight into the next day fill to the
			// bottom of the column.
			if civil.DateOf(e.End).After(date) {
				endMin = visibleMinutes
			}

			top := clampPercent(startMin / visibleMinutes * 100)
			bottom := clampPercent(endMin / visibleMinutes * 100)

			placed = append(placed, PlacedEvent{
				Event: e,
				Box: Box{
					Top:    round2(top),
					Left:   round2(float64(i) * width),
					Width:  round2(width),
					Height: round2(bottom - top),
				},
			})
		}
	}
	return placed
}

func clampPercent(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// disabledHours computes, for one weekday, which visible hour rows fall
// entirely outside the weekly working hours. This uses the coarse weekly
// default, not the per-date resolver: it is a rendering hint only, and the
// two are intentionally independent (booking validation re-checks live
// availability).
func disabledHours(weekly []availability.Window, window HourWindow) []bool {
	out := make([]bool, window.EndHour-window.StartHour)
	for i := range out {
		hourStart := civil.NewTimeOfDay(window.StartHour+i, 0)
		hourEnd := hourStart.Add(time.Hour)
		covered := false
		for _, w := range weekly {
			if w.Start < hourEnd && w.End > hourStart {
				covered = true
				break
			}
		}
		out[i] = !covered
	}
	return out
}

// LayoutRange builds day columns for consecutive dates starting at start.
// eventsByDay and weeklyByWeekday may be sparse; missing days come out
// empty with every hour disabled when no working hours exist.
func LayoutRange(start civil.Date, days int, eventsByDay map[civil.Date][]Event, weekly map[time.Weekday][]availability.Window, window HourWindow) WeekView {
	if !window.valid() {
		window = DefaultHourWindow
	}
	view := WeekView{StartHour: window.StartHour, EndHour: window.EndHour}
	for i := 0; i < days; i++ {
		date := start.AddDays(i)
		view.Days = append(view.Days, DayColumn{
			Date:          date,
			Events:        layoutDay(date, eventsByDay[date], window),
			DisabledHours: disabledHours(weekly[date.Weekday()], window),
		})
	}
	return view
}

// EventIndexByID is a convenience for tests and clients locating an event's
// placement inside a day column.
func (d DayColumn) EventIndexByID(id uuid.UUID) int {
	for i, p := range d.Events {
		if p.Event.ID == id {
			return i
		}
	}
	return -1
}
