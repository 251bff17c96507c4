package calendar

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/apptbook/apptbook/pkg/civil"
)

// MaxBadgesPerCell caps the single-day event badges rendered in one month
// cell; the rest collapse into the cell's overflow count.
const MaxBadgesPerCell = 3

// Cell is one day square of the month grid.
type Cell struct {
	Date         civil.Date `json:"date"`
	Day          int        `json:"day"`
	CurrentMonth bool       `json:"current_month"`
}

// Badge is a single-day event shown inside a cell, ordered by position.
type Badge struct {
	EventID  uuid.UUID `json:"event_id"`
	Title    string    `json:"title"`
	Color    string    `json:"color"`
	Position int       `json:"position"`
}

// Band is a multi-day event rendered as a horizontal bar across the days it
// spans. Lane is the stable row index assigned by first-fit.
type Band struct {
	EventID uuid.UUID  `json:"event_id"`
	Title   string     `json:"title"`
	Color   string     `json:"color"`
	Lane    int        `json:"lane"`
	From    civil.Date `json:"from"`
	To      civil.Date `json:"to"`
}

// MonthCell is a grid cell with its layout payload.
type MonthCell struct {
	Cell
	Badges    []Badge `json:"badges"`
	MoreCount int     `json:"more_count"`
}

// MonthView is the month layout output.
type MonthView struct {
	Year  int          `json:"year"`
	Month time.Month   `json:"month"`
	Cells []MonthCell  `json:"cells"`
	Bands []Band       `json:"bands"`
}

// MonthGrid returns the 42 cells (6 weeks starting on Sunday) covering the
// month, including the leading and trailing days of the neighbor months.
func MonthGrid(year int, month time.Month) []Cell {
	first := civil.NewDate(year, month, 1)
	start := first.AddDays(-int(first.Weekday()))

	cells := make([]Cell, 0, 42)
	for i := 0; i < 42; i++ {
		d := start.AddDays(i)
		cells = append(cells, Cell{
			Date:         d,
			Day:          d.Day,
			CurrentMonth: d.Month == month && d.Year == year,
		})
	}
	return cells
}

// AssignLanes places multi-day events into horizontal lanes with a greedy
// first-fit: events are scanned in start order and each takes the
// lowest-numbered lane whose previous occupant ends before this event
// starts. Disjoint events therefore share lane 0; overlapping ones stack.
func AssignLanes(events []Event) map[uuid.UUID]int {
	multi := make([]Event, 0, len(events))
	for _, e := range events {
		if e.MultiDay() {
			multi = append(multi, e)
		}
	}
	sort.Slice(multi, func(i, j int) bool {
		if multi[i].Start.Equal(multi[j].Start) {
			return multi[i].End.After(multi[j].End)
		}
		return multi[i].Start.Before(multi[j].Start)
	})

	lanes := make(map[uuid.UUID]int, len(multi))
	var laneEnds []civil.Date // last occupied day per lane
	for _, e := range multi {
		from := civil.DateOf(e.Start)
		to := civil.DateOf(e.End)
		placed := false
		for lane, end := range laneEnds {
			if end.Before(from) {
				lanes[e.ID] = lane
				laneEnds[lane] = to
				placed = true
				break
			}
		}
		if !placed {
			lanes[e.ID] = len(laneEnds)
			laneEnds = append(laneEnds, to)
		}
	}
	return lanes
}

// LayoutMonth computes the full month view for the given events. Events
// with end before start are skipped rather than failing the whole grid.
func LayoutMonth(year int, month time.Month, events []Event) MonthView {
	view := MonthView{Year: year, Month: month, Bands: []Band{}}
	grid := MonthGrid(year, month)

	valid := events[:0:0]
	for _, e := range events {
		if e.End.Before(e.Start) {
			continue
		}
		valid = append(valid, e)
	}

	lanes := AssignLanes(valid)
	byDay := make(map[civil.Date][]Event)
	for _, e := range valid {
		if e.MultiDay() {
			view.Bands = append(view.Bands, Band{
				EventID: e.ID,
				Title:   e.Title,
				Color:   e.Color,
				Lane:    lanes[e.ID],
				From:    civil.DateOf(e.Start),
				To:      civil.DateOf(e.End),
			})
			continue
		}
		d := civil.DateOf(e.Start)
		byDay[d] = append(byDay[d], e)
	}
	sort.Slice(view.Bands, func(i, j int) bool {
		if view.Bands[i].From == view.Bands[j].From {
			return view.Bands[i].Lane < view.Bands[j].Lane
		}
		return view.Bands[i].From.Before(view.Bands[j].From)
	})

	view.Cells = make([]MonthCell, 0, len(grid))
	for _, cell := range grid {
		day := byDay[cell.Date]
		sort.Slice(day, func(i, j int) bool { return day[i].Start.Before(day[j].Start) })

		mc := MonthCell{Cell: cell, Badges: []Badge{}}
		for i, e := range day {
			if i >= MaxBadgesPerCell {
				break
			}
			mc.Badges = append(mc.Badges, Badge{
				EventID:  e.ID,
				Title:    e.Title,
				Color:    e.Color,
				Position: i,
			})
		}
		if extra := len(day) - MaxBadgesPerCell; extra > 0 {
			mc.MoreCount = extra
		}
		view.Cells = append(view.Cells, mc)
	}
	return view
}
