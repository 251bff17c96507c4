package calendar

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/apptbook/apptbook/pkg/civil"
)

func day(d int, hour int) time.Time {
	return time.Date(2026, time.September, d, hour, 0, 0, 0, time.UTC)
}

func singleDayEvent(d int) Event {
	return Event{ID: uuid.New(), Start: day(d, 9), End: day(d, 10), Title: "visit", Color: "#3b82f6"}
}

func multiDayEvent(from, to int) Event {
	return Event{ID: uuid.New(), Start: day(from, 9), End: day(to, 17), Title: "rotation", Color: "#22c55e"}
}

func TestMonthGrid_42CellsStartingSunday(t *testing.T) {
	// September 2026 starts on a Tuesday; the grid starts on the
	// preceding Sunday, August 30.
	grid := MonthGrid(2026, time.September)
	if len(grid) != 42 {
		t.Fatalf("expected 42 cells, got %d", len(grid))
	}
	if grid[0].Date != civil.NewDate(2026, time.August, 30) {
		t.Errorf("expected grid to start 2026-08-30, got %s", grid[0].Date)
	}
	if grid[0].Date.Weekday() != time.Sunday {
		t.Errorf("expected grid to start on Sunday, got %s", grid[0].Date.Weekday())
	}
	if grid[0].CurrentMonth {
		t.Error("leading neighbor-month cell marked current")
	}
	// 2026-09-01 is cell index 2.
	if !grid[2].CurrentMonth || grid[2].Day != 1 {
		t.Errorf("expected cell 2 to be Sep 1, got %+v", grid[2])
	}
	// every consecutive pair is one day apart
	for i := 1; i < len(grid); i++ {
		if grid[i].Date != grid[i-1].Date.AddDays(1) {
			t.Fatalf("grid not contiguous at %d", i)
		}
	}
}

func TestMonthGrid_FirstOnSunday(t *testing.T) {
	// November 2026 starts on a Sunday; no leading neighbor days.
	grid := MonthGrid(2026, time.November)
	if grid[0].Date != civil.NewDate(2026, time.November, 1) {
		t.Errorf("expected grid to start 2026-11-01, got %s", grid[0].Date)
	}
	if !grid[0].CurrentMonth {
		t.Error("expected first cell to be in the current month")
	}
}

func TestAssignLanes_DisjointShareLaneZero(t *testing.T) {
	a := multiDayEvent(1, 3)
	b := multiDayEvent(5, 7)

	lanes := AssignLanes([]Event{b, a})
	if lanes[a.ID] != 0 {
		t.Errorf("expected a in lane 0, got %d", lanes[a.ID])
	}
	if lanes[b.ID] != 0 {
		t.Errorf("expected disjoint b to reuse lane 0, got %d", lanes[b.ID])
	}
}

func TestAssignLanes_OverlappingStack(t *testing.T) {
	a := multiDayEvent(1, 5)
	b := multiDayEvent(3, 8)
	c := multiDayEvent(6, 9) // clears a (ends day 5) but not b

	lanes := AssignLanes([]Event{c, b, a})
	if lanes[a.ID] != 0 {
		t.Errorf("expected a in lane 0, got %d", lanes[a.ID])
	}
	if lanes[b.ID] != 1 {
		t.Errorf("expected overlapping b in lane 1, got %d", lanes[b.ID])
	}
	if lanes[c.ID] != 0 {
		t.Errorf("expected c to reuse freed lane 0, got %d", lanes[c.ID])
	}
}

func TestAssignLanes_SameDayAdjacentEventsStack(t *testing.T) {
	// Lanes track whole days: an event starting the same day another ends
	// cannot share its lane.
	a := multiDayEvent(1, 3)
	b := multiDayEvent(3, 5)

	lanes := AssignLanes([]Event{a, b})
	if lanes[a.ID] == lanes[b.ID] {
		t.Error("events sharing a boundary day must not share a lane")
	}
}

func TestLayoutMonth_BadgeOverflow(t *testing.T) {
	events := []Event{
		singleDayEvent(10), singleDayEvent(10), singleDayEvent(10),
		singleDayEvent(10), singleDayEvent(10),
	}
	view := LayoutMonth(2026, time.September, events)

	var cell *MonthCell
	for i := range view.Cells {
		if view.Cells[i].Date == civil.NewDate(2026, time.September, 10) {
			cell = &view.Cells[i]
			break
		}
	}
	if cell == nil {
		t.Fatal("day cell not found")
	}
	if len(cell.Badges) != MaxBadgesPerCell {
		t.Errorf("expected %d badges, got %d", MaxBadgesPerCell, len(cell.Badges))
	}
	if cell.MoreCount != 2 {
		t.Errorf("expected more_count 2, got %d", cell.MoreCount)
	}
	for i, b := range cell.Badges {
		if b.Position != i {
			t.Errorf("badge %d has position %d", i, b.Position)
		}
	}
}

func TestLayoutMonth_NoOverflowUnderLimit(t *testing.T) {
	view := LayoutMonth(2026, time.September, []Event{singleDayEvent(10), singleDayEvent(10)})
	for _, cell := range view.Cells {
		if cell.MoreCount != 0 {
			t.Errorf("unexpected more_count %d on %s", cell.MoreCount, cell.Date)
		}
	}
}

func TestLayoutMonth_MultiDayBecomesBand(t *testing.T) {
	e := multiDayEvent(2, 4)
	view := LayoutMonth(2026, time.September, []Event{e})

	if len(view.Bands) != 1 {
		t.Fatalf("expected 1 band, got %d", len(view.Bands))
	}
	band := view.Bands[0]
	if band.From != civil.NewDate(2026, time.September, 2) || band.To != civil.NewDate(2026, time.September, 4) {
		t.Errorf("unexpected band span %s..%s", band.From, band.To)
	}
	// multi-day events never appear as badges
	for _, cell := range view.Cells {
		if len(cell.Badges) != 0 {
			t.Errorf("multi-day event leaked into badges on %s", cell.Date)
		}
	}
}

func TestLayoutMonth_SkipsInvertedEvents(t *testing.T) {
	bad := Event{ID: uuid.New(), Start: day(10, 12), End: day(10, 9)}
	view := LayoutMonth(2026, time.September, []Event{bad, singleDayEvent(10)})

	for _, cell := range view.Cells {
		for _, b := range cell.Badges {
			if b.EventID == bad.ID {
				t.Error("inverted event was laid out")
			}
		}
	}
	if len(view.Bands) != 0 {
		t.Errorf("unexpected bands %v", view.Bands)
	}
}

func TestLayoutMonth_BadgesSortedByStart(t *testing.T) {
	early := Event{ID: uuid.New(), Start: day(10, 8), End: day(10, 9), Title: "early"}
	late := Event{ID: uuid.New(), Start: day(10, 15), End: day(10, 16), Title: "late"}
	view := LayoutMonth(2026, time.September, []Event{late, early})

	for _, cell := range view.Cells {
		if cell.Date == civil.NewDate(2026, time.September, 10) {
			if cell.Badges[0].EventID != early.ID {
				t.Error("badges not ordered by start time")
			}
		}
	}
}
