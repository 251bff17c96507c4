package calendar

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/apptbook/apptbook/internal/domain/availability"
	"github.com/apptbook/apptbook/pkg/civil"
)

func timed(d, sh, sm, eh, em int) Event {
	return Event{
		ID:    uuid.New(),
		Start: time.Date(2026, time.September, d, sh, sm, 0, 0, time.UTC),
		End:   time.Date(2026, time.September, d, eh, em, 0, 0, time.UTC),
	}
}

func TestLayoutDay_LoneEventFullWidth(t *testing.T) {
	e := timed(1, 9, 0, 10, 0)
	placed := layoutDay(civil.NewDate(2026, time.September, 1), []Event{e}, HourWindow{StartHour: 7, EndHour: 20})

	if len(placed) != 1 {
		t.Fatalf("expected 1 placed event, got %d", len(placed))
	}
	box := placed[0].Box
	if box.Width != 100 || box.Left != 0 {
		t.Errorf("expected full-width box, got width=%v left=%v", box.Width, box.Left)
	}
	// 09:00 is 120 minutes into the 13-hour window: 120/780
	wantTop := round2(120.0 / 780.0 * 100)
	if box.Top != wantTop {
		t.Errorf("expected top %v, got %v", wantTop, box.Top)
	}
	wantHeight := round2(60.0 / 780.0 * 100)
	if box.Height != wantHeight {
		t.Errorf("expected height %v, got %v", wantHeight, box.Height)
	}
}

func TestLayoutDay_ThreeOverlappingSplitWidth(t *testing.T) {
	a := timed(1, 9, 0, 10, 0)
	b := timed(1, 9, 15, 10, 15)
	c := timed(1, 9, 30, 10, 30)
	placed := layoutDay(civil.NewDate(2026, time.September, 1), []Event{c, a, b}, HourWindow{StartHour: 7, EndHour: 20})

	if len(placed) != 3 {
		t.Fatalf("expected 3 placed events, got %d", len(placed))
	}
	lefts := map[float64]bool{}
	for _, p := range placed {
		if p.Box.Width != 33.33 {
			t.Errorf("expected width 33.33, got %v", p.Box.Width)
		}
		lefts[p.Box.Left] = true
	}
	for _, want := range []float64{0, 33.33, 66.67} {
		if !lefts[want] {
			t.Errorf("expected a box at left=%v, got %v", want, lefts)
		}
	}
}

func TestLayoutDay_TransitiveOverlapIsOneCluster(t *testing.T) {
	// a overlaps b, b overlaps c, a and c do not touch. All three still
	// share one cluster and get a third of the width each.
	a := timed(1, 9, 0, 10, 0)
	b := timed(1, 9, 45, 11, 0)
	c := timed(1, 10, 30, 11, 30)
	placed := layoutDay(civil.NewDate(2026, time.September, 1), []Event{a, b, c}, DefaultHourWindow)

	for _, p := range placed {
		if p.Box.Width != 33.33 {
			t.Errorf("expected width 33.33 for transitive cluster, got %v", p.Box.Width)
		}
	}
}

func TestLayoutDay_SeparateClustersFullWidth(t *testing.T) {
	a := timed(1, 8, 0, 9, 0)
	b := timed(1, 14, 0, 15, 0)
	placed := layoutDay(civil.NewDate(2026, time.September, 1), []Event{a, b}, DefaultHourWindow)

	for _, p := range placed {
		if p.Box.Width != 100 {
			t.Errorf("expected disjoint events at full width, got %v", p.Box.Width)
		}
	}
}

func TestLayoutDay_InvertedEventZeroBox(t *testing.T) {
	bad := timed(1, 12, 0, 9, 0)
	good := timed(1, 9, 0, 10, 0)
	placed := layoutDay(civil.NewDate(2026, time.September, 1), []Event{bad, good}, DefaultHourWindow)

	if len(placed) != 2 {
		t.Fatalf("expected 2 placed events, got %d", len(placed))
	}
	var badBox *Box
	for i := range placed {
		if placed[i].Event.ID == bad.ID {
			badBox = &placed[i].Box
		}
	}
	if badBox == nil {
		t.Fatal("inverted event missing from output")
	}
	if *badBox != (Box{}) {
		t.Errorf("expected zero-size box for inverted event, got %+v", *badBox)
	}
}

func TestLayoutDay_PastMidnightFillsToBottom(t *testing.T) {
	e := Event{
		ID:    uuid.New(),
		Start: time.Date(2026, time.September, 1, 19, 0, 0, 0, time.UTC),
		End:   time.Date(2026, time.September, 2, 1, 0, 0, 0, time.UTC),
	}
	placed := layoutDay(civil.NewDate(2026, time.September, 1), []Event{e}, DefaultHourWindow)

	box := placed[0].Box
	if box.Top+box.Height != 100 {
		t.Errorf("expected event to reach the bottom, top=%v height=%v", box.Top, box.Height)
	}
}

func TestLayoutDay_ClampsOutsideWindow(t *testing.T) {
	early := timed(1, 5, 0, 8, 0) // starts before the visible window
	placed := layoutDay(civil.NewDate(2026, time.September, 1), []Event{early}, HourWindow{StartHour: 7, EndHour: 20})

	box := placed[0].Box
	if box.Top != 0 {
		t.Errorf("expected clamped top 0, got %v", box.Top)
	}
}

func TestDisabledHours(t *testing.T) {
	weekly := []availability.Window{
		{Start: civil.NewTimeOfDay(9, 0), End: civil.NewTimeOfDay(12, 0)},
		{Start: civil.NewTimeOfDay(14, 30), End: civil.NewTimeOfDay(16, 0)},
	}
	window := HourWindow{StartHour: 8, EndHour: 18}
	flags := disabledHours(weekly, window)

	if len(flags) != 10 {
		t.Fatalf("expected 10 hour flags, got %d", len(flags))
	}
	wantDisabled := map[int]bool{
		0: true,  // 08:00 before opening
		1: false, // 09:00
		2: false, // 10:00
		3: false, // 11:00
		4: true,  // 12:00 lunch
		5: true,  // 13:00
		6: false, // 14:00 partially covered from 14:30
		7: false, // 15:00
		8: true,  // 16:00 after closing
		9: true,  // 17:00
	}
	for i, want := range wantDisabled {
		if flags[i] != want {
			t.Errorf("hour %02d:00 disabled=%v, want %v", window.StartHour+i, flags[i], want)
		}
	}
}

func TestDisabledHours_NoWeeklyHoursAllDisabled(t *testing.T) {
	flags := disabledHours(nil, HourWindow{StartHour: 7, EndHour: 20})
	for i, f := range flags {
		if !f {
			t.Errorf("expected hour index %d disabled with no working hours", i)
		}
	}
}

func TestLayoutRange_Days(t *testing.T) {
	start := civil.NewDate(2026, time.September, 6) // a Sunday
	e := timed(7, 9, 0, 10, 0)
	byDay := map[civil.Date][]Event{
		civil.NewDate(2026, time.September, 7): {e},
	}
	weekly := map[time.Weekday][]availability.Window{
		time.Monday: {{Start: civil.NewTimeOfDay(9, 0), End: civil.NewTimeOfDay(17, 0)}},
	}

	view := LayoutRange(start, 7, byDay, weekly, DefaultHourWindow)
	if len(view.Days) != 7 {
		t.Fatalf("expected 7 day columns, got %d", len(view.Days))
	}
	if view.Days[0].Date != start {
		t.Errorf("expected first column %s, got %s", start, view.Days[0].Date)
	}
	if len(view.Days[1].Events) != 1 {
		t.Errorf("expected Monday to carry the event, got %d", len(view.Days[1].Events))
	}
	if view.Days[1].EventIndexByID(e.ID) == -1 {
		t.Error("event not found in Monday column")
	}
	// Sunday has no weekly hours: every visible hour disabled.
	for _, f := range view.Days[0].DisabledHours {
		if !f {
			t.Error("expected Sunday fully disabled")
			break
		}
	}
}

func TestLayoutRange_InvalidWindowFallsBack(t *testing.T) {
	view := LayoutRange(civil.NewDate(2026, time.September, 6), 1, nil, nil, HourWindow{StartHour: 10, EndHour: 9})
	if view.StartHour != DefaultHourWindow.StartHour || view.EndHour != DefaultHourWindow.EndHour {
		t.Errorf("expected default window, got %d-%d", view.StartHour, view.EndHour)
	}
}
