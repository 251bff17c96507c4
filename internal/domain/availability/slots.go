package availability

import (
	"time"

	"github.com/apptbook/apptbook/pkg/civil"
)

// DefaultGranularity is the slot size used when a query does not specify one.
const DefaultGranularity = 30 * time.Minute

// Slot is one bookable increment inside a free window.
type Slot struct {
	Start civil.TimeOfDay `json:"time_start"`
	End   civil.TimeOfDay `json:"time_end"`
}

// SlotOptions controls slot generation.
type SlotOptions struct {
	// Granularity is the fixed slot size. Zero falls back to
	// DefaultGranularity.
	Granularity time.Duration
	// AllowPast keeps slots whose start is at or before Now's time of day
	// when generating for today. Same-day walk-in screens set it.
	AllowPast bool
	// Date is the day being generated; past-slot filtering only applies
	// when it equals today in the clinic's zone.
	Date civil.Date
	// Now is injectable for tests. Zero means time.Now.
	Now time.Time
	// Location is the clinic's zone. The past cutoff compares against the
	// wall clock there, not on the host. Nil keeps Now's own zone.
	Location *time.Location
}

// GenerateSlots chops free windows into fixed-size slots. A trailing
// remainder shorter than one granule is dropped, so a window yields exactly
// floor(length/granularity) slots. Output order follows the window order,
// ascending.
func GenerateSlots(windows []Window, opts SlotOptions) []Slot {
	gran := opts.Granularity
	if gran <= 0 {
		gran = DefaultGranularity
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	if opts.Location != nil {
		now = now.In(opts.Location)
	}
	filterPast := !opts.AllowPast && opts.Date == civil.DateOf(now)
	nowTOD := civil.NewTimeOfDay(now.Hour(), now.Minute())

	slots := make([]Slot, 0)
	for _, w := range windows {
		for start := w.Start; start.Add(gran) <= w.End; start = start.Add(gran) {
			if filterPast && start <= nowTOD {
				continue
			}
			slots = append(slots, Slot{Start: start, End: start.Add(gran)})
		}
	}
	return slots
}
