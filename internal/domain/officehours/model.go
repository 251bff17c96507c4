package officehours

import (
	"time"

	"github.com/google/uuid"

	"github.com/apptbook/apptbook/pkg/civil"
)

// Scope is the specificity level of a recurring availability rule. More
// specific scopes fully override broader ones during resolution; they are
// never merged.
type Scope int

const (
	// ScopeGlobal applies to every doctor at every location.
	ScopeGlobal Scope = iota
	// ScopeLocation applies to every doctor at one location.
	ScopeLocation
	// ScopeDoctor applies to one doctor at every location.
	ScopeDoctor
	// ScopeDoctorAtLocation applies to one doctor at one location.
	ScopeDoctorAtLocation
)

func (s Scope) String() string {
	switch s {
	case ScopeGlobal:
		return "global"
	case ScopeLocation:
		return "location"
	case ScopeDoctor:
		return "doctor"
	case ScopeDoctorAtLocation:
		return "doctor_at_location"
	}
	return "unknown"
}

// Rule maps to the office_hour_rule table. A nil DoctorID and LocationID
// means the rule is global; setting one or both narrows the scope.
type Rule struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	DayOfWeek  time.Weekday    `db:"day_of_week" json:"day_of_week"`
	StartTime  civil.TimeOfDay `db:"start_time" json:"start_time"`
	EndTime    civil.TimeOfDay `db:"end_time" json:"end_time"`
	DoctorID   *uuid.UUID      `db:"doctor_id" json:"doctor_id,omitempty"`
	LocationID *uuid.UUID      `db:"location_id" json:"location_id,omitempty"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
}

// Scope returns the rule's specificity level.
func (r *Rule) Scope() Scope {
	switch {
	case r.DoctorID != nil && r.LocationID != nil:
		return ScopeDoctorAtLocation
	case r.DoctorID != nil:
		return ScopeDoctor
	case r.LocationID != nil:
		return ScopeLocation
	default:
		return ScopeGlobal
	}
}

// AppliesTo reports whether the rule is a candidate for the given doctor
// and location. Global rules apply to everyone; scoped rules require an
// exact match on the dimensions they pin.
func (r *Rule) AppliesTo(doctorID, locationID uuid.UUID) bool {
	if r.DoctorID != nil && *r.DoctorID != doctorID {
		return false
	}
	if r.LocationID != nil && *r.LocationID != locationID {
		return false
	}
	return true
}

// Filter narrows a rule listing.
type Filter struct {
	DoctorID   *uuid.UUID
	LocationID *uuid.UUID
	DayOfWeek  *time.Weekday
}
