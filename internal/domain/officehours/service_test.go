package officehours

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/apptbook/apptbook/pkg/civil"
)

// -- Mock repository --

type mockRepo struct {
	rules map[uuid.UUID]*Rule
}

func newMockRepo() *mockRepo {
	return &mockRepo{rules: make(map[uuid.UUID]*Rule)}
}

func (m *mockRepo) Create(_ context.Context, r *Rule) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	r.CreatedAt = time.Now()
	r.UpdatedAt = time.Now()
	stored := *r
	m.rules[r.ID] = &stored
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Rule, error) {
	r, ok := m.rules[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	cp := *r
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, r *Rule) error {
	if _, ok := m.rules[r.ID]; !ok {
		return fmt.Errorf("not found")
	}
	stored := *r
	m.rules[r.ID] = &stored
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.rules[id]; !ok {
		return fmt.Errorf("not found")
	}
	delete(m.rules, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, filter Filter, limit, offset int) ([]*Rule, int, error) {
	var out []*Rule
	for _, r := range m.rules {
		if filter.DoctorID != nil && (r.DoctorID == nil || *r.DoctorID != *filter.DoctorID) {
			continue
		}
		if filter.LocationID != nil && (r.LocationID == nil || *r.LocationID != *filter.LocationID) {
			continue
		}
		if filter.DayOfWeek != nil && r.DayOfWeek != *filter.DayOfWeek {
			continue
		}
		out = append(out, r)
	}
	return out, len(out), nil
}

func (m *mockRepo) ListCandidates(_ context.Context, doctorID, locationID uuid.UUID) ([]*Rule, error) {
	var out []*Rule
	for _, r := range m.rules {
		if r.AppliesTo(doctorID, locationID) {
			out = append(out, r)
		}
	}
	return out, nil
}

// -- Mock invalidator --

type mockPurger struct {
	purges int
}

func (m *mockPurger) Purge() { m.purges++ }

func validMonday() *Rule {
	return &Rule{
		DayOfWeek: time.Monday,
		StartTime: civil.NewTimeOfDay(9, 0),
		EndTime:   civil.NewTimeOfDay(17, 0),
	}
}

func TestService_CreateRule(t *testing.T) {
	repo := newMockRepo()
	purger := &mockPurger{}
	svc := NewService(repo, purger)

	r := validMonday()
	if err := svc.CreateRule(context.Background(), r); err != nil {
		t.Fatalf("CreateRule() error: %v", err)
	}
	if r.ID == uuid.Nil {
		t.Error("expected an id to be assigned")
	}
	if purger.purges != 1 {
		t.Errorf("expected 1 cache purge, got %d", purger.purges)
	}
}

func TestService_CreateRule_Validation(t *testing.T) {
	svc := NewService(newMockRepo(), nil)

	tests := []struct {
		name   string
		mutate func(*Rule)
	}{
		{"day below range", func(r *Rule) { r.DayOfWeek = -1 }},
		{"day above range", func(r *Rule) { r.DayOfWeek = 7 }},
		{"inverted interval", func(r *Rule) {
			r.StartTime = civil.NewTimeOfDay(18, 0)
			r.EndTime = civil.NewTimeOfDay(9, 0)
		}},
		{"zero-length interval", func(r *Rule) {
			r.EndTime = r.StartTime
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validMonday()
			tt.mutate(r)
			if err := svc.CreateRule(context.Background(), r); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestService_UpdateRule_PurgesCache(t *testing.T) {
	repo := newMockRepo()
	purger := &mockPurger{}
	svc := NewService(repo, purger)

	r := validMonday()
	if err := svc.CreateRule(context.Background(), r); err != nil {
		t.Fatalf("CreateRule() error: %v", err)
	}

	r.EndTime = civil.NewTimeOfDay(18, 0)
	if err := svc.UpdateRule(context.Background(), r); err != nil {
		t.Fatalf("UpdateRule() error: %v", err)
	}
	if err := svc.DeleteRule(context.Background(), r.ID); err != nil {
		t.Fatalf("DeleteRule() error: %v", err)
	}
	if purger.purges != 3 {
		t.Errorf("expected a purge per mutation (3), got %d", purger.purges)
	}
}

func TestService_UpdateRule_RejectsInvalid(t *testing.T) {
	repo := newMockRepo()
	purger := &mockPurger{}
	svc := NewService(repo, purger)

	r := validMonday()
	if err := svc.CreateRule(context.Background(), r); err != nil {
		t.Fatalf("CreateRule() error: %v", err)
	}
	purger.purges = 0

	r.StartTime = civil.NewTimeOfDay(20, 0)
	if err := svc.UpdateRule(context.Background(), r); err == nil {
		t.Fatal("expected validation error")
	}
	if purger.purges != 0 {
		t.Error("rejected update must not purge the cache")
	}
	kept, err := svc.GetRule(context.Background(), r.ID)
	if err != nil {
		t.Fatalf("GetRule() error: %v", err)
	}
	if kept.StartTime != civil.NewTimeOfDay(9, 0) {
		t.Errorf("rejected update mutated the stored rule: %s", kept.StartTime)
	}
}

func TestService_ListRules_Filter(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil)

	doctor := uuid.New()
	global := validMonday()
	scoped := validMonday()
	scoped.DoctorID = &doctor
	for _, r := range []*Rule{global, scoped} {
		if err := svc.CreateRule(context.Background(), r); err != nil {
			t.Fatalf("CreateRule() error: %v", err)
		}
	}

	items, total, err := svc.ListRules(context.Background(), Filter{DoctorID: &doctor}, 20, 0)
	if err != nil {
		t.Fatalf("ListRules() error: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("expected 1 rule for doctor filter, got %d", total)
	}
	if items[0].ID != scoped.ID {
		t.Error("filter returned the wrong rule")
	}
}
