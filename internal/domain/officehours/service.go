package officehours

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Invalidator is notified when rules change so that derived availability
// caches can be dropped. Rule edits affect every cached day, so the whole
// cache is purged rather than individual entries.
type Invalidator interface {
	Purge()
}

type Service struct {
	rules Repository
	cache Invalidator // may be nil
}

func NewService(rules Repository, cache Invalidator) *Service {
	return &Service{rules: rules, cache: cache}
}

func (s *Service) invalidate() {
	if s.cache != nil {
		s.cache.Purge()
	}
}

// validateRule rejects inverted and zero-length intervals before anything
// reaches the store. The availability resolver relies on this and never
// re-checks.
func validateRule(r *Rule) error {
	if r.DayOfWeek < 0 || r.DayOfWeek > 6 {
		return fmt.Errorf("day_of_week must be 0 (Sunday) through 6 (Saturday), got %d", r.DayOfWeek)
	}
	if r.StartTime >= r.EndTime {
		return fmt.Errorf("start_time %s must be before end_time %s", r.StartTime, r.EndTime)
	}
	return nil
}

func (s *Service) CreateRule(ctx context.Context, r *Rule) error {
	if err := validateRule(r); err != nil {
		return err
	}
	if err := s.rules.Create(ctx, r); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *Service) GetRule(ctx context.Context, id uuid.UUID) (*Rule, error) {
	return s.rules.GetByID(ctx, id)
}

func (s *Service) UpdateRule(ctx context.Context, r *Rule) error {
	if err := validateRule(r); err != nil {
		return err
	}
	if err := s.rules.Update(ctx, r); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *Service) DeleteRule(ctx context.Context, id uuid.UUID) error {
	if err := s.rules.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *Service) ListRules(ctx context.Context, filter Filter, limit, offset int) ([]*Rule, int, error) {
	return s.rules.List(ctx, filter, limit, offset)
}
