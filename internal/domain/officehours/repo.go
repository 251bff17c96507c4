package officehours

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, r *Rule) error
	GetByID(ctx context.Context, id uuid.UUID) (*Rule, error)
	Update(ctx context.Context, r *Rule) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Rule, int, error)
	// ListCandidates returns every rule that could govern the given doctor
	// and location, at any scope, without pagination. The availability
	// resolver applies scope precedence on the result.
	ListCandidates(ctx context.Context, doctorID, locationID uuid.UUID) ([]*Rule, error)
}
