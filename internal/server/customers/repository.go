package customers

import (
	"context"
)

// Repository is the persistence contract shared by all customer store
// backends. Lookups that miss return common.ErrNotFound; DeleteByID is a
// no-op when the id is absent, so callers needing not-found semantics must
// check existence first.
//
// Update semantics are deliberately backend-specific: the Postgres backend
// issues one statement per changed column with no wrapping transaction,
// the SQLite backend writes the whole record in one statement, and the
// in-memory backend replaces the stored element wholesale. Everything else
// behaves identically across backends.
type Repository interface {
	// SelectAll returns up to 100 customers in backend-natural order.
	SelectAll(ctx context.Context) ([]Customer, error)
	SelectByID(ctx context.Context, id int64) (*Customer, error)
	SelectByEmail(ctx context.Context, email string) (*Customer, error)
	// Insert assigns storage identity to c. Email uniqueness is the
	// caller's job.
	Insert(ctx context.Context, c *Customer) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	DeleteByID(ctx context.Context, id int64) error
	Update(ctx context.Context, c *Customer) error
	UpdateProfilePicID(ctx context.Context, id int64, picID string) error
}
