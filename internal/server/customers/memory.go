package customers

import (
	"context"
	"sync"

	"github.com/indicasta/customerd/internal/common"
)

const listPageSize = 100

// MemoryRepository keeps customers in an ordered in-process slice. It is an
// explicit store object owned by whoever composes it, not package state,
// and a mutex guards it so concurrent requests cannot corrupt the slice.
type MemoryRepository struct {
	mu        sync.Mutex
	customers []Customer
	nextID    int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1}
}

func (r *MemoryRepository) SelectAll(ctx context.Context) ([]Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.customers)
	if n > listPageSize {
		n = listPageSize
	}
	out := make([]Customer, n)
	copy(out, r.customers[:n])
	return out, nil
}

func (r *MemoryRepository) SelectByID(ctx context.Context, id int64) (*Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.customers {
		if r.customers[i].ID == id {
			c := r.customers[i]
			return &c, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *MemoryRepository) SelectByEmail(ctx context.Context, email string) (*Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.customers {
		if r.customers[i].Email == email {
			c := r.customers[i]
			return &c, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *MemoryRepository) Insert(ctx context.Context, c *Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.ID = r.nextID
	r.nextID++
	r.customers = append(r.customers, *c)
	return nil
}

func (r *MemoryRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.customers {
		if r.customers[i].Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.customers {
		if r.customers[i].ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepository) DeleteByID(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.customers {
		if r.customers[i].ID == id {
			r.customers = append(r.customers[:i], r.customers[i+1:]...)
			return nil
		}
	}
	// absent ids are a no-op by contract
	return nil
}

// Update replaces the stored element wholesale: all fields of c win at
// once, matching the last-write-wins trait of this backend.
func (r *MemoryRepository) Update(ctx context.Context, c *Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.customers {
		if r.customers[i].ID == c.ID {
			r.customers[i] = *c
			return nil
		}
	}
	return nil
}

func (r *MemoryRepository) UpdateProfilePicID(ctx context.Context, id int64, picID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.customers {
		if r.customers[i].ID == id {
			r.customers[i].ProfilePicID = picID
			return nil
		}
	}
	return nil
}
