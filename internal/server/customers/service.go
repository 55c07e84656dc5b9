// Package customers implements the account directory: domain operations
// over the customer store plus profile-picture handling against object
// storage.
package customers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/indicasta/customerd/internal/common"
	"github.com/indicasta/customerd/internal/cryptox"
	"github.com/indicasta/customerd/internal/logging"
)

// ObjectStore is the outbound object-storage collaborator used for profile
// pictures.
type ObjectStore interface {
	Put(ctx context.Context, bucket, key string, data []byte) error
	Get(ctx context.Context, bucket, key string) ([]byte, error)
}

// Service enforces the directory invariants (email uniqueness, update
// validation) on top of a Repository. Store and token failures are
// surfaced verbatim; nothing is retried here.
type Service struct {
	repo    Repository
	objects ObjectStore
	bucket  string
	logger  logging.Logger
}

func NewService(repo Repository, objects ObjectStore, bucket string, logger logging.Logger) *Service {
	return &Service{
		repo:    repo,
		objects: objects,
		bucket:  bucket,
		logger:  logger.With("module", "customers"),
	}
}

func profilePicKey(id int64, picID string) string {
	return fmt.Sprintf("profile-images/%d/%s", id, picID)
}

// List returns redacted views of every stored customer.
func (s *Service) List(ctx context.Context) ([]View, error) {
	all, err := s.repo.SelectAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing customers: %w", err)
	}

	views := make([]View, 0, len(all))
	for i := range all {
		views = append(views, NewView(&all[i]))
	}
	return views, nil
}

// Get returns the redacted view for id, or common.ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (View, error) {
	c, err := s.repo.SelectByID(ctx, id)
	if err != nil {
		return View{}, fmt.Errorf("customer with id [%d]: %w", id, err)
	}
	return NewView(c), nil
}

// GetByEmail returns the full customer record. Callers inside the service
// boundary use it for credential checks and principal resolution; the
// record must not leave the core unredacted.
func (s *Service) GetByEmail(ctx context.Context, email string) (*Customer, error) {
	return s.repo.SelectByEmail(ctx, email)
}

// Create registers a new customer: rejects duplicate emails, hashes the
// password and defaults the role to USER.
func (s *Service) Create(ctx context.Context, reg Registration) error {
	taken, err := s.repo.ExistsByEmail(ctx, reg.Email)
	if err != nil {
		return fmt.Errorf("error checking email: %w", err)
	}
	if taken {
		s.logger.Info(ctx, "email already present", "email", reg.Email)
		return common.ErrDuplicateEmail
	}

	hash, err := cryptox.HashPassword(reg.Password)
	if err != nil {
		return err
	}

	c := &Customer{
		FirstName:    reg.FirstName,
		LastName:     reg.LastName,
		Email:        reg.Email,
		Age:          reg.Age,
		PasswordHash: hash,
		Role:         RoleUser,
	}
	if err := s.repo.Insert(ctx, c); err != nil {
		return fmt.Errorf("error inserting customer: %w", err)
	}

	s.logger.Info(ctx, "customer created", "email", c.Email, "id", c.ID)
	return nil
}

// Delete removes the customer, failing with common.ErrNotFound when the id
// is unknown. The existence check is required because the store deletes
// are no-ops on absent ids.
func (s *Service) Delete(ctx context.Context, id int64) error {
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("error checking customer id: %w", err)
	}
	if !exists {
		return fmt.Errorf("customer with id [%d]: %w", id, common.ErrNotFound)
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("error deleting customer: %w", err)
	}
	s.logger.Info(ctx, "customer deleted", "id", id)
	return nil
}

// Update applies the patch field by field. A field counts as a change only
// when present (non-blank, age inside [18,75]) and different from the
// current value. A patch that changes nothing at all is a validation
// failure, not a silent no-op.
func (s *Service) Update(ctx context.Context, id int64, patch UpdateRequest) error {
	current, err := s.repo.SelectByID(ctx, id)
	if err != nil {
		return fmt.Errorf("customer with id [%d]: %w", id, err)
	}

	changed := false

	if patch.FirstName != "" && patch.FirstName != current.FirstName {
		current.FirstName = patch.FirstName
		changed = true
	}
	if patch.LastName != "" && patch.LastName != current.LastName {
		current.LastName = patch.LastName
		changed = true
	}
	if patch.Age >= 18 && patch.Age <= 75 && patch.Age != current.Age {
		current.Age = patch.Age
		changed = true
	}
	if patch.Email != "" && patch.Email != current.Email {
		taken, err := s.repo.ExistsByEmail(ctx, patch.Email)
		if err != nil {
			return fmt.Errorf("error checking email: %w", err)
		}
		if taken {
			return common.ErrDuplicateEmail
		}
		current.Email = patch.Email
		changed = true
	}

	if !changed {
		return fmt.Errorf("%w: no data changes found", common.ErrValidation)
	}

	if err := s.repo.Update(ctx, current); err != nil {
		return fmt.Errorf("error updating customer: %w", err)
	}
	s.logger.Info(ctx, "customer updated", "id", id)
	return nil
}

// SetProfilePicID points the customer at an already-stored picture.
func (s *Service) SetProfilePicID(ctx context.Context, id int64, picID string) error {
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("error checking customer id: %w", err)
	}
	if !exists {
		return fmt.Errorf("customer with id [%d]: %w", id, common.ErrNotFound)
	}
	return s.repo.UpdateProfilePicID(ctx, id, picID)
}

// UploadProfilePic stores the picture bytes under a fresh opaque id and
// records that id on the customer.
func (s *Service) UploadProfilePic(ctx context.Context, id int64, content []byte) error {
	if _, err := s.repo.SelectByID(ctx, id); err != nil {
		return fmt.Errorf("customer with id [%d]: %w", id, err)
	}

	picID := uuid.NewString()
	if err := s.objects.Put(ctx, s.bucket, profilePicKey(id, picID), content); err != nil {
		return fmt.Errorf("error storing profile picture: %w", err)
	}
	if err := s.repo.UpdateProfilePicID(ctx, id, picID); err != nil {
		return fmt.Errorf("error recording profile picture id: %w", err)
	}

	s.logger.Info(ctx, "profile picture uploaded", "id", id, "pic_id", picID)
	return nil
}

// DownloadProfilePic fetches the stored picture bytes for the customer.
// Customers without a picture yield common.ErrNotFound.
func (s *Service) DownloadProfilePic(ctx context.Context, id int64) ([]byte, error) {
	c, err := s.repo.SelectByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("customer with id [%d]: %w", id, err)
	}
	if c.ProfilePicID == "" {
		return nil, fmt.Errorf("customer with id [%d] profile picture: %w", id, common.ErrNotFound)
	}

	data, err := s.objects.Get(ctx, s.bucket, profilePicKey(id, c.ProfilePicID))
	if err != nil {
		return nil, fmt.Errorf("error fetching profile picture: %w", err)
	}
	return data, nil
}
