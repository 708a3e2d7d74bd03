// Package gallery is the enrollment-side store: identities, their metadata
// and their descriptor lists. It validates descriptor shape at the boundary
// so the gallery can never accumulate vectors of mixed length.
package gallery

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/saturnino-fabrica-de-software/presenca/internal/domain"
)

type Repository interface {
	Enroll(ctx context.Context, rollNumber, name string, descriptor domain.Descriptor) error
	Snapshot(ctx context.Context) ([]domain.Identity, error)
	GetByRollNumber(ctx context.Context, rollNumber string) (*domain.Identity, error)
	Delete(ctx context.Context, rollNumber string) error
}

type Store struct {
	repo      Repository
	dimension int
}

// NewStore creates a gallery bound to the descriptor dimension of the
// configured extractor.
func NewStore(repo Repository, dimension int) *Store {
	return &Store{
		repo:      repo,
		dimension: dimension,
	}
}

// Enroll adiciona um descriptor à identidade, criando-a se for nova.
// Re-cadastrar o mesmo roll number com o mesmo nome acrescenta o descriptor;
// com nome diferente falha com ErrRollNumberTaken.
func (s *Store) Enroll(ctx context.Context, rollNumber, name string, descriptor domain.Descriptor) error {
	rollNumber = strings.TrimSpace(rollNumber)
	name = strings.TrimSpace(name)

	if rollNumber == "" || name == "" {
		return domain.ErrValidationFailed.WithError(errors.New("roll_number and name are required"))
	}

	if len(descriptor) != s.dimension {
		return domain.ErrInvalidDescriptor.WithError(
			fmt.Errorf("got length %d, extractor model produces %d", len(descriptor), s.dimension))
	}

	return s.repo.Enroll(ctx, rollNumber, name, descriptor)
}

// Snapshot returns every enrolled identity with its descriptors, consistent
// at call time.
func (s *Store) Snapshot(ctx context.Context) ([]domain.Identity, error) {
	return s.repo.Snapshot(ctx)
}

func (s *Store) Get(ctx context.Context, rollNumber string) (*domain.Identity, error) {
	return s.repo.GetByRollNumber(ctx, rollNumber)
}

func (s *Store) Delete(ctx context.Context, rollNumber string) error {
	return s.repo.Delete(ctx, rollNumber)
}
