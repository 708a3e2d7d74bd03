package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/saturnino-fabrica-de-software/presenca/internal/domain"
)

type IdentityRepository struct {
	pool PgxPool
}

func NewIdentityRepository(pool PgxPool) *IdentityRepository {
	return &IdentityRepository{pool: pool}
}

// Enroll cria a identidade se necessário e acrescenta o descriptor ao final da
// sequência. A transação trava a linha da identidade (FOR UPDATE), então
// cadastros concorrentes para o mesmo roll number são serializados pelo banco.
func (r *IdentityRepository) Enroll(ctx context.Context, rollNumber, name string, descriptor domain.Descriptor) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin enroll: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	_, err = tx.Exec(ctx, `
		INSERT INTO identities (roll_number, name)
		VALUES ($1, $2)
		ON CONFLICT (roll_number) DO NOTHING
	`, rollNumber, name)
	if err != nil {
		return fmt.Errorf("insert identity: %w", err)
	}

	var currentName string
	err = tx.QueryRow(ctx, `
		SELECT name FROM identities WHERE roll_number = $1 FOR UPDATE
	`, rollNumber).Scan(&currentName)
	if err != nil {
		return fmt.Errorf("lock identity: %w", err)
	}

	if currentName != name {
		return domain.ErrRollNumberTaken
	}

	var position int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM face_descriptors WHERE roll_number = $1
	`, rollNumber).Scan(&position)
	if err != nil {
		return fmt.Errorf("count descriptors: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO face_descriptors (id, roll_number, position, embedding)
		VALUES ($1, $2, $3, $4)
	`, uuid.New(), rollNumber, position, toVector(descriptor))
	if err != nil {
		return fmt.Errorf("insert descriptor: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit enroll: %w", err)
	}

	return nil
}

// Snapshot devolve todas as identidades com seus descriptors na ordem de
// cadastro. Uma única query MVCC garante que o matcher nunca vê uma lista de
// descriptors pela metade.
func (r *IdentityRepository) Snapshot(ctx context.Context) ([]domain.Identity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT i.roll_number, i.name, i.created_at, d.embedding
		FROM identities i
		LEFT JOIN face_descriptors d ON d.roll_number = i.roll_number
		ORDER BY i.roll_number, d.position
	`)
	if err != nil {
		return nil, fmt.Errorf("snapshot identities: %w", err)
	}
	defer rows.Close()

	var identities []domain.Identity
	for rows.Next() {
		var identity domain.Identity
		var embedding *pgvector.Vector

		if err := rows.Scan(&identity.RollNumber, &identity.Name, &identity.CreatedAt, &embedding); err != nil {
			return nil, fmt.Errorf("scan identity: %w", err)
		}

		if len(identities) == 0 || identities[len(identities)-1].RollNumber != identity.RollNumber {
			identities = append(identities, identity)
		}

		if embedding != nil {
			last := &identities[len(identities)-1]
			last.Descriptors = append(last.Descriptors, fromVector(*embedding))
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("snapshot identities: %w", err)
	}

	return identities, nil
}

func (r *IdentityRepository) GetByRollNumber(ctx context.Context, rollNumber string) (*domain.Identity, error) {
	var identity domain.Identity

	err := r.pool.QueryRow(ctx, `
		SELECT roll_number, name, created_at FROM identities WHERE roll_number = $1
	`, rollNumber).Scan(&identity.RollNumber, &identity.Name, &identity.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrIdentityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get identity: %w", err)
	}

	return &identity, nil
}

func (r *IdentityRepository) Delete(ctx context.Context, rollNumber string) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM identities WHERE roll_number = $1
	`, rollNumber)
	if err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrIdentityNotFound
	}

	return nil
}

func toVector(descriptor domain.Descriptor) pgvector.Vector {
	floats := make([]float32, len(descriptor))
	for i, v := range descriptor {
		floats[i] = float32(v)
	}
	return pgvector.NewVector(floats)
}

func fromVector(vec pgvector.Vector) domain.Descriptor {
	slice := vec.Slice()
	descriptor := make(domain.Descriptor, len(slice))
	for i, v := range slice {
		descriptor[i] = float64(v)
	}
	return descriptor
}
