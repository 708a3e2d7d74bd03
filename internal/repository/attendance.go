package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/presenca/internal/domain"
)

type AttendanceRepository struct {
	pool PgxPool
}

func NewAttendanceRepository(pool PgxPool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

// Insert grava um registro de presença. A constraint UNIQUE (roll_number, day)
// faz o check-then-insert ser atômico: de N inserts concorrentes para a mesma
// chave, exatamente um retorna sem erro.
func (r *AttendanceRepository) Insert(ctx context.Context, record *domain.AttendanceRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO attendance_records (id, roll_number, day, recorded_at)
		VALUES ($1, $2, $3, $4)
	`, record.ID, record.RollNumber, record.Day, record.RecordedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyMarked
		}
		if isForeignKeyViolation(err) {
			return domain.ErrIdentityNotFound
		}
		return fmt.Errorf("insert attendance: %w", err)
	}

	return nil
}

func (r *AttendanceRepository) Exists(ctx context.Context, rollNumber string, day time.Time) (bool, error) {
	var exists bool

	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM attendance_records WHERE roll_number = $1 AND day = $2
		)
	`, rollNumber, day).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("check attendance: %w", err)
	}

	return exists, nil
}

// List devolve os registros mais recentes primeiro, com o nome da identidade.
func (r *AttendanceRepository) List(ctx context.Context) ([]domain.AttendanceRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.roll_number, i.name, a.day, a.recorded_at
		FROM attendance_records a
		INNER JOIN identities i ON i.roll_number = a.roll_number
		ORDER BY a.recorded_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	defer rows.Close()

	var records []domain.AttendanceRecord
	for rows.Next() {
		var record domain.AttendanceRecord
		if err := rows.Scan(&record.ID, &record.RollNumber, &record.Name, &record.Day, &record.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan attendance: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}

	return records, nil
}
