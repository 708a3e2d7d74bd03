// Package ledger is the append-only attendance log. A identidade marca
// presença no máximo uma vez por dia-calendário; a atomicidade do
// check-then-insert é delegada à constraint de unicidade do armazenamento.
package ledger

import (
	"context"
	"time"

	"github.com/saturnino-fabrica-de-software/presenca/internal/domain"
)

type Repository interface {
	Insert(ctx context.Context, record *domain.AttendanceRecord) error
	Exists(ctx context.Context, rollNumber string, day time.Time) (bool, error)
	List(ctx context.Context) ([]domain.AttendanceRecord, error)
}

type Ledger struct {
	repo Repository
	now  func() time.Time
}

func New(repo Repository) *Ledger {
	return &Ledger{
		repo: repo,
		now:  time.Now,
	}
}

// WithClock substitui a fonte de data/hora (para testes).
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// Record appends an attendance entry for today. Under concurrent calls for
// the same roll number, exactly one succeeds; the rest fail with
// ErrAlreadyMarked. The calendar date is derived at the moment of recording.
func (l *Ledger) Record(ctx context.Context, rollNumber string) (*domain.AttendanceRecord, error) {
	now := l.now()

	record := &domain.AttendanceRecord{
		RollNumber: rollNumber,
		Day:        truncateToDay(now),
		RecordedAt: now,
	}

	if err := l.repo.Insert(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

func (l *Ledger) HasMarkedToday(ctx context.Context, rollNumber string) (bool, error) {
	return l.repo.Exists(ctx, rollNumber, truncateToDay(l.now()))
}

func (l *Ledger) List(ctx context.Context) ([]domain.AttendanceRecord, error) {
	return l.repo.List(ctx)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
