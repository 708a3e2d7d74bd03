package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/presenca/internal/domain"
)

// IdentityRepository Tests

func TestIdentityRepository_Enroll(t *testing.T) {
	descriptor := domain.Descriptor{0.1, 0.2, 0.3}

	tests := []struct {
		name      string
		mockSetup func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name: "first enrollment creates identity and first descriptor",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO identities`).
					WithArgs("2021-CS-001", "Alice").
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectQuery(`SELECT name FROM identities WHERE roll_number = \$1 FOR UPDATE`).
					WithArgs("2021-CS-001").
					WillReturnRows(pgxmock.NewRows([]string{"name"}).AddRow("Alice"))
				mock.ExpectQuery(`SELECT COUNT\(\*\) FROM face_descriptors`).
					WithArgs("2021-CS-001").
					WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
				mock.ExpectExec(`INSERT INTO face_descriptors`).
					WithArgs(pgxmock.AnyArg(), "2021-CS-001", 0, toVector(descriptor)).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectCommit()
				mock.ExpectRollback()
			},
		},
		{
			name: "re-enrollment with same name appends at next position",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO identities`).
					WithArgs("2021-CS-001", "Alice").
					WillReturnResult(pgxmock.NewResult("INSERT", 0))
				mock.ExpectQuery(`SELECT name FROM identities WHERE roll_number = \$1 FOR UPDATE`).
					WithArgs("2021-CS-001").
					WillReturnRows(pgxmock.NewRows([]string{"name"}).AddRow("Alice"))
				mock.ExpectQuery(`SELECT COUNT\(\*\) FROM face_descriptors`).
					WithArgs("2021-CS-001").
					WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))
				mock.ExpectExec(`INSERT INTO face_descriptors`).
					WithArgs(pgxmock.AnyArg(), "2021-CS-001", 2, toVector(descriptor)).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectCommit()
				mock.ExpectRollback()
			},
		},
		{
			name: "roll number taken by a different name",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO identities`).
					WithArgs("2021-CS-001", "Alice").
					WillReturnResult(pgxmock.NewResult("INSERT", 0))
				mock.ExpectQuery(`SELECT name FROM identities WHERE roll_number = \$1 FOR UPDATE`).
					WithArgs("2021-CS-001").
					WillReturnRows(pgxmock.NewRows([]string{"name"}).AddRow("Bob"))
				mock.ExpectRollback()
			},
			wantErr: domain.ErrRollNumberTaken,
		},
		{
			name: "begin failure",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))
			},
			wantErr: errors.New("begin enroll: pool exhausted"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)

			repo := NewIdentityRepository(mock)
			err = repo.Enroll(context.Background(), "2021-CS-001", "Alice", descriptor)

			if tt.wantErr != nil {
				require.Error(t, err)
				var appErr *domain.AppError
				if errors.As(tt.wantErr, &appErr) {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.Equal(t, tt.wantErr.Error(), err.Error())
				}
			} else {
				require.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestIdentityRepository_Snapshot(t *testing.T) {
	now := time.Now()

	t.Run("groups descriptors by identity in position order", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		aliceFirst := pgvector.NewVector([]float32{1, 0, 0})
		aliceSecond := pgvector.NewVector([]float32{0.9, 0.1, 0})
		bobOnly := pgvector.NewVector([]float32{0, 1, 0})

		rows := pgxmock.NewRows([]string{"roll_number", "name", "created_at", "embedding"}).
			AddRow("2021-CS-001", "Alice", now, &aliceFirst).
			AddRow("2021-CS-001", "Alice", now, &aliceSecond).
			AddRow("2021-CS-002", "Bob", now, &bobOnly)

		mock.ExpectQuery(`SELECT i.roll_number, i.name, i.created_at, d.embedding`).
			WillReturnRows(rows)

		repo := NewIdentityRepository(mock)
		identities, err := repo.Snapshot(context.Background())
		require.NoError(t, err)

		require.Len(t, identities, 2)
		assert.Equal(t, "2021-CS-001", identities[0].RollNumber)
		require.Len(t, identities[0].Descriptors, 2)
		assert.Equal(t, domain.Descriptor{1, 0, 0}, identities[0].Descriptors[0])
		assert.Equal(t, "2021-CS-002", identities[1].RollNumber)
		require.Len(t, identities[1].Descriptors, 1)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("identity without descriptors still appears", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		rows := pgxmock.NewRows([]string{"roll_number", "name", "created_at", "embedding"}).
			AddRow("2021-CS-003", "Carol", now, nil)

		mock.ExpectQuery(`SELECT i.roll_number, i.name, i.created_at, d.embedding`).
			WillReturnRows(rows)

		repo := NewIdentityRepository(mock)
		identities, err := repo.Snapshot(context.Background())
		require.NoError(t, err)

		require.Len(t, identities, 1)
		assert.Empty(t, identities[0].Descriptors)
	})

	t.Run("empty gallery", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT i.roll_number, i.name, i.created_at, d.embedding`).
			WillReturnRows(pgxmock.NewRows([]string{"roll_number", "name", "created_at", "embedding"}))

		repo := NewIdentityRepository(mock)
		identities, err := repo.Snapshot(context.Background())
		require.NoError(t, err)
		assert.Empty(t, identities)
	})
}

func TestIdentityRepository_GetByRollNumber(t *testing.T) {
	now := time.Now()

	t.Run("found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT roll_number, name, created_at FROM identities WHERE roll_number = \$1`).
			WithArgs("2021-CS-001").
			WillReturnRows(pgxmock.NewRows([]string{"roll_number", "name", "created_at"}).
				AddRow("2021-CS-001", "Alice", now))

		repo := NewIdentityRepository(mock)
		identity, err := repo.GetByRollNumber(context.Background(), "2021-CS-001")
		require.NoError(t, err)
		assert.Equal(t, "Alice", identity.Name)
	})

	t.Run("not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT roll_number, name, created_at FROM identities WHERE roll_number = \$1`).
			WithArgs("missing").
			WillReturnError(pgx.ErrNoRows)

		repo := NewIdentityRepository(mock)
		_, err = repo.GetByRollNumber(context.Background(), "missing")
		assert.ErrorIs(t, err, domain.ErrIdentityNotFound)
	})
}

func TestIdentityRepository_Delete(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`DELETE FROM identities WHERE roll_number = \$1`).
			WithArgs("2021-CS-001").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		repo := NewIdentityRepository(mock)
		require.NoError(t, repo.Delete(context.Background(), "2021-CS-001"))
	})

	t.Run("not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`DELETE FROM identities WHERE roll_number = \$1`).
			WithArgs("missing").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		repo := NewIdentityRepository(mock)
		err = repo.Delete(context.Background(), "missing")
		assert.ErrorIs(t, err, domain.ErrIdentityNotFound)
	})
}

// AttendanceRepository Tests

func TestAttendanceRepository_Insert(t *testing.T) {
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	recordedAt := day.Add(8*time.Hour + 30*time.Minute)

	t.Run("successful insert assigns id", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`INSERT INTO attendance_records`).
			WithArgs(pgxmock.AnyArg(), "2021-CS-001", day, recordedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		repo := NewAttendanceRepository(mock)
		record := &domain.AttendanceRecord{
			RollNumber: "2021-CS-001",
			Day:        day,
			RecordedAt: recordedAt,
		}
		require.NoError(t, repo.Insert(context.Background(), record))
		assert.NotEqual(t, uuid.Nil, record.ID)
	})

	t.Run("duplicate day maps to already marked", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`INSERT INTO attendance_records`).
			WithArgs(pgxmock.AnyArg(), "2021-CS-001", day, recordedAt).
			WillReturnError(errors.New(`ERROR: duplicate key value violates unique constraint "attendance_records_roll_number_day_key" (SQLSTATE 23505)`))

		repo := NewAttendanceRepository(mock)
		err = repo.Insert(context.Background(), &domain.AttendanceRecord{
			RollNumber: "2021-CS-001",
			Day:        day,
			RecordedAt: recordedAt,
		})
		assert.ErrorIs(t, err, domain.ErrAlreadyMarked)
	})

	t.Run("unknown identity maps to not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`INSERT INTO attendance_records`).
			WithArgs(pgxmock.AnyArg(), "ghost", day, recordedAt).
			WillReturnError(errors.New(`ERROR: insert or update on table "attendance_records" violates foreign key constraint (SQLSTATE 23503)`))

		repo := NewAttendanceRepository(mock)
		err = repo.Insert(context.Background(), &domain.AttendanceRecord{
			RollNumber: "ghost",
			Day:        day,
			RecordedAt: recordedAt,
		})
		assert.ErrorIs(t, err, domain.ErrIdentityNotFound)
	})
}

func TestAttendanceRepository_Exists(t *testing.T) {
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("2021-CS-001", day).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	repo := NewAttendanceRepository(mock)
	exists, err := repo.Exists(context.Background(), "2021-CS-001", day)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestAttendanceRepository_List(t *testing.T) {
	now := time.Now()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"id", "roll_number", "name", "day", "recorded_at"}).
		AddRow(uuid.New(), "2021-CS-002", "Bob", day, now).
		AddRow(uuid.New(), "2021-CS-001", "Alice", day, now.Add(-time.Hour))

	mock.ExpectQuery(`SELECT a.id, a.roll_number, i.name, a.day, a.recorded_at`).
		WillReturnRows(rows)

	repo := NewAttendanceRepository(mock)
	records, err := repo.List(context.Background())
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "Bob", records[0].Name)
	assert.Equal(t, "Alice", records[1].Name)
}

func TestHelpers_ViolationDetection(t *testing.T) {
	assert.True(t, isUniqueViolation(errors.New("SQLSTATE 23505")))
	assert.True(t, isUniqueViolation(errors.New("duplicate key value")))
	assert.False(t, isUniqueViolation(nil))
	assert.False(t, isUniqueViolation(errors.New("connection refused")))

	assert.True(t, isForeignKeyViolation(errors.New("SQLSTATE 23503")))
	assert.True(t, isForeignKeyViolation(errors.New("violates foreign key constraint")))
	assert.False(t, isForeignKeyViolation(nil))
}
