package domain

import (
	"time"

	"github.com/google/uuid"
)

// AttendanceRecord é uma entrada do livro de presença. Para um par
// (roll_number, day) existe no máximo um registro; a unicidade é garantida
// pela constraint do banco, não por lógica read-then-write na aplicação.
type AttendanceRecord struct {
	ID         uuid.UUID `json:"id"`
	RollNumber string    `json:"roll_number"`
	Name       string    `json:"name,omitempty"`
	Day        time.Time `json:"date"`
	RecordedAt time.Time `json:"recorded_at"`
}
