package handler

import (
	"bytes"
	"context"
	"encoding/csv"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/presenca/internal/domain"
)

// Recognizer runs one attendance attempt against the active capture session.
type Recognizer interface {
	Capture(ctx context.Context) (*domain.AttemptResult, error)
}

// AttendanceLedger interface for reading the attendance log
type AttendanceLedger interface {
	List(ctx context.Context) ([]domain.AttendanceRecord, error)
}

// AttendanceHandler handles attendance capture and reporting requests
type AttendanceHandler struct {
	recognizer Recognizer
	ledger     AttendanceLedger
	logger     *slog.Logger
}

func NewAttendanceHandler(recognizer Recognizer, ledger AttendanceLedger, logger *slog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		recognizer: recognizer,
		ledger:     ledger,
		logger:     logger,
	}
}

// BoxResponse bounding box of the detected face
type BoxResponse struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// CaptureResponse response for the capture endpoint
type CaptureResponse struct {
	Outcome    string       `json:"outcome"`
	RollNumber string       `json:"roll_number,omitempty"`
	Name       string       `json:"name,omitempty"`
	Distance   float64      `json:"distance,omitempty"`
	RecordedAt string       `json:"recorded_at,omitempty"`
	Box        *BoxResponse `json:"box,omitempty"`
	Message    string       `json:"message,omitempty"`
}

// RecordResponse one row of the attendance log
type RecordResponse struct {
	ID         string `json:"id"`
	RollNumber string `json:"roll_number"`
	Name       string `json:"name"`
	Day        string `json:"day"`
	RecordedAt string `json:"recorded_at"`
}

// Capture POST /v1/attendance/capture - run one recognition attempt
func (h *AttendanceHandler) Capture(c *fiber.Ctx) error {
	result, err := h.recognizer.Capture(c.Context())
	if err != nil {
		return err
	}

	resp := CaptureResponse{
		Outcome: string(result.Outcome),
		Message: result.Message,
	}

	if result.Identity != nil {
		resp.RollNumber = result.Identity.RollNumber
		resp.Name = result.Identity.Name
		resp.Distance = result.Distance
	}
	if result.Record != nil {
		resp.RecordedAt = result.Record.RecordedAt.Format(time.RFC3339)
	}
	if result.Box != nil {
		resp.Box = &BoxResponse{
			X:      result.Box.X,
			Y:      result.Box.Y,
			Width:  result.Box.Width,
			Height: result.Box.Height,
		}
	}

	return c.JSON(resp)
}

// Records GET /v1/attendance/records - list the attendance log
func (h *AttendanceHandler) Records(c *fiber.Ctx) error {
	records, err := h.ledger.List(c.Context())
	if err != nil {
		return err
	}

	resp := make([]RecordResponse, 0, len(records))
	for _, record := range records {
		resp = append(resp, RecordResponse{
			ID:         record.ID.String(),
			RollNumber: record.RollNumber,
			Name:       record.Name,
			Day:        record.Day.Format("2006-01-02"),
			RecordedAt: record.RecordedAt.Format(time.RFC3339),
		})
	}

	return c.JSON(resp)
}

// Export GET /v1/attendance/export - download the attendance log as CSV
func (h *AttendanceHandler) Export(c *fiber.Ctx) error {
	records, err := h.ledger.List(c.Context())
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{{"roll_number", "name", "day", "recorded_at"}}
	for _, record := range records {
		rows = append(rows, []string{
			record.RollNumber,
			record.Name,
			record.Day.Format("2006-01-02"),
			record.RecordedAt.Format(time.RFC3339),
		})
	}

	if err := w.WriteAll(rows); err != nil {
		return domain.ErrInternal.WithError(err)
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="attendance.csv"`)
	return c.Send(buf.Bytes())
}
