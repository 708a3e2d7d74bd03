package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// IdentityData represents an enrolled identity
type IdentityData struct {
	RollNumber string `json:"roll_number" example:"2021-CS-042"`
	Name       string `json:"name" example:"Maria Silva"`
	Photos     int    `json:"photos" example:"3"`
	CreatedAt  string `json:"created_at" example:"2024-01-01T00:00:00Z"`
}

// SessionData represents the camera session state
type SessionData struct {
	Active bool `json:"active" example:"true"`
}

// BoxData represents the bounding box of the detected face
type BoxData struct {
	X      int `json:"x" example:"120"`
	Y      int `json:"y" example:"80"`
	Width  int `json:"width" example:"160"`
	Height int `json:"height" example:"160"`
}

// CaptureData represents the result of one attendance attempt
type CaptureData struct {
	Outcome    string   `json:"outcome" example:"recognized"`
	RollNumber string   `json:"roll_number,omitempty" example:"2021-CS-042"`
	Name       string   `json:"name,omitempty" example:"Maria Silva"`
	Distance   float64  `json:"distance,omitempty" example:"0.12"`
	RecordedAt string   `json:"recorded_at,omitempty" example:"2024-01-01T08:30:00Z"`
	Box        *BoxData `json:"box,omitempty"`
	Message    string   `json:"message,omitempty" example:""`
}

// RecordData represents one attendance log row
type RecordData struct {
	ID         string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	RollNumber string `json:"roll_number" example:"2021-CS-042"`
	Name       string `json:"name" example:"Maria Silva"`
	Day        string `json:"day" example:"2024-01-01"`
	RecordedAt string `json:"recorded_at" example:"2024-01-01T08:30:00Z"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"VALIDATION_FAILED"`
	Message string `json:"message" example:"Request validation failed"`
}

// EmptyResponse represents no content response (204)
type EmptyResponse struct{}

func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "Presença Attendance API",
		Version:     "v1.0.0",
		Description: "Face recognition attendance service: identity enrollment, camera capture sessions and an append-only attendance log",
		Host:        "localhost:3000",
		Path:        "/v1",
	})

	endpoints := []*endpoint.EndPoint{
		// Identities endpoints

		// POST /v1/identities - Enroll Identity
		endpoint.New(
			endpoint.POST,
			"/identities",
			endpoint.WithTags("Identities"),
			endpoint.WithSummary("Enroll an identity from a photo"),
			endpoint.WithDescription("Registers a new identity or appends a descriptor to an existing one. The photo must contain exactly one face, and the name must match the one already stored for the roll number."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(IdentityData{}, "201", "Identity enrolled successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "ROLL_NUMBER_TAKEN", Message: "Roll number already registered with a different name"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "NO_FACE_DETECTED", Message: "No face detected in the image"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "MULTIPLE_FACES", Message: "Multiple faces detected, please provide image with single face"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// GET /v1/identities - List Identities
		endpoint.New(
			endpoint.GET,
			"/identities",
			endpoint.WithTags("Identities"),
			endpoint.WithSummary("List enrolled identities"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New([]IdentityData{}, "200", "Identities listed successfully"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// GET /v1/identities/{roll_number} - Get Identity
		endpoint.New(
			endpoint.GET,
			"/identities/{roll_number}",
			endpoint.WithTags("Identities"),
			endpoint.WithSummary("Fetch a single identity"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("roll_number", parameter.Path, parameter.WithDescription("Student roll number")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(IdentityData{}, "200", "Identity found"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "IDENTITY_NOT_FOUND", Message: "Identity not found"}, "404", "Not Found"),
			}),
		),

		// DELETE /v1/identities/{roll_number} - Delete Identity
		endpoint.New(
			endpoint.DELETE,
			"/identities/{roll_number}",
			endpoint.WithTags("Identities"),
			endpoint.WithSummary("Delete an identity and its descriptors"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("roll_number", parameter.Path, parameter.WithDescription("Student roll number")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "204", "Identity deleted"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "IDENTITY_NOT_FOUND", Message: "Identity not found"}, "404", "Not Found"),
			}),
		),

		// Camera endpoints

		// POST /v1/camera/start - Start Capture Session
		endpoint.New(
			endpoint.POST,
			"/camera/start",
			endpoint.WithTags("Camera"),
			endpoint.WithSummary("Start a capture session"),
			endpoint.WithDescription("Acquires the camera device. Fails if a session is already active or the device cannot be opened."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SessionData{}, "200", "Session started"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "DEVICE_BUSY", Message: "A capture session is already active"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "DEVICE_UNAVAILABLE", Message: "Camera device could not be opened"}, "503", "Service Unavailable"),
			}),
		),

		// POST /v1/camera/stop - Stop Capture Session
		endpoint.New(
			endpoint.POST,
			"/camera/stop",
			endpoint.WithTags("Camera"),
			endpoint.WithSummary("Stop the capture session"),
			endpoint.WithDescription("Releases the camera device. Stopping an idle session is a no-op."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SessionData{}, "200", "Session stopped"),
			}),
		),

		// GET /v1/camera - Session Status
		endpoint.New(
			endpoint.GET,
			"/camera",
			endpoint.WithTags("Camera"),
			endpoint.WithSummary("Report capture session state"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SessionData{}, "200", "Session state"),
			}),
		),

		// GET /v1/camera/feed - MJPEG Preview
		endpoint.New(
			endpoint.GET,
			"/camera/feed",
			endpoint.WithTags("Camera"),
			endpoint.WithSummary("MJPEG preview stream of the active session"),
			endpoint.WithProduce([]mime.MIME{mime.MIME("multipart/x-mixed-replace")}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "200", "MJPEG stream"),
			}),
		),

		// Attendance endpoints

		// POST /v1/attendance/capture - Run Recognition Attempt
		endpoint.New(
			endpoint.POST,
			"/attendance/capture",
			endpoint.WithTags("Attendance"),
			endpoint.WithSummary("Run one attendance attempt"),
			endpoint.WithDescription("Reads a frame from the active session, identifies the face against the gallery and records attendance at most once per person per day. Expected conditions (no face, unknown person, already marked) come back as outcomes, not errors."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(CaptureData{}, "200", "Attempt completed"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "SESSION_INACTIVE", Message: "No active capture session"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// GET /v1/attendance/records - List Attendance Log
		endpoint.New(
			endpoint.GET,
			"/attendance/records",
			endpoint.WithTags("Attendance"),
			endpoint.WithSummary("List the attendance log"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New([]RecordData{}, "200", "Records listed successfully"),
			}),
		),

		// GET /v1/attendance/export - Export CSV
		endpoint.New(
			endpoint.GET,
			"/attendance/export",
			endpoint.WithTags("Attendance"),
			endpoint.WithSummary("Download the attendance log as CSV"),
			endpoint.WithProduce([]mime.MIME{mime.MIME("text/csv")}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "200", "CSV file"),
			}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
