package domain

// MatchResult é o resultado transitório de uma comparação 1:N. Nunca é
// persistido; o orquestrador o consome imediatamente.
type MatchResult struct {
	Identity *Identity `json:"identity,omitempty"`
	Distance float64   `json:"distance"`
	Unknown  bool      `json:"unknown"`
}

// Outcome is the single contract surfaced to the serving layer for an
// attendance attempt.
type Outcome string

const (
	OutcomeRecognized     Outcome = "recognized"
	OutcomeUnrecognized   Outcome = "unrecognized"
	OutcomeNoFaceDetected Outcome = "no_face_detected"
	OutcomeMultipleFaces  Outcome = "multiple_faces_detected"
	OutcomeAlreadyMarked  Outcome = "already_marked"
	OutcomeDeviceError    Outcome = "device_error"
)

// AttemptResult is the orchestrator's answer for one capture attempt.
// Identity and Record are set only for OutcomeRecognized; Distance is the
// matched distance when a face was compared (Recognized, Unrecognized,
// AlreadyMarked).
type AttemptResult struct {
	Outcome  Outcome           `json:"outcome"`
	Identity *Identity         `json:"identity,omitempty"`
	Record   *AttendanceRecord `json:"record,omitempty"`
	Distance float64           `json:"distance,omitempty"`
	Box      *BoundingBox      `json:"box,omitempty"`
	Message  string            `json:"message,omitempty"`
}
