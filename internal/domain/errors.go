package domain

import (
	"fmt"
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Err:        err,
	}
}

// Pre-defined errors
var (
	ErrInternal = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		StatusCode: 500,
	}

	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: 400,
	}

	ErrValidationFailed = &AppError{
		Code:       "VALIDATION_FAILED",
		Message:    "Request validation failed",
		StatusCode: 422,
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Resource not found",
		StatusCode: 404,
	}

	ErrIdentityNotFound = &AppError{
		Code:       "IDENTITY_NOT_FOUND",
		Message:    "Identity not found",
		StatusCode: 404,
	}

	ErrRollNumberTaken = &AppError{
		Code:       "ROLL_NUMBER_TAKEN",
		Message:    "Roll number already registered with a different name",
		StatusCode: 409,
	}

	ErrInvalidImage = &AppError{
		Code:       "INVALID_IMAGE",
		Message:    "Invalid image format or corrupted file",
		StatusCode: 422,
	}

	ErrNoFaceDetected = &AppError{
		Code:       "NO_FACE_DETECTED",
		Message:    "No face detected in the image",
		StatusCode: 422,
	}

	ErrMultipleFaces = &AppError{
		Code:       "MULTIPLE_FACES",
		Message:    "Multiple faces detected, please provide image with single face",
		StatusCode: 422,
	}

	ErrInvalidDescriptor = &AppError{
		Code:       "INVALID_DESCRIPTOR",
		Message:    "Descriptor length does not match the extractor model",
		StatusCode: 422,
	}

	ErrInvalidThreshold = &AppError{
		Code:       "INVALID_THRESHOLD",
		Message:    "Threshold must be between 0 and 1",
		StatusCode: 422,
	}

	ErrAlreadyMarked = &AppError{
		Code:       "ALREADY_MARKED",
		Message:    "Attendance already marked today",
		StatusCode: 409,
	}

	ErrDeviceUnavailable = &AppError{
		Code:       "DEVICE_UNAVAILABLE",
		Message:    "Camera device could not be opened",
		StatusCode: 503,
	}

	ErrDeviceBusy = &AppError{
		Code:       "DEVICE_BUSY",
		Message:    "A capture session is already active",
		StatusCode: 409,
	}

	ErrSessionInactive = &AppError{
		Code:       "SESSION_INACTIVE",
		Message:    "No active capture session",
		StatusCode: 409,
	}

	ErrFrameUnavailable = &AppError{
		Code:       "FRAME_UNAVAILABLE",
		Message:    "Failed to read a frame from the camera",
		StatusCode: 503,
	}
)
