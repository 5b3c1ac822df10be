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

// Is matches by code, so errors.Is finds the sentinel through copies
// produced by WithError.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
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

	ErrEmployeeNotFound = &AppError{
		Code:       "EMPLOYEE_NOT_FOUND",
		Message:    "Employee not found",
		StatusCode: 404,
	}

	ErrEmployeeExists = &AppError{
		Code:       "EMPLOYEE_ALREADY_EXISTS",
		Message:    "Employee with this code already exists",
		StatusCode: 409,
	}

	ErrEmployeeInactive = &AppError{
		Code:       "EMPLOYEE_INACTIVE",
		Message:    "Employee is not active",
		StatusCode: 422,
	}

	ErrInsufficientData = &AppError{
		Code:       "INSUFFICIENT_DATA",
		Message:    "At least two employees with enough samples are required to train",
		StatusCode: 422,
	}

	ErrRetrainInProgress = &AppError{
		Code:       "RETRAIN_IN_PROGRESS",
		Message:    "A retrain is already running, try again later",
		StatusCode: 409,
	}

	ErrModelNotReady = &AppError{
		Code:       "MODEL_NOT_READY",
		Message:    "No trained model available yet",
		StatusCode: 503,
	}

	ErrArtifactNotFound = &AppError{
		Code:       "ARTIFACT_NOT_FOUND",
		Message:    "Model artifact not found",
		StatusCode: 404,
	}

	ErrDimensionMismatch = &AppError{
		Code:       "DIMENSION_MISMATCH",
		Message:    "Feature vector dimension does not match the model",
		StatusCode: 422,
	}

	ErrCheckinTooSoon = &AppError{
		Code:       "CHECKIN_TOO_SOON",
		Message:    "Minimum gap between consecutive check-ins not reached",
		StatusCode: 422,
	}
)
