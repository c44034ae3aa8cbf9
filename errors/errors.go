package errors

import (
	"fmt"
	"net/http"
)

// AppError is the application error type carried from usecases to handlers
type AppError struct {
	Raw      error
	HTTPCode int
	Code     ErrorCode
	Message  string
	Details  map[string]string
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the wrapped cause to errors.Is/As
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// General errors

func ErrInternal(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTERNAL,
		Message:  "Internal server error",
	}
}

func ErrInvalidArgument(message string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_ARGUMENT,
		Message:  message,
	}
}

func ErrInvalidPayload() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_PAYLOAD,
		Message:  "Invalid payload",
	}
}

// Session errors

func ErrSessionNotFound(sessionID string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_SESSION_NOT_FOUND,
		Message:  "Session not found or expired",
	}.WithDetail("session_id", sessionID)
}

func ErrSessionTokenInvalid() AppError {
	return AppError{
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_SESSION_TOKEN_INVALID,
		Message:  "Invalid or expired session token",
	}
}

func ErrSessionMismatch() AppError {
	return AppError{
		HTTPCode: http.StatusForbidden,
		Code:     ErrorCode_SESSION_MISMATCH,
		Message:  "Token does not belong to this session",
	}
}

func ErrExtractionInFlight(sessionID string) AppError {
	return AppError{
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_EXTRACTION_IN_FLIGHT,
		Message:  "An extraction is already in progress for this session",
	}.WithDetail("session_id", sessionID)
}

// Audio and transcription errors

func ErrAudioUploadFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_AUDIO_UPLOAD_FAILED,
		Message:  "Failed to store uploaded audio",
	}
}

func ErrAudioUnsupportedFormat(ext string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_AUDIO_UNSUPPORTED_FORMAT,
		Message:  "Unsupported audio format",
	}.WithDetail("extension", ext)
}

func ErrTranscriptionFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_TRANSCRIPTION_FAILED,
		Message:  "Audio transcription failed",
	}
}

// Extraction and rendering errors

func ErrExtractionBackendFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_EXTRACTION_BACKEND_FAILED,
		Message:  "Generative backend call failed",
	}
}

func ErrExtractionNotFound() AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_NOT_FOUND,
		Message:  "No extraction result for this session",
	}
}

func ErrTopicIndexOutOfRange(index int) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_TOPIC_INDEX_OUT_OF_RANGE,
		Message:  "Topic index out of range",
	}.WithDetail("index", fmt.Sprintf("%d", index))
}

func ErrDocumentNotRendered() AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_DOCUMENT_NOT_RENDERED,
		Message:  "No minutes document has been rendered for this session",
	}
}

// Integration errors

func ErrStorageFailed(operation string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTEGRATION_STORAGE_FAILED,
		Message:  fmt.Sprintf("Storage operation failed: %s", operation),
	}
}
