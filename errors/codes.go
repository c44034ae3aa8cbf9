package errors

// ErrorCode identifies an application error category in API responses
type ErrorCode int

const (
	ErrorCode_UNKNOWN ErrorCode = iota
	ErrorCode_HTTP_OK
	ErrorCode_INTERNAL
	ErrorCode_INVALID_ARGUMENT
	ErrorCode_INVALID_PAYLOAD
	ErrorCode_NOT_FOUND
	ErrorCode_UNAUTHENTICATED
	ErrorCode_FORBIDDEN
	ErrorCode_CONFLICT

	ErrorCode_SESSION_NOT_FOUND
	ErrorCode_SESSION_TOKEN_INVALID
	ErrorCode_SESSION_MISMATCH
	ErrorCode_EXTRACTION_IN_FLIGHT

	ErrorCode_AUDIO_UPLOAD_FAILED
	ErrorCode_AUDIO_UNSUPPORTED_FORMAT
	ErrorCode_TRANSCRIPTION_FAILED
	ErrorCode_EXTRACTION_BACKEND_FAILED
	ErrorCode_TOPIC_INDEX_OUT_OF_RANGE
	ErrorCode_DOCUMENT_NOT_RENDERED

	ErrorCode_INTEGRATION_STORAGE_FAILED
)

var codeNames = map[ErrorCode]string{
	ErrorCode_UNKNOWN:                    "UNKNOWN",
	ErrorCode_HTTP_OK:                    "OK",
	ErrorCode_INTERNAL:                   "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:           "INVALID_ARGUMENT",
	ErrorCode_INVALID_PAYLOAD:            "INVALID_PAYLOAD",
	ErrorCode_NOT_FOUND:                  "NOT_FOUND",
	ErrorCode_UNAUTHENTICATED:            "UNAUTHENTICATED",
	ErrorCode_FORBIDDEN:                  "FORBIDDEN",
	ErrorCode_CONFLICT:                   "CONFLICT",
	ErrorCode_SESSION_NOT_FOUND:          "SESSION_NOT_FOUND",
	ErrorCode_SESSION_TOKEN_INVALID:      "SESSION_TOKEN_INVALID",
	ErrorCode_SESSION_MISMATCH:           "SESSION_MISMATCH",
	ErrorCode_EXTRACTION_IN_FLIGHT:       "EXTRACTION_IN_FLIGHT",
	ErrorCode_AUDIO_UPLOAD_FAILED:        "AUDIO_UPLOAD_FAILED",
	ErrorCode_AUDIO_UNSUPPORTED_FORMAT:   "AUDIO_UNSUPPORTED_FORMAT",
	ErrorCode_TRANSCRIPTION_FAILED:       "TRANSCRIPTION_FAILED",
	ErrorCode_EXTRACTION_BACKEND_FAILED:  "EXTRACTION_BACKEND_FAILED",
	ErrorCode_TOPIC_INDEX_OUT_OF_RANGE:   "TOPIC_INDEX_OUT_OF_RANGE",
	ErrorCode_DOCUMENT_NOT_RENDERED:      "DOCUMENT_NOT_RENDERED",
	ErrorCode_INTEGRATION_STORAGE_FAILED: "INTEGRATION_STORAGE_FAILED",
}

// String returns the symbolic name of the error code
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
