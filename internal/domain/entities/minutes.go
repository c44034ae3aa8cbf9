package entities

import "strings"

// ExtractionSource tells how an ExtractionResult was produced
type ExtractionSource string

const (
	// ExtractionSourceParsed means the backend response parsed as the expected JSON shape
	ExtractionSourceParsed ExtractionSource = "parsed"
	// ExtractionSourceFallback means the response was malformed and the fallback rule applied
	ExtractionSourceFallback ExtractionSource = "fallback"
)

// FallbackTopic is the synthesized topic title used when the backend response
// cannot be parsed ("Umum" is Indonesian for "General")
const FallbackTopic = "Umum"

// TopicEntry is one discussion item and its agreed outcome.
// The wire name of the agreement field stays "kesepakatan" to match the
// JSON contract given to the generative backend.
type TopicEntry struct {
	Topic     string `json:"topic"`
	Agreement string `json:"kesepakatan"`
}

// ExtractionResult is the outcome of one correct-and-structure action.
// Topics order is significant and preserved end-to-end.
type ExtractionResult struct {
	CorrectedTranscript string           `json:"corrected"`
	Topics              []TopicEntry     `json:"topics"`
	Source              ExtractionSource `json:"source"`
	RawResponse         string           `json:"-"`
}

// NewParsedResult builds a result from a successfully parsed backend response
func NewParsedResult(corrected string, topics []TopicEntry, rawResponse string) *ExtractionResult {
	if topics == nil {
		topics = make([]TopicEntry, 0)
	}
	return &ExtractionResult{
		CorrectedTranscript: corrected,
		Topics:              topics,
		Source:              ExtractionSourceParsed,
		RawResponse:         rawResponse,
	}
}

// NewFallbackResult preserves the original transcript and the entire raw
// backend response in a single synthesized topic entry
func NewFallbackResult(rawText, rawResponse string) *ExtractionResult {
	return &ExtractionResult{
		CorrectedTranscript: rawText,
		Topics: []TopicEntry{
			{Topic: FallbackTopic, Agreement: rawResponse},
		},
		Source:      ExtractionSourceFallback,
		RawResponse: rawResponse,
	}
}

// NewEmptyResult is the short-circuit for empty or whitespace-only input
func NewEmptyResult() *ExtractionResult {
	return &ExtractionResult{
		CorrectedTranscript: "",
		Topics:              make([]TopicEntry, 0),
		Source:              ExtractionSourceParsed,
	}
}

// IsEmptyTranscript reports whether raw transcript text is empty after trimming
func IsEmptyTranscript(raw string) bool {
	return strings.TrimSpace(raw) == ""
}
