package session

import (
	"time"

	"github.com/prasetyadev/notulen-assistant/internal/domain/entities"
)

// CreateSessionResponse carries the new session ID and its bearer token
type CreateSessionResponse struct {
	SessionID string    `json:"session_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TopicResponse is one discussion item in an extraction result
type TopicResponse struct {
	Topic     string `json:"topic"`
	Agreement string `json:"kesepakatan"`
}

// ExtractionResponse is the correct-and-structure outcome for a session
type ExtractionResponse struct {
	Corrected string          `json:"corrected"`
	Topics    []TopicResponse `json:"topics"`
	Source    string          `json:"source"`
}

// SessionResponse is the full session snapshot returned to the client
type SessionResponse struct {
	ID            string              `json:"id"`
	RawTranscript string              `json:"raw_transcript"`
	Provider      string              `json:"provider,omitempty"`
	AudioFilename string              `json:"audio_filename,omitempty"`
	Extraction    *ExtractionResponse `json:"extraction,omitempty"`
	HasDocument   bool                `json:"has_document"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// TranscriptResponse is the raw transcript view of a session
type TranscriptResponse struct {
	Transcript string `json:"transcript"`
	Provider   string `json:"provider,omitempty"`
}

// DocumentResponse carries the rendered minutes document
type DocumentResponse struct {
	Document string `json:"document"`
}

// AudioURLResponse carries a time-limited download URL for the archived clip
type AudioURLResponse struct {
	URL string `json:"url"`
}

// FromEntity maps a session snapshot into its response shape
func FromEntity(sess *entities.MinutesSession) SessionResponse {
	resp := SessionResponse{
		ID:            sess.ID.String(),
		RawTranscript: sess.RawTranscript,
		Provider:      sess.Provider,
		AudioFilename: sess.AudioFilename,
		HasDocument:   sess.Document != "",
		CreatedAt:     sess.CreatedAt,
		UpdatedAt:     sess.UpdatedAt,
	}

	if sess.Extraction != nil {
		extraction := &ExtractionResponse{
			Corrected: sess.Extraction.CorrectedTranscript,
			Topics:    make([]TopicResponse, 0, len(sess.Extraction.Topics)),
			Source:    string(sess.Extraction.Source),
		}
		for _, t := range sess.Extraction.Topics {
			extraction.Topics = append(extraction.Topics, TopicResponse{
				Topic:     t.Topic,
				Agreement: t.Agreement,
			})
		}
		resp.Extraction = extraction
	}

	return resp
}
