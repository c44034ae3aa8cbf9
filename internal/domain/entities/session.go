package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MinutesSession is the per-user snapshot held across UI actions:
// raw transcript, extraction result and rendered document. Each field is
// wholesale-replaced by its producing action; only individual topic entries
// are mutated in place.
type MinutesSession struct {
	ID            uuid.UUID         `json:"id"`
	RawTranscript string            `json:"raw_transcript"`
	Extraction    *ExtractionResult `json:"extraction,omitempty"`
	Document      string            `json:"document,omitempty"`
	AudioObject   string            `json:"audio_object,omitempty"`
	AudioFilename string            `json:"audio_filename,omitempty"`
	Provider      string            `json:"provider,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// NewMinutesSession creates an empty session
func NewMinutesSession() *MinutesSession {
	now := time.Now()
	return &MinutesSession{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ReplaceTranscript installs a new raw transcript and invalidates any
// extraction and document derived from the previous one
func (s *MinutesSession) ReplaceTranscript(text, provider string) {
	s.RawTranscript = text
	s.Provider = provider
	s.Extraction = nil
	s.Document = ""
	s.UpdatedAt = time.Now()
}

// ReplaceExtraction installs a new extraction result, dropping the previous
// one entirely (no merging of successive results) and any rendered document
func (s *MinutesSession) ReplaceExtraction(result *ExtractionResult) {
	s.Extraction = result
	s.Document = ""
	s.UpdatedAt = time.Now()
}

// UpdateTopic mutates one topic entry in place. Count and order of entries
// never change through edits.
func (s *MinutesSession) UpdateTopic(index int, topic, agreement string) error {
	if s.Extraction == nil {
		return fmt.Errorf("no extraction result to edit")
	}
	if index < 0 || index >= len(s.Extraction.Topics) {
		return fmt.Errorf("topic index %d out of range [0,%d)", index, len(s.Extraction.Topics))
	}
	s.Extraction.Topics[index].Topic = topic
	s.Extraction.Topics[index].Agreement = agreement
	s.UpdatedAt = time.Now()
	return nil
}

// ReplaceDocument installs a freshly rendered minutes document
func (s *MinutesSession) ReplaceDocument(doc string) {
	s.Document = doc
	s.UpdatedAt = time.Now()
}

// SetAudio records the archived audio object for this session
func (s *MinutesSession) SetAudio(objectName, filename string) {
	s.AudioObject = objectName
	s.AudioFilename = filename
	s.UpdatedAt = time.Now()
}
