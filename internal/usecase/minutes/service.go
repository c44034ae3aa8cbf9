package minutes

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/prasetyadev/notulen-assistant/internal/domain/entities"
)

// Generator is the generative text backend consumed by the extractor.
// The returned string should be, but is not guaranteed to be, the JSON
// document requested by the prompt.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Extractor turns a raw transcript into a corrected transcript plus an
// ordered list of topic/agreement pairs using a single backend call
type Extractor struct {
	backend Generator
	logger  *zap.Logger
}

// NewExtractor constructs an Extractor
func NewExtractor(backend Generator, logger *zap.Logger) *Extractor {
	return &Extractor{backend: backend, logger: logger}
}

// promptTemplate instructs the backend to correct the transcript and
// summarize it into a strict JSON document with no surrounding prose.
// The transcript is embedded verbatim between the --- delimiters.
const promptTemplate = `Anda adalah asisten yang membantu membuat notulen rapat (Minutes of Meeting).
Berikut adalah transkrip rapat:

---
%s
---

Tugas Anda:
1. Perbaiki teks agar lebih rapi dan sesuai kaidah bahasa.
2. Ringkas menjadi notulen dengan format JSON:
   {
     "corrected": "(teks transkrip yang sudah diperbaiki)",
     "topics": [
       {"topic": "Judul Topik", "kesepakatan": "Isi kesepakatan"},
       ...
     ]
   }

Kembalikan hanya JSON valid tanpa penjelasan tambahan.`

// BuildPrompt embeds the raw transcript into the fixed instruction prompt
func BuildPrompt(rawText string) string {
	return fmt.Sprintf(promptTemplate, rawText)
}

// Extract runs the correct-and-structure pipeline on a raw transcript.
//
// Empty or whitespace-only input short-circuits to an empty result without a
// backend call. A malformed backend response is absorbed by the fallback rule
// (original transcript kept, whole response preserved under a single "Umum"
// topic) and is never an error. The only error path is the backend call
// itself failing; session state is the caller's to keep untouched in that
// case.
func (e *Extractor) Extract(ctx context.Context, rawText string) (*entities.ExtractionResult, error) {
	if entities.IsEmptyTranscript(rawText) {
		return entities.NewEmptyResult(), nil
	}

	response, err := e.backend.GenerateContent(ctx, BuildPrompt(rawText))
	if err != nil {
		if e.logger != nil {
			e.logger.Error("generative backend call failed", zap.Error(err))
		}
		return nil, fmt.Errorf("failed to call generative backend: %w", err)
	}

	result, err := parseExtraction(response)
	if err != nil {
		if e.logger != nil {
			e.logger.Warn("backend response did not parse, applying fallback",
				zap.Error(err),
				zap.Int("response_length", len(response)),
			)
		}
		return entities.NewFallbackResult(rawText, strings.TrimSpace(response)), nil
	}

	if e.logger != nil {
		e.logger.Info("extraction parsed",
			zap.Int("topic_count", len(result.Topics)),
			zap.Int("corrected_length", len(result.CorrectedTranscript)),
		)
	}
	return result, nil
}
