package minutes

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/prasetyadev/notulen-assistant/internal/domain/entities"
)

// backendDocument is the JSON shape the prompt asks the backend to return
type backendDocument struct {
	Corrected string `json:"corrected"`
	Topics    []struct {
		Topic       string `json:"topic"`
		Kesepakatan string `json:"kesepakatan"`
	} `json:"topics"`
}

// parseExtraction parses the raw backend response into an ExtractionResult.
// Any parse or schema mismatch is returned as an error so the caller can
// collapse to the fallback variant.
func parseExtraction(response string) (*entities.ExtractionResult, error) {
	jsonString := extractJSON(response)

	var doc backendDocument
	if err := json.Unmarshal([]byte(jsonString), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if doc.Corrected == "" && len(doc.Topics) == 0 {
		return nil, fmt.Errorf("response JSON has neither corrected text nor topics")
	}

	topics := make([]entities.TopicEntry, 0, len(doc.Topics))
	for _, t := range doc.Topics {
		topics = append(topics, entities.TopicEntry{
			Topic:     t.Topic,
			Agreement: t.Kesepakatan,
		})
	}

	return entities.NewParsedResult(doc.Corrected, topics, response), nil
}

// extractJSON extracts JSON content from markdown code blocks or plain text
// (the backend sometimes wraps its answer in ```json fences)
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}
