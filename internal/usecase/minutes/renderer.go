package minutes

import (
	"fmt"
	"strings"

	"github.com/prasetyadev/notulen-assistant/internal/domain/entities"
)

const (
	documentTitle        = "# Minutes of Meeting"
	placeholderNoTopic   = "(no topic)"
	placeholderAgreement = "-"
)

// RenderDocument turns an ordered topic list into a Markdown minutes
// document. Pure transform: identical input always yields byte-identical
// output, section numbering is 1-based and follows the input order exactly.
func RenderDocument(topics []entities.TopicEntry) string {
	var b strings.Builder
	b.WriteString(documentTitle)
	b.WriteString("\n\n")

	for i, t := range topics {
		topic := t.Topic
		if topic == "" {
			topic = placeholderNoTopic
		}
		agreement := t.Agreement
		if agreement == "" {
			agreement = placeholderAgreement
		}
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, topic)
		fmt.Fprintf(&b, "**Kesepakatan:** %s\n\n", agreement)
	}

	return b.String()
}
