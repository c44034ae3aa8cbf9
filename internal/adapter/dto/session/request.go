package session

// SetTranscriptRequest replaces the session's raw transcript wholesale.
// An empty transcript is allowed; extraction on it short-circuits.
type SetTranscriptRequest struct {
	Transcript string `json:"transcript" validate:"max=1000000"`
}

// UpdateTopicRequest edits one topic entry in place
type UpdateTopicRequest struct {
	Topic     string `json:"topic" validate:"max=1000"`
	Agreement string `json:"kesepakatan" validate:"max=100000"`
}
