package transcription

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Input locates the audio clip for a provider. Path points at a local temp
// file (local providers), URL at the archived object (hosted providers).
type Input struct {
	Path string
	URL  string
}

// Result is the two-variant provider outcome: either text, or an explicit
// signal that the caller should select the secondary provider (e.g. the
// local ASR toolchain is not installed). Hard failures are returned as
// errors, not as RequiresFallback.
type Result struct {
	Text             string
	RequiresFallback bool
	Reason           string
}

// Provider is a pluggable transcription backend
type Provider interface {
	Name() string
	Transcribe(ctx context.Context, in Input) (Result, error)
}

// Service routes transcription between a primary and a secondary provider.
// The fallback decision is made here, explicitly, based on the provider's
// RequiresFallback variant rather than on a caught low-level error.
type Service struct {
	primary   Provider
	secondary Provider
	logger    *zap.Logger
}

// NewService constructs a transcription service
func NewService(primary, secondary Provider, logger *zap.Logger) *Service {
	return &Service{primary: primary, secondary: secondary, logger: logger}
}

// Transcribe runs the primary provider and, only when it reports
// RequiresFallback, the secondary. Returns the transcript text and the name
// of the provider that produced it.
func (s *Service) Transcribe(ctx context.Context, in Input) (string, string, error) {
	if s.primary == nil && s.secondary == nil {
		return "", "", fmt.Errorf("no transcription provider configured")
	}

	if s.primary != nil {
		result, err := s.primary.Transcribe(ctx, in)
		if err != nil {
			return "", "", fmt.Errorf("%s transcription failed: %w", s.primary.Name(), err)
		}
		if !result.RequiresFallback {
			return result.Text, s.primary.Name(), nil
		}
		if s.logger != nil {
			s.logger.Warn("primary provider requires fallback",
				zap.String("provider", s.primary.Name()),
				zap.String("reason", result.Reason),
			)
		}
		if s.secondary == nil {
			return "", "", fmt.Errorf("%s unavailable (%s) and no fallback provider configured", s.primary.Name(), result.Reason)
		}
	}

	result, err := s.secondary.Transcribe(ctx, in)
	if err != nil {
		return "", "", fmt.Errorf("%s transcription failed: %w", s.secondary.Name(), err)
	}
	if result.RequiresFallback {
		return "", "", fmt.Errorf("%s unavailable: %s", s.secondary.Name(), result.Reason)
	}
	return result.Text, s.secondary.Name(), nil
}
