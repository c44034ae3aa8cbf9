package assemblyai

import (
	"context"
	"fmt"
	"os"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/prasetyadev/notulen-assistant/internal/usecase/transcription"
	"github.com/prasetyadev/notulen-assistant/pkg/config"
)

// Provider transcribes audio through the hosted AssemblyAI API. It is used
// as the secondary provider when the local ASR toolchain is unavailable.
type Provider struct {
	client *aai.Client
	apiKey string
	logger *zap.Logger
}

// NewProvider creates an AssemblyAI provider using the provided config.
// If cfg is nil, falls back to environment variables.
func NewProvider(cfg *config.AssemblyAIConfig, logger *zap.Logger) *Provider {
	var apiKey string
	if cfg != nil {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		apiKey = os.Getenv("ASSEMBLYAI_API_KEY")
	}
	return &Provider{
		client: aai.NewClient(apiKey),
		apiKey: apiKey,
		logger: logger,
	}
}

// Name identifies this provider in session snapshots and logs
func (p *Provider) Name() string {
	return "assemblyai"
}

// Transcribe submits the clip and polls until the transcript settles
func (p *Provider) Transcribe(ctx context.Context, in transcription.Input) (transcription.Result, error) {
	if p.apiKey == "" {
		return transcription.Result{
			RequiresFallback: true,
			Reason:           "ASSEMBLYAI_API_KEY not configured",
		}, nil
	}

	audioURL, err := p.resolveAudioURL(ctx, in)
	if err != nil {
		return transcription.Result{}, err
	}

	submitted, err := p.client.Transcripts.SubmitFromURL(ctx, audioURL, &aai.TranscriptOptionalParams{
		LanguageCode:  aai.TranscriptLanguageCode("id"),
		SpeakerLabels: aai.Bool(true),
	})
	if err != nil {
		return transcription.Result{}, fmt.Errorf("failed to submit transcript: %w", err)
	}

	transcript, err := p.waitForTranscript(ctx, aai.ToString(submitted.ID))
	if err != nil {
		return transcription.Result{}, err
	}

	return transcription.Result{Text: aai.ToString(transcript.Text)}, nil
}

// resolveAudioURL prefers the archived object URL; a local-only clip is
// uploaded to AssemblyAI's temporary storage first.
func (p *Provider) resolveAudioURL(ctx context.Context, in transcription.Input) (string, error) {
	if in.URL != "" {
		return in.URL, nil
	}
	if in.Path == "" {
		return "", fmt.Errorf("no audio source provided")
	}

	f, err := os.Open(in.Path)
	if err != nil {
		return "", fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	uploadURL, err := p.client.Upload(ctx, f)
	if err != nil {
		return "", fmt.Errorf("failed to upload audio: %w", err)
	}
	return uploadURL, nil
}

// waitForTranscript polls the transcript job with exponential backoff until
// it completes or errors out.
func (p *Provider) waitForTranscript(ctx context.Context, id string) (aai.Transcript, error) {
	var transcript aai.Transcript

	poll := func() error {
		t, err := p.client.Transcripts.Get(ctx, id)
		if err != nil {
			return err
		}

		switch t.Status {
		case aai.TranscriptStatusCompleted:
			transcript = t
			return nil
		case aai.TranscriptStatusError:
			return backoff.Permanent(fmt.Errorf("transcription failed: %s", aai.ToString(t.Error)))
		default:
			return fmt.Errorf("transcript %s still %s", id, t.Status)
		}
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 2 * time.Second
	policy.MaxInterval = 15 * time.Second
	policy.MaxElapsedTime = 10 * time.Minute

	if err := backoff.Retry(poll, backoff.WithContext(policy, ctx)); err != nil {
		return aai.Transcript{}, err
	}

	if p.logger != nil {
		p.logger.Info("assemblyai transcript completed", zap.String("transcript_id", id))
	}
	return transcript, nil
}
