package whisper

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/prasetyadev/notulen-assistant/internal/infrastructure/media"
	"github.com/prasetyadev/notulen-assistant/internal/usecase/transcription"
	"github.com/prasetyadev/notulen-assistant/pkg/config"
)

// Provider runs the whisper CLI against a local audio file. A missing
// whisper or ffmpeg binary is reported as RequiresFallback so the caller
// can select the hosted provider instead.
type Provider struct {
	binary   string
	model    string
	language string
	ffmpeg   string
	logger   *zap.Logger
}

// NewProvider creates a local whisper provider from config
func NewProvider(cfg *config.WhisperConfig, logger *zap.Logger) *Provider {
	return &Provider{
		binary:   cfg.Binary,
		model:    cfg.Model,
		language: cfg.Language,
		ffmpeg:   cfg.FFmpeg,
		logger:   logger,
	}
}

// Name identifies this provider in session snapshots and logs
func (p *Provider) Name() string {
	return "whisper"
}

// Transcribe resamples the clip and runs the whisper CLI on it
func (p *Provider) Transcribe(ctx context.Context, in transcription.Input) (transcription.Result, error) {
	if in.Path == "" {
		return transcription.Result{}, fmt.Errorf("no local audio path provided")
	}

	if _, err := exec.LookPath(p.binary); err != nil {
		return transcription.Result{
			RequiresFallback: true,
			Reason:           fmt.Sprintf("whisper binary %q not found", p.binary),
		}, nil
	}
	if !media.Available(p.ffmpeg) {
		return transcription.Result{
			RequiresFallback: true,
			Reason:           fmt.Sprintf("ffmpeg binary %q not found", p.ffmpeg),
		}, nil
	}

	workDir, err := os.MkdirTemp("", "whisper-")
	if err != nil {
		return transcription.Result{}, fmt.Errorf("failed to create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	wavPath, err := media.ExtractAudio(ctx, p.ffmpeg, in.Path, workDir)
	if err != nil {
		return transcription.Result{}, fmt.Errorf("audio extraction failed: %w", err)
	}

	if p.logger != nil {
		p.logger.Info("running local whisper",
			zap.String("model", p.model),
			zap.String("language", p.language),
			zap.String("audio", wavPath),
		)
	}

	cmd := exec.CommandContext(ctx, p.binary, wavPath,
		"--model", p.model,
		"--language", p.language,
		"--output_format", "txt",
		"--output_dir", workDir,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return transcription.Result{}, fmt.Errorf("whisper failed: %w: %s", err, strings.TrimSpace(string(out)))
	}

	// whisper writes <basename>.txt next to the requested output dir
	txtPath := filepath.Join(workDir, strings.TrimSuffix(filepath.Base(wavPath), filepath.Ext(wavPath))+".txt")
	text, err := os.ReadFile(txtPath)
	if err != nil {
		return transcription.Result{}, fmt.Errorf("failed to read whisper output: %w", err)
	}

	return transcription.Result{Text: strings.TrimSpace(string(text))}, nil
}
