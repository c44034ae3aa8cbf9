package media

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ExtractAudio uses ffmpeg to resample a clip into mono 16 kHz WAV, the
// input format the local whisper provider expects. Returns the path of the
// extracted file inside tmpDir.
func ExtractAudio(ctx context.Context, ffmpegBin, inputPath, tmpDir string) (string, error) {
	if ffmpegBin == "" {
		ffmpegBin = "ffmpeg"
	}
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	out := filepath.Join(tmpDir, base+"_16k.wav")

	// ffmpeg -y -i input -ac 1 -ar 16000 -f wav output
	cmd := exec.CommandContext(ctx, ffmpegBin,
		"-y", "-i", inputPath,
		"-ac", "1", "-ar", "16000",
		"-f", "wav",
		out,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return out, nil
}

// Available reports whether the given ffmpeg binary can be found on PATH
func Available(ffmpegBin string) bool {
	if ffmpegBin == "" {
		ffmpegBin = "ffmpeg"
	}
	_, err := exec.LookPath(ffmpegBin)
	return err == nil
}
