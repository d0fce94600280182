package transcript

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandTranscriber runs an external transcription command with the video
// URL as its final argument and reads the transcript from stdout. It is the
// default bridge to the out-of-process transcription collaborator.
type CommandTranscriber struct {
	Command string
}

// Transcribe implements Transcriber.
func (c CommandTranscriber) Transcribe(ctx context.Context, url string) (string, error) {
	parts := strings.Fields(c.Command)
	if len(parts) == 0 {
		return "", fmt.Errorf("no transcribe command configured")
	}

	args := append(parts[1:], url)
	cmd := exec.CommandContext(ctx, parts[0], args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("run %s: %w", parts[0], err)
	}

	text := strings.TrimSpace(out.String())
	if text == "" {
		return "", fmt.Errorf("empty transcript from %s", parts[0])
	}
	return text, nil
}
