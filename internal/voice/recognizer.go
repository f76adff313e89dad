package voice

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"

	"flashgenius/internal/config"
)

// ExecRecognizer captures one utterance by running an external
// speech-to-text command and reading the transcript from its standard
// output. The locale is passed as the command's final argument.
type ExecRecognizer struct {
	command []string
}

// NewExecRecognizer builds a recognizer from the configured command.
func NewExecRecognizer(cfg *config.VoiceConfig) *ExecRecognizer {
	if cfg.RecognizerCommand == "" {
		return &ExecRecognizer{}
	}
	return &ExecRecognizer{command: strings.Fields(cfg.RecognizerCommand)}
}

func (r *ExecRecognizer) Listen(ctx context.Context, locale string, started func()) (string, error) {
	if len(r.command) == 0 {
		return "", ErrNotSupported
	}

	args := append(append([]string(nil), r.command[1:]...), locale)
	if _, err := exec.LookPath(r.command[0]); err != nil {
		return "", &RecognitionError{Code: CodeServiceNotAllowed, Err: err}
	}

	cmd := exec.CommandContext(ctx, r.command[0], args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return "", &RecognitionError{Code: CodeAudioCapture, Err: err}
	}
	log.Debug().Str("command", r.command[0]).Str("locale", locale).Msg("Recognizer started")
	if started != nil {
		started()
	}

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return "", &RecognitionError{Code: CodeAborted, Err: ctx.Err()}
		}
		return "", &RecognitionError{Code: classifyExit(stderr.String()), Err: fmt.Errorf("recognizer failed: %w: %s", err, strings.TrimSpace(stderr.String()))}
	}

	transcript := strings.TrimSpace(stdout.String())
	if transcript == "" {
		return "", &RecognitionError{Code: CodeNoSpeech}
	}
	return transcript, nil
}

// classifyExit maps common recognizer failure output onto error codes so
// the controller can show a specific message.
func classifyExit(stderr string) ErrorCode {
	lower := strings.ToLower(stderr)
	switch {
	case strings.Contains(lower, "permission"):
		return CodeNotAllowed
	case strings.Contains(lower, "no such device"), strings.Contains(lower, "no microphone"), strings.Contains(lower, "audio"):
		return CodeAudioCapture
	case strings.Contains(lower, "language"), strings.Contains(lower, "locale"):
		return CodeLanguageNotSupported
	default:
		return CodeServiceNotAllowed
	}
}
