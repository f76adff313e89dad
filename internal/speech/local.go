package speech

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"

	"flashgenius/internal/config"
)

// LocalSynthesizer shells out to the device's speech-synthesis command,
// preferring an English voice where the tool supports one.
type LocalSynthesizer struct {
	command string
	args    []string
}

// NewLocalSynthesizer builds the on-device fallback. An explicit command in
// the config wins; otherwise the usual platform synthesizers are probed.
func NewLocalSynthesizer(cfg *config.SpeechConfig) *LocalSynthesizer {
	if cfg.SynthCommand != "" {
		parts := strings.Fields(cfg.SynthCommand)
		return &LocalSynthesizer{command: parts[0], args: parts[1:]}
	}

	for _, candidate := range []struct {
		command string
		args    []string
	}{
		{"say", nil},
		{"espeak", []string{"-v", "en"}},
		{"spd-say", []string{"-l", "en", "-w"}},
	} {
		if _, err := exec.LookPath(candidate.command); err == nil {
			return &LocalSynthesizer{command: candidate.command, args: candidate.args}
		}
	}
	return &LocalSynthesizer{}
}

func (l *LocalSynthesizer) Speak(ctx context.Context, text string, started func()) error {
	if l.command == "" {
		return ErrNotSupported
	}

	args := append(append([]string{}, l.args...), text)
	cmd := exec.CommandContext(ctx, l.command, args...)

	log.Debug().Str("command", l.command).Msg("Using on-device speech synthesis")
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start synthesizer: %w", err)
	}
	if started != nil {
		started()
	}
	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("synthesizer failed: %w", err)
	}
	return nil
}

// ExecPlayer plays audio bytes by writing them to a temp file and running
// the configured player command.
type ExecPlayer struct {
	command string
	args    []string
}

func NewExecPlayer(cfg *config.SpeechConfig) *ExecPlayer {
	if cfg.PlayerCommand != "" {
		parts := strings.Fields(cfg.PlayerCommand)
		return &ExecPlayer{command: parts[0], args: parts[1:]}
	}

	for _, candidate := range []string{"afplay", "mpg123", "ffplay"} {
		if _, err := exec.LookPath(candidate); err == nil {
			player := &ExecPlayer{command: candidate}
			if candidate == "ffplay" {
				player.args = []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}
			}
			return player
		}
	}
	return &ExecPlayer{}
}

func (p *ExecPlayer) Play(ctx context.Context, audio []byte, started func()) error {
	if p.command == "" {
		return ErrNotSupported
	}

	f, err := os.CreateTemp("", "flashgenius-*.mp3")
	if err != nil {
		return fmt.Errorf("failed to buffer audio: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(audio); err != nil {
		f.Close()
		return fmt.Errorf("failed to buffer audio: %w", err)
	}
	f.Close()

	args := append(append([]string{}, p.args...), f.Name())
	cmd := exec.CommandContext(ctx, p.command, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start audio player: %w", err)
	}
	if started != nil {
		started()
	}
	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("audio playback failed: %w", err)
	}
	return nil
}
