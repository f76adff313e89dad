// Package speech narrates text through a hosted text-to-speech service,
// falling back to on-device synthesis when the service is unavailable.
package speech

import (
	"context"
	"errors"
)

// ErrNotSupported is returned when no synthesis capability is available on
// this device.
var ErrNotSupported = errors.New("speech synthesis is not supported on this device")

// Synthesizer converts text to audible speech. Speak blocks until playback
// finishes or ctx is cancelled, and invokes started once audio actually
// begins so the UI can drop its loading state.
type Synthesizer interface {
	Speak(ctx context.Context, text string, started func()) error
}

// Events are the visual-state transitions a narration drives. Any field may
// be nil. Exactly one of OnFinish/OnError fires per narration, after which
// no further events are delivered.
type Events struct {
	OnStart  func()
	OnFinish func()
	OnError  func(error)
}

func (e Events) normalized() Events {
	if e.OnStart == nil {
		e.OnStart = func() {}
	}
	if e.OnFinish == nil {
		e.OnFinish = func() {}
	}
	if e.OnError == nil {
		e.OnError = func(error) {}
	}
	return e
}
