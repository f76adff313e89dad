package speech

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Speaker applies the narration policy: try the hosted synthesizer first,
// fall back to the on-device one, and report failure only when both fail.
// At most one narration plays at a time; starting a new one stops the
// previous one.
type Speaker struct {
	primary  Synthesizer
	fallback Synthesizer

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewSpeaker(primary, fallback Synthesizer) *Speaker {
	return &Speaker{primary: primary, fallback: fallback}
}

// Speak narrates text, blocking until playback completes, fails, or is
// stopped. ev.OnStart fires when audio begins (possibly once per attempted
// provider); exactly one of ev.OnFinish / ev.OnError fires at the end.
func (s *Speaker) Speak(ctx context.Context, text string, ev Events) error {
	s.Stop()

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	s.mu.Lock()
	s.cancel = cancel
	s.done = done
	s.mu.Unlock()

	defer func() {
		cancel()
		s.mu.Lock()
		if s.done == done {
			s.cancel, s.done = nil, nil
		}
		s.mu.Unlock()
		close(done)
	}()

	ev = ev.normalized()
	var finishOnce sync.Once

	err := s.primary.Speak(ctx, text, ev.OnStart)
	if err != nil && ctx.Err() == nil {
		log.Warn().Err(err).Msg("Hosted speech failed, falling back to on-device synthesis")
		err = s.fallback.Speak(ctx, text, ev.OnStart)
	}

	if err != nil {
		finishOnce.Do(func() { ev.OnError(err) })
		return err
	}
	finishOnce.Do(ev.OnFinish)
	return nil
}

// Stop cancels the narration in flight, if any, and waits for it to wind
// down.
func (s *Speaker) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Speaking reports whether a narration is currently in flight.
func (s *Speaker) Speaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done != nil
}
