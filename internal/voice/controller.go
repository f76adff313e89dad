package voice

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"flashgenius/internal/speech"
)

const (
	defaultInitTimeout    = 5 * time.Second
	defaultConfirmTimeout = 3 * time.Second
	defaultRetryDelay     = 500 * time.Millisecond
	fallbackLocale        = "en-US"
)

var errInitTimeout = errors.New("recognizer did not start listening in time")

// Hooks are the observable transitions of a voice session. Any field may be
// nil.
type Hooks struct {
	OnState      func(State)
	OnTranscript func(string)
	OnNotice     func(string)
}

func (h Hooks) normalized() Hooks {
	if h.OnState == nil {
		h.OnState = func(State) {}
	}
	if h.OnTranscript == nil {
		h.OnTranscript = func(string) {}
	}
	if h.OnNotice == nil {
		h.OnNotice = func(string) {}
	}
	return h
}

// Controller drives one microphone session at a time: capture a transcript,
// speak a confirmation, then hand the transcript to generate. At most one
// session is active; toggling while active stops it.
type Controller struct {
	recognizer Recognizer
	confirmer  speech.Synthesizer
	generate   func(context.Context, string)
	locale     string

	initTimeout    time.Duration
	confirmTimeout time.Duration
	retryDelay     time.Duration
	after          func(time.Duration) <-chan time.Time

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	done   chan struct{}
}

// NewController wires a recognizer to the generation flow. confirmer speaks
// the transcript confirmation; generate receives the transcript once the
// confirmation has played (or its guard timer fired).
func NewController(recognizer Recognizer, confirmer speech.Synthesizer, locale string, generate func(context.Context, string)) *Controller {
	if locale == "" {
		locale = fallbackLocale
	}
	return &Controller{
		recognizer:     recognizer,
		confirmer:      confirmer,
		generate:       generate,
		locale:         locale,
		initTimeout:    defaultInitTimeout,
		confirmTimeout: defaultConfirmTimeout,
		retryDelay:     defaultRetryDelay,
		after:          time.After,
	}
}

// Listen runs a full voice session, blocking until the transcript has been
// handed to generation, an error occurs, or the session is stopped.
func (c *Controller) Listen(ctx context.Context, hooks Hooks) error {
	hooks = hooks.normalized()

	c.mu.Lock()
	if c.done != nil {
		c.mu.Unlock()
		return errors.New("a voice session is already in progress")
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.cancel, c.done = cancel, done
	c.mu.Unlock()

	defer func() {
		cancel()
		c.setState(StateStopped, hooks)
		c.setState(StateIdle, hooks)
		c.mu.Lock()
		if c.done == done {
			c.cancel, c.done = nil, nil
		}
		c.mu.Unlock()
		close(done)
	}()

	transcript, err := c.capture(ctx, hooks)
	if err != nil {
		return err
	}
	if strings.TrimSpace(transcript) == "" {
		return nil
	}

	hooks.OnTranscript(transcript)
	c.setState(StateProcessing, hooks)
	c.confirmAndGenerate(ctx, transcript, hooks)
	return nil
}

// Toggle stops the session in flight if there is one, otherwise runs a new
// one. It reports whether a new session was run.
func (c *Controller) Toggle(ctx context.Context, hooks Hooks) (bool, error) {
	if c.Active() {
		c.Stop()
		return false, nil
	}
	return true, c.Listen(ctx, hooks)
}

// Stop cancels the session in flight, if any, and waits for it to wind
// down.
func (c *Controller) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Active reports whether a voice session is in flight.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done != nil
}

// State returns the controller's current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) setState(next State, hooks Hooks) {
	c.mu.Lock()
	prev := c.state
	if prev == next {
		c.mu.Unlock()
		return
	}
	if !canTransition(prev, next) {
		log.Error().Stringer("from", prev).Stringer("to", next).Msg("Illegal voice state transition")
	}
	c.state = next
	c.mu.Unlock()
	hooks.OnState(next)
}

// capture obtains one transcript, retrying once after an initialization
// timeout and once with the fallback locale when the configured language is
// not supported.
func (c *Controller) capture(ctx context.Context, hooks Hooks) (string, error) {
	locale := c.locale
	initRetried := false
	langRetried := false

	for {
		transcript, err := c.listenOnce(ctx, locale, hooks)
		if err == nil {
			return transcript, nil
		}

		if errors.Is(err, errInitTimeout) && !initRetried {
			initRetried = true
			log.Warn().Msg("Recognizer failed to start in time, restarting")
			c.reset(hooks)
			select {
			case <-c.after(c.retryDelay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
			continue
		}

		var recErr *RecognitionError
		if errors.As(err, &recErr) {
			if recErr.Code == CodeLanguageNotSupported && !langRetried {
				langRetried = true
				locale = fallbackLocale
				log.Warn().Str("locale", locale).Msg("Language not supported, retrying with fallback locale")
				c.reset(hooks)
				continue
			}
			hooks.OnNotice(recErr.Message())
			return "", err
		}
		if errors.Is(err, ErrNotSupported) {
			hooks.OnNotice("Speech recognition is not supported on this device.")
		}
		return "", err
	}
}

func (c *Controller) reset(hooks Hooks) {
	c.setState(StateStopped, hooks)
	c.setState(StateIdle, hooks)
}

// listenOnce runs a single recognizer pass, guarding against the recognizer
// never reaching the listening state.
func (c *Controller) listenOnce(ctx context.Context, locale string, hooks Hooks) (string, error) {
	c.setState(StateInitializing, hooks)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		transcript string
		err        error
	}
	started := make(chan struct{})
	results := make(chan result, 1)
	go func() {
		var once sync.Once
		transcript, err := c.recognizer.Listen(ctx, locale, func() {
			once.Do(func() { close(started) })
		})
		results <- result{transcript, err}
	}()

	select {
	case <-started:
		c.setState(StateListening, hooks)
	case <-c.after(c.initTimeout):
		cancel()
		<-results
		return "", errInitTimeout
	case res := <-results:
		return res.transcript, res.err
	case <-ctx.Done():
		<-results
		return "", ctx.Err()
	}

	res := <-results
	return res.transcript, res.err
}

// confirmAndGenerate speaks the confirmation, then triggers generation. A
// guard timer fires generation even if the confirmation speech never
// reports completion.
func (c *Controller) confirmAndGenerate(ctx context.Context, transcript string, hooks Hooks) {
	confirmDone := make(chan struct{})
	go func() {
		defer close(confirmDone)
		err := c.confirmer.Speak(ctx, "Generating flashcards for "+transcript, nil)
		if err != nil && ctx.Err() == nil {
			log.Warn().Err(err).Msg("Confirmation speech failed")
		}
	}()

	select {
	case <-confirmDone:
	case <-c.after(c.confirmTimeout):
		log.Warn().Msg("Confirmation speech did not complete in time, generating anyway")
	case <-ctx.Done():
		return
	}
	c.generate(ctx, transcript)
}
