package voice

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAfter fires instantly for a duration as many times as budgeted, and
// never fires otherwise.
type fakeAfter struct {
	mu    sync.Mutex
	fires map[time.Duration]int
}

func (f *fakeAfter) after(d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	f.mu.Lock()
	if f.fires[d] > 0 {
		f.fires[d]--
		ch <- time.Time{}
	}
	f.mu.Unlock()
	return ch
}

type recognizerStep struct {
	transcript string
	err        error
	neverStart bool
}

// scriptedRecognizer plays back one step per Listen call and records the
// locale it was asked for.
type scriptedRecognizer struct {
	mu      sync.Mutex
	steps   []recognizerStep
	locales []string
}

func (r *scriptedRecognizer) Listen(ctx context.Context, locale string, started func()) (string, error) {
	r.mu.Lock()
	idx := len(r.locales)
	r.locales = append(r.locales, locale)
	var step recognizerStep
	if idx < len(r.steps) {
		step = r.steps[idx]
	}
	r.mu.Unlock()

	if step.neverStart {
		<-ctx.Done()
		return "", &RecognitionError{Code: CodeAborted, Err: ctx.Err()}
	}
	if started != nil {
		started()
	}
	if step.err != nil {
		return "", step.err
	}
	return step.transcript, nil
}

type fakeConfirmer struct {
	mu     sync.Mutex
	spoken []string
	hang   bool
}

func (f *fakeConfirmer) Speak(ctx context.Context, text string, started func()) error {
	f.mu.Lock()
	f.spoken = append(f.spoken, text)
	hang := f.hang
	f.mu.Unlock()

	if started != nil {
		started()
	}
	if hang {
		<-ctx.Done()
		return ctx.Err()
	}
	return nil
}

type generateRecorder struct {
	mu    sync.Mutex
	calls []string
}

func (g *generateRecorder) generate(_ context.Context, transcript string) {
	g.mu.Lock()
	g.calls = append(g.calls, transcript)
	g.mu.Unlock()
}

func newTestController(r Recognizer, confirmer *fakeConfirmer, gen *generateRecorder, fires map[time.Duration]int) *Controller {
	c := NewController(r, confirmer, "en-GB", gen.generate)
	c.after = (&fakeAfter{fires: fires}).after
	return c
}

type stateRecorder struct {
	mu     sync.Mutex
	states []State
}

func (s *stateRecorder) hooks() Hooks {
	return Hooks{OnState: func(st State) {
		s.mu.Lock()
		s.states = append(s.states, st)
		s.mu.Unlock()
	}}
}

func TestListenHappyPath(t *testing.T) {
	recognizer := &scriptedRecognizer{steps: []recognizerStep{{transcript: "photosynthesis"}}}
	confirmer := &fakeConfirmer{}
	gen := &generateRecorder{}
	states := &stateRecorder{}

	c := newTestController(recognizer, confirmer, gen, nil)
	require.NoError(t, c.Listen(context.Background(), states.hooks()))

	assert.Equal(t, []string{"photosynthesis"}, gen.calls)
	assert.Equal(t, []string{"Generating flashcards for photosynthesis"}, confirmer.spoken)
	assert.Equal(t, []string{"en-GB"}, recognizer.locales)
	assert.Equal(t, []State{StateInitializing, StateListening, StateProcessing, StateStopped, StateIdle}, states.states)
	assert.Equal(t, StateIdle, c.State())
}

func TestListenInitTimeoutRetries(t *testing.T) {
	recognizer := &scriptedRecognizer{steps: []recognizerStep{
		{neverStart: true},
		{transcript: "mitosis"},
	}}
	gen := &generateRecorder{}

	c := newTestController(recognizer, &fakeConfirmer{}, gen, map[time.Duration]int{
		defaultInitTimeout: 1,
		defaultRetryDelay:  1,
	})
	require.NoError(t, c.Listen(context.Background(), Hooks{}))

	assert.Len(t, recognizer.locales, 2)
	assert.Equal(t, []string{"mitosis"}, gen.calls)
}

func TestListenLanguageNotSupportedRetriesWithFallbackLocale(t *testing.T) {
	recognizer := &scriptedRecognizer{steps: []recognizerStep{
		{err: &RecognitionError{Code: CodeLanguageNotSupported}},
		{transcript: "entropy"},
	}}
	gen := &generateRecorder{}

	c := newTestController(recognizer, &fakeConfirmer{}, gen, nil)
	require.NoError(t, c.Listen(context.Background(), Hooks{}))

	assert.Equal(t, []string{"en-GB", "en-US"}, recognizer.locales)
	assert.Equal(t, []string{"entropy"}, gen.calls)
}

func TestListenLanguageNotSupportedGivesUpAfterOneRetry(t *testing.T) {
	recognizer := &scriptedRecognizer{steps: []recognizerStep{
		{err: &RecognitionError{Code: CodeLanguageNotSupported}},
		{err: &RecognitionError{Code: CodeLanguageNotSupported}},
	}}
	gen := &generateRecorder{}
	var notices []string

	c := newTestController(recognizer, &fakeConfirmer{}, gen, nil)
	err := c.Listen(context.Background(), Hooks{OnNotice: func(msg string) { notices = append(notices, msg) }})

	require.Error(t, err)
	assert.Len(t, recognizer.locales, 2)
	assert.Empty(t, gen.calls)
	require.Len(t, notices, 1)
}

func TestListenClassifiedErrorNotices(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{CodeNoSpeech, "No speech detected"},
		{CodeNotAllowed, "Microphone permission denied"},
		{CodeAudioCapture, "No microphone detected"},
		{CodeServiceNotAllowed, "speech recognition service"},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			recognizer := &scriptedRecognizer{steps: []recognizerStep{{err: &RecognitionError{Code: tt.code}}}}
			gen := &generateRecorder{}
			var notices []string

			c := newTestController(recognizer, &fakeConfirmer{}, gen, nil)
			err := c.Listen(context.Background(), Hooks{OnNotice: func(msg string) { notices = append(notices, msg) }})

			require.Error(t, err)
			var recErr *RecognitionError
			require.ErrorAs(t, err, &recErr)
			assert.Equal(t, tt.code, recErr.Code)
			require.Len(t, notices, 1)
			assert.Contains(t, notices[0], tt.want)
			assert.Empty(t, gen.calls)
		})
	}
}

func TestListenEmptyTranscriptSkipsGeneration(t *testing.T) {
	recognizer := &scriptedRecognizer{steps: []recognizerStep{{transcript: "   "}}}
	confirmer := &fakeConfirmer{}
	gen := &generateRecorder{}

	c := newTestController(recognizer, confirmer, gen, nil)
	require.NoError(t, c.Listen(context.Background(), Hooks{}))

	assert.Empty(t, gen.calls)
	assert.Empty(t, confirmer.spoken)
}

func TestConfirmationGuardTriggersGenerationOnce(t *testing.T) {
	recognizer := &scriptedRecognizer{steps: []recognizerStep{{transcript: "osmosis"}}}
	confirmer := &fakeConfirmer{hang: true}
	gen := &generateRecorder{}

	c := newTestController(recognizer, confirmer, gen, map[time.Duration]int{
		defaultConfirmTimeout: 1,
	})
	require.NoError(t, c.Listen(context.Background(), Hooks{}))

	assert.Equal(t, []string{"osmosis"}, gen.calls, "generation fires despite the confirmation never completing")
}

func TestStopCancelsActiveSession(t *testing.T) {
	recognizer := &scriptedRecognizer{steps: []recognizerStep{{neverStart: true}}}
	gen := &generateRecorder{}
	c := newTestController(recognizer, &fakeConfirmer{}, gen, nil)

	errCh := make(chan error, 1)
	go func() { errCh <- c.Listen(context.Background(), Hooks{}) }()

	require.Eventually(t, func() bool { return c.Active() }, time.Second, 5*time.Millisecond)
	c.Stop()

	select {
	case err := <-errCh:
		require.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("session did not stop")
	}
	assert.False(t, c.Active())
	assert.Empty(t, gen.calls)
}

func TestTransitionTable(t *testing.T) {
	assert.True(t, canTransition(StateIdle, StateInitializing))
	assert.True(t, canTransition(StateInitializing, StateListening))
	assert.True(t, canTransition(StateListening, StateProcessing))
	assert.True(t, canTransition(StateProcessing, StateStopped))
	assert.True(t, canTransition(StateStopped, StateIdle))

	assert.False(t, canTransition(StateIdle, StateListening))
	assert.False(t, canTransition(StateProcessing, StateListening))
	assert.False(t, canTransition(StateIdle, StateProcessing))
}
