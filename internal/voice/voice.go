// Package voice turns spoken input into flashcard generation requests. It
// wraps an on-device speech recognizer behind an explicit state machine so
// the lifecycle can be tested without audio hardware.
package voice

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotSupported is returned when no speech recognizer is available on
// this device.
var ErrNotSupported = errors.New("speech recognition is not supported on this device")

// State of the voice input controller.
type State int

const (
	StateIdle State = iota
	StateInitializing
	StateListening
	StateProcessing
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInitializing:
		return "initializing"
	case StateListening:
		return "listening"
	case StateProcessing:
		return "processing"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// transitions is the set of legal state changes. Anything not listed is a
// bug in the controller.
var transitions = map[State][]State{
	StateIdle:         {StateInitializing},
	StateInitializing: {StateListening, StateStopped},
	StateListening:    {StateProcessing, StateStopped},
	StateProcessing:   {StateStopped},
	StateStopped:      {StateIdle},
}

func canTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Recognizer captures a single utterance. Listen blocks until a transcript
// is available, an error occurs, or ctx is cancelled; started is invoked
// once audio capture actually begins.
type Recognizer interface {
	Listen(ctx context.Context, locale string, started func()) (string, error)
}

// ErrorCode classifies recognition failures so each can carry a distinct
// user-facing message.
type ErrorCode string

const (
	CodeNoSpeech             ErrorCode = "no-speech"
	CodeAborted              ErrorCode = "aborted"
	CodeAudioCapture         ErrorCode = "audio-capture"
	CodeNotAllowed           ErrorCode = "not-allowed"
	CodeServiceNotAllowed    ErrorCode = "service-not-allowed"
	CodeLanguageNotSupported ErrorCode = "language-not-supported"
)

// RecognitionError is a classified recognizer failure.
type RecognitionError struct {
	Code ErrorCode
	Err  error
}

func (e *RecognitionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("speech recognition error (%s): %v", e.Code, e.Err)
	}
	return fmt.Sprintf("speech recognition error (%s)", e.Code)
}

func (e *RecognitionError) Unwrap() error { return e.Err }

// Message returns the text shown to the user for this failure.
func (e *RecognitionError) Message() string {
	switch e.Code {
	case CodeNoSpeech:
		return "No speech detected"
	case CodeAborted:
		return "Listening canceled"
	case CodeAudioCapture:
		return "No microphone detected. Please check your device settings."
	case CodeNotAllowed:
		return "Microphone permission denied. Please allow microphone access in your system settings."
	case CodeServiceNotAllowed:
		return "The speech recognition service is not available. Please check the recognizer configuration."
	case CodeLanguageNotSupported:
		return "The configured language is not supported by the recognizer."
	default:
		return "Speech recognition is experiencing issues. Please try again later."
	}
}
