package models

import "time"

// Deck is a generated set of flashcards, saved so it can be exported or
// shared after the generating run has exited.
type Deck struct {
	Cards      []FlashCard `json:"cards"`
	Difficulty string      `json:"difficulty"`
	Created    time.Time   `json:"created"`
}
