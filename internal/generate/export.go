package generate

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrEmptyDeck is returned when exporting or sharing with no cards.
var ErrEmptyDeck = errors.New("no flashcards in the current deck")

// RenderDownload returns the deck as a plain-text file: a header with the
// creation time, card count and difficulty, then each card with its cited
// sources.
func (s *Session) RenderDownload(now time.Time) (string, error) {
	deck := s.Deck()
	if len(deck) == 0 {
		return "", ErrEmptyDeck
	}

	var b strings.Builder
	b.WriteString("FlashGenius Flashcards\n")
	b.WriteString("====================\n\n")
	fmt.Fprintf(&b, "Created: %s\n", now.Format("1/2/2006, 3:04:05 PM"))
	fmt.Fprintf(&b, "Number of cards: %d\n", len(deck))
	fmt.Fprintf(&b, "Difficulty level: %s\n\n", s.Difficulty())

	for i, card := range deck {
		fmt.Fprintf(&b, "Card %d:\n", i+1)
		fmt.Fprintf(&b, "Q: %s\n", card.Question)
		fmt.Fprintf(&b, "A: %s\n", card.Answer)
		if len(card.Sources) > 0 {
			b.WriteString("Sources:\n")
			for _, source := range card.Sources {
				fmt.Fprintf(&b, "- %s\n", source.Title)
			}
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}

// RenderShare returns the deck as compact question/answer text suitable for
// pasting.
func (s *Session) RenderShare() (string, error) {
	deck := s.Deck()
	if len(deck) == 0 {
		return "", ErrEmptyDeck
	}

	var b strings.Builder
	b.WriteString("My FlashGenius Flashcards:\n\n")
	for i, card := range deck {
		fmt.Fprintf(&b, "Card %d:\n", i+1)
		fmt.Fprintf(&b, "Q: %s\n", card.Question)
		fmt.Fprintf(&b, "A: %s\n\n", card.Answer)
	}
	return b.String(), nil
}
