package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"flashgenius/internal/models"
)

// ErrMalformedResponse reports that none of the parse attempts could make
// sense of the model output.
var ErrMalformedResponse = errors.New("could not extract flashcards from model response")

var embeddedArrayRe = regexp.MustCompile(`(?s)\[\s*\{.*\}\s*\]`)

type cardPayload struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Front    string `json:"front"`
	Back     string `json:"back"`
}

// ParseFlashcards interprets raw model output as a list of cards. Attempts
// run in a fixed precedence order:
//
//  1. a top-level JSON array of card objects
//  2. an object wrapping the array in a "flashcards" field
//  3. an object that is itself a single card
//  4. an arbitrary object, treating key/value pairs as question/answer
//  5. a JSON array embedded in surrounding prose, extracted and reparsed
//
// The first attempt that applies wins; if none do, ErrMalformedResponse.
func ParseFlashcards(raw string) ([]models.FlashCard, error) {
	trimmed := strings.TrimSpace(raw)

	if cards, ok := parseCardArray(trimmed); ok {
		return cards, nil
	}
	if cards, ok := parseWrappedArray(trimmed); ok {
		return cards, nil
	}
	if card, ok := parseSingleCard(trimmed); ok {
		return []models.FlashCard{card}, nil
	}
	if cards, ok := parseObjectPairs(trimmed); ok {
		return cards, nil
	}
	if match := embeddedArrayRe.FindString(trimmed); match != "" {
		if cards, ok := parseCardArray(match); ok {
			return cards, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, snippet(trimmed))
}

func parseCardArray(raw string) ([]models.FlashCard, bool) {
	var payloads []cardPayload
	if err := json.Unmarshal([]byte(raw), &payloads); err != nil {
		return nil, false
	}
	cards := make([]models.FlashCard, 0, len(payloads))
	for _, p := range payloads {
		cards = append(cards, normalizeCard(p))
	}
	return cards, true
}

func parseWrappedArray(raw string) ([]models.FlashCard, bool) {
	var wrapper struct {
		Flashcards []cardPayload `json:"flashcards"`
	}
	if err := json.Unmarshal([]byte(raw), &wrapper); err != nil || wrapper.Flashcards == nil {
		return nil, false
	}
	cards := make([]models.FlashCard, 0, len(wrapper.Flashcards))
	for _, p := range wrapper.Flashcards {
		cards = append(cards, normalizeCard(p))
	}
	return cards, true
}

func parseSingleCard(raw string) (models.FlashCard, bool) {
	var p cardPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return models.FlashCard{}, false
	}
	if (p.Question == "" && p.Front == "") || (p.Answer == "" && p.Back == "") {
		return models.FlashCard{}, false
	}
	return normalizeCard(p), true
}

// parseObjectPairs walks the object with a token decoder so the original
// key order is preserved.
func parseObjectPairs(raw string) ([]models.FlashCard, bool) {
	dec := json.NewDecoder(strings.NewReader(raw))
	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		return nil, false
	}

	var cards []models.FlashCard
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, false
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, false
		}

		answer := string(value)
		var s string
		if err := json.Unmarshal(value, &s); err == nil {
			answer = s
		}
		cards = append(cards, models.FlashCard{Question: key, Answer: answer})
	}
	if _, err := dec.Token(); err != nil {
		return nil, false
	}
	return cards, true
}

func normalizeCard(p cardPayload) models.FlashCard {
	question := p.Question
	if question == "" {
		question = p.Front
	}
	if question == "" {
		question = "Question not provided"
	}
	answer := p.Answer
	if answer == "" {
		answer = p.Back
	}
	if answer == "" {
		answer = "Answer not provided"
	}
	return models.FlashCard{Question: question, Answer: answer}
}

func snippet(s string) string {
	const max = 120
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
