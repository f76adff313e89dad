// Package generate orchestrates the flashcard generation flow: classify the
// input, retrieve knowledge-base context, prompt the language model, and
// normalize the result into the session's deck.
package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"flashgenius/internal/models"
	"flashgenius/internal/prompt"
)

var (
	// ErrEmptyInput is returned when the user submits a blank topic.
	ErrEmptyInput = errors.New("please enter a topic or learning material first")

	// ErrBusy is returned when a generation is already in flight.
	ErrBusy = errors.New("a generation is already in progress")

	// ErrNoCards is returned when the model produced an empty deck.
	ErrNoCards = errors.New("no flashcards were generated, please try again")
)

const (
	defaultCardCount      = 5
	defaultVariationCount = 3
)

// CardGenerator produces flashcards and study aids from prompts.
// *llm.Client satisfies it.
type CardGenerator interface {
	GenerateFlashcards(ctx context.Context, prompt string) ([]models.FlashCard, error)
	GenerateStudyAid(ctx context.Context, prompt, concept string, count int) (*models.StudyAid, error)
}

// Searcher retrieves relevant knowledge-base chunks for a query.
// *store.Store satisfies it.
type Searcher interface {
	Search(ctx context.Context, query string) ([]models.SearchResult, error)
	Len() int
}

// Options tune a single generation.
type Options struct {
	Count        int
	Difficulty   string
	UseKnowledge bool
}

func (o Options) normalized() Options {
	if o.Count <= 0 {
		o.Count = defaultCardCount
	}
	if o.Difficulty == "" {
		o.Difficulty = models.DifficultyIntermediate
	}
	return o
}

// Session holds the active deck and viewing position. All mutation goes
// through its methods; a generation in flight blocks further generations.
type Session struct {
	llm      CardGenerator
	searcher Searcher

	mu         sync.Mutex
	busy       bool
	deck       []models.FlashCard
	index      int
	difficulty string
}

// NewSession wires a session to the model client and an optional
// knowledge-base searcher (nil disables retrieval).
func NewSession(llm CardGenerator, searcher Searcher) *Session {
	return &Session{llm: llm, searcher: searcher}
}

// Generate runs the full flow and replaces the deck with the result. The
// viewing position resets to the first card.
func (s *Session) Generate(ctx context.Context, input string, opts Options) ([]models.FlashCard, error) {
	text := strings.TrimSpace(input)
	if text == "" {
		return nil, ErrEmptyInput
	}
	opts = opts.normalized()

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.busy = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}()

	log.Info().Int("count", opts.Count).Str("difficulty", opts.Difficulty).Bool("useKnowledge", opts.UseKnowledge).Msg("Generating flashcards")

	contextualInfo, citations, err := s.retrieveContext(ctx, text, opts)
	if err != nil {
		return nil, err
	}

	var promptText string
	if prompt.IsTopic(text) {
		promptText = prompt.Topic(text, opts.Count, opts.Difficulty, contextualInfo)
	} else {
		promptText = prompt.Material(text, opts.Count, opts.Difficulty, contextualInfo)
	}

	cards, err := s.llm.GenerateFlashcards(ctx, promptText)
	if err != nil {
		return nil, fmt.Errorf("failed to generate flashcards: %w", err)
	}
	if len(cards) == 0 {
		return nil, ErrNoCards
	}

	attachSources(cards, citations)
	if len(cards) > opts.Count {
		log.Debug().Int("got", len(cards)).Int("want", opts.Count).Msg("Truncating deck to requested count")
		cards = cards[:opts.Count]
	}

	s.mu.Lock()
	s.deck = cards
	s.index = 0
	s.difficulty = opts.Difficulty
	s.mu.Unlock()

	log.Info().Int("cards", len(cards)).Msg("Deck ready")
	return s.Deck(), nil
}

func (s *Session) retrieveContext(ctx context.Context, text string, opts Options) (string, []models.Citation, error) {
	if !opts.UseKnowledge || s.searcher == nil || s.searcher.Len() == 0 {
		return "", nil, nil
	}

	results, err := s.searcher.Search(ctx, text)
	if err != nil {
		return "", nil, fmt.Errorf("failed to search knowledge base: %w", err)
	}
	if len(results) == 0 {
		return "", nil, nil
	}
	log.Debug().Int("results", len(results)).Msg("Retrieved knowledge-base context")
	block, citations := prompt.ContextBlock(results)
	return block, citations, nil
}

// attachSources links each card to the citations its answer actually
// references with a bracketed marker like [1].
func attachSources(cards []models.FlashCard, citations []models.Citation) {
	if len(citations) == 0 {
		return
	}
	for i := range cards {
		for _, citation := range citations {
			marker := fmt.Sprintf("[%d]", citation.ID)
			if strings.Contains(cards[i].Answer, marker) {
				cards[i].Sources = append(cards[i].Sources, models.CardSource{
					Title: citation.Title,
					Text:  citation.Text,
				})
			}
		}
	}
}

// Variations asks the model for reworded takes on a card. The deck is not
// modified.
func (s *Session) Variations(ctx context.Context, card models.FlashCard, count int) ([]models.FlashCard, error) {
	if count <= 0 {
		count = defaultVariationCount
	}
	cards, err := s.llm.GenerateFlashcards(ctx, prompt.Variations(card, count))
	if err != nil {
		return nil, fmt.Errorf("failed to generate variations: %w", err)
	}
	return cards, nil
}

// Progressive asks the model for a harder follow-up to a mastered card.
func (s *Session) Progressive(ctx context.Context, card models.FlashCard, nextLevel string) (models.FlashCard, error) {
	cards, err := s.llm.GenerateFlashcards(ctx, prompt.Progressive(card, nextLevel))
	if err != nil {
		return models.FlashCard{}, fmt.Errorf("failed to generate follow-up card: %w", err)
	}
	if len(cards) == 0 {
		return models.FlashCard{}, ErrNoCards
	}
	return cards[0], nil
}

// StudyAid generates worked examples and a concept diagram for a card's
// question. It never fails outright: on model trouble it falls back to
// canned examples.
func (s *Session) StudyAid(ctx context.Context, concept string, count int) (*models.StudyAid, error) {
	p := prompt.SyntheticExamples(concept, count, time.Now().UnixNano())
	return s.llm.GenerateStudyAid(ctx, p, concept, count)
}

// Restore replaces the deck without generating, e.g. when reloading a
// previously saved deck. The viewing position resets to the first card.
func (s *Session) Restore(cards []models.FlashCard, difficulty string) {
	s.mu.Lock()
	s.deck = append([]models.FlashCard(nil), cards...)
	s.index = 0
	s.difficulty = difficulty
	s.mu.Unlock()
}

// Deck returns a copy of the current deck.
func (s *Session) Deck() []models.FlashCard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.FlashCard(nil), s.deck...)
}

// Len returns the number of cards in the deck.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.deck)
}

// Index returns the current viewing position.
func (s *Session) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Difficulty returns the level the current deck was generated at.
func (s *Session) Difficulty() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.difficulty
}

// Current returns the card at the viewing position.
func (s *Session) Current() (models.FlashCard, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index < 0 || s.index >= len(s.deck) {
		return models.FlashCard{}, false
	}
	return s.deck[s.index], true
}

// Next advances the viewing position, reporting whether it moved.
func (s *Session) Next() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index+1 >= len(s.deck) {
		return false
	}
	s.index++
	return true
}

// Prev moves the viewing position back, reporting whether it moved.
func (s *Session) Prev() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index <= 0 {
		return false
	}
	s.index--
	return true
}

// Busy reports whether a generation is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}
