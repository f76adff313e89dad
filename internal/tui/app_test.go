package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flashgenius/internal/generate"
	"flashgenius/internal/models"
)

type cannedLLM struct {
	cards []models.FlashCard
}

func (c *cannedLLM) GenerateFlashcards(ctx context.Context, prompt string) ([]models.FlashCard, error) {
	return c.cards, nil
}

func (c *cannedLLM) GenerateStudyAid(ctx context.Context, prompt, concept string, count int) (*models.StudyAid, error) {
	return &models.StudyAid{}, nil
}

type fakeLibrary struct {
	docs    []models.Document
	removed []string
}

func (f *fakeLibrary) Documents() []models.Document { return f.docs }

func (f *fakeLibrary) Remove(ctx context.Context, id string) error {
	f.removed = append(f.removed, id)
	return nil
}

func newTestModel(t *testing.T, cards []models.FlashCard, library Library) Model {
	t.Helper()
	session := generate.NewSession(&cannedLLM{cards: cards}, nil)
	if len(cards) > 0 {
		_, err := session.Generate(context.Background(), "test topic", generate.Options{Count: len(cards)})
		require.NoError(t, err)
	}
	return New(context.Background(), session, library, nil, nil)
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, _ := m.Update(msg)
	next, ok := updated.(Model)
	require.True(t, ok)
	return next
}

func TestTabCycling(t *testing.T) {
	m := newTestModel(t, nil, nil)
	assert.Equal(t, tabCreate, m.tab)

	m = update(t, m, keyMsg("tab"))
	assert.Equal(t, tabCards, m.tab)
	m = update(t, m, keyMsg("tab"))
	assert.Equal(t, tabLibrary, m.tab)
	m = update(t, m, keyMsg("tab"))
	assert.Equal(t, tabCreate, m.tab)

	m = update(t, m, keyMsg("shift+tab"))
	assert.Equal(t, tabLibrary, m.tab)
}

func TestDeckReadySwitchesToCards(t *testing.T) {
	m := newTestModel(t, nil, nil)
	m.loading = true

	m = update(t, m, deckReadyMsg{cards: []models.FlashCard{{Question: "Q", Answer: "A"}}})

	assert.False(t, m.loading)
	assert.Equal(t, tabCards, m.tab)
	assert.Contains(t, m.notification, "Generated 1 flashcards")
}

func TestDeckErrorShowsModal(t *testing.T) {
	m := newTestModel(t, nil, nil)
	m.loading = true

	m = update(t, m, deckReadyMsg{err: errors.New("model unavailable")})
	assert.Contains(t, m.modal, "model unavailable")

	m = update(t, m, keyMsg("esc"))
	assert.Empty(t, m.modal)
}

func TestCardFlipAndNavigation(t *testing.T) {
	cards := []models.FlashCard{
		{Question: "Q1", Answer: "A1"},
		{Question: "Q2", Answer: "A2"},
	}
	m := newTestModel(t, cards, nil)
	m.tab = tabCards

	assert.Contains(t, m.View(), "Q1")

	m = update(t, m, keyMsg("enter"))
	assert.True(t, m.flipped)
	assert.Contains(t, m.View(), "A1")

	m = update(t, m, keyMsg("right"))
	assert.False(t, m.flipped, "navigation resets the flip")
	assert.Contains(t, m.View(), "Q2")
	assert.Contains(t, m.View(), "2 / 2")

	m = update(t, m, keyMsg("left"))
	assert.Contains(t, m.View(), "Q1")
}

func TestStoppedNarrationIsNotAnError(t *testing.T) {
	m := newTestModel(t, nil, nil)

	m = update(t, m, speechDoneMsg{err: context.Canceled})
	assert.Empty(t, m.modal, "a deliberate stop must not raise the error modal")

	m = update(t, m, speechDoneMsg{err: fmt.Errorf("failed to play audio: %w", context.Canceled)})
	assert.Empty(t, m.modal)

	m = update(t, m, speechDoneMsg{err: errors.New("device busy")})
	assert.Equal(t, "There was an error playing the audio.", m.modal)
}

func TestCardVariations(t *testing.T) {
	cards := []models.FlashCard{{Question: "Q1", Answer: "A1"}}
	m := newTestModel(t, cards, nil)
	m.tab = tabCards

	updated, cmd := m.Update(keyMsg("v"))
	m = updated.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.loading)

	batch := cmd()
	msgs, ok := batch.(tea.BatchMsg)
	require.True(t, ok)

	var found bool
	for _, c := range msgs {
		if msg, ok := c().(variationsMsg); ok {
			found = true
			m = update(t, m, msg)
		}
	}
	require.True(t, found, "pressing v issues a variations command")

	assert.False(t, m.loading)
	assert.Contains(t, m.modal, "Variations:")
	assert.Contains(t, m.modal, "Q: Q1")
}

func TestCardVariationsEmptyDeck(t *testing.T) {
	m := newTestModel(t, nil, nil)
	m.tab = tabCards

	updated, cmd := m.Update(keyMsg("v"))
	m = updated.(Model)
	assert.Nil(t, cmd)
	assert.False(t, m.loading)
}

func TestLibraryRemove(t *testing.T) {
	library := &fakeLibrary{docs: []models.Document{
		{ID: "doc_1", Title: "Biology Notes"},
		{ID: "doc_2", Title: "Chemistry Notes"},
	}}
	m := newTestModel(t, nil, library)
	m.tab = tabLibrary

	m = update(t, m, keyMsg("j"))
	_, cmd := m.Update(keyMsg("x"))
	require.NotNil(t, cmd)

	msg := cmd()
	removed, ok := msg.(docRemovedMsg)
	require.True(t, ok)
	assert.NoError(t, removed.err)
	assert.Equal(t, []string{"doc_2"}, library.removed)
}

func TestEmptyStatesRender(t *testing.T) {
	m := newTestModel(t, nil, nil)

	m.tab = tabCards
	assert.Contains(t, m.View(), "No flashcards yet")

	m.tab = tabLibrary
	assert.Contains(t, m.View(), "knowledge base is empty")
}
