package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlashcardsBareArray(t *testing.T) {
	cards, err := ParseFlashcards(`[{"question":"Q1","answer":"A1"}]`)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "Q1", cards[0].Question)
	assert.Equal(t, "A1", cards[0].Answer)
}

func TestParseFlashcardsWrappedArray(t *testing.T) {
	bare, err := ParseFlashcards(`[{"question":"Q1","answer":"A1"},{"question":"Q2","answer":"A2"}]`)
	require.NoError(t, err)

	wrapped, err := ParseFlashcards(`{"flashcards":[{"question":"Q1","answer":"A1"},{"question":"Q2","answer":"A2"}]}`)
	require.NoError(t, err)

	assert.Equal(t, bare, wrapped)
}

func TestParseFlashcardsFrontBackFields(t *testing.T) {
	cards, err := ParseFlashcards(`[{"front":"Q1","back":"A1"}]`)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "Q1", cards[0].Question)
	assert.Equal(t, "A1", cards[0].Answer)
}

func TestParseFlashcardsMissingFields(t *testing.T) {
	cards, err := ParseFlashcards(`[{"question":"Q1"},{"answer":"A2"}]`)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "Answer not provided", cards[0].Answer)
	assert.Equal(t, "Question not provided", cards[1].Question)
}

func TestParseFlashcardsSingleObjectCard(t *testing.T) {
	cards, err := ParseFlashcards(`{"question":"What is osmosis?","answer":"Diffusion of water across a membrane."}`)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "What is osmosis?", cards[0].Question)
}

func TestParseFlashcardsObjectPairs(t *testing.T) {
	cards, err := ParseFlashcards(`{"What is DNA?":"Genetic material.","How does it replicate?":{"mode":"semi-conservative"}}`)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "What is DNA?", cards[0].Question)
	assert.Equal(t, "Genetic material.", cards[0].Answer)
	assert.Equal(t, "How does it replicate?", cards[1].Question)
	assert.JSONEq(t, `{"mode":"semi-conservative"}`, cards[1].Answer)
}

func TestParseFlashcardsEmbeddedArray(t *testing.T) {
	raw := "Here are your flashcards:\n[{\"question\":\"Q1\",\"answer\":\"A1\"}]\nEnjoy!"
	cards, err := ParseFlashcards(raw)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "Q1", cards[0].Question)
}

func TestParseFlashcardsMalformed(t *testing.T) {
	_, err := ParseFlashcards("I'm sorry, I can't do that.")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestParseStudyAidValidPayload(t *testing.T) {
	raw := `{"examples":[{"scenario":"S1","explanation":"E1"},{"scenario":"S2","explanation":"E2"}],"visualization":"graph TD\\nA[X] --> B[Y];"}`
	aid := ParseStudyAid(raw, "Osmosis", 2)

	require.Len(t, aid.Examples, 2)
	assert.Equal(t, "S1", aid.Examples[0].Scenario)
	assert.Equal(t, "graph TD\nA[X] --> B[Y]", aid.Visualization)
}

func TestParseStudyAidAlternateFieldNames(t *testing.T) {
	raw := `[{"title":"S1","content":"E1"},{"title":"S2","content":"E2"}]`
	aid := ParseStudyAid(raw, "Osmosis", 2)

	require.Len(t, aid.Examples, 2)
	assert.Equal(t, "S1", aid.Examples[0].Scenario)
	assert.Equal(t, "E1", aid.Examples[0].Explanation)
}

func TestParseStudyAidPadsWithFallbacks(t *testing.T) {
	raw := `{"examples":[{"scenario":"Only One","explanation":"E1"}]}`
	aid := ParseStudyAid(raw, "Osmosis", 4)

	require.Len(t, aid.Examples, 4)
	assert.Equal(t, "Only One", aid.Examples[0].Scenario)
	for _, ex := range aid.Examples[1:] {
		assert.Contains(t, ex.Scenario, "Osmosis")
	}
}

func TestParseStudyAidGarbageUsesFallbacks(t *testing.T) {
	aid := ParseStudyAid("not json at all", "Recursion", 2)

	require.Len(t, aid.Examples, 2)
	assert.Contains(t, aid.Examples[0].Scenario, "Recursion")
	assert.Contains(t, aid.Visualization, "graph TD")
	assert.Contains(t, aid.Visualization, "Recursion")
}

func TestCleanVisualizationEnsuresGraphPrefix(t *testing.T) {
	assert.Equal(t, "graph TD\nA --> B", cleanVisualization("A --> B;"))
	assert.Equal(t, "graph TD\nA --> B", cleanVisualization("graph TD\nA --> B"))
}
