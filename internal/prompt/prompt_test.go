package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flashgenius/internal/models"
)

func TestIsTopic(t *testing.T) {
	assert.True(t, IsTopic("photosynthesis"))
	assert.True(t, IsTopic("the french revolution and its causes"))
	assert.False(t, IsTopic("this is a much longer passage of learning material that clearly exceeds the word limit for a topic"))
}

func TestContextBlockNumbersCitations(t *testing.T) {
	results := []models.SearchResult{
		{DocumentID: "d1", DocumentTitle: "Biology Notes", ChunkText: "Cells are the unit of life.", Similarity: 0.9},
		{DocumentID: "d2", DocumentTitle: "Lecture 4", ChunkText: "Mitochondria produce ATP.", Similarity: 0.8},
	}

	block, citations := ContextBlock(results)
	assert.Contains(t, block, `[1] From "Biology Notes": Cells are the unit of life.`)
	assert.Contains(t, block, `[2] From "Lecture 4": Mitochondria produce ATP.`)

	require.Len(t, citations, 2)
	assert.Equal(t, 1, citations[0].ID)
	assert.Equal(t, "Lecture 4", citations[1].Title)
}

func TestContextBlockEmpty(t *testing.T) {
	block, citations := ContextBlock(nil)
	assert.Empty(t, block)
	assert.Nil(t, citations)
}

func TestTopicPrompt(t *testing.T) {
	p := Topic("Photosynthesis", 5, models.DifficultyBasic, "")
	assert.Contains(t, p, `Generate 5 high-quality flashcards about "Photosynthesis" at basic difficulty level.`)
	assert.Contains(t, p, "recognition and recall")
	assert.Contains(t, p, "Return ONLY the JSON array")
	assert.NotContains(t, p, "knowledge base")
}

func TestTopicPromptWithContext(t *testing.T) {
	p := Topic("Photosynthesis", 5, models.DifficultyBasic, "[1] From \"Notes\": chlorophyll\n")
	assert.Contains(t, p, "Include citation markers [1], [2], etc.")
	assert.Contains(t, p, "chlorophyll")
}

func TestMaterialPromptTruncates(t *testing.T) {
	material := strings.Repeat("x", models.MaterialCharLimit+500)
	p := Material(material, 10, models.DifficultyAdvanced, "")
	assert.Contains(t, p, "(material truncated for length)")
	assert.Less(t, len(p), len(material)+2000)
}

func TestProgressiveClampsLevel(t *testing.T) {
	card := models.FlashCard{Question: "Q", Answer: "A"}
	assert.Contains(t, Progressive(card, "expert"), "at the expert difficulty level")
	assert.Contains(t, Progressive(card, "nonsense"), "at the expert difficulty level")
	assert.Contains(t, Progressive(card, "basic"), "at the basic difficulty level")
}

func TestSyntheticExamplesMinimumCount(t *testing.T) {
	p := SyntheticExamples("Gravity", 1, 12345)
	assert.Contains(t, p, "Generate exactly 2 specific")
	assert.Contains(t, p, "UNIQUE REQUEST ID: 12345")
	assert.Contains(t, p, "graph TD")
}
