// Package prompt assembles the natural-language prompts sent to the chat
// model, including the numbered citation block built from retrieved
// knowledge-base context.
package prompt

import (
	"fmt"
	"strings"

	"flashgenius/internal/models"
)

// IsTopic classifies input as a short topic rather than pasted learning
// material.
func IsTopic(input string) bool {
	return len(strings.Fields(input)) <= models.TopicWordLimit
}

// ContextBlock renders retrieval results as a numbered context section and
// returns the citations the markers refer to.
func ContextBlock(results []models.SearchResult) (string, []models.Citation) {
	if len(results) == 0 {
		return "", nil
	}

	var b strings.Builder
	b.WriteString("Here is some relevant information from your knowledge base:\n\n")

	citations := make([]models.Citation, 0, len(results))
	for i, r := range results {
		fmt.Fprintf(&b, "[%d] From %q: %s\n\n", i+1, r.DocumentTitle, r.ChunkText)
		citations = append(citations, models.Citation{
			ID:    i + 1,
			Title: r.DocumentTitle,
			Text:  r.ChunkText,
		})
	}
	return b.String(), citations
}

// Topic builds the prompt for short topic inputs.
func Topic(topic string, count int, difficulty, contextualInfo string) string {
	var b strings.Builder
	fmt.Fprintf(&b, models.TopicPromptTemplate, count, topic, difficulty, difficulty, DifficultyGuidelines(difficulty))
	if contextualInfo != "" {
		b.WriteString("\n\nPlease use the following information to create accurate flashcards. Include citation markers [1], [2], etc. where appropriate in your answers:\n\n")
		b.WriteString(contextualInfo)
	}
	b.WriteString(models.ArrayFormatInstruction)
	return b.String()
}

// Material builds the prompt for pasted learning material, truncating very
// long input.
func Material(material string, count int, difficulty, contextualInfo string) string {
	truncated := material
	if len(material) > models.MaterialCharLimit {
		truncated = material[:models.MaterialCharLimit] + " ... (material truncated for length)"
	}

	var b strings.Builder
	fmt.Fprintf(&b, models.MaterialPromptTemplate, count, difficulty, truncated, difficulty, DifficultyGuidelines(difficulty))
	if contextualInfo != "" {
		b.WriteString("\n\nPlease also consider the following additional information from my knowledge base. Include citation markers [1], [2], etc. where appropriate in your answers:\n\n")
		b.WriteString(contextualInfo)
	}
	b.WriteString(models.ArrayFormatInstruction)
	return b.String()
}

// Variations asks for rewordings of an existing card.
func Variations(card models.FlashCard, count int) string {
	return fmt.Sprintf(models.VariationsPromptTemplate, count, card.Question, card.Answer)
}

// Progressive asks for a harder follow-up to a mastered card. The level is
// clamped to the known difficulty scale.
func Progressive(card models.FlashCard, nextLevel string) string {
	target := models.DifficultyLevels[len(models.DifficultyLevels)-1]
	for _, level := range models.DifficultyLevels {
		if level == nextLevel {
			target = level
			break
		}
	}
	return fmt.Sprintf(models.ProgressivePromptTemplate, card.Question, card.Answer, target)
}

// SyntheticExamples asks for worked examples plus a mermaid flowchart for a
// concept. requestID keeps repeated calls from being served identical
// cached completions.
func SyntheticExamples(concept string, count int, requestID int64) string {
	if count < 2 {
		count = 2
	}
	return fmt.Sprintf(`
UNIQUE REQUEST ID: %d

Create a comprehensive educational resource about "%s" with these TWO components:

1. EXAMPLES (array of objects):
   Generate exactly %d specific, detailed real-world examples that demonstrate "%s" in action.
   Each example must have:
   - A descriptive title that includes "%s" in context
   - A thorough, informative explanation (4-5 sentences) that explains how "%s" applies in this specific scenario
   - Use concrete details and facts
   - Each example must be from a different field or industry

2. VISUALIZATION (flowchart):
   Create a simple but informative flowchart explaining "%s" visually.
   Requirements:
   - 4-6 clearly labeled nodes
   - Logical relationships between components
   - Show how "%s" works or is applied
   - Simple enough to understand at a glance

Format your response as a JSON object with:
- "examples": Array of objects with "scenario" and "explanation" fields
- "visualization": String containing Mermaid.js flowchart code (using graph TD syntax)
`, requestID, concept, count, concept, concept, concept, concept, concept)
}

// DifficultyGuidelines returns the per-level instructions included in
// generation prompts.
func DifficultyGuidelines(difficulty string) string {
	switch difficulty {
	case models.DifficultyBasic:
		return "- Focus on fundamental concepts and definitions\n- Use straightforward language\n- Questions should test recognition and recall\n- Answers should be concise and direct"
	case models.DifficultyIntermediate:
		return "- Cover both basic and more complex concepts\n- Include some application of knowledge\n- Questions may require some analysis\n- Answers should provide clear explanations with moderate detail"
	case models.DifficultyAdvanced:
		return "- Focus on complex concepts and their relationships\n- Include application, analysis, and evaluation\n- Questions should challenge deeper understanding\n- Answers should be comprehensive with nuanced explanations\n- Include examples and counterexamples where appropriate"
	default:
		return "- Balance foundational knowledge with deeper concepts\n- Include a mix of recall and application questions\n- Answers should be informative and educational"
	}
}
