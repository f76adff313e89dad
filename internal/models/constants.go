package models

const (
	// CitationMarkerRegex matches bracketed citation markers such as [1].
	CitationMarkerRegex = `\[(\d+)\]`

	// TopicWordLimit separates short "topic" inputs from pasted learning
	// material.
	TopicWordLimit = 10

	// MaterialCharLimit caps pasted material embedded into a prompt.
	MaterialCharLimit = 6000

	// SystemInstruction steers the chat model toward JSON output.
	SystemInstruction = "You are an educational assistant that creates high-quality flashcards. You always respond with properly formatted JSON arrays of flashcard objects."
)

// Difficulty levels in ascending order.
const (
	DifficultyBasic        = "basic"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
	DifficultyExpert       = "expert"
)

// DifficultyLevels lists the supported levels from easiest to hardest.
var DifficultyLevels = []string{DifficultyBasic, DifficultyIntermediate, DifficultyAdvanced, DifficultyExpert}

var (
	TopicPromptTemplate = `
Generate %d high-quality flashcards about "%s" at %s difficulty level.

The flashcards should be designed for effective learning, with clear questions and comprehensive answers.

For %s difficulty level:
%s
`

	MaterialPromptTemplate = `
Generate %d high-quality flashcards based on the following learning material, at %s difficulty level.

Learning Material:
%s

The flashcards should cover the key concepts and important information from the material.

For %s difficulty level:
%s
`

	VariationsPromptTemplate = `
Create %d variations of this flashcard with slightly different wording or perspective.
Original Question: "%s"
Original Answer: "%s"

Return ONLY a JSON array with each variation having "question" and "answer" fields.
`

	ProgressivePromptTemplate = `
The user has mastered this flashcard:
Question: "%s"
Answer: "%s"

Create a more challenging version at the %s difficulty level that builds on this knowledge.
The new question should require deeper understanding or application of the same concept.

Return ONLY a JSON object with "question" and "answer" fields.
`

	ArrayFormatInstruction = `
Format your response as a JSON array of flashcard objects, with each object having "question" and "answer" fields.
Example format:
[
  {"question": "What is the capital of France?", "answer": "Paris is the capital of France."},
  {"question": "What is the formula for the area of a circle?", "answer": "The formula for the area of a circle is A = πr², where r is the radius. [1]"}
]

Return ONLY the JSON array without any additional text, explanation, or formatting.
`
)
