package models

// FlashCard is a single question/answer pair produced by the language model.
// Sources is populated only when the answer cites knowledge-base context.
type FlashCard struct {
	Question string       `json:"question"`
	Answer   string       `json:"answer"`
	Sources  []CardSource `json:"sources,omitempty"`
}

// CardSource records a knowledge-base chunk cited by a card's answer.
type CardSource struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Citation is a numbered context entry handed to the prompt builder. The
// model references it in answers with a bracketed marker like [1].
type Citation struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Example is one worked real-world example in a synthetic study aid.
type Example struct {
	Scenario    string `json:"scenario"`
	Explanation string `json:"explanation"`
}

// StudyAid bundles the synthetic-data output for a concept: worked examples
// plus a mermaid flowchart source.
type StudyAid struct {
	Examples      []Example `json:"examples"`
	Visualization string    `json:"visualization"`
}
