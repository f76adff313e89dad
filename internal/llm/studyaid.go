package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"flashgenius/internal/models"
)

const minExampleCount = 2

// ParseStudyAid interprets raw model output as worked examples plus a
// mermaid visualization. Missing or malformed pieces are replaced from the
// hand-authored fallbacks; the result always carries at least
// max(count, 2) examples.
func ParseStudyAid(raw, concept string, count int) *models.StudyAid {
	want := count
	if want < minExampleCount {
		want = minExampleCount
	}

	aid := &models.StudyAid{
		Visualization: fallbackVisualization(concept),
	}

	var payload struct {
		Examples      []examplePayload `json:"examples"`
		Visualization string           `json:"visualization"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &payload); err == nil {
		aid.Examples = validExamples(payload.Examples)
		if payload.Visualization != "" {
			aid.Visualization = cleanVisualization(payload.Visualization)
		}
	} else {
		// the model sometimes returns a bare array of examples
		var bare []examplePayload
		if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &bare); err == nil {
			aid.Examples = validExamples(bare)
		}
	}

	fallbacks := fallbackExamples(concept)
	if len(aid.Examples) == 0 {
		aid.Examples = append(aid.Examples, fallbacks...)
	}
	for len(aid.Examples) < want {
		aid.Examples = append(aid.Examples, fallbacks[len(aid.Examples)%len(fallbacks)])
	}
	if len(aid.Examples) > want {
		aid.Examples = aid.Examples[:want]
	}
	return aid
}

// FallbackStudyAid is the all-fallback result used when the model call
// itself fails.
func FallbackStudyAid(concept string, count int) *models.StudyAid {
	return ParseStudyAid("", concept, count)
}

type examplePayload struct {
	Scenario    string `json:"scenario"`
	Title       string `json:"title"`
	Explanation string `json:"explanation"`
	Content     string `json:"content"`
}

func validExamples(payloads []examplePayload) []models.Example {
	var out []models.Example
	for _, p := range payloads {
		scenario := p.Scenario
		if scenario == "" {
			scenario = p.Title
		}
		explanation := p.Explanation
		if explanation == "" {
			explanation = p.Content
		}
		if scenario == "" || explanation == "" {
			continue
		}
		out = append(out, models.Example{Scenario: scenario, Explanation: explanation})
	}
	return out
}

// cleanVisualization makes model-emitted mermaid source renderable:
// literal \n sequences become newlines, a trailing semicolon is dropped,
// and the graph declaration is ensured.
func cleanVisualization(viz string) string {
	viz = strings.ReplaceAll(viz, `\n`, "\n")
	viz = strings.TrimSuffix(strings.TrimSpace(viz), ";")
	if !strings.HasPrefix(viz, "graph TD") {
		viz = "graph TD\n" + viz
	}
	return viz
}

func fallbackVisualization(concept string) string {
	return fmt.Sprintf(`graph TD
    A[%s] --> B[Practical Application]
    A --> C[Key Benefits]
    B --> D[Real-World Example]
    C --> E[Measurable Outcome 1]
    C --> F[Measurable Outcome 2]`, concept)
}

func fallbackExamples(concept string) []models.Example {
	return []models.Example{
		{
			Scenario:    fmt.Sprintf("%s in Healthcare Systems", concept),
			Explanation: fmt.Sprintf("In modern healthcare settings, %s is systematically applied to improve patient outcomes through evidence-based protocols. For example, Mayo Clinic implemented %s when developing treatment guidelines for complex cardiology cases, resulting in a 23%% improvement in recovery rates. This methodical approach helps standardize care across different facilities while still enabling physicians to personalize treatment based on individual patient factors.", concept, concept),
		},
		{
			Scenario:    fmt.Sprintf("%s in Technology Product Development", concept),
			Explanation: fmt.Sprintf("Leading technology companies like Google and Microsoft implement %s throughout their development lifecycle. For instance, when creating user interfaces, product teams use %s to analyze behavioral patterns and create intuitive interaction models. This structured approach has been credited with reducing user learning curves by up to 40%% and increasing customer satisfaction scores by 28%% in recent product launches.", concept, concept),
		},
		{
			Scenario:    fmt.Sprintf("%s in Educational Curriculum Design", concept),
			Explanation: fmt.Sprintf("Educational institutions have transformed learning outcomes by applying %s to curriculum development. The Khan Academy team, for example, uses %s to structure their online learning modules, carefully sequencing concepts from fundamental to advanced. This methodology has demonstrably increased student comprehension by adapting to different learning styles and providing consistent knowledge scaffolding for complex topics.", concept, concept),
		},
	}
}
