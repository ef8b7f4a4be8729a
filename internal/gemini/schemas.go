package gemini

import "google.golang.org/genai"

// Response schemas for structured generation. Each schema is closed enough
// that the normalizer can rely on required fields being present, while
// optional fields (subtitle, children) may be absent.

func slideSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"topic": {Type: genai.TypeString, Description: "O tema principal da apresentação"},
			"slides": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"title":    {Type: genai.TypeString},
						"subtitle": {Type: genai.TypeString},
						"content": {
							Type:        genai.TypeArray,
							Items:       &genai.Schema{Type: genai.TypeString},
							Description: "Pontos principais do slide (bullet points)",
						},
						"imagePrompt": {
							Type:        genai.TypeString,
							Description: "Um prompt altamente detalhado, descritivo e artístico para gerar uma imagem educativa relacionada a este slide específico usando uma IA de geração de imagem. O prompt deve ser escrito em Português.",
						},
					},
					Required: []string{"title", "content", "imagePrompt"},
				},
			},
		},
		Required: []string{"topic", "slides"},
	}
}

func quizSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"topic": {Type: genai.TypeString},
			"questions": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"question": {Type: genai.TypeString},
						"options":  {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
						"correctAnswerIndex": {
							Type:        genai.TypeInteger,
							Description: "Index of the correct option (0-3)",
						},
						"explanation": {Type: genai.TypeString, Description: "Why the answer is correct"},
					},
					Required: []string{"question", "options", "correctAnswerIndex", "explanation"},
				},
			},
		},
		Required: []string{"topic", "questions"},
	}
}

// mindMapSchema spells out the nesting level by level because the provider
// does not accept self-referential schemas. Depth past the fourth level is
// left to the prompt, which asks for at most three.
func mindMapSchema() *genai.Schema {
	leaf := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"id":    {Type: genai.TypeString},
			"label": {Type: genai.TypeString},
		},
	}
	level := func(child *genai.Schema) *genai.Schema {
		return &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"id":       {Type: genai.TypeString},
				"label":    {Type: genai.TypeString},
				"children": {Type: genai.TypeArray, Items: child},
			},
		}
	}
	root := level(level(level(leaf)))
	root.Required = []string{"id", "label"}
	return root
}

func essaySchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"score":    {Type: genai.TypeInteger, Description: "Total score from 0 to 1000"},
			"feedback": {Type: genai.TypeString, Description: "General feedback"},
			"competencies": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name":    {Type: genai.TypeString, Description: "Name of competency (e.g. Gramática, Coesão)"},
						"score":   {Type: genai.TypeInteger, Description: "Score for this competency (0-200)"},
						"comment": {Type: genai.TypeString},
					},
					Required: []string{"name", "score", "comment"},
				},
			},
			"correctedVersion": {Type: genai.TypeString, Description: "Rewritten version of the essay with improvements"},
		},
		Required: []string{"score", "feedback", "competencies", "correctedVersion"},
	}
}
