// Package normalize converts raw structured-generation JSON into the typed
// domain objects. Required fields per entity are validated here and missing
// or out-of-range values are rejected loudly; nothing is silently coerced.
// Optional fields (subtitle, children, generated image) default quietly.
package normalize

import (
	"encoding/json"
	"fmt"

	"github.com/RichardoC/Tutor-i/internal/models"
)

// ParsePresentation parses and validates a slide deck document.
func ParsePresentation(raw []byte) (*models.Presentation, error) {
	var p models.Presentation
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("malformed presentation JSON: %w", err)
	}
	if p.Topic == "" {
		return nil, fmt.Errorf("presentation is missing a topic")
	}
	if len(p.Slides) == 0 {
		return nil, fmt.Errorf("presentation %q has no slides", p.Topic)
	}
	for i, s := range p.Slides {
		if s.Title == "" {
			return nil, fmt.Errorf("slide %d is missing a title", i)
		}
		if len(s.Content) == 0 {
			return nil, fmt.Errorf("slide %d (%q) has no content", i, s.Title)
		}
		if s.ImagePrompt == "" {
			return nil, fmt.Errorf("slide %d (%q) is missing an image prompt", i, s.Title)
		}
	}
	return &p, nil
}

// ParseQuiz parses and validates a quiz document. Every question must keep
// its correct-answer index inside the option list.
func ParseQuiz(raw []byte) (*models.Quiz, error) {
	var q models.Quiz
	if err := json.Unmarshal(raw, &q); err != nil {
		return nil, fmt.Errorf("malformed quiz JSON: %w", err)
	}
	if q.Topic == "" {
		return nil, fmt.Errorf("quiz is missing a topic")
	}
	if len(q.Questions) == 0 {
		return nil, fmt.Errorf("quiz %q has no questions", q.Topic)
	}
	for i, qq := range q.Questions {
		if qq.Question == "" {
			return nil, fmt.Errorf("question %d is empty", i)
		}
		if len(qq.Options) == 0 {
			return nil, fmt.Errorf("question %d has no options", i)
		}
		if qq.CorrectAnswerIndex < 0 || qq.CorrectAnswerIndex >= len(qq.Options) {
			return nil, fmt.Errorf("question %d has correct answer index %d outside its %d options",
				i, qq.CorrectAnswerIndex, len(qq.Options))
		}
		if qq.Explanation == "" {
			return nil, fmt.Errorf("question %d is missing an explanation", i)
		}
	}
	return &q, nil
}

// ParseMindMap parses and validates a mind-map tree. Node ids must be unique
// across the whole tree; JSON decoding already guarantees the tree shape.
func ParseMindMap(raw []byte) (*models.MindMapNode, error) {
	var root models.MindMapNode
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("malformed mind map JSON: %w", err)
	}
	seen := make(map[string]bool)
	var verify func(n *models.MindMapNode) error
	verify = func(n *models.MindMapNode) error {
		if n.ID == "" {
			return fmt.Errorf("mind map node %q is missing an id", n.Label)
		}
		if n.Label == "" {
			return fmt.Errorf("mind map node %s is missing a label", n.ID)
		}
		if seen[n.ID] {
			return fmt.Errorf("mind map node id %s appears more than once", n.ID)
		}
		seen[n.ID] = true
		for i := range n.Children {
			if err := verify(&n.Children[i]); err != nil {
				return err
			}
		}
		return nil
	}
	if err := verify(&root); err != nil {
		return nil, err
	}
	return &root, nil
}

// ParseEssay parses and validates an essay grading document. The total score
// must lie in [0,1000] and each competency score in [0,200]; the sum of
// competency scores is not cross-checked against the total, both are taken
// as supplied.
func ParseEssay(raw []byte) (*models.EssayResult, error) {
	var e models.EssayResult
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("malformed essay result JSON: %w", err)
	}
	if e.Score < 0 || e.Score > 1000 {
		return nil, fmt.Errorf("essay score %d is outside [0,1000]", e.Score)
	}
	if e.Feedback == "" {
		return nil, fmt.Errorf("essay result is missing feedback")
	}
	if e.CorrectedVersion == "" {
		return nil, fmt.Errorf("essay result is missing the corrected version")
	}
	for i, c := range e.Competencies {
		if c.Name == "" {
			return nil, fmt.Errorf("competency %d is missing a name", i)
		}
		if c.Score < 0 || c.Score > 200 {
			return nil, fmt.Errorf("competency %q score %d is outside [0,200]", c.Name, c.Score)
		}
	}
	return &e, nil
}
