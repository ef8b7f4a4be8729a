// Package models defines the domain entities shared by the gateway, the
// session stores and the exporters. JSON tags match the wire format used by
// the web client, so serialized values round-trip unchanged.
package models

// Chat roles as the provider expects them.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ChatMessage is one turn in a tutoring conversation.
type ChatMessage struct {
	Role    string `json:"role"` // user or model
	Content string `json:"content"`
	// Image is an optional data URI attached to a user turn.
	Image string `json:"image,omitempty"`
	// Timestamp is unix milliseconds at creation.
	Timestamp int64 `json:"timestamp"`
}

// Slide is one page of a generated presentation. GeneratedImageBase64 is the
// only mutable field; it is set once, after an on-demand image generation.
type Slide struct {
	Title                string   `json:"title"`
	Subtitle             string   `json:"subtitle,omitempty"`
	Content              []string `json:"content"`
	ImagePrompt          string   `json:"imagePrompt"`
	GeneratedImageBase64 string   `json:"generatedImageBase64,omitempty"`
}

// Presentation is an ordered slide deck about a topic.
type Presentation struct {
	Topic  string  `json:"topic"`
	Slides []Slide `json:"slides"`
}

// QuizQuestion is a multiple-choice question. CorrectAnswerIndex is 0-based
// and always within the options slice for normalized quizzes.
type QuizQuestion struct {
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
	Explanation        string   `json:"explanation"`
}

// Quiz is an ordered list of questions about a topic.
type Quiz struct {
	Topic     string         `json:"topic"`
	Questions []QuizQuestion `json:"questions"`
}

// MindMapNode is a node in a recursive topic tree. Parents own their
// children; the tree is destroyed as a unit.
type MindMapNode struct {
	ID       string        `json:"id"`
	Label    string        `json:"label"`
	Children []MindMapNode `json:"children,omitempty"`
}

// Walk visits the node and all descendants in pre-order.
func (n *MindMapNode) Walk(fn func(*MindMapNode)) {
	fn(n)
	for i := range n.Children {
		n.Children[i].Walk(fn)
	}
}

// Competency is one grading criterion of an essay evaluation.
type Competency struct {
	Name    string `json:"name"`
	Score   int    `json:"score"` // 0-200
	Comment string `json:"comment"`
}

// EssayResult is the graded outcome of an essay submission. Score and the
// per-competency scores are supplied independently by the model; their sum
// is not cross-checked.
type EssayResult struct {
	Score            int          `json:"score"` // 0-1000
	Feedback         string       `json:"feedback"`
	Competencies     []Competency `json:"competencies"`
	CorrectedVersion string       `json:"correctedVersion"`
}

// Source is a citation attached to a grounded search answer.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// SearchResult is a grounded search answer. Sources may be empty when the
// provider returned no grounding metadata.
type SearchResult struct {
	Text    string   `json:"text"`
	Sources []Source `json:"sources"`
}
