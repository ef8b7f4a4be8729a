package session

import (
	"fmt"
	"sync"

	"github.com/RichardoC/Tutor-i/internal/models"
	"github.com/google/uuid"
)

// QuizGame tracks progress through a generated quiz. Answering is a one-shot
// transition per question: once a selection is recorded, later selections on
// the same question are ignored.
type QuizGame struct {
	ID string

	mu       sync.Mutex
	quiz     *models.Quiz
	current  int
	score    int
	selected []int // -1 while unanswered
	finished bool
}

// QuizState is a snapshot of the game for rendering.
type QuizState struct {
	Topic          string              `json:"topic"`
	QuestionIndex  int                 `json:"questionIndex"`
	TotalQuestions int                 `json:"totalQuestions"`
	Question       models.QuizQuestion `json:"question"`
	Selected       int                 `json:"selected"` // -1 while unanswered
	Score          int                 `json:"score"`
	Finished       bool                `json:"finished"`
}

// Answer records a selection for the current question. It reports whether the
// selection was correct and whether it was accepted; a question that already
// has an answer, or a finished game, accepts nothing.
func (g *QuizGame) Answer(index int) (correct, accepted bool, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.finished {
		return false, false, nil
	}
	q := g.quiz.Questions[g.current]
	if index < 0 || index >= len(q.Options) {
		return false, false, fmt.Errorf("answer index %d outside %d options", index, len(q.Options))
	}
	if g.selected[g.current] != -1 {
		return false, false, nil
	}
	g.selected[g.current] = index
	correct = index == q.CorrectAnswerIndex
	if correct {
		g.score++
	}
	return correct, true, nil
}

// Next advances to the following question, or finishes the game when the
// current question is the last one. Advancing an unanswered question is a
// no-op.
func (g *QuizGame) Next() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.finished || g.selected[g.current] == -1 {
		return
	}
	if g.current < len(g.quiz.Questions)-1 {
		g.current++
	} else {
		g.finished = true
	}
}

// Snapshot returns the current game state.
func (g *QuizGame) Snapshot() QuizState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return QuizState{
		Topic:          g.quiz.Topic,
		QuestionIndex:  g.current,
		TotalQuestions: len(g.quiz.Questions),
		Question:       g.quiz.Questions[g.current],
		Selected:       g.selected[g.current],
		Score:          g.score,
		Finished:       g.finished,
	}
}

// QuizStore keeps live quiz games.
type QuizStore struct {
	mu    sync.Mutex
	games map[string]*QuizGame
}

func NewQuizStore() *QuizStore {
	return &QuizStore{games: make(map[string]*QuizGame)}
}

// Create starts a game at the first question of a normalized quiz.
func (st *QuizStore) Create(quiz *models.Quiz) *QuizGame {
	selected := make([]int, len(quiz.Questions))
	for i := range selected {
		selected[i] = -1
	}
	g := &QuizGame{
		ID:       uuid.NewString(),
		quiz:     quiz,
		selected: selected,
	}
	st.mu.Lock()
	st.games[g.ID] = g
	st.mu.Unlock()
	return g
}

func (st *QuizStore) Get(id string) (*QuizGame, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	g, ok := st.games[id]
	return g, ok
}

// Delete drops a game. Quiz play has no in-flight work to cancel; the game
// simply becomes unreachable.
func (st *QuizStore) Delete(id string) {
	st.mu.Lock()
	delete(st.games, id)
	st.mu.Unlock()
}
