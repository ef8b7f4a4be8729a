package session

import (
	"testing"

	"github.com/RichardoC/Tutor-i/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleQuiz() *models.Quiz {
	return &models.Quiz{
		Topic: "História do Brasil",
		Questions: []models.QuizQuestion{
			{Question: "Ano da independência?", Options: []string{"1808", "1822", "1889", "1500"}, CorrectAnswerIndex: 1, Explanation: "7 de setembro de 1822."},
			{Question: "Primeiro imperador?", Options: []string{"Dom Pedro I", "Dom Pedro II", "Dom João VI", "Deodoro"}, CorrectAnswerIndex: 0, Explanation: "Dom Pedro I."},
		},
	}
}

func TestQuizGameProgression(t *testing.T) {
	st := NewQuizStore()
	g := st.Create(sampleQuiz())

	state := g.Snapshot()
	assert.Equal(t, 0, state.QuestionIndex)
	assert.Equal(t, 2, state.TotalQuestions)
	assert.Equal(t, -1, state.Selected)
	assert.False(t, state.Finished)

	// Correct answer scores exactly one point.
	correct, accepted, err := g.Answer(1)
	require.NoError(t, err)
	assert.True(t, correct)
	assert.True(t, accepted)
	assert.Equal(t, 1, g.Snapshot().Score)

	g.Next()
	assert.Equal(t, 1, g.Snapshot().QuestionIndex)

	// Wrong answer leaves the score untouched.
	correct, accepted, err = g.Answer(3)
	require.NoError(t, err)
	assert.False(t, correct)
	assert.True(t, accepted)
	assert.Equal(t, 1, g.Snapshot().Score)

	// Next on the last question finishes the game.
	g.Next()
	state = g.Snapshot()
	assert.True(t, state.Finished)
	assert.Equal(t, 1, state.Score)
}

func TestQuizAnswerIsOneShot(t *testing.T) {
	g := NewQuizStore().Create(sampleQuiz())

	_, accepted, err := g.Answer(0)
	require.NoError(t, err)
	require.True(t, accepted)

	// Further selections on the answered question are ignored, even the
	// correct one.
	correct, accepted, err := g.Answer(1)
	require.NoError(t, err)
	assert.False(t, accepted)
	assert.False(t, correct)
	assert.Equal(t, 0, g.Snapshot().Score)
	assert.Equal(t, 0, g.Snapshot().Selected)
}

func TestQuizAnswerOutOfRange(t *testing.T) {
	g := NewQuizStore().Create(sampleQuiz())
	_, _, err := g.Answer(4)
	assert.Error(t, err)
	_, _, err = g.Answer(-1)
	assert.Error(t, err)
	assert.Equal(t, -1, g.Snapshot().Selected, "a rejected answer records nothing")
}

func TestQuizNextRequiresAnswer(t *testing.T) {
	g := NewQuizStore().Create(sampleQuiz())
	g.Next()
	assert.Equal(t, 0, g.Snapshot().QuestionIndex, "next on an unanswered question is a no-op")
}

func TestQuizFinishedAcceptsNothing(t *testing.T) {
	g := NewQuizStore().Create(&models.Quiz{
		Topic: "x",
		Questions: []models.QuizQuestion{
			{Question: "q", Options: []string{"a", "b"}, CorrectAnswerIndex: 0, Explanation: "e"},
		},
	})
	_, _, err := g.Answer(0)
	require.NoError(t, err)
	g.Next()
	require.True(t, g.Snapshot().Finished)

	_, accepted, err := g.Answer(0)
	require.NoError(t, err)
	assert.False(t, accepted)
	g.Next() // no panic past the end
	assert.True(t, g.Snapshot().Finished)
}

func TestQuizStoreLifecycle(t *testing.T) {
	st := NewQuizStore()
	g := st.Create(sampleQuiz())

	got, ok := st.Get(g.ID)
	require.True(t, ok)
	assert.Same(t, g, got)

	st.Delete(g.ID)
	_, ok = st.Get(g.ID)
	assert.False(t, ok)
}
