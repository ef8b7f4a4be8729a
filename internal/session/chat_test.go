package session

import (
	"testing"

	"github.com/RichardoC/Tutor-i/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatSessionStartsWithGreeting(t *testing.T) {
	s := NewChatStore().Create()
	history := s.History()
	require.Len(t, history, 1)
	assert.Equal(t, models.RoleModel, history[0].Role)
	assert.Equal(t, greeting, history[0].Content)
	assert.NotZero(t, history[0].Timestamp)
}

func TestChatSessionAppendsInOrder(t *testing.T) {
	s := NewChatStore().Create()

	user := s.AppendUser("Quanto é 2+2?", "")
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotZero(t, user.Timestamp)

	model := s.AppendModel("2+2 = 4. Vamos ver por quê...")
	assert.Equal(t, models.RoleModel, model.Role)

	history := s.History()
	require.Len(t, history, 3)
	assert.Equal(t, []string{models.RoleModel, models.RoleUser, models.RoleModel},
		[]string{history[0].Role, history[1].Role, history[2].Role})
}

func TestChatSessionKeepsImageAttachment(t *testing.T) {
	s := NewChatStore().Create()
	msg := s.AppendUser("Resolva este exercício", "data:image/jpeg;base64,AAAA")
	assert.Equal(t, "data:image/jpeg;base64,AAAA", msg.Image)
	assert.Equal(t, "data:image/jpeg;base64,AAAA", s.History()[1].Image)
}

func TestChatHistoryIsACopy(t *testing.T) {
	s := NewChatStore().Create()
	history := s.History()
	history[0].Content = "mutated"
	assert.Equal(t, greeting, s.History()[0].Content)
}

func TestChatStoreLifecycle(t *testing.T) {
	st := NewChatStore()
	s := st.Create()

	got, ok := st.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)

	st.Delete(s.ID)
	_, ok = st.Get(s.ID)
	assert.False(t, ok)
	assert.Error(t, s.Context().Err())
}
