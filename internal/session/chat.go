// Package session holds the per-tool state machines. Everything here is
// transient, in-memory and keyed by a generated id; sessions disappear when
// closed or when the process exits. Each session owns a context that is
// cancelled on close so in-flight generation work can be abandoned.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/RichardoC/Tutor-i/internal/models"
	"github.com/google/uuid"
)

func nowMillis() int64 { return time.Now().UnixMilli() }

// greeting is the model turn every new conversation starts with.
const greeting = "Olá! Sou seu Tutor Escolar. Em que matéria posso te ajudar hoje? Posso resolver exercícios, explicar conceitos ou revisar textos."

// ChatSession is an append-only conversation log.
type ChatSession struct {
	ID string

	mu       sync.Mutex
	messages []models.ChatMessage
	ctx      context.Context
	cancel   context.CancelFunc
}

// Context returns the session's lifetime context.
func (s *ChatSession) Context() context.Context { return s.ctx }

// History returns a copy of the message log in order.
func (s *ChatSession) History() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// AppendUser records a user turn and returns it with its timestamp set.
func (s *ChatSession) AppendUser(content, image string) models.ChatMessage {
	msg := models.ChatMessage{Role: models.RoleUser, Content: content, Image: image, Timestamp: nowMillis()}
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()
	return msg
}

// AppendModel records a model turn and returns it with its timestamp set.
func (s *ChatSession) AppendModel(content string) models.ChatMessage {
	msg := models.ChatMessage{Role: models.RoleModel, Content: content, Timestamp: nowMillis()}
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()
	return msg
}

// ChatStore keeps live chat sessions.
type ChatStore struct {
	mu       sync.Mutex
	sessions map[string]*ChatSession
}

func NewChatStore() *ChatStore {
	return &ChatStore{sessions: make(map[string]*ChatSession)}
}

// Create opens a session seeded with the tutor's greeting.
func (st *ChatStore) Create() *ChatSession {
	ctx, cancel := context.WithCancel(context.Background())
	s := &ChatSession{
		ID:     uuid.NewString(),
		ctx:    ctx,
		cancel: cancel,
		messages: []models.ChatMessage{
			{Role: models.RoleModel, Content: greeting, Timestamp: nowMillis()},
		},
	}
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

func (st *ChatStore) Get(id string) (*ChatSession, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Delete closes the session and cancels any outstanding work under it.
func (st *ChatStore) Delete(id string) {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()
	if ok {
		s.cancel()
	}
}
