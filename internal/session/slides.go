package session

import (
	"context"
	"sync"

	"github.com/RichardoC/Tutor-i/internal/models"
	"github.com/google/uuid"
)

// SlideSession is the viewer state for one generated presentation: a bounded
// slide index plus a per-slide pending flag that keeps image generation
// idempotent while a request for that slide is in flight.
type SlideSession struct {
	ID string

	mu      sync.Mutex
	pres    *models.Presentation
	index   int
	pending map[int]bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// Context returns the session's lifetime context. Image generation runs
// under it so closing the session abandons outstanding requests.
func (s *SlideSession) Context() context.Context { return s.ctx }

// Snapshot returns a copy of the presentation safe to render or export while
// image results keep arriving.
func (s *SlideSession) Snapshot() models.Presentation {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := models.Presentation{Topic: s.pres.Topic, Slides: make([]models.Slide, len(s.pres.Slides))}
	copy(p.Slides, s.pres.Slides)
	return p
}

// Index returns the current slide index.
func (s *SlideSession) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Navigate moves the index by delta, clamped to the slide range, and returns
// the resulting index.
func (s *SlideSession) Navigate(delta int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = clamp(s.index+delta, 0, len(s.pres.Slides)-1)
	return s.index
}

// SetIndex jumps to a slide, clamped to the slide range, and returns the
// resulting index.
func (s *SlideSession) SetIndex(i int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = clamp(i, 0, len(s.pres.Slides)-1)
	return s.index
}

// ImagePrompt returns the generation prompt for slide i.
func (s *SlideSession) ImagePrompt(i int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.pres.Slides) {
		return "", false
	}
	return s.pres.Slides[i].ImagePrompt, true
}

// MissingImages lists slides that have no image and no generation pending.
func (s *SlideSession) MissingImages() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var missing []int
	for i := range s.pres.Slides {
		if s.pres.Slides[i].GeneratedImageBase64 == "" && !s.pending[i] {
			missing = append(missing, i)
		}
	}
	return missing
}

// BeginImage marks slide i as having a generation in flight. It returns
// false, and the caller must not start a request, when the index is out of
// range, the slide already has an image, a generation is already pending, or
// the session is closed.
func (s *SlideSession) BeginImage(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx.Err() != nil || i < 0 || i >= len(s.pres.Slides) {
		return false
	}
	if s.pres.Slides[i].GeneratedImageBase64 != "" || s.pending[i] {
		return false
	}
	s.pending[i] = true
	return true
}

// CompleteImage stores a generated image in its slide slot and clears the
// pending flag. Results arriving after the session closed are discarded.
func (s *SlideSession) CompleteImage(i int, dataURI string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, i)
	if s.ctx.Err() != nil || i < 0 || i >= len(s.pres.Slides) {
		return
	}
	s.pres.Slides[i].GeneratedImageBase64 = dataURI
}

// AbortImage clears the pending flag without writing, for failed or empty
// generations.
func (s *SlideSession) AbortImage(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, i)
}

// ImagePending reports whether slide i has a generation in flight.
func (s *SlideSession) ImagePending(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending[i]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SlideStore keeps live slide viewer sessions.
type SlideStore struct {
	mu       sync.Mutex
	sessions map[string]*SlideSession
}

func NewSlideStore() *SlideStore {
	return &SlideStore{sessions: make(map[string]*SlideSession)}
}

// Create opens a viewer on a freshly generated presentation, at slide 0.
func (st *SlideStore) Create(p *models.Presentation) *SlideSession {
	ctx, cancel := context.WithCancel(context.Background())
	s := &SlideSession{
		ID:      uuid.NewString(),
		pres:    p,
		pending: make(map[int]bool),
		ctx:     ctx,
		cancel:  cancel,
	}
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

func (st *SlideStore) Get(id string) (*SlideSession, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Delete closes the session; in-flight image generations are cancelled and
// their late results dropped.
func (st *SlideStore) Delete(id string) {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()
	if ok {
		s.cancel()
	}
}
