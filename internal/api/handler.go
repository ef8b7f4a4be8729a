// Package api exposes the tutoring tools over HTTP. Handlers collect input,
// invoke one gateway capability, feed the result through the session stores
// and render JSON. Provider failures surface as a generic 502; details stay
// in the log.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/RichardoC/Tutor-i/internal/export"
	"github.com/RichardoC/Tutor-i/internal/models"
	"github.com/RichardoC/Tutor-i/internal/session"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// backfillConcurrency bounds parallel image generations in a bulk backfill.
const backfillConcurrency = 2

// Gateway is the capability surface the handlers need from the model
// provider. gemini.Service satisfies it; tests use a fake.
type Gateway interface {
	Converse(ctx context.Context, history []models.ChatMessage, message, imageDataURI string) (string, error)
	AnalyzeImage(ctx context.Context, imageDataURI, prompt string) (string, error)
	GeneratePresentation(ctx context.Context, topic string) (*models.Presentation, error)
	GenerateQuiz(ctx context.Context, topic string) (*models.Quiz, error)
	GenerateMindMap(ctx context.Context, topic string) (*models.MindMapNode, error)
	GradeEssay(ctx context.Context, theme, essay string) (*models.EssayResult, error)
	GenerateImage(ctx context.Context, prompt string) (string, error)
	SearchLibrary(ctx context.Context, query string) (*models.SearchResult, error)
}

type Handler struct {
	gw      Gateway
	chats   *session.ChatStore
	quizzes *session.QuizStore
	slides  *session.SlideStore
	logger  *zap.Logger
}

func NewHandler(gw Gateway, chats *session.ChatStore, quizzes *session.QuizStore, slides *session.SlideStore, logger *zap.Logger) *Handler {
	return &Handler{
		gw:      gw,
		chats:   chats,
		quizzes: quizzes,
		slides:  slides,
		logger:  logger,
	}
}

// Register wires every route onto the router.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/api/chat", h.CreateChat).Methods(http.MethodPost)
	r.HandleFunc("/api/chat/{id}", h.GetChat).Methods(http.MethodGet)
	r.HandleFunc("/api/chat/{id}", h.DeleteChat).Methods(http.MethodDelete)
	r.HandleFunc("/api/chat/{id}/message", h.SendMessage).Methods(http.MethodPost)
	r.HandleFunc("/api/analyze", h.Analyze).Methods(http.MethodPost)

	r.HandleFunc("/api/slides", h.CreateSlides).Methods(http.MethodPost)
	r.HandleFunc("/api/slides/{id}", h.GetSlides).Methods(http.MethodGet)
	r.HandleFunc("/api/slides/{id}", h.DeleteSlides).Methods(http.MethodDelete)
	r.HandleFunc("/api/slides/{id}/navigate", h.NavigateSlides).Methods(http.MethodPost)
	r.HandleFunc("/api/slides/{id}/image", h.GenerateSlideImage).Methods(http.MethodPost)
	r.HandleFunc("/api/slides/{id}/images", h.BackfillSlideImages).Methods(http.MethodPost)
	r.HandleFunc("/api/slides/{id}/pdf", h.DownloadPDF).Methods(http.MethodGet)
	r.HandleFunc("/api/slides/{id}/data", h.DownloadJSON).Methods(http.MethodGet)

	r.HandleFunc("/api/quiz", h.CreateQuiz).Methods(http.MethodPost)
	r.HandleFunc("/api/quiz/{id}", h.GetQuiz).Methods(http.MethodGet)
	r.HandleFunc("/api/quiz/{id}/answer", h.AnswerQuiz).Methods(http.MethodPost)
	r.HandleFunc("/api/quiz/{id}/next", h.NextQuestion).Methods(http.MethodPost)

	r.HandleFunc("/api/mindmap", h.CreateMindMap).Methods(http.MethodPost)
	r.HandleFunc("/api/essay", h.GradeEssay).Methods(http.MethodPost)
	r.HandleFunc("/api/library/search", h.SearchLibrary).Methods(http.MethodGet)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

// --- Chat ---

type chatSessionResponse struct {
	ID       string               `json:"id"`
	Messages []models.ChatMessage `json:"messages"`
}

func (h *Handler) CreateChat(w http.ResponseWriter, r *http.Request) {
	s := h.chats.Create()
	h.writeJSON(w, http.StatusCreated, chatSessionResponse{ID: s.ID, Messages: s.History()})
}

func (h *Handler) GetChat(w http.ResponseWriter, r *http.Request) {
	s, ok := h.chats.Get(mux.Vars(r)["id"])
	if !ok {
		http.Error(w, "Chat session not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, chatSessionResponse{ID: s.ID, Messages: s.History()})
}

type messageRequest struct {
	Content string `json:"content"`
	Image   string `json:"image,omitempty"`
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	s, ok := h.chats.Get(mux.Vars(r)["id"])
	if !ok {
		http.Error(w, "Chat session not found", http.StatusNotFound)
		return
	}
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Content == "" && req.Image == "" {
		http.Error(w, "Message needs content or an image", http.StatusBadRequest)
		return
	}

	history := s.History()
	s.AppendUser(req.Content, req.Image)

	// The generation runs under the session context, so closing the chat
	// abandons it.
	reply, err := h.gw.Converse(s.Context(), history, req.Content, req.Image)
	if err != nil {
		h.logger.Error("chat generation failed", zap.String("session", s.ID), zap.Error(err))
		http.Error(w, "Failed to generate a reply", http.StatusBadGateway)
		return
	}
	h.writeJSON(w, http.StatusOK, s.AppendModel(reply))
}

func (h *Handler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	h.chats.Delete(mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}

// --- Image analysis ---

type analyzeRequest struct {
	Image  string `json:"image"`
	Prompt string `json:"prompt,omitempty"`
}

func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Image == "" {
		http.Error(w, "An image is required", http.StatusBadRequest)
		return
	}
	text, err := h.gw.AnalyzeImage(r.Context(), req.Image, req.Prompt)
	if err != nil {
		h.logger.Error("image analysis failed", zap.Error(err))
		http.Error(w, "Failed to analyze the image", http.StatusBadGateway)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

// --- Slides ---

type topicRequest struct {
	Topic string `json:"topic"`
}

type slideSessionResponse struct {
	ID           string              `json:"id"`
	Presentation models.Presentation `json:"presentation"`
	Index        int                 `json:"index"`
}

func (h *Handler) CreateSlides(w http.ResponseWriter, r *http.Request) {
	var req topicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Topic == "" {
		http.Error(w, "A topic is required", http.StatusBadRequest)
		return
	}
	pres, err := h.gw.GeneratePresentation(r.Context(), req.Topic)
	if err != nil {
		h.logger.Error("slide generation failed", zap.String("topic", req.Topic), zap.Error(err))
		http.Error(w, "Failed to generate slides", http.StatusBadGateway)
		return
	}
	s := h.slides.Create(pres)
	h.writeJSON(w, http.StatusCreated, slideSessionResponse{ID: s.ID, Presentation: s.Snapshot(), Index: s.Index()})
}

func (h *Handler) GetSlides(w http.ResponseWriter, r *http.Request) {
	s, ok := h.slides.Get(mux.Vars(r)["id"])
	if !ok {
		http.Error(w, "Slide session not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, slideSessionResponse{ID: s.ID, Presentation: s.Snapshot(), Index: s.Index()})
}

func (h *Handler) DeleteSlides(w http.ResponseWriter, r *http.Request) {
	h.slides.Delete(mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}

type navigateRequest struct {
	Direction string `json:"direction,omitempty"` // next or prev
	Index     *int   `json:"index,omitempty"`
}

func (h *Handler) NavigateSlides(w http.ResponseWriter, r *http.Request) {
	s, ok := h.slides.Get(mux.Vars(r)["id"])
	if !ok {
		http.Error(w, "Slide session not found", http.StatusNotFound)
		return
	}
	var req navigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	var index int
	switch {
	case req.Index != nil:
		index = s.SetIndex(*req.Index)
	case req.Direction == "next":
		index = s.Navigate(1)
	case req.Direction == "prev":
		index = s.Navigate(-1)
	default:
		http.Error(w, "Direction must be next or prev, or an index given", http.StatusBadRequest)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]int{"index": index})
}

type slideImageRequest struct {
	Index int `json:"index"`
}

// GenerateSlideImage starts an asynchronous image generation for one slide.
// While a generation for that slide is pending the call is a no-op, so
// repeated clicks never stack requests.
func (h *Handler) GenerateSlideImage(w http.ResponseWriter, r *http.Request) {
	s, ok := h.slides.Get(mux.Vars(r)["id"])
	if !ok {
		http.Error(w, "Slide session not found", http.StatusNotFound)
		return
	}
	var req slideImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	prompt, ok := s.ImagePrompt(req.Index)
	if !ok {
		http.Error(w, "Slide index out of range", http.StatusBadRequest)
		return
	}
	if !s.BeginImage(req.Index) {
		// Already generated or already pending.
		h.writeJSON(w, http.StatusAccepted, map[string]any{"index": req.Index, "pending": s.ImagePending(req.Index)})
		return
	}

	go h.generateImageInto(s, req.Index, prompt)
	h.writeJSON(w, http.StatusAccepted, map[string]any{"index": req.Index, "pending": true})
}

// generateImageInto runs under the session context so a closed session
// cancels the request and discards the result.
func (h *Handler) generateImageInto(s *session.SlideSession, index int, prompt string) {
	dataURI, err := h.gw.GenerateImage(s.Context(), prompt)
	if err != nil {
		h.logger.Error("slide image generation failed",
			zap.String("session", s.ID), zap.Int("slide", index), zap.Error(err))
		s.AbortImage(index)
		return
	}
	if dataURI == "" {
		h.logger.Warn("no image produced for slide",
			zap.String("session", s.ID), zap.Int("slide", index))
		s.AbortImage(index)
		return
	}
	s.CompleteImage(index, dataURI)
}

// BackfillSlideImages generates every missing slide image, a bounded number
// at a time. Slides with an image or a pending generation are skipped.
func (h *Handler) BackfillSlideImages(w http.ResponseWriter, r *http.Request) {
	s, ok := h.slides.Get(mux.Vars(r)["id"])
	if !ok {
		http.Error(w, "Slide session not found", http.StatusNotFound)
		return
	}

	g, _ := errgroup.WithContext(s.Context())
	g.SetLimit(backfillConcurrency)
	requested := 0
	for _, i := range s.MissingImages() {
		if !s.BeginImage(i) {
			continue
		}
		prompt, _ := s.ImagePrompt(i)
		requested++
		g.Go(func() error {
			h.generateImageInto(s, i, prompt)
			return nil
		})
	}
	_ = g.Wait()

	h.writeJSON(w, http.StatusOK, map[string]any{"requested": requested, "presentation": s.Snapshot()})
}

func (h *Handler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	s, ok := h.slides.Get(mux.Vars(r)["id"])
	if !ok {
		http.Error(w, "Slide session not found", http.StatusNotFound)
		return
	}
	pres := s.Snapshot()
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.PDFFilename(pres.Topic)+`"`)
	if err := export.WritePDF(w, &pres); err != nil {
		h.logger.Error("pdf export failed", zap.String("session", s.ID), zap.Error(err))
	}
}

func (h *Handler) DownloadJSON(w http.ResponseWriter, r *http.Request) {
	s, ok := h.slides.Get(mux.Vars(r)["id"])
	if !ok {
		http.Error(w, "Slide session not found", http.StatusNotFound)
		return
	}
	pres := s.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.JSONFilename(pres.Topic)+`"`)
	if err := export.WriteJSON(w, &pres); err != nil {
		h.logger.Error("json export failed", zap.String("session", s.ID), zap.Error(err))
	}
}

// --- Quiz ---

type quizSessionResponse struct {
	ID    string            `json:"id"`
	State session.QuizState `json:"state"`
}

func (h *Handler) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	var req topicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Topic == "" {
		http.Error(w, "A topic is required", http.StatusBadRequest)
		return
	}
	quiz, err := h.gw.GenerateQuiz(r.Context(), req.Topic)
	if err != nil {
		h.logger.Error("quiz generation failed", zap.String("topic", req.Topic), zap.Error(err))
		http.Error(w, "Failed to generate a quiz", http.StatusBadGateway)
		return
	}
	g := h.quizzes.Create(quiz)
	h.writeJSON(w, http.StatusCreated, quizSessionResponse{ID: g.ID, State: g.Snapshot()})
}

func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	g, ok := h.quizzes.Get(mux.Vars(r)["id"])
	if !ok {
		http.Error(w, "Quiz not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, quizSessionResponse{ID: g.ID, State: g.Snapshot()})
}

type answerRequest struct {
	Index int `json:"index"`
}

type answerResponse struct {
	Correct  bool              `json:"correct"`
	Accepted bool              `json:"accepted"`
	State    session.QuizState `json:"state"`
}

func (h *Handler) AnswerQuiz(w http.ResponseWriter, r *http.Request) {
	g, ok := h.quizzes.Get(mux.Vars(r)["id"])
	if !ok {
		http.Error(w, "Quiz not found", http.StatusNotFound)
		return
	}
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	correct, accepted, err := g.Answer(req.Index)
	if err != nil {
		http.Error(w, "Answer index out of range", http.StatusBadRequest)
		return
	}
	h.writeJSON(w, http.StatusOK, answerResponse{Correct: correct, Accepted: accepted, State: g.Snapshot()})
}

func (h *Handler) NextQuestion(w http.ResponseWriter, r *http.Request) {
	g, ok := h.quizzes.Get(mux.Vars(r)["id"])
	if !ok {
		http.Error(w, "Quiz not found", http.StatusNotFound)
		return
	}
	g.Next()
	h.writeJSON(w, http.StatusOK, quizSessionResponse{ID: g.ID, State: g.Snapshot()})
}

// --- Mind map / Essay / Library ---

func (h *Handler) CreateMindMap(w http.ResponseWriter, r *http.Request) {
	var req topicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Topic == "" {
		http.Error(w, "A topic is required", http.StatusBadRequest)
		return
	}
	root, err := h.gw.GenerateMindMap(r.Context(), req.Topic)
	if err != nil {
		h.logger.Error("mind map generation failed", zap.String("topic", req.Topic), zap.Error(err))
		http.Error(w, "Failed to generate a mind map", http.StatusBadGateway)
		return
	}
	h.writeJSON(w, http.StatusOK, root)
}

type essayRequest struct {
	Theme string `json:"theme"`
	Essay string `json:"essay"`
}

func (h *Handler) GradeEssay(w http.ResponseWriter, r *http.Request) {
	var req essayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Theme == "" || req.Essay == "" {
		http.Error(w, "Both theme and essay are required", http.StatusBadRequest)
		return
	}
	result, err := h.gw.GradeEssay(r.Context(), req.Theme, req.Essay)
	if err != nil {
		h.logger.Error("essay grading failed", zap.Error(err))
		http.Error(w, "Failed to grade the essay", http.StatusBadGateway)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) SearchLibrary(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		http.Error(w, "Query parameter 'q' is required", http.StatusBadRequest)
		return
	}
	result, err := h.gw.SearchLibrary(r.Context(), query)
	if err != nil {
		h.logger.Error("library search failed", zap.String("query", query), zap.Error(err))
		http.Error(w, "Search failed", http.StatusBadGateway)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}
