// Package gemini is the gateway to the generative model provider. It exposes
// one method per capability: conversation, image analysis, structured
// generation (slides, quiz, mind map, essay grade), image synthesis and
// grounded search. All calls are plain request/response; nothing is retried
// and nothing is cached.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RichardoC/Tutor-i/internal/config"
	"github.com/RichardoC/Tutor-i/internal/models"
	"github.com/RichardoC/Tutor-i/internal/normalize"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// ErrEmptyResponse is returned when the provider answered without any usable
// content for a request that requires some.
var ErrEmptyResponse = errors.New("empty response from model")

// ContentGenerator is the slice of the provider client the service needs.
// *genai.Models satisfies it; tests substitute a canned generator.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Service issues generation requests against a configured provider.
type Service struct {
	gen        ContentGenerator
	model      string
	imageModel string
	timeout    time.Duration
	logger     *zap.Logger
}

// New builds a Service backed by the live Gemini API.
func New(ctx context.Context, cfg config.GeminiConfig, logger *zap.Logger) (*Service, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return NewWithGenerator(client.Models, cfg, logger), nil
}

// NewWithGenerator builds a Service on an arbitrary generator. Used by tests
// to substitute a deterministic oracle.
func NewWithGenerator(gen ContentGenerator, cfg config.GeminiConfig, logger *zap.Logger) *Service {
	return &Service{
		gen:        gen,
		model:      cfg.Model,
		imageModel: cfg.ImageModel,
		timeout:    time.Duration(cfg.Timeout),
		logger:     logger,
	}
}

func (s *Service) generate(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.gen.GenerateContent(ctx, model, contents, cfg)
}

// Converse continues a tutoring conversation. History carries the prior
// user/model turns; imageDataURI optionally attaches an image to the new
// message as inline binary content in the same turn.
func (s *Service) Converse(ctx context.Context, history []models.ChatMessage, message, imageDataURI string) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, m := range history {
		role := genai.Role(genai.RoleUser)
		if m.Role == models.RoleModel {
			role = genai.Role(genai.RoleModel)
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	parts := []*genai.Part{}
	if imageDataURI != "" {
		mimeType, data, err := decodeDataURI(imageDataURI)
		if err != nil {
			return "", fmt.Errorf("invalid image attachment: %w", err)
		}
		parts = append(parts, genai.NewPartFromBytes(data, mimeType))
	}
	parts = append(parts, genai.NewPartFromText(message))
	contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))

	resp, err := s.generate(ctx, s.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
	})
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	if text := resp.Text(); text != "" {
		return text, nil
	}
	return chatFallback, nil
}

// AnalyzeImage runs a one-shot multimodal request, no history. An empty
// prompt selects the default analysis instruction.
func (s *Service) AnalyzeImage(ctx context.Context, imageDataURI, prompt string) (string, error) {
	if prompt == "" {
		prompt = defaultAnalyzePrompt
	}
	mimeType, data, err := decodeDataURI(imageDataURI)
	if err != nil {
		return "", fmt.Errorf("invalid image: %w", err)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(data, mimeType),
			genai.NewPartFromText(systemInstruction + "\n\nTarefa: " + prompt),
		}, genai.RoleUser),
	}
	resp, err := s.generate(ctx, s.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("image analysis failed: %w", err)
	}
	if text := resp.Text(); text != "" {
		return text, nil
	}
	return analyzeFallback, nil
}

// generateStructured requests schema-constrained JSON and returns the raw
// document. An answer with no text is an ErrEmptyResponse.
func (s *Service) generateStructured(ctx context.Context, prompt string, schema *genai.Schema) ([]byte, error) {
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	resp, err := s.generate(ctx, s.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		return nil, fmt.Errorf("structured generation failed: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return nil, ErrEmptyResponse
	}
	return []byte(text), nil
}

// GeneratePresentation builds a full slide deck for a topic. Slides come back
// without images; those are filled in later, one GenerateImage call each.
func (s *Service) GeneratePresentation(ctx context.Context, topic string) (*models.Presentation, error) {
	raw, err := s.generateStructured(ctx, slidePrompt(topic), slideSchema())
	if err != nil {
		return nil, err
	}
	return normalize.ParsePresentation(raw)
}

// GenerateQuiz builds a multiple-choice quiz for a topic.
func (s *Service) GenerateQuiz(ctx context.Context, topic string) (*models.Quiz, error) {
	raw, err := s.generateStructured(ctx, quizPrompt(topic), quizSchema())
	if err != nil {
		return nil, err
	}
	return normalize.ParseQuiz(raw)
}

// GenerateMindMap builds a hierarchical topic tree rooted at the topic.
func (s *Service) GenerateMindMap(ctx context.Context, topic string) (*models.MindMapNode, error) {
	raw, err := s.generateStructured(ctx, mindMapPrompt(topic), mindMapSchema())
	if err != nil {
		return nil, err
	}
	return normalize.ParseMindMap(raw)
}

// GradeEssay evaluates an essay against a theme using ENEM-like criteria.
func (s *Service) GradeEssay(ctx context.Context, theme, essay string) (*models.EssayResult, error) {
	raw, err := s.generateStructured(ctx, essayPrompt(theme, essay), essaySchema())
	if err != nil {
		return nil, err
	}
	return normalize.ParseEssay(raw)
}

// GenerateImage synthesizes an image for a prompt and returns it as a data
// URI. A clean run that produced no image returns ("", nil); only transport
// failures are errors.
func (s *Service) GenerateImage(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{genai.NewContentFromText(prompt+imageStyleSuffix, genai.RoleUser)}
	resp, err := s.generate(ctx, s.imageModel, contents, &genai.GenerateContentConfig{
		ImageConfig: &genai.ImageConfig{AspectRatio: "16:9"},
	})
	if err != nil {
		return "", fmt.Errorf("image generation failed: %w", err)
	}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return encodeDataURI(part.InlineData.MIMEType, part.InlineData.Data), nil
			}
		}
	}
	s.logger.Debug("image generation produced no inline image", zap.String("prompt", prompt))
	return "", nil
}

// SearchLibrary answers a query with search-grounded text plus citations
// extracted from the grounding metadata. No grounding means an empty source
// list, not a failure.
func (s *Service) SearchLibrary(ctx context.Context, query string) (*models.SearchResult, error) {
	contents := []*genai.Content{genai.NewContentFromText(searchPrompt(query), genai.RoleUser)}
	resp, err := s.generate(ctx, s.model, contents, &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	})
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	result := &models.SearchResult{
		Text:    searchFallback,
		Sources: []models.Source{},
	}
	if text := resp.Text(); text != "" {
		result.Text = text
	}
	if len(resp.Candidates) > 0 && resp.Candidates[0].GroundingMetadata != nil {
		for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
			if chunk.Web == nil {
				continue
			}
			title := chunk.Web.Title
			if title == "" {
				title = "Fonte Web"
			}
			result.Sources = append(result.Sources, models.Source{Title: title, URI: chunk.Web.URI})
		}
	}
	return result, nil
}
