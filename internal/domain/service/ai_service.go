package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ImageInput is one image handed to the model. Format is the image subtype,
// e.g. "jpeg" or "png".
type ImageInput struct {
	Format string
	Data   []byte
}

type AIService interface {
	// GenerateFromImages sends one prompt plus the images and returns the
	// model's free-text reply.
	GenerateFromImages(ctx context.Context, prompt string, images []ImageInput) (string, error)
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

type GeminiAIService struct {
	client *genai.Client
	model  string
}

func NewGeminiAIService(ctx context.Context, apiKey, model string) (*GeminiAIService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %v", err)
	}

	return &GeminiAIService{
		client: client,
		model:  model,
	}, nil
}

func (s *GeminiAIService) GenerateFromImages(ctx context.Context, prompt string, images []ImageInput) (string, error) {
	parts := make([]genai.Part, 0, len(images)+1)
	parts = append(parts, genai.Text(prompt))
	for _, img := range images {
		parts = append(parts, genai.ImageData(img.Format, img.Data))
	}

	return s.generate(ctx, parts...)
}

func (s *GeminiAIService) Translate(ctx context.Context, text, targetLang string) (string, error) {
	prompt := fmt.Sprintf(
		"Translate the following chat message into the language with ISO code %q. Reply with the translation only, no quotes or commentary.\n\n%s",
		targetLang, text,
	)

	reply, err := s.generate(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

func (s *GeminiAIService) generate(ctx context.Context, parts ...genai.Part) (string, error) {
	model := s.client.GenerativeModel(s.model)

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %v", err)
	}

	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
		if sb.Len() > 0 {
			break
		}
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("gemini returned no text")
	}
	return sb.String(), nil
}

func (s *GeminiAIService) Close() error {
	return s.client.Close()
}
