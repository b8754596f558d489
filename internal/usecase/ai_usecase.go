package usecase

import (
	"context"
	"encoding/json"
	"strings"

	"marketly/internal/domain/entity"
	"marketly/internal/domain/service"
	"marketly/internal/infrastructure/ratelimit"
	"marketly/pkg/errors"
	"marketly/pkg/logger"
)

const (
	maxAnalyzeImages = 4
	codeAINoResult   = "AI_NO_RESULT"
)

const priceAnalysisPrompt = `You are a second-hand marketplace pricing assistant.
Look at the photos of one item for sale and reply with a single JSON object, no markdown, using exactly this shape:
{"itemName": string, "category": string, "conditionScore": integer 1-10, "demand": "low" | "medium" | "high",
 "priceRange": {"min": number, "max": number, "currency": "IDR"}, "insights": [string], "reasoning": string}
Base the price range on typical resale prices for the visible condition.`

type AIUseCase struct {
	ai      service.AIService
	limiter RateLimiter
}

func NewAIUseCase(ai service.AIService, limiter RateLimiter) *AIUseCase {
	return &AIUseCase{
		ai:      ai,
		limiter: limiter,
	}
}

// AnalyzePhotos asks the model for a structured price estimate. Any failure to
// get a usable answer is reported as AI_NO_RESULT so clients can retry.
func (uc *AIUseCase) AnalyzePhotos(ctx context.Context, userID string, images []service.ImageInput) (*entity.PriceAnalysis, error) {
	if len(images) == 0 || len(images) > maxAnalyzeImages {
		return nil, errors.BadRequest("Provide between 1 and 4 photos", nil)
	}
	if uc.ai == nil {
		return nil, errors.Internal("Image analysis is not configured", nil)
	}

	if allowed, _ := uc.limiter.Allow(userID, ratelimit.ActionAnalyze); !allowed {
		return nil, errors.TooManyRequests("Too many analysis requests. Please try again later")
	}

	reply, err := uc.ai.GenerateFromImages(ctx, priceAnalysisPrompt, images)
	if err != nil {
		logger.Warn("Price analysis request failed for %s: %v", userID, err)
		return nil, errors.Unprocessable(codeAINoResult, "Could not analyze the photos, please retry", err)
	}

	analysis, err := ParsePriceAnalysis(reply)
	if err != nil {
		logger.Warn("Unusable price analysis reply for %s: %v", userID, err)
		return nil, errors.Unprocessable(codeAINoResult, "Could not analyze the photos, please retry", err)
	}
	return analysis, nil
}

// ParsePriceAnalysis extracts and normalizes the JSON object embedded in a
// model reply.
func ParsePriceAnalysis(reply string) (*entity.PriceAnalysis, error) {
	raw := ExtractJSONObject(reply)
	if raw == "" {
		return nil, errors.Unprocessable(codeAINoResult, "No JSON object in reply", nil)
	}

	var analysis entity.PriceAnalysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return nil, err
	}
	if strings.TrimSpace(analysis.ItemName) == "" {
		return nil, errors.Unprocessable(codeAINoResult, "Reply has no item name", nil)
	}

	if analysis.ConditionScore < 1 {
		analysis.ConditionScore = 1
	}
	if analysis.ConditionScore > 10 {
		analysis.ConditionScore = 10
	}

	analysis.Demand = strings.ToLower(strings.TrimSpace(analysis.Demand))
	switch analysis.Demand {
	case "low", "medium", "high":
	default:
		analysis.Demand = "medium"
	}

	if analysis.PriceRange.Min > analysis.PriceRange.Max {
		analysis.PriceRange.Min, analysis.PriceRange.Max = analysis.PriceRange.Max, analysis.PriceRange.Min
	}
	if analysis.PriceRange.Currency == "" {
		analysis.PriceRange.Currency = defaultCurrency
	}
	if analysis.Insights == nil {
		analysis.Insights = []string{}
	}

	return &analysis, nil
}

// ExtractJSONObject returns the first balanced {...} substring of text, or ""
// when there is none. Braces inside JSON strings are ignored.
func ExtractJSONObject(text string) string {
	start := strings.IndexByte(text, '{')
	for start >= 0 {
		if end := matchBrace(text, start); end > 0 {
			return text[start : end+1]
		}
		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return ""
}

func matchBrace(text string, start int) int {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
