package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Gemini accepts larger prompts than the OpenAI chat models.
const geminiMaxTranscriptChars = 15000

type GeminiSummarizer struct {
	client *genai.Client
	model  *genai.GenerativeModel
	name   string
}

func NewGeminiSummarizer(ctx context.Context, apiKey, modelName string) (*GeminiSummarizer, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.7)

	return &GeminiSummarizer{
		client: client,
		model:  model,
		name:   modelName,
	}, nil
}

func (s *GeminiSummarizer) Model() string { return s.name }

func (s *GeminiSummarizer) Close() {
	if s.client != nil {
		s.client.Close()
	}
}

func (s *GeminiSummarizer) Summarize(ctx context.Context, title, transcript string) (*SummaryResult, error) {
	prompt := buildSummaryPrompt(title, truncateTranscript(transcript, geminiMaxTranscriptChars))

	var raw string
	err := withBackoff(ctx, func() error {
		resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return classifyGeminiError(err)
		}
		raw = extractGeminiText(resp)
		if raw == "" {
			return fmt.Errorf("Gemini returned empty response")
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	summary, category := ParseSummaryResponse(raw)
	log.Printf("Generated summary with Gemini - Category: %s", category)

	return &SummaryResult{Summary: summary, Category: category}, nil
}

func extractGeminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var out string
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				out += string(text)
			}
		}
	}
	return out
}

func classifyGeminiError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == 429 || apiErr.Code >= 500 {
			return Transient(err)
		}
		return err
	}
	return Transient(err)
}
