package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	openai "github.com/sashabaranov/go-openai"
)

// Roughly 3000 tokens.
const openaiMaxTranscriptChars = 12000

type OpenAISummarizer struct {
	client *openai.Client
	model  string
}

func NewOpenAISummarizer(apiKey, model string) *OpenAISummarizer {
	return &OpenAISummarizer{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (s *OpenAISummarizer) Model() string { return s.model }

func (s *OpenAISummarizer) Summarize(ctx context.Context, title, transcript string) (*SummaryResult, error) {
	prompt := buildSummaryPrompt(title, truncateTranscript(transcript, openaiMaxTranscriptChars))

	var raw string
	err := withBackoff(ctx, func() error {
		resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "You are a helpful assistant that summarizes and categorizes video content.",
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.7,
			MaxTokens:   500,
		})
		if err != nil {
			return classifyOpenAIError(err)
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("OpenAI returned no choices")
		}
		raw = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	summary, category := ParseSummaryResponse(raw)
	log.Printf("Generated summary with OpenAI - Category: %s", category)

	return &SummaryResult{Summary: summary, Category: category}, nil
}

// classifyOpenAIError marks rate limits and server faults as transient
// so the backoff loop retries them; everything else is permanent.
func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500 {
			return Transient(err)
		}
		return err
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode == 429 || reqErr.HTTPStatusCode >= 500 {
			return Transient(err)
		}
		return err
	}

	// Network-level failures are worth one more try.
	return Transient(err)
}
