package services

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/naveensalgaonker/youtubeVideoHelper/internal/config"
	"github.com/naveensalgaonker/youtubeVideoHelper/internal/repository"
)

// Summarizer turns (title, transcript) into (summary, category) through
// an external language-model provider.
type Summarizer interface {
	Summarize(ctx context.Context, title, transcript string) (*SummaryResult, error)
	Model() string
}

type SummaryResult struct {
	Summary  string
	Category string
}

// Categories a summary may be filed under. Anything the model returns
// outside this set falls back to "Other".
var ValidCategories = []string{
	"Education", "Technology", "Entertainment", "Tutorial", "News",
	"Review", "Gaming", "Music", "Science", "Business", "Health",
	"Sports", "Lifestyle", "Comedy", "Documentary", "Other",
}

func buildSummaryPrompt(title, transcript string) string {
	return fmt.Sprintf(`Analyze this YouTube video and provide a summary and category.

Video Title: %s

Transcription:
%s

Please provide:
1. A concise summary (2-3 sentences) of the main points and key takeaways
2. A category from this list: %s

Format your response EXACTLY as follows:
SUMMARY: [Your summary here]
CATEGORY: [Category name]`, title, transcript, strings.Join(ValidCategories, ", "))
}

// truncateTranscript clamps the transcript to a provider character
// budget so prompts stay within token limits.
func truncateTranscript(transcript string, maxChars int) string {
	if len(transcript) <= maxChars {
		return transcript
	}
	log.Printf("Transcription truncated from %d to %d characters", len(transcript), maxChars)
	return transcript[:maxChars] + "... [truncated]"
}

// ParseSummaryResponse extracts the labeled SUMMARY and CATEGORY fields
// from a raw model response. A missing summary falls back to the first
// few sentences of the response; an unrecognized category falls back to
// a word-boundary scan of the response, then to "Other".
func ParseSummaryResponse(response string) (string, string) {
	summary := ""
	category := "Other"

	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "SUMMARY:") {
			summary = strings.TrimSpace(strings.TrimPrefix(line, "SUMMARY:"))
		} else if strings.HasPrefix(line, "CATEGORY:") {
			category = strings.TrimSpace(strings.TrimPrefix(line, "CATEGORY:"))
		}
	}

	if summary == "" {
		sentences := strings.SplitN(response, ".", 4)
		if len(sentences) > 3 {
			sentences = sentences[:3]
		}
		summary = strings.TrimSpace(strings.Join(sentences, "."))
		if summary != "" && !strings.HasSuffix(summary, ".") {
			summary += "."
		}
	}

	if !isValidCategory(category) {
		category = scanForCategory(response)
	}

	return summary, category
}

func isValidCategory(category string) bool {
	for _, c := range ValidCategories {
		if c == category {
			return true
		}
	}
	return false
}

// scanForCategory looks for a whole-word category mention in the raw
// response. Word boundaries keep incidental substrings ("renew" does
// not match "News") from misfiring.
func scanForCategory(response string) string {
	for _, c := range ValidCategories {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(c) + `\b`)
		if re.MatchString(response) {
			return c
		}
	}
	return "Other"
}

// SummarizerFactory builds a Summarizer per request, honoring per-user
// provider settings with the server configuration as fallback. Gemini
// summarizers are cached per API key: each one holds a gRPC connection,
// which must not be rebuilt for every processed video.
type SummarizerFactory struct {
	cfg      *config.Config
	userRepo *repository.UserRepo

	mu        sync.Mutex
	gemini    map[string]*GeminiSummarizer
	newGemini func(ctx context.Context, apiKey, modelName string) (*GeminiSummarizer, error)
}

func NewSummarizerFactory(cfg *config.Config, userRepo *repository.UserRepo) *SummarizerFactory {
	return &SummarizerFactory{
		cfg:       cfg,
		userRepo:  userRepo,
		gemini:    make(map[string]*GeminiSummarizer),
		newGemini: NewGeminiSummarizer,
	}
}

// ForUser resolves the provider and API key for the given owner. A nil
// user (CLI single-tenant mode) uses the server configuration.
func (f *SummarizerFactory) ForUser(ctx context.Context, userID *uuid.UUID) (Summarizer, error) {
	provider := f.cfg.AIProvider
	openaiKey := f.cfg.OpenAIAPIKey
	geminiKey := f.cfg.GeminiAPIKey

	if userID != nil && f.userRepo != nil {
		settings, err := f.userRepo.GetSettings(ctx, *userID)
		if err == nil && settings != nil {
			if settings.AIProvider != "" {
				provider = settings.AIProvider
			}
			if settings.OpenAIAPIKey != nil && *settings.OpenAIAPIKey != "" {
				openaiKey = *settings.OpenAIAPIKey
			}
			if settings.GeminiAPIKey != nil && *settings.GeminiAPIKey != "" {
				geminiKey = *settings.GeminiAPIKey
			}
		}
	}

	switch provider {
	case "openai":
		if openaiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is not configured")
		}
		return NewOpenAISummarizer(openaiKey, f.cfg.OpenAIModel), nil
	case "gemini":
		if geminiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is not configured")
		}
		return f.geminiFor(ctx, geminiKey)
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", provider)
	}
}

func (f *SummarizerFactory) geminiFor(ctx context.Context, apiKey string) (Summarizer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := apiKey + "\x00" + f.cfg.GeminiModel
	if s, ok := f.gemini[key]; ok {
		return s, nil
	}

	s, err := f.newGemini(ctx, apiKey, f.cfg.GeminiModel)
	if err != nil {
		return nil, err
	}
	f.gemini[key] = s
	return s, nil
}

// Close releases every cached Gemini client. Call on shutdown.
func (f *SummarizerFactory) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, s := range f.gemini {
		s.Close()
	}
	f.gemini = make(map[string]*GeminiSummarizer)
}
