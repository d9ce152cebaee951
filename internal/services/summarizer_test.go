package services

import (
	"context"
	"strings"
	"testing"

	"github.com/naveensalgaonker/youtubeVideoHelper/internal/config"
)

func TestParseSummaryResponse(t *testing.T) {
	tests := []struct {
		name         string
		response     string
		wantSummary  string
		wantCategory string
	}{
		{
			name:         "well formed",
			response:     "SUMMARY: A video about Go concurrency patterns.\nCATEGORY: Technology",
			wantSummary:  "A video about Go concurrency patterns.",
			wantCategory: "Technology",
		},
		{
			name:         "extra whitespace",
			response:     "  SUMMARY:   Trimmed summary.  \n  CATEGORY:  Music  ",
			wantSummary:  "Trimmed summary.",
			wantCategory: "Music",
		},
		{
			name:         "unknown category falls back to scan",
			response:     "SUMMARY: A cooking show.\nCATEGORY: Cooking\nThis is an Entertainment video really.",
			wantSummary:  "A cooking show.",
			wantCategory: "Entertainment",
		},
		{
			name:         "no category at all",
			response:     "SUMMARY: Something without any classifiable words xyz.\nCATEGORY: Nonsense",
			wantSummary:  "Something without any classifiable words xyz.",
			wantCategory: "Other",
		},
		{
			name:         "missing labels uses leading sentences",
			response:     "First sentence. Second sentence. Third sentence. Fourth sentence.",
			wantSummary:  "First sentence. Second sentence. Third sentence.",
			wantCategory: "Other",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			summary, category := ParseSummaryResponse(tc.response)
			if summary != tc.wantSummary {
				t.Errorf("summary = %q, want %q", summary, tc.wantSummary)
			}
			if category != tc.wantCategory {
				t.Errorf("category = %q, want %q", category, tc.wantCategory)
			}
		})
	}
}

func TestScanForCategory_WordBoundaries(t *testing.T) {
	// Substrings inside other words must not match.
	if got := scanForCategory("We renew our subscription yearly."); got != "Other" {
		t.Errorf("Expected no match inside 'renew', got %q", got)
	}
	if got := scanForCategory("Watch the news tonight."); got != "News" {
		t.Errorf("Expected case-insensitive whole-word match, got %q", got)
	}
}

func TestTruncateTranscript(t *testing.T) {
	short := "short transcript"
	if got := truncateTranscript(short, 100); got != short {
		t.Errorf("Expected transcript under limit untouched, got %q", got)
	}

	long := strings.Repeat("a", 200)
	got := truncateTranscript(long, 100)
	if !strings.HasSuffix(got, "... [truncated]") {
		t.Errorf("Expected truncation marker, got %q", got[len(got)-20:])
	}
	if len(got) != 100+len("... [truncated]") {
		t.Errorf("Expected 100 chars plus marker, got %d", len(got))
	}
}

func TestBuildSummaryPrompt(t *testing.T) {
	prompt := buildSummaryPrompt("My Title", "the transcript")

	if !strings.Contains(prompt, "My Title") {
		t.Error("Prompt missing the video title")
	}
	if !strings.Contains(prompt, "the transcript") {
		t.Error("Prompt missing the transcript")
	}
	if !strings.Contains(prompt, "SUMMARY:") || !strings.Contains(prompt, "CATEGORY:") {
		t.Error("Prompt missing the response format labels")
	}
	for _, c := range ValidCategories {
		if !strings.Contains(prompt, c) {
			t.Errorf("Prompt missing category %q", c)
		}
	}
}

func TestSummarizerFactory_ReusesGeminiClient(t *testing.T) {
	cfg := &config.Config{AIProvider: "gemini", GeminiAPIKey: "key-a", GeminiModel: "gemini-pro"}
	f := NewSummarizerFactory(cfg, nil)

	built := 0
	f.newGemini = func(ctx context.Context, apiKey, modelName string) (*GeminiSummarizer, error) {
		built++
		return &GeminiSummarizer{name: modelName}, nil
	}

	s1, err := f.ForUser(context.Background(), nil)
	if err != nil {
		t.Fatalf("ForUser failed: %v", err)
	}
	s2, err := f.ForUser(context.Background(), nil)
	if err != nil {
		t.Fatalf("ForUser failed: %v", err)
	}

	if s1 != s2 {
		t.Error("Expected the same cached summarizer for the same key")
	}
	if built != 1 {
		t.Errorf("Expected one client built for repeated requests, got %d", built)
	}
}

func TestSummarizerFactory_CloseDropsCache(t *testing.T) {
	cfg := &config.Config{AIProvider: "gemini", GeminiAPIKey: "key-a", GeminiModel: "gemini-pro"}
	f := NewSummarizerFactory(cfg, nil)

	built := 0
	f.newGemini = func(ctx context.Context, apiKey, modelName string) (*GeminiSummarizer, error) {
		built++
		return &GeminiSummarizer{name: modelName}, nil
	}

	if _, err := f.ForUser(context.Background(), nil); err != nil {
		t.Fatalf("ForUser failed: %v", err)
	}
	f.Close()
	if _, err := f.ForUser(context.Background(), nil); err != nil {
		t.Fatalf("ForUser after Close failed: %v", err)
	}

	if built != 2 {
		t.Errorf("Expected a fresh client after Close, got %d builds", built)
	}
}
