package services

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	ytapi "github.com/hightemp/youtube-transcript-api-go/api"
	yt "github.com/kkdai/youtube/v2"
)

// YouTubeService wraps metadata extraction and caption retrieval. It is
// stateless; every method is a plain request/response call.
type YouTubeService struct {
	ytClient           *yt.Client
	transcriptAPI      *ytapi.YouTubeTranscriptApi
	preferredLanguages []string
}

type VideoMetadata struct {
	VideoID         string
	VideoURL        string
	Title           string
	DurationSeconds int
	ChannelName     string
	UploadDate      string // YYYY-MM-DD, empty if unknown
}

type CaptionTrack struct {
	LanguageCode string `json:"language"`
	LanguageName string `json:"language_name"`
	Kind         string `json:"type"` // "manual" | "generated"
}

type TranscriptResult struct {
	Text     string
	Language string
	Source   string
}

func NewYouTubeService(preferredLanguages []string) *YouTubeService {
	if len(preferredLanguages) == 0 {
		preferredLanguages = []string{"en", "en-US", "en-GB"}
	}
	return &YouTubeService{
		ytClient:           &yt.Client{},
		transcriptAPI:      ytapi.NewYouTubeTranscriptApi(),
		preferredLanguages: preferredLanguages,
	}
}

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/|youtube\.com/shorts/)([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/watch\?.*v=([a-zA-Z0-9_-]{11})`),
}

// ExtractVideoID resolves a YouTube URL to its 11-character video
// identifier, or "" when the URL is not a recognizable video link.
func ExtractVideoID(url string) string {
	for _, re := range videoIDPatterns {
		if m := re.FindStringSubmatch(url); len(m) > 1 {
			return m[1]
		}
	}
	return ""
}

// ValidateURL reports whether url resolves to a video identifier.
func ValidateURL(url string) bool {
	return ExtractVideoID(url) != ""
}

// FetchMetadata retrieves title, duration, channel and upload date.
func (s *YouTubeService) FetchMetadata(ctx context.Context, url string) (*VideoMetadata, error) {
	videoID := ExtractVideoID(url)
	if videoID == "" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidURL, url)
	}

	video, err := s.ytClient.GetVideoContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}

	meta := &VideoMetadata{
		VideoID:         videoID,
		VideoURL:        url,
		Title:           video.Title,
		DurationSeconds: int(video.Duration.Seconds()),
		ChannelName:     video.Author,
	}
	if !video.PublishDate.IsZero() {
		meta.UploadDate = video.PublishDate.Format("2006-01-02")
	}

	log.Printf("Extracted metadata for %q (%s)", meta.Title, videoID)
	return meta, nil
}

// ListAvailableCaptions returns every caption track YouTube advertises
// for the video, split into manual and auto-generated kinds.
func (s *YouTubeService) ListAvailableCaptions(ctx context.Context, videoID string) ([]CaptionTrack, error) {
	video, err := s.ytClient.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}

	tracks := make([]CaptionTrack, 0, len(video.CaptionTracks))
	for _, ct := range video.CaptionTracks {
		kind := "manual"
		if ct.Kind == "asr" {
			kind = "generated"
		}
		tracks = append(tracks, CaptionTrack{
			LanguageCode: ct.LanguageCode,
			LanguageName: ct.Name.SimpleText,
			Kind:         kind,
		})
	}

	log.Printf("Found %d available caption tracks for %s", len(tracks), videoID)
	return tracks, nil
}

// FetchCaption retrieves the caption text for one language.
func (s *YouTubeService) FetchCaption(ctx context.Context, videoID, languageCode string) (*TranscriptResult, error) {
	transcript, err := s.transcriptAPI.GetTranscript(videoID, []string{languageCode})
	if err != nil {
		return nil, fmt.Errorf("no caption in %s for %s: %w", languageCode, videoID, err)
	}

	var b strings.Builder
	for _, entry := range transcript.Entries {
		if text := strings.TrimSpace(entry.Text); text != "" {
			b.WriteString(text)
			b.WriteString(" ")
		}
	}

	text := cleanTranscriptText(b.String())
	if text == "" {
		return nil, fmt.Errorf("caption track for %s in %s is empty", videoID, languageCode)
	}

	return &TranscriptResult{Text: text, Language: languageCode}, nil
}

// GetTranscription fetches a transcript with the fallback order: manual
// caption in a preferred language, auto-generated caption in a preferred
// language, then any available caption. The whole chain is retried with
// bounded backoff on transient failures; a video with no captions at
// all fails immediately with ErrNoTranscript.
func (s *YouTubeService) GetTranscription(ctx context.Context, videoID string) (*TranscriptResult, error) {
	var result *TranscriptResult

	err := withBackoff(ctx, func() error {
		tracks, err := s.ListAvailableCaptions(ctx, videoID)
		if err != nil {
			// Track listing failures are usually rate limiting.
			return Transient(err)
		}

		res, err := s.fetchWithFallback(ctx, videoID, tracks)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetTranscriptionInLanguage fetches the caption track the user chose,
// validated against the advertised track list so the stored source
// still reflects whether the track was manual or auto-generated. A
// language the video does not offer fails with ErrNoTranscript.
func (s *YouTubeService) GetTranscriptionInLanguage(ctx context.Context, videoID, languageCode string) (*TranscriptResult, error) {
	var result *TranscriptResult

	err := withBackoff(ctx, func() error {
		tracks, err := s.ListAvailableCaptions(ctx, videoID)
		if err != nil {
			return Transient(err)
		}

		kind := ""
		for _, track := range tracks {
			if track.LanguageCode == languageCode {
				kind = track.Kind
				break
			}
		}
		if kind == "" {
			return fmt.Errorf("%w: video %s has no caption track in %s", ErrNoTranscript, videoID, languageCode)
		}

		res, err := s.FetchCaption(ctx, videoID, languageCode)
		if err != nil {
			// The track is advertised, so a fetch failure is worth
			// another attempt.
			return Transient(err)
		}
		res.Source = kind
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Found %s transcript for %s in selected language %s", result.Source, videoID, languageCode)
	return result, nil
}

func (s *YouTubeService) fetchWithFallback(ctx context.Context, videoID string, tracks []CaptionTrack) (*TranscriptResult, error) {
	byKind := func(kind string) []CaptionTrack {
		var out []CaptionTrack
		for _, t := range tracks {
			if t.Kind == kind {
				out = append(out, t)
			}
		}
		return out
	}

	for _, kind := range []string{"manual", "generated"} {
		for _, lang := range s.preferredLanguages {
			for _, track := range byKind(kind) {
				if track.LanguageCode != lang {
					continue
				}
				res, err := s.FetchCaption(ctx, videoID, lang)
				if err != nil {
					log.Printf("Caption fetch failed for %s in %s (%s): %v", videoID, lang, kind, err)
					continue
				}
				res.Source = kind
				log.Printf("Found %s transcript for %s in %s", kind, videoID, lang)
				return res, nil
			}
		}
	}

	// Any language at all.
	for _, track := range tracks {
		res, err := s.FetchCaption(ctx, videoID, track.LanguageCode)
		if err != nil {
			continue
		}
		res.Source = track.Kind
		log.Printf("Found transcript for %s in fallback language %s", videoID, track.LanguageCode)
		return res, nil
	}

	// Last resort: let the transcript API pick a track itself. Covers
	// videos whose track list is hidden from the player response.
	if transcript, err := s.transcriptAPI.GetTranscript(videoID, nil); err == nil {
		var b strings.Builder
		for _, entry := range transcript.Entries {
			if text := strings.TrimSpace(entry.Text); text != "" {
				b.WriteString(text)
				b.WriteString(" ")
			}
		}
		if text := cleanTranscriptText(b.String()); text != "" {
			log.Printf("Found transcript for %s (auto-detected language)", videoID)
			return &TranscriptResult{Text: text, Language: "auto", Source: "generated"}, nil
		}
	}

	return nil, fmt.Errorf("%w: video %s", ErrNoTranscript, videoID)
}

var whitespaceRe = regexp.MustCompile(`\s+`)

func cleanTranscriptText(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// FormatDuration renders seconds as H:MM:SS or M:SS for display.
func FormatDuration(seconds *int) string {
	if seconds == nil {
		return "Unknown"
	}
	s := *seconds
	hours := s / 3600
	minutes := (s % 3600) / 60
	secs := s % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}
