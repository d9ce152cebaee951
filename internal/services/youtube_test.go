package services

import "testing"

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"standard watch URL", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"short URL", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"embed URL", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"shorts URL", "https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch URL with extra params", "https://www.youtube.com/watch?list=PLx&v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"no scheme", "youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"trailing params", "https://youtu.be/dQw4w9WgXcQ?t=42", "dQw4w9WgXcQ"},
		{"not a URL", "not-a-url", ""},
		{"empty", "", ""},
		{"wrong host", "https://vimeo.com/watch?v=dQw4w9WgXcQ", ""},
		{"ID too short", "https://youtu.be/short", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractVideoID(tc.url); got != tc.want {
				t.Errorf("ExtractVideoID(%q) = %q, want %q", tc.url, got, tc.want)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	if !ValidateURL("https://youtu.be/dQw4w9WgXcQ") {
		t.Error("Expected valid URL to pass")
	}
	if ValidateURL("https://example.com/video") {
		t.Error("Expected non-YouTube URL to fail")
	}
}

func TestCleanTranscriptText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hello  world", "hello world"},
		{"  leading and trailing  ", "leading and trailing"},
		{"line\nbreaks\tand\ttabs", "line breaks and tabs"},
		{"", ""},
		{"   ", ""},
	}

	for _, tc := range tests {
		if got := cleanTranscriptText(tc.in); got != tc.want {
			t.Errorf("cleanTranscriptText(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	intPtr := func(n int) *int { return &n }

	tests := []struct {
		name    string
		seconds *int
		want    string
	}{
		{"nil", nil, "Unknown"},
		{"zero", intPtr(0), "0:00"},
		{"under a minute", intPtr(42), "0:42"},
		{"minutes", intPtr(213), "3:33"},
		{"exactly an hour", intPtr(3600), "1:00:00"},
		{"hours", intPtr(3725), "1:02:05"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatDuration(tc.seconds); got != tc.want {
				t.Errorf("FormatDuration = %q, want %q", got, tc.want)
			}
		})
	}
}
