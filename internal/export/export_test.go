package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/naveensalgaonker/youtubeVideoHelper/internal/models"
)

func sampleItems() []*models.VideoListItem {
	channel := "Test Channel"
	duration := 213
	category := "Music"
	summary := "A song."

	return []*models.VideoListItem{
		{
			Video: models.Video{
				ID:              uuid.New(),
				VideoID:         "dQw4w9WgXcQ",
				VideoURL:        "https://youtu.be/dQw4w9WgXcQ",
				Title:           "Test Video",
				DurationSeconds: &duration,
				ChannelName:     &channel,
				Status:          models.StatusCompleted,
				CreatedAt:       time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
			},
			Category:         &category,
			Summary:          &summary,
			HasTranscription: true,
			HasSummary:       true,
		},
		{
			Video: models.Video{
				ID:       uuid.New(),
				VideoID:  "AAAAAAAAAAA",
				VideoURL: "https://youtu.be/AAAAAAAAAAA",
				Title:    "Failed Video",
				Status:   models.StatusFailed,
			},
		},
	}
}

func sampleDetails() []*models.VideoDetail {
	items := sampleItems()
	first := items[0]

	return []*models.VideoDetail{
		{
			Video: first.Video,
			Transcript: &models.Transcript{
				VideoID:  first.ID,
				Text:     "Never gonna give you up",
				Language: "en",
				Source:   "manual",
			},
			Summary: &models.Summary{
				VideoID:  first.ID,
				Text:     "A song.",
				Category: "Music",
				AIModel:  "gpt-3.5-turbo",
			},
		},
	}
}

func TestValidFormat(t *testing.T) {
	for _, format := range []string{FormatTXT, FormatCSV, FormatJSON} {
		if !ValidFormat(format) {
			t.Errorf("Expected %q to be valid", format)
		}
	}
	for _, format := range []string{"", "xml", "pdf"} {
		if ValidFormat(format) {
			t.Errorf("Expected %q to be invalid", format)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatCSV, sampleItems(), nil, time.Now()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Output is not valid CSV: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d records", len(records))
	}
	if records[0][0] != "video_id" {
		t.Errorf("Expected header row, got %v", records[0])
	}
	if records[1][0] != "dQw4w9WgXcQ" || records[1][4] != "Music" {
		t.Errorf("Unexpected first row: %v", records[1])
	}
	// Missing optional fields render as empty cells.
	if records[2][2] != "" || records[2][3] != "" {
		t.Errorf("Expected empty channel/duration for second row, got %v", records[2])
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, sampleItems(), nil, time.Now()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0]["video_id"] != "dQw4w9WgXcQ" {
		t.Errorf("Unexpected first row: %v", rows[0])
	}
	if rows[0]["category"] != "Music" {
		t.Errorf("Expected category in JSON, got %v", rows[0]["category"])
	}
	if rows[1]["summary"] != nil {
		t.Errorf("Expected null summary for unprocessed video, got %v", rows[1]["summary"])
	}
}

func TestWriteTXT(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	if err := Write(&buf, FormatTXT, nil, sampleDetails(), now); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"YOUTUBE VIDEO TRANSCRIPTIONS EXPORT",
		"Total Videos: 1",
		"VIDEO #1",
		"Title: Test Video",
		"Channel: Test Channel",
		"Duration: 3:33",
		"Category: Music",
		"TRANSCRIPTION:",
		"Never gonna give you up",
		"SUMMARY:",
		"A song.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("TXT export missing %q", want)
		}
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 30, 45, 0, time.UTC)
	if got := Filename(FormatCSV, now); got != "videos_export_20240601_123045.csv" {
		t.Errorf("Unexpected filename: %q", got)
	}
}

func TestWrite_UnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, "xml", nil, nil, time.Now()); err == nil {
		t.Error("Expected error for unsupported format")
	}
}
