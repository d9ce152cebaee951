// Package export renders the video library as TXT, CSV or JSON streams
// for download and CLI use.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/naveensalgaonker/youtubeVideoHelper/internal/models"
	"github.com/naveensalgaonker/youtubeVideoHelper/internal/services"
)

const (
	FormatTXT  = "txt"
	FormatCSV  = "csv"
	FormatJSON = "json"
)

func ValidFormat(format string) bool {
	switch format {
	case FormatTXT, FormatCSV, FormatJSON:
		return true
	}
	return false
}

// ContentType returns the MIME type served for a format.
func ContentType(format string) string {
	switch format {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatJSON:
		return "application/json; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Filename builds a timestamped download name.
func Filename(format string, now time.Time) string {
	return fmt.Sprintf("videos_export_%s.%s", now.Format("20060102_150405"), format)
}

// Write renders items in the requested format.
func Write(w io.Writer, format string, items []*models.VideoListItem, details []*models.VideoDetail, now time.Time) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, items)
	case FormatJSON:
		return writeJSON(w, items)
	case FormatTXT:
		return writeTXT(w, details, now)
	}
	return fmt.Errorf("unsupported export format: %s", format)
}

type exportRow struct {
	VideoID         string  `json:"video_id"`
	Title           string  `json:"title"`
	ChannelName     *string `json:"channel_name"`
	DurationSeconds *int    `json:"duration_seconds"`
	Category        *string `json:"category"`
	Summary         *string `json:"summary"`
	Status          string  `json:"status"`
	CreatedAt       string  `json:"created_at"`
}

func toRow(item *models.VideoListItem) exportRow {
	return exportRow{
		VideoID:         item.VideoID,
		Title:           item.Title,
		ChannelName:     item.ChannelName,
		DurationSeconds: item.DurationSeconds,
		Category:        item.Category,
		Summary:         item.Summary,
		Status:          item.Status,
		CreatedAt:       item.CreatedAt.Format(time.RFC3339),
	}
}

func writeCSV(w io.Writer, items []*models.VideoListItem) error {
	cw := csv.NewWriter(w)
	header := []string{"video_id", "title", "channel_name", "duration_seconds", "category", "summary", "status", "created_at"}
	if err := cw.Write(header); err != nil {
		return err
	}

	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}

	for _, item := range items {
		row := toRow(item)
		duration := ""
		if row.DurationSeconds != nil {
			duration = fmt.Sprintf("%d", *row.DurationSeconds)
		}
		record := []string{
			row.VideoID, row.Title, deref(row.ChannelName), duration,
			deref(row.Category), deref(row.Summary), row.Status, row.CreatedAt,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func writeJSON(w io.Writer, items []*models.VideoListItem) error {
	rows := make([]exportRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, toRow(item))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// writeTXT emits the full transcription dump: one block per video with
// metadata, the whole transcript and the summary if present.
func writeTXT(w io.Writer, details []*models.VideoDetail, now time.Time) error {
	divider := strings.Repeat("=", 80)
	subDivider := strings.Repeat("-", 80)

	var b strings.Builder
	b.WriteString(divider + "\n")
	b.WriteString("YOUTUBE VIDEO TRANSCRIPTIONS EXPORT\n")
	b.WriteString(fmt.Sprintf("Generated: %s\n", now.Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("Total Videos: %d\n", len(details)))
	b.WriteString(divider + "\n\n")

	for i, d := range details {
		b.WriteString("\n" + divider + "\n")
		b.WriteString(fmt.Sprintf("VIDEO #%d\n", i+1))
		b.WriteString(divider + "\n\n")

		b.WriteString(fmt.Sprintf("Title: %s\n", d.Title))
		b.WriteString(fmt.Sprintf("URL: %s\n", d.VideoURL))
		channel := "Unknown"
		if d.ChannelName != nil {
			channel = *d.ChannelName
		}
		b.WriteString(fmt.Sprintf("Channel: %s\n", channel))
		if d.DurationSeconds != nil {
			b.WriteString(fmt.Sprintf("Duration: %s\n", services.FormatDuration(d.DurationSeconds)))
		}
		if d.UploadDate != nil {
			b.WriteString(fmt.Sprintf("Upload Date: %s\n", *d.UploadDate))
		}
		if d.Summary != nil && d.Summary.Category != "" {
			b.WriteString(fmt.Sprintf("Category: %s\n", d.Summary.Category))
		}

		b.WriteString("\n" + subDivider + "\n")
		b.WriteString("TRANSCRIPTION:\n")
		b.WriteString(subDivider + "\n\n")
		if d.Transcript != nil {
			b.WriteString(d.Transcript.Text)
		} else {
			b.WriteString("No transcription available")
		}
		b.WriteString("\n\n")

		if d.Summary != nil {
			b.WriteString(subDivider + "\n")
			b.WriteString("SUMMARY:\n")
			b.WriteString(subDivider + "\n\n")
			b.WriteString(d.Summary.Text)
			b.WriteString("\n\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
