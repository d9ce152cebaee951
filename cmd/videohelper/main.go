// Command videohelper is the single-tenant CLI: it talks to the database
// directly and runs the processing pipeline inline, without the HTTP
// server or the job queue.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/naveensalgaonker/youtubeVideoHelper/internal/config"
	"github.com/naveensalgaonker/youtubeVideoHelper/internal/database"
	"github.com/naveensalgaonker/youtubeVideoHelper/internal/export"
	"github.com/naveensalgaonker/youtubeVideoHelper/internal/models"
	"github.com/naveensalgaonker/youtubeVideoHelper/internal/repository"
	"github.com/naveensalgaonker/youtubeVideoHelper/internal/services"
	"github.com/naveensalgaonker/youtubeVideoHelper/internal/worker"
	"github.com/naveensalgaonker/youtubeVideoHelper/migrations"
)

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	ctx := context.Background()
	a, cleanup, err := newApp(ctx)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer cleanup()

	switch cmd {
	case "process":
		err = a.process(ctx, args)
	case "list":
		err = a.list(ctx, args)
	case "show":
		err = a.show(ctx, args)
	case "search":
		err = a.search(ctx, args)
	case "export":
		err = a.exportLibrary(ctx, args)
	case "stats":
		err = a.stats(ctx)
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: videohelper <command> [options]

Commands:
  process [-file urls.txt] [-no-ai] [-force] [url ...]
          Process one or more YouTube URLs
  list    [-category name] [-limit n]
          List processed videos
  show    <video-id>
          Show full details for a video
  search  <term>
          Search transcripts
  export  [-format txt|csv|json] [-output path] [-category name]
          Export the library
  stats   Show database statistics`)
}

type app struct {
	videos       *repository.VideoRepo
	videoService *services.VideoService
	processor    *worker.Processor
	delay        time.Duration
}

func newApp(ctx context.Context) (*app, func(), error) {
	cfg := config.Load()

	pool, err := database.NewPostgresPool(cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := database.RunMigrations(pool, migrations.Files); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("apply migrations: %w", err)
	}

	userRepo := repository.NewUserRepo(pool)
	videoRepo := repository.NewVideoRepo(pool)
	transcriptRepo := repository.NewTranscriptRepo(pool)
	summaryRepo := repository.NewSummaryRepo(pool)

	youtubeService := services.NewYouTubeService(cfg.PreferredLanguages)
	summarizerFactory := services.NewSummarizerFactory(cfg, userRepo)
	processor := worker.NewProcessor(youtubeService, summarizerFactory, videoRepo, transcriptRepo, summaryRepo)

	cleanup := func() {
		summarizerFactory.Close()
		pool.Close()
	}

	return &app{
		videos:       videoRepo,
		videoService: services.NewVideoService(videoRepo),
		processor:    processor,
		delay:        time.Duration(cfg.VideoDelaySeconds) * time.Second,
	}, cleanup, nil
}

func (a *app) process(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("process", flag.ExitOnError)
	file := fs.String("file", "", "file with one URL per line")
	noAI := fs.Bool("no-ai", false, "skip AI summarization")
	force := fs.Bool("force", false, "reprocess videos already completed")
	fs.Parse(args)

	urls := fs.Args()
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			return fmt.Errorf("read URL file: %w", err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line != "" && !strings.HasPrefix(line, "#") {
				urls = append(urls, line)
			}
		}
	}

	// Dedupe, first occurrence wins.
	seen := make(map[string]bool, len(urls))
	unique := urls[:0]
	for _, u := range urls {
		if !seen[u] {
			seen[u] = true
			unique = append(unique, u)
		}
	}
	if len(unique) == 0 {
		return fmt.Errorf("no URLs to process")
	}

	opts := models.JobOptions{SkipAI: *noAI, Force: *force, Stage: models.StageFull}
	completed, failed := 0, 0

	for i, url := range unique {
		fmt.Printf("\n[%d/%d] Processing %s\n", i+1, len(unique), url)
		if err := a.processor.ProcessURL(ctx, url, opts); err != nil {
			fmt.Printf("  ✗ Failed: %v\n", err)
			failed++
		} else {
			fmt.Println("  ✓ Done")
			completed++
		}

		if i < len(unique)-1 && a.delay > 0 {
			time.Sleep(a.delay)
		}
	}

	fmt.Printf("\nFinished: %d succeeded, %d failed\n", completed, failed)
	return nil
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	category := fs.String("category", "", "filter by category")
	limit := fs.Int("limit", 0, "limit number of results")
	fs.Parse(args)

	items, err := a.videoService.List(ctx, nil, services.ListFilter{Category: *category, Limit: *limit})
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Println("No videos found.")
		return nil
	}

	for i, item := range items {
		category := "Uncategorized"
		if item.Category != nil {
			category = *item.Category
		}
		channel := "Unknown"
		if item.ChannelName != nil {
			channel = *item.ChannelName
		}

		fmt.Printf("%d. %s\n", i+1, item.Title)
		fmt.Printf("   ID: %s\n", item.VideoID)
		fmt.Printf("   Channel: %s\n", channel)
		fmt.Printf("   Duration: %s\n", services.FormatDuration(item.DurationSeconds))
		fmt.Printf("   Category: %s\n", category)
		fmt.Printf("   Status: %s\n", item.Status)
		if item.Summary != nil {
			summary := *item.Summary
			if len(summary) > 150 {
				summary = summary[:150] + "..."
			}
			fmt.Printf("   Summary: %s\n", summary)
		}
		fmt.Println()
	}

	return nil
}

func (a *app) show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: videohelper show <video-id>")
	}

	video, err := a.videos.GetByVideoID(ctx, args[0])
	if err != nil {
		return fmt.Errorf("video not found: %s", args[0])
	}
	detail, err := a.videoService.GetDetail(ctx, video.ID, nil)
	if err != nil {
		return err
	}

	fmt.Printf("Title: %s\n", detail.Title)
	fmt.Printf("Video ID: %s\n", detail.VideoID)
	fmt.Printf("URL: %s\n", detail.VideoURL)
	if detail.ChannelName != nil {
		fmt.Printf("Channel: %s\n", *detail.ChannelName)
	}
	fmt.Printf("Duration: %s\n", services.FormatDuration(detail.DurationSeconds))
	if detail.UploadDate != nil {
		fmt.Printf("Upload Date: %s\n", *detail.UploadDate)
	}
	fmt.Printf("Status: %s\n", detail.Status)

	if detail.Summary != nil {
		fmt.Printf("\nCategory: %s\n", detail.Summary.Category)
		fmt.Printf("\nSummary:\n%s\n", detail.Summary.Text)
		fmt.Printf("\nAI Model: %s\n", detail.Summary.AIModel)
	}

	if detail.Transcript != nil {
		text := detail.Transcript.Text
		preview := text
		if len(preview) > 500 {
			preview = preview[:500] + "..."
		}
		fmt.Printf("\nTranscription Preview:\n%s\n", preview)
		fmt.Printf("\nTranscription Length: %d characters\n", len(text))
		fmt.Printf("Language: %s\n", detail.Transcript.Language)
		fmt.Printf("Source: %s\n", detail.Transcript.Source)
	}

	fmt.Printf("\nProcessed: %s\n", detail.CreatedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func (a *app) search(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: videohelper search <term>")
	}
	term := args[0]

	items, err := a.videoService.List(ctx, nil, services.ListFilter{Search: term})
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Println("No videos found matching your search.")
		return nil
	}

	fmt.Printf("Found %d video(s)\n\n", len(items))
	for i, item := range items {
		category := "Uncategorized"
		if item.Category != nil {
			category = *item.Category
		}
		fmt.Printf("%d. %s\n", i+1, item.Title)
		fmt.Printf("   ID: %s\n", item.VideoID)
		fmt.Printf("   Category: %s\n\n", category)
	}

	return nil
}

func (a *app) exportLibrary(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	format := fs.String("format", export.FormatJSON, "txt, csv or json")
	output := fs.String("output", "", "output file path")
	category := fs.String("category", "", "filter by category")
	fs.Parse(args)

	if !export.ValidFormat(*format) {
		return fmt.Errorf("format must be txt, csv or json")
	}

	now := time.Now()
	path := *output
	if path == "" {
		path = export.Filename(*format, now)
	}

	items, details, err := a.videoService.ExportData(ctx, nil, *category)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("No videos to export.")
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	if err := export.Write(f, *format, items, details, now); err != nil {
		return err
	}

	fmt.Printf("✓ Exported %d video(s) to: %s\n", len(items), path)
	return nil
}

func (a *app) stats(ctx context.Context) error {
	stats, err := a.videoService.Stats(ctx, nil)
	if err != nil {
		return err
	}
	categories, err := a.videoService.Categories(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Total Videos: %d\n", stats.TotalVideos)
	fmt.Printf("Completed: %d\n", stats.Completed)
	fmt.Printf("Processing: %d\n", stats.Processing)
	fmt.Printf("Pending: %d\n", stats.Pending)
	fmt.Printf("Failed: %d\n", stats.Failed)
	fmt.Printf("\nTotal Categories: %d\n", stats.TotalCategories)

	if len(categories) > 0 {
		fmt.Println("\nCategories:")
		for _, c := range categories {
			fmt.Printf("  - %s\n", c)
		}
	}

	return nil
}
