package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/storage"
	"github.com/fatih/color"

	"github.com/commons-systems/mediashare/internal/config"
	"github.com/commons-systems/mediashare/internal/firestore"
	"github.com/commons-systems/mediashare/internal/media"
)

const version = "0.1.0"

var (
	versionFlag = flag.Bool("version", false, "Show version")

	inputDir    = flag.String("input", "", "Directory to scan for media (required)")
	displayName = flag.String("name", "", "Display name recorded on uploads (required)")
	uploaderID  = flag.String("user", "cli", "Uploader id recorded on uploads")
	concurrency = flag.Int("concurrency", 0, "Concurrent uploads (default from CONCURRENT_UPLOADS)")
	fingerprint = flag.Bool("fingerprint", false, "Fingerprint files during discovery")
	verbose     = flag.Bool("verbose", false, "Show per-file progress")
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow, color.Bold)
	red    = color.New(color.FgRed)
)

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `mediaupload - batch media uploader for the wedding gallery

Usage:
  mediaupload [flags]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprint(os.Stderr, `
Examples:
  # Upload every photo and video under a directory
  mediaupload -input ~/Pictures/wedding -name "Taro"

  # Slow link: fewer concurrent transfers, show progress
  mediaupload -input ~/Pictures/wedding -name "Taro" -concurrency 2 -verbose

`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("mediaupload version %s\n", version)
		os.Exit(0)
	}

	if *inputDir == "" || *displayName == "" {
		fmt.Fprintf(os.Stderr, "Error: -input and -name flags are required\n\n")
		flag.Usage()
		os.Exit(1)
	}

	if err := run(); err != nil {
		red.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	if *concurrency > 0 {
		cfg.ConcurrentUploads = *concurrency
	}

	// Ctrl-C cancels in-flight transfers; no partial objects are committed.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fsClient, err := firestore.NewClient(ctx, cfg.GCPProjectID)
	if err != nil {
		return err
	}
	defer fsClient.Close()

	gcsClient, err := storage.NewClient(ctx)
	if err != nil {
		return err
	}
	defer gcsClient.Close()

	prober := media.NewGCSProber(gcsClient, cfg.GCSBucketName)
	transfer := media.NewGCSTransfer(gcsClient, cfg.GCSBucketName)
	recorder := media.NewFirestoreRecorder(fsClient.Firestore,
		media.WithCollection(firestore.CollectionName(cfg.MediaCollection)))
	pipeline, err := media.NewPipeline(prober, transfer, recorder,
		media.WithConcurrentUploads(cfg.ConcurrentUploads))
	if err != nil {
		return err
	}

	files, err := discover(ctx)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		yellow.Println("No media files found")
		return nil
	}
	fmt.Printf("Found %d media files under %s\n", len(files), *inputDir)

	resultCh, progressCh, err := pipeline.RunAsync(ctx, files, *uploaderID, *displayName)
	if err != nil {
		return err
	}

	for p := range progressCh {
		if *verbose {
			fmt.Printf("  → %s: %.0f%%\n", p.File, p.Percentage)
		}
	}
	result := <-resultCh

	printSummary(result)
	if result.Failed > 0 {
		return fmt.Errorf("%d uploads failed", result.Failed)
	}
	return ctx.Err()
}

func discover(ctx context.Context) ([]media.FileSource, error) {
	discoverer := media.NewMediaDiscoverer(media.WithFingerprint(*fingerprint))
	fileCh, errCh := discoverer.Discover(ctx, *inputDir)

	var files []media.FileSource
	for fileCh != nil || errCh != nil {
		select {
		case f, ok := <-fileCh:
			if !ok {
				fileCh = nil
				continue
			}
			files = append(files, f)
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			yellow.Printf("  ⚠ %v\n", err)
		}
	}
	return files, ctx.Err()
}

func printSummary(result *media.BatchResult) {
	fmt.Println()
	green.Printf("Uploaded:   %d\n", result.Uploaded)
	fmt.Printf("Duplicates: %d\n", result.Duplicates)
	if result.Cancelled > 0 {
		yellow.Printf("Cancelled:  %d\n", result.Cancelled)
	}
	if result.Failed > 0 {
		red.Printf("Failed:     %d\n", result.Failed)
		for _, r := range result.Results {
			if r.Outcome == media.OutcomeFailed {
				red.Printf("  ✗ %s: %v\n", r.File, r.Err)
			}
		}
	}
	fmt.Printf("Duration:   %s\n", result.Duration.Round(10*time.Millisecond))
}
