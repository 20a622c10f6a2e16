package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/storage"

	"github.com/commons-systems/mediashare/internal/catalog"
	"github.com/commons-systems/mediashare/internal/config"
	"github.com/commons-systems/mediashare/internal/firestore"
	"github.com/commons-systems/mediashare/internal/linebot"
	"github.com/commons-systems/mediashare/internal/media"
	"github.com/commons-systems/mediashare/internal/server"
)

func main() {
	cfg := config.Load()

	ctx := context.Background()

	// Initialize Firestore client
	fsClient, err := firestore.NewClient(ctx, cfg.GCPProjectID)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer fsClient.Close()

	// Initialize GCS client
	gcsClient, err := storage.NewClient(ctx)
	if err != nil {
		log.Fatalf("Failed to create GCS client: %v", err)
	}
	defer gcsClient.Close()

	if emulator := os.Getenv("FIRESTORE_EMULATOR_HOST"); emulator != "" {
		log.Printf("INFO: Using Firestore emulator at %s", emulator)
	}

	mediaCollection := firestore.CollectionName(cfg.MediaCollection)

	// Upload pipeline
	prober := media.NewGCSProber(gcsClient, cfg.GCSBucketName)
	transfer := media.NewGCSTransfer(gcsClient, cfg.GCSBucketName)
	recorder := media.NewFirestoreRecorder(fsClient.Firestore, media.WithCollection(mediaCollection))
	pipeline, err := media.NewPipeline(prober, transfer, recorder,
		media.WithConcurrentUploads(cfg.ConcurrentUploads))
	if err != nil {
		log.Fatalf("Failed to create upload pipeline: %v", err)
	}

	// Gallery store and chat client
	store := catalog.NewStore(fsClient.Firestore, gcsClient, cfg.GCSBucketName,
		catalog.WithMediaCollection(mediaCollection),
		catalog.WithUsersCollection(firestore.CollectionName("users")))
	chat := linebot.NewClient(cfg.LineChannelToken)

	router := server.NewRouter(cfg, server.Deps{
		Chat:     chat,
		Pipeline: pipeline,
		Profiles: store,
		Gallery:  store,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()

	log.Printf("Server starting on port %s", cfg.Port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
