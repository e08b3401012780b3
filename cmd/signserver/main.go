package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"docsignflow/internal/config"
	"docsignflow/internal/gcp"
	"docsignflow/internal/server"
	"docsignflow/internal/services"
	"docsignflow/internal/signing"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error.", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// All store clients are constructed once here and passed down by
	// reference; nothing re-initializes them per request.
	firestoreClient, err := gcp.NewFirestoreClient(ctx, cfg.ProjectID)
	if err != nil {
		return err
	}
	defer firestoreClient.Close()

	storageClient, err := gcp.NewStorageClient(ctx)
	if err != nil {
		return err
	}
	defer storageClient.Close()

	docStore := gcp.NewDocumentStore(firestoreClient, cfg.DocumentsCollection, cfg.UsersCollection)
	blobStore := gcp.NewBlobStore(storageClient, cfg.StorageBucket)
	stamper := signing.NewStamper()

	deps := server.Deps{
		Auth:      services.NewAuth(docStore, docStore, []byte(cfg.JWTSecret)),
		Documents: services.NewDocuments(docStore, blobStore),
		Uploader:  services.NewUploader(docStore, blobStore, stamper),
		Archive:   services.NewArchive(docStore, blobStore),
		Signer:    services.NewSigner(docStore, blobStore, stamper),
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      server.NewRouter(cfg, deps),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server listening.", "addr", srv.Addr, "bucket", cfg.StorageBucket)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down.")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
