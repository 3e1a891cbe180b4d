package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SenorMexico1/LPD-sub001/internal/engine"
	infra "github.com/SenorMexico1/LPD-sub001/internal/infra/bigquery"
	"github.com/SenorMexico1/LPD-sub001/internal/jobs"
	"github.com/SenorMexico1/LPD-sub001/internal/jobs/inmemory"
	"github.com/SenorMexico1/LPD-sub001/internal/logger"
	"github.com/SenorMexico1/LPD-sub001/internal/pipeline"
)

func main() {
	// Initialize logger
	log := logger.New()

	projectID := flag.String("project", "", "GCP project ID (required)")
	datasetID := flag.String("dataset", pipeline.DefaultDatasetID, "BigQuery dataset ID")
	workers := flag.Int("workers", 5, "Number of concurrent ingestion workers")
	flag.Parse()

	if *projectID == "" {
		log.Fatal().Msg("Error: -project flag is required")
	}

	// Initialize job store and queue
	// In production, this would be replaced with Cloud Tasks or Pub/Sub
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, *workers, jobStore)

	log.Info().Msg("Starting worker service")

	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	repo, err := infra.NewRepository(ctx, *projectID, *datasetID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to BigQuery")
	}
	defer repo.Close()

	deps := pipeline.Dependencies{
		Repo:    repo,
		Storage: pipeline.NewGCSStorageService(),
		Engine:  engine.DefaultConfig(),
	}

	// Create job handler that processes ingestion jobs
	handler := func(ctx context.Context, job jobs.Job) error {
		ingestJob, ok := job.(*jobs.IngestWorkbookJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		log.Info().
			Str("job_id", ingestJob.JobID).
			Str("source_uri", ingestJob.SourceURI).
			Msg("Processing ingestion job")

		// Execute the pipeline
		state, err := pipeline.IngestWorkbookFromGCS(ctx, deps, ingestJob.SourceURI)
		if err != nil {
			log.Error().
				Err(err).
				Str("job_id", ingestJob.JobID).
				Str("source_uri", ingestJob.SourceURI).
				Msg("Pipeline execution failed")
			return err
		}
		ingestJob.IngestionRunID = state.IngestionRunID

		log.Info().
			Str("job_id", ingestJob.JobID).
			Str("ingestion_run_id", state.IngestionRunID).
			Int("loans", len(state.Loans)).
			Msg("Pipeline execution completed successfully")

		return nil
	}

	// Start consuming jobs
	if err := jobQueue.Start(ctx, handler); err != nil {
		log.Fatal().Err(err).Msg("Failed to start job consumer")
	}

	log.Info().Msg("Worker service started, waiting for jobs...")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down worker service...")

	// Cancel context to stop workers
	cancel()

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Stop the queue and wait for in-flight jobs
	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during graceful shutdown")
	}

	// Close the queue
	if err := jobQueue.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close job queue")
	}

	log.Info().Msg("Worker service exited")
}
