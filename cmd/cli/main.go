package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/SenorMexico1/LPD-sub001/internal/engine"
	"github.com/SenorMexico1/LPD-sub001/internal/gcsuploader"
	infra "github.com/SenorMexico1/LPD-sub001/internal/infra/bigquery"
	"github.com/SenorMexico1/LPD-sub001/internal/logger"
	"github.com/SenorMexico1/LPD-sub001/internal/pipeline"
	"github.com/rs/zerolog"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "ingest":
		runIngest(log)
	case "upload":
		runUpload(log)
	case "report":
		runReport(log)
	case "inspect":
		runInspect(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Loan Portfolio CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  ingest    Parse and ingest a portfolio workbook from GCS")
	fmt.Println("  upload    Upload a workbook file to GCS")
	fmt.Println("  report    Print a portfolio status summary")
	fmt.Println("  inspect   Inspect a single loan by loan number")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func runIngest(log zerolog.Logger) {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	gcsURI := fs.String("gcs-uri", "", "GCS URI of the portfolio workbook")
	projectID := fs.String("project", "", "GCP project ID")
	datasetID := fs.String("dataset", pipeline.DefaultDatasetID, "BigQuery dataset ID")
	fs.Parse(os.Args[2:])

	if *gcsURI == "" || *projectID == "" {
		log.Fatal().Msg("Usage: cli ingest -gcs-uri URI -project ID")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
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

	log.Info().Str("gcs_uri", *gcsURI).Msg("Starting ingestion")

	state, err := pipeline.IngestWorkbookFromGCS(ctx, deps, *gcsURI)
	if err != nil {
		log.Fatal().Err(err).Msg("Ingestion failed")
	}

	fmt.Printf("Ingestion completed: run %s, %d loans.\n", state.IngestionRunID, len(state.Loans))
}

func runUpload(log zerolog.Logger) {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	bucketName := fs.String("bucket", "", "GCS bucket name")
	objectName := fs.String("object", "", "GCS object name (defaults to filename)")
	filePath := fs.String("file", "", "Path to local workbook file")
	fs.Parse(os.Args[2:])

	if *bucketName == "" || *filePath == "" {
		log.Fatal().Msg("Usage: cli upload -bucket NAME -file PATH")
	}

	if *objectName == "" {
		*objectName = filepath.Base(*filePath)
	}

	ctx := context.Background()
	ctx = logger.WithContext(ctx, log)

	log.Info().
		Str("bucket", *bucketName).
		Str("object", *objectName).
		Str("file", *filePath).
		Msg("Uploading workbook to GCS")

	uri, err := gcsuploader.UploadWorkbook(ctx, *bucketName, *objectName, *filePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Upload failed")
	}

	fmt.Printf("Uploaded %s to %s\n", *filePath, uri)
}

func runReport(log zerolog.Logger) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	projectID := fs.String("project", "", "GCP project ID")
	datasetID := fs.String("dataset", pipeline.DefaultDatasetID, "BigQuery dataset ID")
	fs.Parse(os.Args[2:])

	if *projectID == "" {
		log.Fatal().Msg("Usage: cli report -project ID")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	repo, err := infra.NewRepository(ctx, *projectID, *datasetID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to BigQuery")
	}
	defer repo.Close()

	loans, err := repo.ListLoans(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list loans")
	}

	byStatus := make(map[string]int)
	for _, l := range loans {
		byStatus[l.Status]++
	}

	fmt.Printf("\n=== Portfolio (%d loans) ===\n", len(loans))
	for status, count := range byStatus {
		fmt.Printf("  %-14s %d\n", status, count)
	}
}

func runInspect(log zerolog.Logger) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	loanNumber := fs.String("loan", "", "Loan number to inspect")
	projectID := fs.String("project", "", "GCP project ID")
	datasetID := fs.String("dataset", pipeline.DefaultDatasetID, "BigQuery dataset ID")
	fs.Parse(os.Args[2:])

	if *loanNumber == "" || *projectID == "" {
		log.Fatal().Msg("Usage: cli inspect -loan NUMBER -project ID")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	repo, err := infra.NewRepository(ctx, *projectID, *datasetID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to BigQuery")
	}
	defer repo.Close()

	loans, err := repo.ListLoans(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list loans")
	}

	var loan *infra.LoanRow
	for _, l := range loans {
		if l.LoanNumber == *loanNumber {
			loan = l
			break
		}
	}

	if loan == nil {
		log.Fatal().Str("loan", *loanNumber).Msg("Loan not found")
	}

	fmt.Println("\n=== Loan Details ===")
	fmt.Printf("Loan number:   %s\n", loan.LoanNumber)
	fmt.Printf("External ID:   %s\n", loan.ExternalID)
	fmt.Printf("Status:        %s\n", loan.Status)
	fmt.Printf("Risk score:    %d\n", loan.RiskScore)
	if loan.LoanAmount != nil {
		fmt.Printf("Loan amount:   %s\n", loan.LoanAmount.FloatString(2))
	}
	if loan.ContractBalance != nil {
		fmt.Printf("Balance:       %s\n", loan.ContractBalance.FloatString(2))
	}
	fmt.Printf("Expected:      %d payments\n", loan.TotalExpected)
	fmt.Printf("Made:          %d payments\n", loan.PaymentsMade)
	fmt.Printf("Missed:        %d payments\n", loan.MissedPayments)
	fmt.Printf("Matched:       %d\n", loan.MatchedCount)
	fmt.Printf("Missed match:  %d\n", loan.MissedMatchCount)
	fmt.Printf("Future:        %d\n", loan.FutureCount)
	fmt.Printf("Extra:         %d\n", loan.ExtraCount)
	fmt.Printf("Ingested:      %s (run %s)\n", loan.IngestedTS, loan.IngestionRunID)
	fmt.Println()
}
