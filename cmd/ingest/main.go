package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/SenorMexico1/LPD-sub001/internal/engine"
	"github.com/SenorMexico1/LPD-sub001/internal/etl"
	infra "github.com/SenorMexico1/LPD-sub001/internal/infra/bigquery"
	"github.com/SenorMexico1/LPD-sub001/internal/logger"
	"github.com/SenorMexico1/LPD-sub001/internal/pipeline"
)

func main() {
	// Initialize structured logger
	log := logger.New()

	// Parse CLI flags
	source := flag.String("source", "", "Workbook source: gs:// URI or local .xlsx path")
	projectID := flag.String("project", "", "GCP project ID (required unless -dry-run)")
	datasetID := flag.String("dataset", pipeline.DefaultDatasetID, "BigQuery dataset ID")
	asOf := flag.String("as-of", "", "Override the evaluation date (YYYY-MM-DD)")
	dryRun := flag.Bool("dry-run", false, "Parse and derive locally without writing to BigQuery")
	flag.Parse()

	if *source == "" {
		log.Fatal().Msg("Error: -source is required")
	}

	// Create context with timeout so CLI doesn't hang
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// Add logger to context
	ctx = logger.WithContext(ctx, log)

	cfg := engine.DefaultConfig()
	now := time.Now
	if *asOf != "" {
		t, err := time.Parse("2006-01-02", *asOf)
		if err != nil {
			log.Fatal().Err(err).Msg("Error: -as-of must be YYYY-MM-DD")
		}
		now = func() time.Time { return t }
	}

	if *dryRun {
		runDryRun(ctx, *source, cfg, now())
		return
	}

	if *projectID == "" {
		log.Fatal().Msg("Error: -project is required")
	}

	repo, err := infra.NewRepository(ctx, *projectID, *datasetID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to BigQuery")
	}
	defer repo.Close()

	deps := pipeline.Dependencies{
		Repo:    repo,
		Storage: pipeline.NewGCSStorageService(),
		Engine:  cfg,
		Now:     now,
	}

	log.Info().Str("source", *source).Msg("Starting ingestion")

	var state *pipeline.PipelineState
	if strings.HasPrefix(*source, "gs://") {
		state, err = pipeline.IngestWorkbookFromGCS(ctx, deps, *source)
	} else {
		var data []byte
		data, err = os.ReadFile(*source)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to read workbook file")
		}
		state, err = pipeline.IngestWorkbookBytes(ctx, deps, *source, data)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Ingestion failed")
	}

	fmt.Printf("Ingestion completed: run %s, %d loans from %d rows.\n",
		state.IngestionRunID, len(state.Loans), state.RowsRead)
}

// runDryRun parses a local workbook and prints the derived portfolio without
// touching BigQuery.
func runDryRun(ctx context.Context, source string, cfg engine.Config, asOf time.Time) {
	log := logger.FromContext(ctx)

	var data []byte
	var err error
	if strings.HasPrefix(source, "gs://") {
		data, err = pipeline.NewGCSStorageService().FetchFromGCS(ctx, source)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read workbook")
	}

	rows, err := etl.ExtractRows(data)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to extract rows")
	}

	result := etl.Assemble(rows)
	if len(result.OrphanRows) > 0 {
		log.Warn().Ints("rows", result.OrphanRows).Msg("skipped orphan continuation rows")
	}

	engine.DeriveAll(result.Loans, asOf, cfg)

	printDryRunReport(os.Stdout, result, asOf)
}

// printDryRunReport writes the portfolio breakdown for a locally derived
// workbook.
func printDryRunReport(w io.Writer, result etl.AssembleResult, asOf time.Time) {
	summary := engine.Summarize(result.Loans)

	fmt.Fprintf(w, "Parsed %d loans from %d rows (as of %s)\n",
		summary.TotalLoans, result.RowsRead, asOf.Format("2006-01-02"))
	for status, count := range summary.ByStatus {
		fmt.Fprintf(w, "  %-14s %d\n", status, count)
	}
	fmt.Fprintf(w, "Total contract balance: %.2f\n", summary.TotalContractBalance)
	fmt.Fprintf(w, "Average risk score:     %.1f\n", summary.AverageRiskScore)

	for _, loan := range result.Loans {
		fmt.Fprintf(w, "\n%s (%s): %s, risk %d\n",
			loan.LoanNumber, loan.ExternalID, loan.Status, loan.RiskScore)
		if loan.StatusCalculation != nil {
			fmt.Fprintf(w, "  expected %d, made %d, missed %d\n",
				loan.StatusCalculation.TotalExpected,
				loan.StatusCalculation.PaymentsMade,
				loan.StatusCalculation.MissedPayments)
		}
	}
}
