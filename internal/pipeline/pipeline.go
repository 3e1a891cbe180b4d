package pipeline

import (
	"context"
	"time"

	"github.com/SenorMexico1/LPD-sub001/internal/engine"
	infra "github.com/SenorMexico1/LPD-sub001/internal/infra/bigquery"
	"github.com/SenorMexico1/LPD-sub001/internal/logger"
)

// Dependencies carries everything the ingestion pipeline needs. Repo and
// Storage are interfaces so tests can substitute mocks; Now defaults to
// time.Now when nil.
type Dependencies struct {
	Repo    infra.PortfolioRepository
	Storage StorageService
	Engine  engine.Config
	Now     func() time.Time
}

// NewWorkbookIngestionPipeline creates the standard 8-step pipeline for
// ingesting a portfolio workbook.
func NewWorkbookIngestionPipeline(deps Dependencies) *Pipeline {
	return NewPipeline(
		&StartRunStep{Repo: deps.Repo, Storage: deps.Storage},
		&FetchWorkbookStep{Repo: deps.Repo, Storage: deps.Storage},
		&ExtractRowsStep{Repo: deps.Repo},
		&AssembleLoansStep{},
		&DeriveStep{Engine: deps.Engine, Now: deps.Now},
		&BuildRowsStep{},
		&ReplaceLoansStep{Repo: deps.Repo},
		&MarkSuccessStep{Repo: deps.Repo},
	)
}

// IngestWorkbookFromGCS processes a single portfolio workbook stored in GCS.
// gcsURI should look like: "gs://bucket/path/to/portfolio.xlsx".
func IngestWorkbookFromGCS(ctx context.Context, deps Dependencies, gcsURI string) (*PipelineState, error) {
	state := &PipelineState{SourceURI: gcsURI}
	return state, run(ctx, deps, state)
}

// IngestWorkbookBytes processes workbook bytes already in memory, for local
// file ingestion. sourceURI identifies the workbook in ingestion_runs.
func IngestWorkbookBytes(ctx context.Context, deps Dependencies, sourceURI string, data []byte) (*PipelineState, error) {
	state := &PipelineState{SourceURI: sourceURI, WorkbookBytes: data}
	return state, run(ctx, deps, state)
}

func run(ctx context.Context, deps Dependencies, state *PipelineState) error {
	log := logger.FromContext(ctx)

	if err := NewWorkbookIngestionPipeline(deps).Execute(ctx, state); err != nil {
		log.Error().
			Err(err).
			Str("source_uri", state.SourceURI).
			Str("ingestion_run_id", state.IngestionRunID).
			Msg("workbook ingestion failed")
		return err
	}

	log.Info().
		Str("source_uri", state.SourceURI).
		Str("ingestion_run_id", state.IngestionRunID).
		Int("rows_read", state.RowsRead).
		Int("loans", len(state.Loans)).
		Int("orphan_rows", len(state.OrphanRows)).
		Msg("workbook ingested")
	return nil
}
