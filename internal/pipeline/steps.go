package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/SenorMexico1/LPD-sub001/internal/domain"
	"github.com/SenorMexico1/LPD-sub001/internal/engine"
	"github.com/SenorMexico1/LPD-sub001/internal/etl"
	infra "github.com/SenorMexico1/LPD-sub001/internal/infra/bigquery"
	"github.com/SenorMexico1/LPD-sub001/internal/logger"
)

// PipelineStep represents a single step in the ingestion pipeline.
type PipelineStep interface {
	Execute(ctx context.Context, state *PipelineState) error
}

// PipelineState holds the shared state across all pipeline steps.
type PipelineState struct {
	SourceURI      string
	IngestionRunID string
	WorkbookBytes  []byte
	Rows           []etl.RawRow
	Loans          []*domain.Loan
	RowsRead       int
	OrphanRows     []int
	LoanRows       []*infra.LoanRow
	AsOf           time.Time
}

// Step 1: StartRunStep creates an ingestion_runs row with status=RUNNING.
type StartRunStep struct {
	Repo    infra.PortfolioRepository
	Storage StorageService
}

func (s *StartRunStep) Execute(ctx context.Context, state *PipelineState) error {
	runID, err := s.Repo.StartIngestionRun(ctx, state.SourceURI, s.Storage.FilenameFromURI(state.SourceURI), EngineVersion)
	if err != nil {
		return err
	}
	state.IngestionRunID = runID
	return nil
}

// Step 2: FetchWorkbookStep fetches the workbook bytes from storage. It is
// skipped when the caller already holds the bytes (local file ingestion).
type FetchWorkbookStep struct {
	Repo    infra.PortfolioRepository
	Storage StorageService
}

func (s *FetchWorkbookStep) Execute(ctx context.Context, state *PipelineState) error {
	if state.WorkbookBytes != nil {
		return nil
	}
	data, err := s.Storage.FetchFromGCS(ctx, state.SourceURI)
	if err != nil {
		s.Repo.MarkIngestionRunFailed(ctx, state.IngestionRunID, err)
		return err
	}
	state.WorkbookBytes = data
	return nil
}

// Step 3: ExtractRowsStep reads the first sheet of the workbook into raw rows.
type ExtractRowsStep struct {
	Repo infra.PortfolioRepository
}

func (s *ExtractRowsStep) Execute(ctx context.Context, state *PipelineState) error {
	rows, err := etl.ExtractRows(state.WorkbookBytes)
	if err != nil {
		s.Repo.MarkIngestionRunFailed(ctx, state.IngestionRunID, err)
		return err
	}
	state.Rows = rows
	return nil
}

// Step 4: AssembleLoansStep folds raw rows into loan records. Orphan
// continuation rows are logged and skipped rather than failing the run.
type AssembleLoansStep struct{}

func (s *AssembleLoansStep) Execute(ctx context.Context, state *PipelineState) error {
	log := logger.FromContext(ctx)

	result := etl.Assemble(state.Rows)
	state.Loans = result.Loans
	state.RowsRead = result.RowsRead
	state.OrphanRows = result.OrphanRows

	if len(result.OrphanRows) > 0 {
		log.Warn().
			Ints("rows", result.OrphanRows).
			Str("source_uri", state.SourceURI).
			Msg("skipped continuation rows with no preceding loan header")
	}
	return nil
}

// Step 5: DeriveStep computes status, payment matching and risk for every loan.
type DeriveStep struct {
	Engine engine.Config
	Now    func() time.Time
}

func (s *DeriveStep) Execute(ctx context.Context, state *PipelineState) error {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	state.AsOf = now()
	engine.DeriveAll(state.Loans, state.AsOf, s.Engine)
	return nil
}

// Step 6: BuildRowsStep maps derived loans onto BigQuery rows.
type BuildRowsStep struct{}

func (s *BuildRowsStep) Execute(ctx context.Context, state *PipelineState) error {
	ingestedAt := state.AsOf
	if ingestedAt.IsZero() {
		ingestedAt = time.Now()
	}
	rows := make([]*infra.LoanRow, 0, len(state.Loans))
	for _, loan := range state.Loans {
		rows = append(rows, infra.LoanRowFromDomain(loan, state.IngestionRunID, ingestedAt))
	}
	state.LoanRows = rows
	return nil
}

// Step 7: ReplaceLoansStep deletes rows from earlier runs of the same
// workbook, then inserts the fresh portfolio.
type ReplaceLoansStep struct {
	Repo infra.PortfolioRepository
}

func (s *ReplaceLoansStep) Execute(ctx context.Context, state *PipelineState) error {
	if err := s.Repo.DeleteLoansForSource(ctx, state.SourceURI); err != nil {
		s.Repo.MarkIngestionRunFailed(ctx, state.IngestionRunID, err)
		return err
	}
	if err := s.Repo.InsertLoans(ctx, state.LoanRows); err != nil {
		s.Repo.MarkIngestionRunFailed(ctx, state.IngestionRunID, err)
		return err
	}
	return nil
}

// Step 8: MarkSuccessStep marks the ingestion run as SUCCESS with run totals.
type MarkSuccessStep struct {
	Repo infra.PortfolioRepository
}

func (s *MarkSuccessStep) Execute(ctx context.Context, state *PipelineState) error {
	counts := infra.RunCounts{
		RowsRead:   state.RowsRead,
		LoanCount:  len(state.Loans),
		OrphanRows: len(state.OrphanRows),
	}
	return s.Repo.MarkIngestionRunSucceeded(ctx, state.IngestionRunID, counts)
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []PipelineStep
}

// NewPipeline creates a new pipeline with the given steps.
func NewPipeline(steps ...PipelineStep) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps in the pipeline sequentially.
func (p *Pipeline) Execute(ctx context.Context, state *PipelineState) error {
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d failed: %w", i+1, err)
		}
	}
	return nil
}
