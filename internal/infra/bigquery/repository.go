package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/SenorMexico1/LPD-sub001/internal/logger"
)

const (
	ingestionRunsTable = "ingestion_runs"
	loansTable         = "loans"
)

// RunCounts are the totals recorded when an ingestion run succeeds.
type RunCounts struct {
	RowsRead   int
	LoanCount  int
	OrphanRows int
}

// PortfolioRepository is the persistence seam the pipeline writes through.
// The concrete implementation talks to BigQuery; tests substitute mocks.
type PortfolioRepository interface {
	StartIngestionRun(ctx context.Context, sourceURI, sourceFile, engineVersion string) (string, error)
	MarkIngestionRunFailed(ctx context.Context, runID string, runErr error)
	MarkIngestionRunSucceeded(ctx context.Context, runID string, counts RunCounts) error
	InsertLoans(ctx context.Context, rows []*LoanRow) error
	DeleteLoansForSource(ctx context.Context, sourceURI string) error
	ListLoans(ctx context.Context) ([]*LoanRow, error)
	Close() error
}

// Repository is the BigQuery-backed PortfolioRepository. It holds one
// shared client for its lifetime; call Close when done.
type Repository struct {
	client    *bigquery.Client
	projectID string
	datasetID string
}

// NewRepository opens a BigQuery client against the given project/dataset.
// Application Default Credentials are assumed.
func NewRepository(ctx context.Context, projectID, datasetID string) (*Repository, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewRepository: bigquery client: %w", err)
	}
	return &Repository{client: client, projectID: projectID, datasetID: datasetID}, nil
}

// Close releases the underlying client.
func (r *Repository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// StartIngestionRun inserts a RUNNING row into ingestion_runs and returns
// the generated run id.
func (r *Repository) StartIngestionRun(ctx context.Context, sourceURI, sourceFile, engineVersion string) (string, error) {
	runID := uuid.NewString()

	q := r.client.Query(fmt.Sprintf(`
		INSERT %s.%s (
			ingestion_run_id,
			source_uri,
			source_file,
			started_ts,
			engine_version,
			status
		)
		VALUES (
			@ingestion_run_id,
			@source_uri,
			@source_file,
			@started_ts,
			@engine_version,
			@status
		)
	`, r.datasetID, ingestionRunsTable))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "ingestion_run_id", Value: runID},
		{Name: "source_uri", Value: sourceURI},
		{Name: "source_file", Value: sourceFile},
		{Name: "started_ts", Value: time.Now()},
		{Name: "engine_version", Value: engineVersion},
		{Name: "status", Value: runStatusRunning},
	}

	if err := r.runToCompletion(ctx, q); err != nil {
		return "", fmt.Errorf("StartIngestionRun: %w", err)
	}
	return runID, nil
}

// MarkIngestionRunFailed sets status=FAILED with the error message. It is
// called on error paths that are already failing, so it logs instead of
// returning an error.
func (r *Repository) MarkIngestionRunFailed(ctx context.Context, runID string, runErr error) {
	log := logger.FromContext(ctx)

	errMsg := ""
	if runErr != nil {
		errMsg = runErr.Error()
		const maxLen = 2000
		if len(errMsg) > maxLen {
			errMsg = errMsg[:maxLen]
		}
	}

	q := r.client.Query(fmt.Sprintf(`
		UPDATE %s.%s
		SET status = @status,
		    finished_ts = @finished_ts,
		    error_message = @error_message
		WHERE ingestion_run_id = @ingestion_run_id
	`, r.datasetID, ingestionRunsTable))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "status", Value: runStatusFailed},
		{Name: "finished_ts", Value: time.Now()},
		{Name: "error_message", Value: errMsg},
		{Name: "ingestion_run_id", Value: runID},
	}

	if err := r.runToCompletion(ctx, q); err != nil {
		log.Error().
			Err(err).
			Str("ingestion_run_id", runID).
			Msg("MarkIngestionRunFailed: updating run row")
	}
}

// MarkIngestionRunSucceeded sets status=SUCCESS with the run totals.
func (r *Repository) MarkIngestionRunSucceeded(ctx context.Context, runID string, counts RunCounts) error {
	q := r.client.Query(fmt.Sprintf(`
		UPDATE %s.%s
		SET status = @status,
		    finished_ts = @finished_ts,
		    error_message = "",
		    rows_read = @rows_read,
		    loan_count = @loan_count,
		    orphan_rows = @orphan_rows
		WHERE ingestion_run_id = @ingestion_run_id
	`, r.datasetID, ingestionRunsTable))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "status", Value: runStatusSuccess},
		{Name: "finished_ts", Value: time.Now()},
		{Name: "rows_read", Value: int64(counts.RowsRead)},
		{Name: "loan_count", Value: int64(counts.LoanCount)},
		{Name: "orphan_rows", Value: int64(counts.OrphanRows)},
		{Name: "ingestion_run_id", Value: runID},
	}

	if err := r.runToCompletion(ctx, q); err != nil {
		return fmt.Errorf("MarkIngestionRunSucceeded: %w", err)
	}
	return nil
}

// InsertLoans streams the derived portfolio rows into the loans table.
func (r *Repository) InsertLoans(ctx context.Context, rows []*LoanRow) error {
	if len(rows) == 0 {
		return nil
	}

	table := r.client.DatasetInProject(r.projectID, r.datasetID).Table(loansTable)
	if err := table.Inserter().Put(ctx, rows); err != nil {
		return fmt.Errorf("InsertLoans: inserting %d rows: %w", len(rows), err)
	}
	return nil
}

// DeleteLoansForSource removes loan rows from earlier runs of the same
// workbook, so re-ingesting a corrected export replaces its portfolio.
func (r *Repository) DeleteLoansForSource(ctx context.Context, sourceURI string) error {
	q := r.client.Query(fmt.Sprintf(`
		DELETE FROM %s.%s
		WHERE ingestion_run_id IN (
			SELECT ingestion_run_id FROM %s.%s WHERE source_uri = @source_uri
		)
	`, r.datasetID, loansTable, r.datasetID, ingestionRunsTable))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "source_uri", Value: sourceURI},
	}

	if err := r.runToCompletion(ctx, q); err != nil {
		return fmt.Errorf("DeleteLoansForSource: %w", err)
	}
	return nil
}

// ListLoans retrieves every loan row from the latest ingestion runs,
// ordered by loan number.
func (r *Repository) ListLoans(ctx context.Context) ([]*LoanRow, error) {
	query := fmt.Sprintf(`
		SELECT *
		FROM `+"`%s.%s.%s`"+`
		ORDER BY loan_number, ingested_ts DESC
	`, r.projectID, r.datasetID, loansTable)

	it, err := r.client.Query(query).Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListLoans: reading query: %w", err)
	}

	var loans []*LoanRow
	for {
		var row LoanRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListLoans: iterating: %w", err)
		}
		loans = append(loans, &row)
	}
	return loans, nil
}

// runToCompletion runs a DML query and waits for the job to finish.
func (r *Repository) runToCompletion(ctx context.Context, q *bigquery.Query) error {
	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("running query: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("job error: %w", err)
	}
	return nil
}

// Ensure Repository implements the interface.
var _ PortfolioRepository = (*Repository)(nil)
