package bigquery

import (
	"time"

	"cloud.google.com/go/bigquery"
)

// Run lifecycle statuses recorded in portfolio.ingestion_runs.
const (
	runStatusRunning = "RUNNING"
	runStatusSuccess = "SUCCESS"
	runStatusFailed  = "FAILED"
)

// IngestionRunRow is the portfolio.ingestion_runs table schema: one row per
// workbook ingestion attempt, successful or not.
type IngestionRunRow struct {
	IngestionRunID string `bigquery:"ingestion_run_id"` // REQUIRED
	SourceURI      string `bigquery:"source_uri"`       // REQUIRED
	SourceFile     string `bigquery:"source_file"`      // bare workbook filename

	StartedTS  time.Time              `bigquery:"started_ts"`  // REQUIRED
	FinishedTS bigquery.NullTimestamp `bigquery:"finished_ts"` // NULLABLE

	EngineVersion string `bigquery:"engine_version"` // vocabulary table revision

	Status       string `bigquery:"status"`
	ErrorMessage string `bigquery:"error_message"` // NULLABLE

	RowsRead   bigquery.NullInt64 `bigquery:"rows_read"`   // NULLABLE
	LoanCount  bigquery.NullInt64 `bigquery:"loan_count"`  // NULLABLE
	OrphanRows bigquery.NullInt64 `bigquery:"orphan_rows"` // NULLABLE
}
