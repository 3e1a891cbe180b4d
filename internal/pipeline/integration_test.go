package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"path"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/SenorMexico1/LPD-sub001/internal/engine"
	infra "github.com/SenorMexico1/LPD-sub001/internal/infra/bigquery"
	"github.com/SenorMexico1/LPD-sub001/internal/pipeline"
)

// portfolioWorkbook builds a small two-loan workbook in memory. Cells use
// the fixed 76-column export layout.
func portfolioWorkbook(t *testing.T) []byte {
	t.Helper()

	rows := [][]interface{}{
		make([]interface{}, 76), // header
	}

	loanRow := func(externalID, loanNumber string, installment float64, schedDate string, schedAmt float64, txnDate string, txnType string, credit float64) []interface{} {
		row := make([]interface{}, 76)
		row[0] = externalID
		row[1] = loanNumber
		if loanNumber != "" {
			row[3] = 50000.0
			row[8] = installment
			row[9] = 42000.0
			row[19] = 680
		}
		row[60] = schedDate
		row[61] = schedAmt
		row[62] = txnDate
		row[65] = txnType
		row[67] = credit
		return row
	}

	rows = append(rows,
		loanRow("crm-1", "K-1", 1000, "2024-01-05", 1000, "2024-01-05", "ACH", 1000),
		loanRow("", "", 0, "2024-01-12", 1000, "2024-01-12", "ACH", 1000),
		loanRow("crm-2", "K-2", 500, "2024-01-05", 500, "", "", 0),
	)

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+1), &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf.Bytes()
}

func fixedClock() func() time.Time {
	return func() time.Time { return time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC) }
}

func TestIngestWorkbookFromGCS(t *testing.T) {
	workbook := portfolioWorkbook(t)

	var deleted, inserted, succeeded bool
	var insertedRows []*infra.LoanRow
	var counts infra.RunCounts
	var recordedFile string

	repo := &MockPortfolioRepository{
		StartIngestionRunFunc: func(ctx context.Context, sourceURI, sourceFile, engineVersion string) (string, error) {
			recordedFile = sourceFile
			return "test-run-id", nil
		},
		DeleteLoansForSourceFunc: func(ctx context.Context, sourceURI string) error {
			deleted = true
			return nil
		},
		InsertLoansFunc: func(ctx context.Context, rows []*infra.LoanRow) error {
			inserted = true
			insertedRows = rows
			return nil
		},
		MarkIngestionRunSucceededFunc: func(ctx context.Context, runID string, c infra.RunCounts) error {
			succeeded = true
			counts = c
			return nil
		},
	}
	storage := &MockStorageService{
		FetchFromGCSFunc: func(ctx context.Context, gcsURI string) ([]byte, error) {
			return workbook, nil
		},
		FilenameFromURIFunc: func(uri string) string {
			return path.Base(uri)
		},
	}

	deps := pipeline.Dependencies{
		Repo:    repo,
		Storage: storage,
		Engine:  engine.DefaultConfig(),
		Now:     fixedClock(),
	}

	state, err := pipeline.IngestWorkbookFromGCS(context.Background(), deps, "gs://bucket/portfolio.xlsx")
	if err != nil {
		t.Fatalf("IngestWorkbookFromGCS: %v", err)
	}

	if state.IngestionRunID != "test-run-id" {
		t.Errorf("IngestionRunID = %q", state.IngestionRunID)
	}
	if recordedFile != "portfolio.xlsx" {
		t.Errorf("run recorded source file %q, want portfolio.xlsx", recordedFile)
	}
	if len(state.Loans) != 2 {
		t.Fatalf("got %d loans, want 2", len(state.Loans))
	}
	if !deleted || !inserted || !succeeded {
		t.Errorf("repo calls: deleted=%v inserted=%v succeeded=%v", deleted, inserted, succeeded)
	}
	if len(insertedRows) != 2 {
		t.Fatalf("inserted %d rows, want 2", len(insertedRows))
	}
	if insertedRows[0].LoanNumber != "K-1" || insertedRows[0].IngestionRunID != "test-run-id" {
		t.Errorf("row 0 = %q run %q", insertedRows[0].LoanNumber, insertedRows[0].IngestionRunID)
	}
	if insertedRows[0].Status == "" {
		t.Error("derived status missing from row")
	}
	if counts.LoanCount != 2 || counts.RowsRead != 4 {
		t.Errorf("counts = %+v, want 2 loans from 4 rows", counts)
	}
}

func TestIngestWorkbookBytesSkipsFetch(t *testing.T) {
	workbook := portfolioWorkbook(t)

	storage := &MockStorageService{
		FetchFromGCSFunc: func(ctx context.Context, gcsURI string) ([]byte, error) {
			t.Error("storage fetch must not run for local bytes")
			return nil, nil
		},
	}

	deps := pipeline.Dependencies{
		Repo:    &MockPortfolioRepository{},
		Storage: storage,
		Engine:  engine.DefaultConfig(),
		Now:     fixedClock(),
	}

	state, err := pipeline.IngestWorkbookBytes(context.Background(), deps, "exports/portfolio.xlsx", workbook)
	if err != nil {
		t.Fatalf("IngestWorkbookBytes: %v", err)
	}
	if len(state.Loans) != 2 {
		t.Errorf("got %d loans, want 2", len(state.Loans))
	}
}

func TestIngestMarksRunFailedOnFetchError(t *testing.T) {
	fetchErr := errors.New("bucket unavailable")

	var failedRunID string
	var failedErr error
	repo := &MockPortfolioRepository{
		MarkIngestionRunFailedFunc: func(ctx context.Context, runID string, runErr error) {
			failedRunID = runID
			failedErr = runErr
		},
	}
	storage := &MockStorageService{
		FetchFromGCSFunc: func(ctx context.Context, gcsURI string) ([]byte, error) {
			return nil, fetchErr
		},
	}

	deps := pipeline.Dependencies{
		Repo:    repo,
		Storage: storage,
		Engine:  engine.DefaultConfig(),
		Now:     fixedClock(),
	}

	_, err := pipeline.IngestWorkbookFromGCS(context.Background(), deps, "gs://bucket/missing.xlsx")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, fetchErr) {
		t.Errorf("error = %v, want wrapped fetch error", err)
	}
	if failedRunID != "test-run-id" || !errors.Is(failedErr, fetchErr) {
		t.Errorf("run not marked failed: id=%q err=%v", failedRunID, failedErr)
	}
}

func TestIngestMarksRunFailedOnBadWorkbook(t *testing.T) {
	var failed bool
	repo := &MockPortfolioRepository{
		MarkIngestionRunFailedFunc: func(ctx context.Context, runID string, runErr error) {
			failed = true
		},
	}

	deps := pipeline.Dependencies{
		Repo:    repo,
		Storage: &MockStorageService{},
		Engine:  engine.DefaultConfig(),
		Now:     fixedClock(),
	}

	_, err := pipeline.IngestWorkbookBytes(context.Background(), deps, "exports/garbage.bin", []byte("not a workbook"))
	if err == nil {
		t.Fatal("expected an error")
	}
	if !failed {
		t.Error("run not marked failed on unreadable workbook")
	}
}

func TestIngestStopsWhenRunCannotStart(t *testing.T) {
	startErr := errors.New("dataset missing")
	repo := &MockPortfolioRepository{
		StartIngestionRunFunc: func(ctx context.Context, sourceURI, sourceFile, engineVersion string) (string, error) {
			return "", startErr
		},
		InsertLoansFunc: func(ctx context.Context, rows []*infra.LoanRow) error {
			t.Error("no inserts expected when the run cannot start")
			return nil
		},
	}

	deps := pipeline.Dependencies{
		Repo:    repo,
		Storage: &MockStorageService{},
		Engine:  engine.DefaultConfig(),
		Now:     fixedClock(),
	}

	_, err := pipeline.IngestWorkbookBytes(context.Background(), deps, "exports/portfolio.xlsx", portfolioWorkbook(t))
	if !errors.Is(err, startErr) {
		t.Errorf("error = %v, want start error", err)
	}
}
