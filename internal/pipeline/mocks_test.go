package pipeline_test

import (
	"context"

	infra "github.com/SenorMexico1/LPD-sub001/internal/infra/bigquery"
)

// MockPortfolioRepository is a function-field mock of the repository seam.
type MockPortfolioRepository struct {
	StartIngestionRunFunc         func(ctx context.Context, sourceURI, sourceFile, engineVersion string) (string, error)
	MarkIngestionRunFailedFunc    func(ctx context.Context, runID string, runErr error)
	MarkIngestionRunSucceededFunc func(ctx context.Context, runID string, counts infra.RunCounts) error
	InsertLoansFunc               func(ctx context.Context, rows []*infra.LoanRow) error
	DeleteLoansForSourceFunc      func(ctx context.Context, sourceURI string) error
	ListLoansFunc                 func(ctx context.Context) ([]*infra.LoanRow, error)
}

func (m *MockPortfolioRepository) StartIngestionRun(ctx context.Context, sourceURI, sourceFile, engineVersion string) (string, error) {
	if m.StartIngestionRunFunc != nil {
		return m.StartIngestionRunFunc(ctx, sourceURI, sourceFile, engineVersion)
	}
	return "test-run-id", nil
}

func (m *MockPortfolioRepository) MarkIngestionRunFailed(ctx context.Context, runID string, runErr error) {
	if m.MarkIngestionRunFailedFunc != nil {
		m.MarkIngestionRunFailedFunc(ctx, runID, runErr)
	}
}

func (m *MockPortfolioRepository) MarkIngestionRunSucceeded(ctx context.Context, runID string, counts infra.RunCounts) error {
	if m.MarkIngestionRunSucceededFunc != nil {
		return m.MarkIngestionRunSucceededFunc(ctx, runID, counts)
	}
	return nil
}

func (m *MockPortfolioRepository) InsertLoans(ctx context.Context, rows []*infra.LoanRow) error {
	if m.InsertLoansFunc != nil {
		return m.InsertLoansFunc(ctx, rows)
	}
	return nil
}

func (m *MockPortfolioRepository) DeleteLoansForSource(ctx context.Context, sourceURI string) error {
	if m.DeleteLoansForSourceFunc != nil {
		return m.DeleteLoansForSourceFunc(ctx, sourceURI)
	}
	return nil
}

func (m *MockPortfolioRepository) ListLoans(ctx context.Context) ([]*infra.LoanRow, error) {
	if m.ListLoansFunc != nil {
		return m.ListLoansFunc(ctx)
	}
	return nil, nil
}

func (m *MockPortfolioRepository) Close() error { return nil }

// MockStorageService is a function-field mock of the workbook storage seam.
type MockStorageService struct {
	FetchFromGCSFunc    func(ctx context.Context, gcsURI string) ([]byte, error)
	FilenameFromURIFunc func(uri string) string
}

func (m *MockStorageService) FetchFromGCS(ctx context.Context, gcsURI string) ([]byte, error) {
	if m.FetchFromGCSFunc != nil {
		return m.FetchFromGCSFunc(ctx, gcsURI)
	}
	return nil, nil
}

func (m *MockStorageService) FilenameFromURI(uri string) string {
	if m.FilenameFromURIFunc != nil {
		return m.FilenameFromURIFunc(uri)
	}
	return uri
}
