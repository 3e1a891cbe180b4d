package pipeline

import (
	"context"

	infra "github.com/SenorMexico1/LPD-sub001/internal/infra/bigquery"
)

// StorageService is an interface for workbook storage operations. It is a
// seam for mocking: the production implementation reads from GCS.
type StorageService interface {
	FetchFromGCS(ctx context.Context, gcsURI string) ([]byte, error)
	FilenameFromURI(uri string) string
}

// PortfolioRepository is re-exported so pipeline callers mock one package.
type PortfolioRepository = infra.PortfolioRepository
