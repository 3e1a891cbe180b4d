package pipeline

import (
	"context"

	"github.com/SenorMexico1/LPD-sub001/internal/gcsuploader"
)

// GCSStorageService is the concrete StorageService backed by Google Cloud
// Storage.
type GCSStorageService struct{}

// NewGCSStorageService creates a new instance of GCSStorageService.
func NewGCSStorageService() *GCSStorageService {
	return &GCSStorageService{}
}

// FetchFromGCS delegates to the gcsuploader package.
func (s *GCSStorageService) FetchFromGCS(ctx context.Context, gcsURI string) ([]byte, error) {
	return gcsuploader.FetchFromGCS(ctx, gcsURI)
}

// FilenameFromURI delegates to the gcsuploader package.
func (s *GCSStorageService) FilenameFromURI(uri string) string {
	return gcsuploader.FilenameFromURI(uri)
}

var _ StorageService = (*GCSStorageService)(nil)
