package ports

import "go.trai.ch/modpack/internal/core/domain"

// ReportStore persists the build report.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type ReportStore interface {
	// Get reads the report at path. Returns nil, nil if not found.
	Get(path string) ([]domain.StageRecord, error)

	// Put writes the report.
	Put(path string, records []domain.StageRecord) error
}
