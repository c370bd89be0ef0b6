// Package cas persists the build report.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/modpack/internal/core/domain"
	"go.trai.ch/zerr"
)

// report is the on-disk form of the build report.
type report struct {
	Stages []domain.StageRecord `json:"stages"`
}

// Store implements ports.ReportStore using JSON files.
type Store struct {
	mu sync.Mutex
}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// Get reads the report at path. A missing or empty file yields nil, nil.
func (s *Store) Get(path string) ([]domain.StageRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "path", path)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var r report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "path", path)
	}
	for i := range r.Stages {
		r.Stages[i].Status = domain.NormalizeStageStatus(string(r.Stages[i].Status))
	}
	return r.Stages, nil
}

// Put replaces the report at path. The file is written next to its final
// location and renamed into place.
func (s *Store) Put(path string, records []domain.StageRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(report{Stages: records}, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}

	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", path)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", path)
	}
	return nil
}
