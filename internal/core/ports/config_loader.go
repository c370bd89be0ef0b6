// Package ports defines the core interfaces for the application.
package ports

import "go.trai.ch/modpack/internal/core/domain"

// ConfigLoader defines the interface for loading the build configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads and validates the configuration file at path.
	// Relative paths inside the file resolve against the file's directory.
	Load(path string) (*domain.BuildConfig, error)

	// Discover walks up from dir to the nearest configuration file.
	Discover(dir string) (string, error)
}
