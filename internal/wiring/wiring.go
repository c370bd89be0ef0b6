// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/modpack/internal/adapters/archive"
	_ "go.trai.ch/modpack/internal/adapters/cas"
	_ "go.trai.ch/modpack/internal/adapters/classpath"
	_ "go.trai.ch/modpack/internal/adapters/config"
	_ "go.trai.ch/modpack/internal/adapters/container"
	_ "go.trai.ch/modpack/internal/adapters/fs"
	_ "go.trai.ch/modpack/internal/adapters/jdk"
	_ "go.trai.ch/modpack/internal/adapters/linear"
	_ "go.trai.ch/modpack/internal/adapters/logger"
	_ "go.trai.ch/modpack/internal/adapters/shell"
	_ "go.trai.ch/modpack/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/modpack/internal/app"
)
