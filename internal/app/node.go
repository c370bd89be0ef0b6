package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/modpack/internal/adapters/archive"   //nolint:depguard // Wired in app layer
	"go.trai.ch/modpack/internal/adapters/cas"       //nolint:depguard // Wired in app layer
	"go.trai.ch/modpack/internal/adapters/classpath" //nolint:depguard // Wired in app layer
	"go.trai.ch/modpack/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/modpack/internal/adapters/container" //nolint:depguard // Wired in app layer
	"go.trai.ch/modpack/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/modpack/internal/adapters/jdk"       //nolint:depguard // Wired in app layer
	"go.trai.ch/modpack/internal/adapters/linear"    //nolint:depguard // Wired in app layer
	"go.trai.ch/modpack/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/modpack/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/modpack/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// AdaptersNodeID is the unique identifier for the pipeline adapters Graft node.
	AdaptersNodeID graft.ID = "app.adapters"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[Adapters]{
		ID:        AdaptersNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.ResolverNodeID,
			fs.WalkerPortNodeID,
			fs.HasherNodeID,
			archive.NodeID,
			classpath.NodeID,
			jdk.NodeID,
			container.NodeID,
			cas.NodeID,
		},
		Run: runAdaptersNode,
	})

	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AdaptersNodeID,
			config.NodeID,
			logger.NodeID,
			linear.NodeID,
			watcher.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			adapters, err := graft.Dep[Adapters](ctx)
			if err != nil {
				return nil, err
			}

			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			renderer, err := graft.Dep[ports.Renderer](ctx)
			if err != nil {
				return nil, err
			}

			w, err := graft.Dep[ports.Watcher](ctx)
			if err != nil {
				return nil, err
			}

			return New(loader, log, renderer, w, adapters), nil
		},
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: app, Logger: log}, nil
		},
	})
}

func runAdaptersNode(ctx context.Context) (Adapters, error) {
	var a Adapters
	var err error

	if a.Resolver, err = graft.Dep[ports.ArtifactResolver](ctx); err != nil {
		return a, err
	}
	if a.Walker, err = graft.Dep[ports.Walker](ctx); err != nil {
		return a, err
	}
	if a.Hasher, err = graft.Dep[ports.Hasher](ctx); err != nil {
		return a, err
	}
	if a.Archive, err = graft.Dep[ports.ArchiveService](ctx); err != nil {
		return a, err
	}
	if a.Types, err = graft.Dep[ports.TypeLoaderFactory](ctx); err != nil {
		return a, err
	}
	if a.Toolchain, err = graft.Dep[ports.Toolchain](ctx); err != nil {
		return a, err
	}
	if a.Container, err = graft.Dep[ports.ContainerBuilder](ctx); err != nil {
		return a, err
	}
	if a.Store, err = graft.Dep[ports.ReportStore](ctx); err != nil {
		return a, err
	}
	return a, nil
}
