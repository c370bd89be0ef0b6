package jdk

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/modpack/internal/adapters/shell"
	"go.trai.ch/modpack/internal/core/ports"
)

// NodeID is the unique identifier for the JDK toolchain Graft node.
const NodeID graft.ID = "adapter.jdk"

func init() {
	graft.Register(graft.Node[ports.Toolchain]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID},
		Run: func(ctx context.Context) (ports.Toolchain, error) {
			runner, err := graft.Dep[ports.ToolRunner](ctx)
			if err != nil {
				return nil, err
			}
			return New(runner), nil
		},
	})
}
