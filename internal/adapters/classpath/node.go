package classpath

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/modpack/internal/core/ports"
)

// NodeID is the unique identifier for the type loader factory Graft node.
const NodeID graft.ID = "adapter.classpath"

func init() {
	graft.Register(graft.Node[ports.TypeLoaderFactory]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.TypeLoaderFactory, error) {
			return NewFactory(), nil
		},
	})
}
