package container_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/modpack/internal/adapters/container"
	"go.trai.ch/modpack/internal/core/domain"
	"go.trai.ch/modpack/internal/core/ports"
	"go.trai.ch/modpack/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func TestBuilder_Build(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockToolRunner(ctrl)

	runner.EXPECT().Run(gomock.Any(), ports.ToolInvocation{
		Tool: container.DefaultTool,
		Args: []string{
			"build",
			"--file", "/w/container/Dockerfile",
			"--tag", "app:1.0",
			"--iidfile", "/w/container/image.id",
			"/w",
		},
		Dir:     "/w",
		Verbose: true,
	}).Return(nil)

	err := container.NewBuilder(runner).Build(context.Background(), ports.ContainerRequest{
		ContextDir: "/w",
		Dockerfile: "/w/container/Dockerfile",
		Image:      "app:1.0",
		IDFile:     "/w/container/image.id",
		Verbose:    true,
	})
	require.NoError(t, err)
}

func TestBuilder_Build_Failure(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockToolRunner(ctrl)
	runner.EXPECT().Run(gomock.Any(), gomock.Any()).Return(zerr.With(domain.ErrToolFailed, "tool", "docker"))

	err := container.NewBuilder(runner).Build(context.Background(), ports.ContainerRequest{ContextDir: "/w", Image: "app:1.0"})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrToolFailed.Error())

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "app:1.0", zErr.Metadata()["image"])
	assert.Equal(t, "docker", zErr.Metadata()["tool"])
}
