package app

import "context"

// SetRebuild replaces the build run by the watch loop.
func (a *App) SetRebuild(f func(ctx context.Context, opts Options) error) {
	a.rebuild = f
}
