package app

import (
	"context"
	"fmt"

	"github.com/vk/funcli/internal/manifest"
)

// Load reads the command manifest named by the configuration.
func (a *App) Load(ctx context.Context) error {
	ctx = a.context(ctx)
	a.logger.Debug("Loading manifest...", "manifest_path", a.config.ManifestPath)

	cmd, err := manifest.Load(ctx, a.config.ManifestPath)
	if err != nil {
		return fmt.Errorf("failed to load manifest: %w", err)
	}

	a.command = cmd
	a.logger.Debug("Manifest loaded successfully.", "command", cmd.Name, "parameters", len(cmd.Parameters))
	return nil
}
