package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/funcli/internal/binder"
	"github.com/vk/funcli/internal/introspect"
)

// Run loads the manifest if needed, binds the configured arguments and
// prints them. A request for help is not an error. Usage errors are
// returned as *binder.UsageError after the diagnostic has been printed.
func (a *App) Run(ctx context.Context) error {
	ctx = a.context(ctx)
	a.logger.Debug("App.Run method started.")

	if a.command == nil {
		if err := a.Load(ctx); err != nil {
			return err
		}
	}

	specs, err := introspect.DeriveSpecs(ctx, a.command.Parameters)
	if err != nil {
		return fmt.Errorf("invalid command %q: %w", a.command.Name, err)
	}

	prog := a.config.Prog
	if prog == "" {
		prog = a.command.Name
	}

	bound, err := binder.Bind(ctx, specs, a.config.Args, binder.Options{
		Prog:        prog,
		Description: a.command.Description,
		Epilog:      a.command.Epilog,
		Stdout:      a.outW,
		Stderr:      a.errW,
	})
	if errors.Is(err, binder.ErrHelp) {
		a.logger.Debug("Help requested, nothing to bind.")
		return nil
	}
	if err != nil {
		return err
	}

	names := make([]string, len(specs))
	for i, spec := range specs {
		names[i] = spec.Name
	}
	if err := render(a.outW, a.config.Output, names, bound); err != nil {
		return fmt.Errorf("failed to render bound arguments: %w", err)
	}

	a.logger.Debug("App.Run method finished.", "bound", len(bound))
	return nil
}
