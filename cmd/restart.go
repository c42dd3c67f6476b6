package cmd

import (
	"context"
)

// RunRestart disables and re-enables the first adapter with the given
// description, then waits according to the restart policy.
func RunRestart(ctx context.Context, env *Env, description string) error {
	description, err := env.resolveAdapter(ctx, description)
	if err != nil {
		return err
	}

	records, err := env.Configurator.Adapters(ctx)
	if err != nil {
		return err
	}
	found := false
	for _, r := range records {
		if r.Description == description {
			found = true
			break
		}
	}
	if !found {
		Printer.Fprintf(env.Out, "No adapter described as %q.\n", description)
		return nil
	}

	if err := env.Configurator.RestartAdapter(ctx, description); err != nil {
		return err
	}
	Printer.Fprintf(env.Out, "Restarted %s.\n", description)
	return nil
}
