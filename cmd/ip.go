package cmd

import (
	"context"

	"grimm.is/nicctl/internal/adapter"
)

// IPSetOptions are the flags of "ip set".
type IPSetOptions struct {
	Mask    string
	Gateway string
}

// RunIPSet assigns static addresses, and optionally a default gateway, to
// every IP-enabled adapter with the given description.
func RunIPSet(ctx context.Context, env *Env, description string, addrs []string, opts IPSetOptions) error {
	if len(addrs) == 0 {
		return adapter.ErrNoAddresses
	}

	rec, err := env.Configurator.Configuration(ctx, description)
	if err != nil {
		return err
	}
	if rec == nil {
		Printer.Fprintf(env.Out, "No IP-enabled adapter described as %q.\n", description)
		return nil
	}

	if err := env.Configurator.SetIP(ctx, description, addrs, opts.Mask, opts.Gateway); err != nil {
		return err
	}
	Printer.Fprintf(env.Out, "Addresses of %s updated.\n", description)
	return nil
}
