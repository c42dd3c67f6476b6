package cmd

import (
	"context"

	"github.com/pmezard/go-difflib/difflib"
)

// RunDNSGet prints the DNS servers of the first IP-enabled adapter with the
// given description, one per line.
func RunDNSGet(ctx context.Context, env *Env, description, format string) error {
	if err := ValidateFormat(format); err != nil {
		return err
	}
	description, err := env.resolveAdapter(ctx, description)
	if err != nil {
		return err
	}

	servers, err := env.Configurator.GetNameservers(ctx, description)
	if err != nil {
		return err
	}
	if servers == nil {
		servers = []string{}
	}
	if ok, err := writeStructured(env.Out, format, servers); ok {
		return err
	}
	for _, s := range servers {
		Printer.Fprintf(env.Out, "%s\n", s)
	}
	return nil
}

// DNSSetOptions are the flags of "dns set".
type DNSSetOptions struct {
	Restart bool
	// Preview prints a diff of the current and requested servers without
	// changing anything.
	Preview bool
}

// RunDNSSet replaces the DNS servers of every IP-enabled adapter with the
// given description. No servers clears them.
func RunDNSSet(ctx context.Context, env *Env, description string, servers []string, opts DNSSetOptions) error {
	if servers == nil {
		servers = []string{}
	}

	if opts.Preview {
		current, err := env.Configurator.GetNameservers(ctx, description)
		if err != nil {
			return err
		}
		diff, err := nameserverDiff(description, current, servers)
		if err != nil {
			return err
		}
		if diff == "" {
			Printer.Fprintf(env.Out, "No changes for %s.\n", description)
			return nil
		}
		Printer.Fprintf(env.Out, "%s", diff)
		return nil
	}

	updated, err := env.Configurator.SetNameservers(ctx, description, servers, opts.Restart)
	if !updated && err == nil {
		Printer.Fprintf(env.Out, "No IP-enabled adapter described as %q.\n", description)
		return nil
	}
	if updated {
		Printer.Fprintf(env.Out, "DNS servers of %s updated.\n", description)
	}
	return err
}

func nameserverDiff(description string, current, next []string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        lines(current),
		B:        lines(next),
		FromFile: description + " (current)",
		ToFile:   description + " (requested)",
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(diff)
}

func lines(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item+"\n")
	}
	return out
}
