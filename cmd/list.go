package cmd

import (
	"context"
	"strconv"

	"grimm.is/nicctl/internal/adapter"
	"grimm.is/nicctl/internal/tui"
)

// RunList prints the descriptions of IP-enabled adapters, or every adapter
// with its link details when all is set.
func RunList(ctx context.Context, env *Env, all bool, format string) error {
	if err := ValidateFormat(format); err != nil {
		return err
	}

	if !all {
		names, err := env.Configurator.ListEnabledAdapters(ctx)
		if err != nil {
			return err
		}
		if names == nil {
			names = []string{}
		}
		if ok, err := writeStructured(env.Out, format, names); ok {
			return err
		}
		if len(names) == 0 {
			Printer.Fprintf(env.Out, "No IP-enabled adapters.\n")
			return nil
		}
		for _, name := range names {
			Printer.Fprintf(env.Out, "%s\n", name)
		}
		return nil
	}

	records, err := env.Configurator.Adapters(ctx)
	if err != nil {
		return err
	}
	if records == nil {
		records = []adapter.AdapterRecord{}
	}
	if ok, err := writeStructured(env.Out, format, records); ok {
		return err
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		state := "down"
		if r.Enabled {
			state = "up"
		}
		rows = append(rows, []string{
			strconv.Itoa(r.Index),
			r.Name,
			r.Description,
			tui.State(r.Enabled, state),
			r.OperState,
			r.HardwareAddr,
			orDash(r.Vendor),
			orDash(r.Driver),
		})
	}
	Printer.Fprintf(env.Out, "%s\n", tui.Table(
		[]string{"INDEX", "NAME", "DESCRIPTION", "ADMIN", "OPER", "MAC", "VENDOR", "DRIVER"},
		rows,
	))
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
