package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"grimm.is/nicctl/internal/adapter"
	"grimm.is/nicctl/internal/tui"
)

// RunShow prints the IP configuration of the first IP-enabled adapter with
// the given description.
func RunShow(ctx context.Context, env *Env, description, format string) error {
	if err := ValidateFormat(format); err != nil {
		return err
	}
	description, err := env.resolveAdapter(ctx, description)
	if err != nil {
		return err
	}

	rec, err := env.Configurator.Configuration(ctx, description)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("no IP-enabled adapter described as %q", description)
	}

	if ok, err := writeStructured(env.Out, format, rec); ok {
		return err
	}
	Printer.Fprintf(env.Out, "%s\n", tui.KeyValues(configurationPairs(rec)))
	return nil
}

func configurationPairs(rec *adapter.ConfigurationRecord) [][2]string {
	addrs := make([]string, 0, len(rec.IPAddress))
	for i, ip := range rec.IPAddress {
		if i < len(rec.IPSubnet) {
			ip += "/" + rec.IPSubnet[i]
		}
		addrs = append(addrs, ip)
	}
	gateways := make([]string, 0, len(rec.DefaultIPGateway))
	for i, gw := range rec.DefaultIPGateway {
		if i < len(rec.GatewayCostMetric) {
			gw += " metric " + strconv.Itoa(rec.GatewayCostMetric[i])
		}
		gateways = append(gateways, gw)
	}

	return [][2]string{
		{"Description", rec.Description},
		{"Name", rec.Name},
		{"Index", strconv.Itoa(rec.Index)},
		{"Addresses", orDash(strings.Join(addrs, ", "))},
		{"Gateways", orDash(strings.Join(gateways, ", "))},
		{"DNS", orDash(strings.Join(rec.DNSServerSearchOrder, ", "))},
	}
}
