// Package adapter configures host network adapters by their description.
//
// # Overview
//
// A [Configurator] turns four configuration intents into queries and
// commands against a host [Facility]:
//
//   - list the descriptions of IP-enabled adapters
//   - read or replace the DNS server search order of an adapter
//   - assign static IPv4 addresses and a default gateway
//   - restart an adapter (disable, enable, wait for the link)
//
// Adapters are selected by matching the human-readable description against
// the records the facility returns. Records are re-read on every call; the
// package keeps no state between calls.
//
// # Duplicate descriptions
//
// GetNameservers, Configuration and RestartAdapter act on the first match.
// SetNameservers and SetIP act on every match.
//
// # Example
//
//	cfg := adapter.NewConfigurator(host, adapter.DefaultRestartPolicy())
//	names, err := cfg.ListEnabledAdapters(ctx)
//	if err != nil {
//	    return err
//	}
//	ok, err := cfg.SetNameservers(ctx, names[0], []string{"1.1.1.1"}, true)
package adapter
