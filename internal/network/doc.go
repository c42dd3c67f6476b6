// Package network implements the Linux host facility behind
// adapter.Configurator.
//
// # Overview
//
// [Host] reads and writes adapter state through the netlink API, scoped to a
// network namespace when one is configured. DNS servers are delegated to a
// dns.Resolver.
//
// # Key Components
//
//   - [Host]: adapter and configuration records, static addresses, default
//     gateways, link enable/disable
//   - [RealNetlinker]: netlink handle, optionally bound to a named netns
//   - [DryRunNetlinker], [DryRunExecutor]: record writes instead of applying them
//   - [EthtoolInfo]: driver and bus details for adapter records
//   - [VendorDB]: IEEE OUI registry lookups for hardware addresses
//   - [Pinger]: ICMP gateway probe used after a restart
//
// # Record Mapping
//
// The adapter description is the link alias (ip link set X alias ...), or the
// link name when no alias is set. An adapter is IP-enabled when it is
// administratively up and not a loopback. Only IPv4 addresses and default
// routes in the main table are reported.
//
// # Example
//
//	nl, err := network.NewNetlinker("")
//	if err != nil {
//	    return err
//	}
//	defer nl.Close()
//
//	host := network.NewHost(nl, dns.NewResolved())
//	c := adapter.NewConfigurator(host, adapter.DefaultRestartPolicy())
//	names, err := c.ListEnabledAdapters(ctx)
package network
