// Package dns reads and writes the per-link DNS server list of a host.
//
// Backends:
//   - resolved: systemd-resolved over D-Bus
//   - resolvconf: the resolvconf(8) command and its per-interface files
//   - memory: an in-process map, for dry runs and tests
package dns

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
)

// ErrUnavailable is returned when a backend cannot be used on this host.
var ErrUnavailable = errors.New("dns backend unavailable")

// Backend names accepted by New.
const (
	BackendAuto       = "auto"
	BackendResolved   = "resolved"
	BackendResolvconf = "resolvconf"
	BackendMemory     = "memory"
)

// Link identifies the network link whose DNS servers are read or written.
type Link struct {
	Index int
	Name  string
}

func (l Link) String() string {
	return fmt.Sprintf("%s(%d)", l.Name, l.Index)
}

// Resolver reads and replaces the ordered DNS server list of one link.
type Resolver interface {
	Name() string
	Nameservers(ctx context.Context, link Link) ([]string, error)
	// SetNameservers replaces the link's servers. An empty list clears them.
	SetNameservers(ctx context.Context, link Link, servers []string) error
}

// Options configures New.
type Options struct {
	// ResolvconfDir holds the per-interface files written by resolvconf.
	ResolvconfDir string
	// ResolvConf is the system resolver file used for detection.
	ResolvConf string
	Runner     Runner
}

// New returns the resolver for backend. BackendAuto picks one with Detect.
func New(backend string, opts Options) (Resolver, error) {
	if opts.ResolvconfDir == "" {
		opts.ResolvconfDir = DefaultResolvconfDir
	}
	if opts.ResolvConf == "" {
		opts.ResolvConf = DefaultResolvConfPath
	}

	switch backend {
	case "", BackendAuto:
		detected := Detect(opts.ResolvConf)
		if detected == BackendAuto {
			return nil, fmt.Errorf("no usable dns backend: %w", ErrUnavailable)
		}
		return New(detected, opts)
	case BackendResolved:
		return NewResolved(), nil
	case BackendResolvconf:
		return NewResolvconf(opts.ResolvconfDir, opts.Runner), nil
	case BackendMemory:
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown dns backend %q", backend)
}

// parseServers converts server strings to addresses, preserving order.
func parseServers(servers []string) ([]netip.Addr, error) {
	addrs := make([]netip.Addr, 0, len(servers))
	for _, s := range servers {
		addr, err := netip.ParseAddr(s)
		if err != nil {
			return nil, fmt.Errorf("invalid nameserver %q: %w", s, err)
		}
		addrs = append(addrs, addr.Unmap())
	}
	return addrs, nil
}
