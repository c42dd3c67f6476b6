//go:build linux

package dns

import (
	"context"
	"fmt"
	"net/netip"
	"time"

	dbus "github.com/godbus/dbus/v5"
	"golang.org/x/sys/unix"

	"grimm.is/nicctl/internal/logging"
)

const (
	resolvedDest           = "org.freedesktop.resolve1"
	resolvedObjectNode     = "/org/freedesktop/resolve1"
	resolvedManagerIface   = "org.freedesktop.resolve1.Manager"
	resolvedGetLinkMethod  = resolvedManagerIface + ".GetLink"
	resolvedFlushMethod    = resolvedManagerIface + ".FlushCaches"
	resolvedLinkIface      = "org.freedesktop.resolve1.Link"
	resolvedSetDNSMethod   = resolvedLinkIface + ".SetDNS"
	resolvedLinkDNSProp    = "DNS"
	dbusPropertiesGet      = "org.freedesktop.DBus.Properties.Get"
	dbusPeerPing           = "org.freedesktop.DBus.Peer.Ping"
	defaultResolvedTimeout = 5 * time.Second
)

// resolvedDNS maps to the (iay) entries of Link.DNS and Link.SetDNS.
type resolvedDNS struct {
	Family  int32
	Address []byte
}

// resolvedBus is the subset of the resolve1 D-Bus API used here.
type resolvedBus interface {
	LinkPath(ctx context.Context, ifindex int) (dbus.ObjectPath, error)
	LinkDNS(ctx context.Context, path dbus.ObjectPath) ([]resolvedDNS, error)
	SetLinkDNS(ctx context.Context, path dbus.ObjectPath, servers []resolvedDNS) error
	FlushCaches(ctx context.Context) error
	Close() error
}

// Resolved manages per-link DNS through systemd-resolved.
type Resolved struct {
	connect func() (resolvedBus, error)
	timeout time.Duration
	log     *logging.Logger
}

// NewResolved creates a resolver that opens a private system bus connection
// for every call.
func NewResolved() *Resolved {
	return &Resolved{
		connect: connectSystemBus,
		timeout: defaultResolvedTimeout,
		log:     logging.WithComponent("dns"),
	}
}

func (r *Resolved) Name() string { return BackendResolved }

func (r *Resolved) Nameservers(ctx context.Context, link Link) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	bus, err := r.connect()
	if err != nil {
		return nil, err
	}
	defer bus.Close()

	path, err := bus.LinkPath(ctx, link.Index)
	if err != nil {
		return nil, fmt.Errorf("get link %s: %w", link, err)
	}
	entries, err := bus.LinkDNS(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read DNS of %s: %w", link, err)
	}

	servers := make([]string, 0, len(entries))
	for _, e := range entries {
		addr, ok := netip.AddrFromSlice(e.Address)
		if !ok {
			r.log.Debug("skipping malformed DNS entry", "link", link.Name, "family", e.Family)
			continue
		}
		servers = append(servers, addr.String())
	}
	return servers, nil
}

func (r *Resolved) SetNameservers(ctx context.Context, link Link, servers []string) error {
	addrs, err := parseServers(servers)
	if err != nil {
		return err
	}
	entries := make([]resolvedDNS, 0, len(addrs))
	for _, addr := range addrs {
		family := unix.AF_INET
		if addr.Is6() {
			family = unix.AF_INET6
		}
		entries = append(entries, resolvedDNS{Family: int32(family), Address: addr.AsSlice()})
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	bus, err := r.connect()
	if err != nil {
		return err
	}
	defer bus.Close()

	path, err := bus.LinkPath(ctx, link.Index)
	if err != nil {
		return fmt.Errorf("get link %s: %w", link, err)
	}
	if err := bus.SetLinkDNS(ctx, path, entries); err != nil {
		return fmt.Errorf("set DNS of %s: %w", link, err)
	}
	if err := bus.FlushCaches(ctx); err != nil {
		r.log.Warn("failed to flush resolver caches", "error", err)
	}
	return nil
}

// ResolvedAvailable reports whether systemd-resolved answers on the system
// bus.
func ResolvedAvailable() bool {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return false
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	obj := conn.Object(resolvedDest, resolvedObjectNode)
	return obj.CallWithContext(ctx, dbusPeerPing, 0).Store() == nil
}

type systemBus struct {
	conn *dbus.Conn
}

func connectSystemBus() (resolvedBus, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("connect to system bus: %w: %w", ErrUnavailable, err)
	}
	return &systemBus{conn: conn}, nil
}

func (b *systemBus) LinkPath(ctx context.Context, ifindex int) (dbus.ObjectPath, error) {
	var path dbus.ObjectPath
	obj := b.conn.Object(resolvedDest, resolvedObjectNode)
	if err := obj.CallWithContext(ctx, resolvedGetLinkMethod, 0, int32(ifindex)).Store(&path); err != nil {
		return "", err
	}
	return path, nil
}

func (b *systemBus) LinkDNS(ctx context.Context, path dbus.ObjectPath) ([]resolvedDNS, error) {
	var v dbus.Variant
	obj := b.conn.Object(resolvedDest, path)
	if err := obj.CallWithContext(ctx, dbusPropertiesGet, 0, resolvedLinkIface, resolvedLinkDNSProp).Store(&v); err != nil {
		return nil, err
	}
	var entries []resolvedDNS
	if err := v.Store(&entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (b *systemBus) SetLinkDNS(ctx context.Context, path dbus.ObjectPath, servers []resolvedDNS) error {
	obj := b.conn.Object(resolvedDest, path)
	return obj.CallWithContext(ctx, resolvedSetDNSMethod, 0, servers).Store()
}

func (b *systemBus) FlushCaches(ctx context.Context) error {
	obj := b.conn.Object(resolvedDest, resolvedObjectNode)
	return obj.CallWithContext(ctx, resolvedFlushMethod, 0).Store()
}

func (b *systemBus) Close() error {
	return b.conn.Close()
}
