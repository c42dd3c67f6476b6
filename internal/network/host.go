package network

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"

	"grimm.is/nicctl/internal/adapter"
	"grimm.is/nicctl/internal/dns"
	"grimm.is/nicctl/internal/logging"
)

// ErrLengthMismatch is returned when positionally paired lists differ in
// length or are empty.
var ErrLengthMismatch = errors.New("paired lists differ in length")

// mainTable is RT_TABLE_MAIN.
const mainTable = 254

// Host is the Linux host facility. Links, addresses and routes go through a
// Netlinker; per-link DNS goes through a dns.Resolver.
type Host struct {
	nl       Netlinker
	resolver dns.Resolver
	info     LinkInfoProvider
	vendors  *VendorDB
	log      *logging.Logger
}

var _ adapter.Facility = (*Host)(nil)

// NewHost creates a host facility.
func NewHost(nl Netlinker, resolver dns.Resolver) *Host {
	return &Host{
		nl:       nl,
		resolver: resolver,
		log:      logging.WithComponent("network"),
	}
}

// SetLinkInfo sets the provider used to fill driver and bus details.
func (h *Host) SetLinkInfo(p LinkInfoProvider) {
	h.info = p
}

// SetVendorDB sets the database used to name hardware vendors.
func (h *Host) SetVendorDB(db *VendorDB) {
	h.vendors = db
}

// SetLogger sets the logger.
func (h *Host) SetLogger(l *logging.Logger) {
	h.log = l.WithComponent("network")
}

// Adapters lists every link as an adapter record.
func (h *Host) Adapters(ctx context.Context) ([]adapter.AdapterRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	links, err := h.nl.LinkList()
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}

	records := make([]adapter.AdapterRecord, 0, len(links))
	for _, link := range links {
		records = append(records, h.adapterRecord(link.Attrs()))
	}
	return records, nil
}

func (h *Host) adapterRecord(attrs *netlink.LinkAttrs) adapter.AdapterRecord {
	rec := adapter.AdapterRecord{
		Index:       attrs.Index,
		Name:        attrs.Name,
		Description: describe(attrs),
		Enabled:     attrs.Flags&net.FlagUp != 0,
		OperState:   attrs.OperState.String(),
	}
	if len(attrs.HardwareAddr) > 0 {
		rec.HardwareAddr = attrs.HardwareAddr.String()
		rec.Vendor = h.vendors.Lookup(rec.HardwareAddr)
	}
	if h.info != nil && attrs.Flags&net.FlagLoopback == 0 {
		driver, bus, err := h.info.DriverInfo(attrs.Name)
		if err != nil {
			h.log.Debug("no driver info", "link", attrs.Name, "error", err)
		}
		rec.Driver, rec.BusInfo = driver, bus
	}
	return rec
}

// Configurations lists the IPv4 configuration of every link. Only links that
// are up and not loopback are IP-enabled; the others carry no addresses,
// gateways or DNS servers.
func (h *Host) Configurations(ctx context.Context) ([]adapter.ConfigurationRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	links, err := h.nl.LinkList()
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}

	records := make([]adapter.ConfigurationRecord, 0, len(links))
	for _, link := range links {
		attrs := link.Attrs()
		rec := adapter.ConfigurationRecord{
			Index:       attrs.Index,
			Name:        attrs.Name,
			Description: describe(attrs),
			IPEnabled:   attrs.Flags&net.FlagUp != 0 && attrs.Flags&net.FlagLoopback == 0,
		}
		if rec.IPEnabled {
			if err := h.fillConfiguration(ctx, link, &rec); err != nil {
				return nil, err
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func (h *Host) fillConfiguration(ctx context.Context, link netlink.Link, rec *adapter.ConfigurationRecord) error {
	addrs, err := h.nl.AddrList(link, unix.AF_INET)
	if err != nil {
		return fmt.Errorf("failed to list addresses of %s: %w", rec.Name, err)
	}
	rec.IPAddress = make([]string, 0, len(addrs))
	rec.IPSubnet = make([]string, 0, len(addrs))
	for _, a := range addrs {
		if a.IPNet == nil {
			continue
		}
		ones, _ := a.Mask.Size()
		rec.IPAddress = append(rec.IPAddress, a.IP.String())
		rec.IPSubnet = append(rec.IPSubnet, MaskString(ones))
	}

	routes, err := h.nl.RouteList(link, unix.AF_INET)
	if err != nil {
		return fmt.Errorf("failed to list routes of %s: %w", rec.Name, err)
	}
	rec.DefaultIPGateway = make([]string, 0, 1)
	rec.GatewayCostMetric = make([]int, 0, 1)
	for _, r := range routes {
		if !isDefaultRoute(r) || !isMainTable(r) || r.Gw == nil {
			continue
		}
		rec.DefaultIPGateway = append(rec.DefaultIPGateway, r.Gw.String())
		rec.GatewayCostMetric = append(rec.GatewayCostMetric, r.Priority)
	}

	servers, err := h.resolver.Nameservers(ctx, dns.Link{Index: rec.Index, Name: rec.Name})
	switch {
	case ctx.Err() != nil:
		return ctx.Err()
	case err != nil:
		// The link may have vanished since LinkList.
		h.log.Warn("nameservers not readable", "link", rec.Name, "error", err)
	default:
		rec.DNSServerSearchOrder = servers
	}
	return nil
}

// SetDNSServerSearchOrder replaces the link's DNS servers through the
// resolver.
func (h *Host) SetDNSServerSearchOrder(ctx context.Context, cfg adapter.ConfigurationRecord, servers []string) error {
	return h.resolver.SetNameservers(ctx, dns.Link{Index: cfg.Index, Name: cfg.Name}, servers)
}

// EnableStatic makes addrs, paired with masks, the link's only IPv4
// addresses. Every entry is parsed before anything is changed.
func (h *Host) EnableStatic(ctx context.Context, cfg adapter.ConfigurationRecord, addrs, masks []string) error {
	if len(addrs) == 0 || len(addrs) != len(masks) {
		return fmt.Errorf("%w: %d addresses, %d masks", ErrLengthMismatch, len(addrs), len(masks))
	}

	want := make([]*netlink.Addr, 0, len(addrs))
	for i, s := range addrs {
		ip := net.ParseIP(s).To4()
		if ip == nil {
			return fmt.Errorf("invalid IPv4 address %q", s)
		}
		prefix, err := ParseMask(masks[i])
		if err != nil {
			return err
		}
		addr, err := h.nl.ParseAddr(fmt.Sprintf("%s/%d", ip, prefix))
		if err != nil {
			return fmt.Errorf("invalid address %s/%d: %w", ip, prefix, err)
		}
		want = append(want, addr)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	link, err := h.nl.LinkByIndex(cfg.Index)
	if err != nil {
		return fmt.Errorf("failed to find link %s: %w", cfg.Name, err)
	}
	existing, err := h.nl.AddrList(link, unix.AF_INET)
	if err != nil {
		return fmt.Errorf("failed to list addresses of %s: %w", cfg.Name, err)
	}

	for i := range existing {
		old := existing[i]
		if containsAddr(want, old) {
			continue
		}
		err := h.nl.AddrDel(link, &old)
		if errors.Is(err, unix.EADDRNOTAVAIL) {
			// Already gone with the primary address of its subnet.
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to remove %s from %s: %w", old.IPNet, cfg.Name, err)
		}
	}

	// Without promote_secondaries, removing a primary address also removes
	// the secondaries of its subnet, including ones we meant to keep.
	current, err := h.nl.AddrList(link, unix.AF_INET)
	if err != nil {
		return fmt.Errorf("failed to list addresses of %s: %w", cfg.Name, err)
	}
	for _, addr := range want {
		if containsAddrValue(current, addr) {
			continue
		}
		if err := h.nl.AddrAdd(link, addr); err != nil {
			return fmt.Errorf("failed to add %s to %s: %w", addr.IPNet, cfg.Name, err)
		}
	}
	return nil
}

// SetGateways replaces the link's IPv4 default routes in the main table with
// one route per gateway, using the paired metric as route priority.
func (h *Host) SetGateways(ctx context.Context, cfg adapter.ConfigurationRecord, gateways []string, metrics []int) error {
	if len(gateways) != len(metrics) {
		return fmt.Errorf("%w: %d gateways, %d metrics", ErrLengthMismatch, len(gateways), len(metrics))
	}

	gws := make([]net.IP, 0, len(gateways))
	for _, s := range gateways {
		ip := net.ParseIP(s).To4()
		if ip == nil {
			return fmt.Errorf("invalid IPv4 gateway %q", s)
		}
		gws = append(gws, ip)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	link, err := h.nl.LinkByIndex(cfg.Index)
	if err != nil {
		return fmt.Errorf("failed to find link %s: %w", cfg.Name, err)
	}
	routes, err := h.nl.RouteList(link, unix.AF_INET)
	if err != nil {
		return fmt.Errorf("failed to list routes of %s: %w", cfg.Name, err)
	}

	for i := range routes {
		r := routes[i]
		if !isDefaultRoute(r) || !isMainTable(r) {
			continue
		}
		if err := h.nl.RouteDel(&r); err != nil {
			return fmt.Errorf("failed to remove default route via %s from %s: %w", r.Gw, cfg.Name, err)
		}
	}
	for i, gw := range gws {
		route := &netlink.Route{
			LinkIndex: cfg.Index,
			Gw:        gw,
			Priority:  metrics[i],
		}
		err := h.nl.RouteAdd(route)
		if errors.Is(err, unix.EEXIST) {
			return fmt.Errorf("failed to add default route via %s on %s: a default route with metric %d already exists on another link: %w",
				gw, cfg.Name, metrics[i], err)
		}
		if err != nil {
			return fmt.Errorf("failed to add default route via %s on %s: %w", gw, cfg.Name, err)
		}
	}
	return nil
}

// Disable sets the link administratively down.
func (h *Host) Disable(ctx context.Context, a adapter.AdapterRecord) error {
	link, err := h.linkFor(ctx, a)
	if err != nil {
		return err
	}
	if err := h.nl.LinkSetDown(link); err != nil {
		return fmt.Errorf("failed to set %s down: %w", a.Name, err)
	}
	return nil
}

// Enable sets the link administratively up.
func (h *Host) Enable(ctx context.Context, a adapter.AdapterRecord) error {
	link, err := h.linkFor(ctx, a)
	if err != nil {
		return err
	}
	if err := h.nl.LinkSetUp(link); err != nil {
		return fmt.Errorf("failed to set %s up: %w", a.Name, err)
	}
	return nil
}

// LinkUp reports whether the link is operational. Virtual links that never
// report an operational state count as up once they are administratively up.
func (h *Host) LinkUp(ctx context.Context, a adapter.AdapterRecord) (bool, error) {
	link, err := h.linkFor(ctx, a)
	if err != nil {
		return false, err
	}
	attrs := link.Attrs()
	switch attrs.OperState {
	case netlink.OperUp:
		return true, nil
	case netlink.OperUnknown:
		return attrs.Flags&net.FlagUp != 0, nil
	}
	return false, nil
}

func (h *Host) linkFor(ctx context.Context, a adapter.AdapterRecord) (netlink.Link, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	link, err := h.nl.LinkByIndex(a.Index)
	if err != nil {
		return nil, fmt.Errorf("failed to find link %s: %w", a.Name, err)
	}
	return link, nil
}

// describe returns the link alias, falling back to the kernel name.
func describe(attrs *netlink.LinkAttrs) string {
	if attrs.Alias != "" {
		return attrs.Alias
	}
	return attrs.Name
}

func isDefaultRoute(r netlink.Route) bool {
	if r.Dst == nil {
		return true
	}
	ones, _ := r.Dst.Mask.Size()
	return ones == 0 && r.Dst.IP.IsUnspecified()
}

func isMainTable(r netlink.Route) bool {
	return r.Table == 0 || r.Table == mainTable
}

func sameAddr(a, b *netlink.Addr) bool {
	if a.IPNet == nil || b.IPNet == nil {
		return false
	}
	return a.IP.Equal(b.IP) && a.Mask.String() == b.Mask.String()
}

func containsAddr(list []*netlink.Addr, addr netlink.Addr) bool {
	for _, a := range list {
		if sameAddr(a, &addr) {
			return true
		}
	}
	return false
}

func containsAddrValue(list []netlink.Addr, addr *netlink.Addr) bool {
	for i := range list {
		if sameAddr(&list[i], addr) {
			return true
		}
	}
	return false
}
