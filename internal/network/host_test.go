package network

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"

	"grimm.is/nicctl/internal/adapter"
	"grimm.is/nicctl/internal/clock"
	"grimm.is/nicctl/internal/dns"
	"grimm.is/nicctl/internal/logging"
)

var (
	loLink = &netlink.Device{LinkAttrs: netlink.LinkAttrs{
		Name: "lo", Index: 1,
		Flags:     net.FlagUp | net.FlagLoopback,
		OperState: netlink.OperUnknown,
	}}
	eth0Link = &netlink.Device{LinkAttrs: netlink.LinkAttrs{
		Name: "eth0", Index: 2, Alias: "Uplink Port",
		Flags:        net.FlagUp | net.FlagBroadcast,
		OperState:    netlink.OperUp,
		HardwareAddr: net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x55},
	}}
	eth1Link = &netlink.Device{LinkAttrs: netlink.LinkAttrs{
		Name: "eth1", Index: 3,
		Flags:     net.FlagBroadcast,
		OperState: netlink.OperDown,
	}}
)

func mustParseAddr(t *testing.T, s string) *netlink.Addr {
	t.Helper()
	addr, err := netlink.ParseAddr(s)
	require.NoError(t, err)
	return addr
}

func mustParseCIDR(t *testing.T, s string) *net.IPNet {
	t.Helper()
	_, ipnet, err := net.ParseCIDR(s)
	require.NoError(t, err)
	return ipnet
}

func newTestHost(nl Netlinker, resolver dns.Resolver) *Host {
	h := NewHost(nl, resolver)
	h.SetLogger(logging.Discard())
	return h
}

func TestHostAdapters(t *testing.T) {
	mockNetlink := new(MockNetlinker)
	mockInfo := new(MockLinkInfo)
	h := newTestHost(mockNetlink, dns.NewMemory())
	h.SetLinkInfo(mockInfo)

	mockNetlink.On("LinkList").Return([]netlink.Link{loLink, eth0Link, eth1Link}, nil).Once()
	mockInfo.On("DriverInfo", "eth0").Return("e1000e", "0000:00:1f.6", nil).Once()
	mockInfo.On("DriverInfo", "eth1").Return("", "", errors.New("operation not supported")).Once()

	records, err := h.Adapters(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, adapter.AdapterRecord{
		Index: 1, Name: "lo", Description: "lo", Enabled: true, OperState: "unknown",
	}, records[0])
	assert.Equal(t, adapter.AdapterRecord{
		Index: 2, Name: "eth0", Description: "Uplink Port", Enabled: true, OperState: "up",
		HardwareAddr: "00:11:22:33:44:55", Driver: "e1000e", BusInfo: "0000:00:1f.6",
	}, records[1])
	assert.False(t, records[2].Enabled)
	assert.Equal(t, "eth1", records[2].Description)
	assert.Empty(t, records[2].Driver)

	mockNetlink.AssertExpectations(t)
	mockInfo.AssertExpectations(t)
	mockInfo.AssertNotCalled(t, "DriverInfo", "lo")
}

func TestHostAdaptersVendor(t *testing.T) {
	mockNetlink := new(MockNetlinker)
	h := newTestHost(mockNetlink, dns.NewMemory())
	h.SetVendorDB(&VendorDB{entries: map[string]string{"001122": "Cimsys Inc"}})

	mockNetlink.On("LinkList").Return([]netlink.Link{eth0Link}, nil).Once()

	records, err := h.Adapters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Cimsys Inc", records[0].Vendor)
}

func TestHostAdaptersListFailure(t *testing.T) {
	mockNetlink := new(MockNetlinker)
	h := newTestHost(mockNetlink, dns.NewMemory())
	mockNetlink.On("LinkList").Return(nil, errors.New("netlink socket closed")).Once()

	_, err := h.Adapters(context.Background())
	assert.ErrorContains(t, err, "failed to list links")
}

func TestHostConfigurations(t *testing.T) {
	mockNetlink := new(MockNetlinker)
	resolver := dns.NewMemory()
	resolver.Seed(2, "192.0.2.53", "192.0.2.54")
	h := newTestHost(mockNetlink, resolver)

	mockNetlink.On("LinkList").Return([]netlink.Link{loLink, eth0Link, eth1Link}, nil).Once()
	mockNetlink.On("AddrList", eth0Link, unix.AF_INET).Return([]netlink.Addr{
		*mustParseAddr(t, "192.168.1.10/24"),
		*mustParseAddr(t, "10.0.0.5/8"),
	}, nil).Once()
	mockNetlink.On("RouteList", eth0Link, unix.AF_INET).Return([]netlink.Route{
		{LinkIndex: 2, Gw: net.ParseIP("192.168.1.1"), Priority: 100, Table: 254},
		{LinkIndex: 2, Dst: mustParseCIDR(t, "0.0.0.0/0"), Gw: net.ParseIP("192.168.1.2"), Priority: 200},
		{LinkIndex: 2, Gw: net.ParseIP("192.168.1.254"), Table: 100},
		{LinkIndex: 2, Dst: mustParseCIDR(t, "10.10.0.0/16"), Gw: net.ParseIP("10.0.0.1")},
		{LinkIndex: 2, Dst: mustParseCIDR(t, "192.168.1.0/24")},
	}, nil).Once()

	records, err := h.Configurations(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.False(t, records[0].IPEnabled, "loopback is never IP-enabled")
	assert.Nil(t, records[0].DNSServerSearchOrder)

	eth0 := records[1]
	assert.True(t, eth0.IPEnabled)
	assert.Equal(t, "Uplink Port", eth0.Description)
	assert.Equal(t, []string{"192.168.1.10", "10.0.0.5"}, eth0.IPAddress)
	assert.Equal(t, []string{"255.255.255.0", "255.0.0.0"}, eth0.IPSubnet)
	assert.Equal(t, []string{"192.168.1.1", "192.168.1.2"}, eth0.DefaultIPGateway)
	assert.Equal(t, []int{100, 200}, eth0.GatewayCostMetric)
	assert.Equal(t, []string{"192.0.2.53", "192.0.2.54"}, eth0.DNSServerSearchOrder)

	assert.False(t, records[2].IPEnabled)
	assert.Nil(t, records[2].IPAddress)

	mockNetlink.AssertExpectations(t)
	mockNetlink.AssertNotCalled(t, "AddrList", eth1Link, mock.Anything)
	mockNetlink.AssertNotCalled(t, "AddrList", loLink, mock.Anything)
}

type failingResolver struct{}

func (failingResolver) Name() string { return "failing" }

func (failingResolver) Nameservers(context.Context, dns.Link) ([]string, error) {
	return nil, dns.ErrUnavailable
}

func (failingResolver) SetNameservers(context.Context, dns.Link, []string) error {
	return dns.ErrUnavailable
}

func TestHostConfigurationsUnreadableNameservers(t *testing.T) {
	mockNetlink := new(MockNetlinker)
	h := newTestHost(mockNetlink, &failingResolver{})

	mockNetlink.On("LinkList").Return([]netlink.Link{eth0Link}, nil).Once()
	mockNetlink.On("AddrList", eth0Link, unix.AF_INET).Return([]netlink.Addr{}, nil).Once()
	mockNetlink.On("RouteList", eth0Link, unix.AF_INET).Return([]netlink.Route{}, nil).Once()

	records, err := h.Configurations(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].IPEnabled)
	assert.Nil(t, records[0].DNSServerSearchOrder)
}

func TestHostEnableStatic(t *testing.T) {
	cfg := adapter.ConfigurationRecord{Index: 2, Name: "eth0", Description: "Uplink Port", IPEnabled: true}

	t.Run("ReplacesAddresses", func(t *testing.T) {
		mockNetlink := new(MockNetlinker)
		h := newTestHost(mockNetlink, dns.NewMemory())

		keep := mustParseAddr(t, "192.168.1.10/24")
		add := mustParseAddr(t, "192.168.1.11/24")
		mockNetlink.On("ParseAddr", "192.168.1.10/24").Return(keep, nil).Once()
		mockNetlink.On("ParseAddr", "192.168.1.11/24").Return(add, nil).Once()
		mockNetlink.On("LinkByIndex", 2).Return(eth0Link, nil).Once()
		mockNetlink.On("AddrList", eth0Link, unix.AF_INET).Return([]netlink.Addr{
			*mustParseAddr(t, "10.0.0.9/24"),
			*mustParseAddr(t, "192.168.1.10/24"),
		}, nil).Once()
		mockNetlink.On("AddrDel", eth0Link, mock.MatchedBy(func(a *netlink.Addr) bool {
			return a.IPNet.String() == "10.0.0.9/24"
		})).Return(nil).Once()
		mockNetlink.On("AddrList", eth0Link, unix.AF_INET).Return([]netlink.Addr{
			*mustParseAddr(t, "192.168.1.10/24"),
		}, nil).Once()
		mockNetlink.On("AddrAdd", eth0Link, add).Return(nil).Once()

		err := h.EnableStatic(context.Background(), cfg,
			[]string{"192.168.1.10", "192.168.1.11"}, []string{"255.255.255.0", "24"})
		require.NoError(t, err)
		mockNetlink.AssertExpectations(t)
		mockNetlink.AssertNotCalled(t, "AddrAdd", eth0Link, keep)
	})

	t.Run("LengthMismatch", func(t *testing.T) {
		mockNetlink := new(MockNetlinker)
		h := newTestHost(mockNetlink, dns.NewMemory())

		err := h.EnableStatic(context.Background(), cfg, []string{"10.0.0.1", "10.0.0.2"}, []string{"24"})
		assert.ErrorIs(t, err, ErrLengthMismatch)

		err = h.EnableStatic(context.Background(), cfg, nil, nil)
		assert.ErrorIs(t, err, ErrLengthMismatch)
		mockNetlink.AssertNotCalled(t, "LinkByIndex", mock.Anything)
	})

	t.Run("InvalidMaskChangesNothing", func(t *testing.T) {
		mockNetlink := new(MockNetlinker)
		h := newTestHost(mockNetlink, dns.NewMemory())
		mockNetlink.On("ParseAddr", "10.0.0.1/24").Return(mustParseAddr(t, "10.0.0.1/24"), nil).Once()

		err := h.EnableStatic(context.Background(), cfg,
			[]string{"10.0.0.1", "10.0.0.2"}, []string{"24", "255.0.255.0"})
		assert.ErrorIs(t, err, ErrInvalidMask)
		mockNetlink.AssertNotCalled(t, "LinkByIndex", mock.Anything)
	})

	t.Run("InvalidAddress", func(t *testing.T) {
		mockNetlink := new(MockNetlinker)
		h := newTestHost(mockNetlink, dns.NewMemory())

		err := h.EnableStatic(context.Background(), cfg, []string{"2001:db8::1"}, []string{"64"})
		assert.ErrorContains(t, err, `invalid IPv4 address "2001:db8::1"`)
	})

	t.Run("AddFailure", func(t *testing.T) {
		mockNetlink := new(MockNetlinker)
		h := newTestHost(mockNetlink, dns.NewMemory())
		add := mustParseAddr(t, "10.0.0.1/24")
		mockNetlink.On("ParseAddr", "10.0.0.1/24").Return(add, nil).Once()
		mockNetlink.On("LinkByIndex", 2).Return(eth0Link, nil).Once()
		mockNetlink.On("AddrList", eth0Link, unix.AF_INET).Return([]netlink.Addr{}, nil).Twice()
		mockNetlink.On("AddrAdd", eth0Link, add).Return(errors.New("file exists")).Once()

		err := h.EnableStatic(context.Background(), cfg, []string{"10.0.0.1"}, []string{"24"})
		assert.ErrorContains(t, err, "failed to add 10.0.0.1/24 to eth0: file exists")
	})

	t.Run("KeepsSecondaryOfRemovedPrimary", func(t *testing.T) {
		nl := &subnetNetlinker{addrs: []netlink.Addr{
			*mustParseAddr(t, "10.0.0.4/24"),
			*mustParseAddr(t, "10.0.0.6/24"),
			*mustParseAddr(t, "10.0.0.5/24"),
			*mustParseAddr(t, "192.168.7.1/24"),
		}}
		h := newTestHost(nl, dns.NewMemory())

		err := h.EnableStatic(context.Background(), cfg, []string{"10.0.0.5"}, []string{"255.255.255.0"})
		require.NoError(t, err)
		assert.Equal(t, []string{"10.0.0.5/24"}, nl.addresses())
	})
}

// subnetNetlinker keeps addresses the way the kernel does without
// promote_secondaries: removing the first address of a subnet removes every
// other address of that subnet too.
type subnetNetlinker struct {
	MockNetlinker
	addrs []netlink.Addr
}

func (n *subnetNetlinker) LinkByIndex(int) (netlink.Link, error) { return eth0Link, nil }

func (n *subnetNetlinker) ParseAddr(s string) (*netlink.Addr, error) { return netlink.ParseAddr(s) }

func (n *subnetNetlinker) AddrList(netlink.Link, int) ([]netlink.Addr, error) {
	return append([]netlink.Addr(nil), n.addrs...), nil
}

func (n *subnetNetlinker) AddrAdd(_ netlink.Link, addr *netlink.Addr) error {
	n.addrs = append(n.addrs, *addr)
	return nil
}

func (n *subnetNetlinker) AddrDel(_ netlink.Link, addr *netlink.Addr) error {
	for i, a := range n.addrs {
		if !a.IP.Equal(addr.IP) {
			continue
		}
		primary := true
		for _, b := range n.addrs[:i] {
			if b.IPNet.Contains(a.IP) {
				primary = false
			}
		}
		kept := n.addrs[:0]
		for _, b := range n.addrs {
			if b.IP.Equal(a.IP) || (primary && a.IPNet.Contains(b.IP)) {
				continue
			}
			kept = append(kept, b)
		}
		n.addrs = kept
		return nil
	}
	return unix.EADDRNOTAVAIL
}

func (n *subnetNetlinker) addresses() []string {
	out := make([]string, 0, len(n.addrs))
	for _, a := range n.addrs {
		out = append(out, a.IPNet.String())
	}
	return out
}

func TestHostSetGateways(t *testing.T) {
	cfg := adapter.ConfigurationRecord{Index: 2, Name: "eth0", Description: "Uplink Port", IPEnabled: true}

	t.Run("ReplacesDefaultRoutes", func(t *testing.T) {
		mockNetlink := new(MockNetlinker)
		h := newTestHost(mockNetlink, dns.NewMemory())

		oldDefault := netlink.Route{LinkIndex: 2, Gw: net.ParseIP("10.0.0.254").To4(), Table: 254}
		policy := netlink.Route{LinkIndex: 2, Gw: net.ParseIP("10.0.0.253").To4(), Table: 100}
		static := netlink.Route{LinkIndex: 2, Dst: mustParseCIDR(t, "10.1.0.0/16"), Gw: net.ParseIP("10.0.0.1").To4()}

		mockNetlink.On("LinkByIndex", 2).Return(eth0Link, nil).Once()
		mockNetlink.On("RouteList", eth0Link, unix.AF_INET).Return([]netlink.Route{oldDefault, policy, static}, nil).Once()
		mockNetlink.On("RouteDel", &oldDefault).Return(nil).Once()
		mockNetlink.On("RouteAdd", mock.MatchedBy(func(r *netlink.Route) bool {
			return r.LinkIndex == 2 && r.Dst == nil && r.Gw.Equal(net.ParseIP("10.0.0.1")) && r.Priority == adapter.GatewayMetric
		})).Return(nil).Once()

		err := h.SetGateways(context.Background(), cfg, []string{"10.0.0.1"}, []int{adapter.GatewayMetric})
		require.NoError(t, err)
		mockNetlink.AssertExpectations(t)
		mockNetlink.AssertNumberOfCalls(t, "RouteDel", 1)
	})

	t.Run("ClearOnly", func(t *testing.T) {
		mockNetlink := new(MockNetlinker)
		h := newTestHost(mockNetlink, dns.NewMemory())
		old := netlink.Route{LinkIndex: 2, Gw: net.ParseIP("10.0.0.254").To4()}

		mockNetlink.On("LinkByIndex", 2).Return(eth0Link, nil).Once()
		mockNetlink.On("RouteList", eth0Link, unix.AF_INET).Return([]netlink.Route{old}, nil).Once()
		mockNetlink.On("RouteDel", &old).Return(nil).Once()

		require.NoError(t, h.SetGateways(context.Background(), cfg, nil, nil))
		mockNetlink.AssertNotCalled(t, "RouteAdd", mock.Anything)
	})

	t.Run("MetricTakenByOtherLink", func(t *testing.T) {
		mockNetlink := new(MockNetlinker)
		h := newTestHost(mockNetlink, dns.NewMemory())

		mockNetlink.On("LinkByIndex", 2).Return(eth0Link, nil).Once()
		mockNetlink.On("RouteList", eth0Link, unix.AF_INET).Return([]netlink.Route{}, nil).Once()
		mockNetlink.On("RouteAdd", mock.Anything).Return(unix.EEXIST).Once()

		err := h.SetGateways(context.Background(), cfg, []string{"10.0.0.1"}, []int{adapter.GatewayMetric})
		assert.ErrorIs(t, err, unix.EEXIST)
		assert.ErrorContains(t, err, "a default route with metric 1 already exists on another link")
	})

	t.Run("LengthMismatch", func(t *testing.T) {
		mockNetlink := new(MockNetlinker)
		h := newTestHost(mockNetlink, dns.NewMemory())

		err := h.SetGateways(context.Background(), cfg, []string{"10.0.0.1"}, []int{1, 2})
		assert.ErrorIs(t, err, ErrLengthMismatch)
		mockNetlink.AssertNotCalled(t, "LinkByIndex", mock.Anything)
	})
}

func TestHostEnableDisable(t *testing.T) {
	mockNetlink := new(MockNetlinker)
	h := newTestHost(mockNetlink, dns.NewMemory())
	rec := adapter.AdapterRecord{Index: 2, Name: "eth0", Description: "Uplink Port"}

	mockNetlink.On("LinkByIndex", 2).Return(eth0Link, nil).Twice()
	mockNetlink.On("LinkSetDown", eth0Link).Return(nil).Once()
	mockNetlink.On("LinkSetUp", eth0Link).Return(errors.New("operation not permitted")).Once()

	require.NoError(t, h.Disable(context.Background(), rec))
	err := h.Enable(context.Background(), rec)
	assert.ErrorContains(t, err, "failed to set eth0 up: operation not permitted")
	mockNetlink.AssertExpectations(t)

	mockNetlink.On("LinkByIndex", 9).Return(nil, errors.New("link not found")).Once()
	err = h.Disable(context.Background(), adapter.AdapterRecord{Index: 9, Name: "gone"})
	assert.ErrorContains(t, err, "failed to find link gone")
}

func TestHostLinkUp(t *testing.T) {
	tests := []struct {
		name  string
		state netlink.LinkOperState
		flags net.Flags
		want  bool
	}{
		{"OperUp", netlink.OperUp, net.FlagUp, true},
		{"OperDown", netlink.OperDown, net.FlagUp, false},
		{"LowerLayerDown", netlink.OperLowerLayerDown, net.FlagUp, false},
		{"UnknownAdminUp", netlink.OperUnknown, net.FlagUp, true},
		{"UnknownAdminDown", netlink.OperUnknown, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockNetlink := new(MockNetlinker)
			h := newTestHost(mockNetlink, dns.NewMemory())
			link := &netlink.Device{LinkAttrs: netlink.LinkAttrs{Name: "eth0", Index: 2, OperState: tt.state, Flags: tt.flags}}
			mockNetlink.On("LinkByIndex", 2).Return(link, nil).Once()

			up, err := h.LinkUp(context.Background(), adapter.AdapterRecord{Index: 2, Name: "eth0"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, up)
		})
	}
}

func TestHostCancelledContext(t *testing.T) {
	mockNetlink := new(MockNetlinker)
	h := newTestHost(mockNetlink, dns.NewMemory())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Configurations(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, h.Enable(ctx, adapter.AdapterRecord{Index: 2}), context.Canceled)
	mockNetlink.AssertNotCalled(t, "LinkList")
}

// The configurator and host together: a DNS write through SetNameservers is
// read back unchanged by GetNameservers.
func TestNameserverRoundTrip(t *testing.T) {
	mockNetlink := new(MockNetlinker)
	resolver := dns.NewMemory()
	h := newTestHost(mockNetlink, resolver)

	mockNetlink.On("LinkList").Return([]netlink.Link{loLink, eth0Link, eth1Link}, nil)
	mockNetlink.On("AddrList", eth0Link, unix.AF_INET).Return([]netlink.Addr{}, nil)
	mockNetlink.On("RouteList", eth0Link, unix.AF_INET).Return([]netlink.Route{}, nil)

	c := adapter.NewConfigurator(h, adapter.RestartPolicy{Wait: adapter.WaitFixed})
	c.SetLogger(logging.Discard())
	c.SetClock(clock.NewMockClock(clock.Default.Now()))
	ctx := context.Background()

	names, err := c.ListEnabledAdapters(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Uplink Port"}, names)

	for _, servers := range [][]string{
		{"1.1.1.1", "9.9.9.9"},
		{"2001:db8::53"},
		{},
	} {
		updated, err := c.SetNameservers(ctx, "Uplink Port", servers, false)
		require.NoError(t, err)
		assert.True(t, updated)

		got, err := c.GetNameservers(ctx, "Uplink Port")
		require.NoError(t, err)
		assert.Equal(t, servers, got)
	}

	updated, err := c.SetNameservers(ctx, "eth1", []string{"1.1.1.1"}, false)
	require.NoError(t, err)
	assert.False(t, updated, "disabled adapters are never updated")
}
