package network

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"

	"grimm.is/nicctl/internal/adapter"
	"grimm.is/nicctl/internal/dns"
)

func TestDryRunExecutor(t *testing.T) {
	e := NewDryRunExecutor()

	out, err := e.RunCommandWithInput("nameserver 1.1.1.1\nnameserver 9.9.9.9\n", "resolvconf", "-a", "eth0")
	require.NoError(t, err)
	assert.Empty(t, out)
	_, _ = e.RunCommand("resolvconf", "-f", "-d", "eth1")

	assert.Equal(t, []string{
		"resolvconf -a eth0 <<< nameserver 1.1.1.1 nameserver 9.9.9.9",
		"resolvconf -f -d eth1",
	}, e.Operations())
}

func TestDryRunNetlinkerRecordsWrites(t *testing.T) {
	reader := new(MockNetlinker)
	reader.On("LinkByIndex", 2).Return(eth0Link, nil)
	reader.On("AddrList", eth0Link, unix.AF_INET).Return([]netlink.Addr{*mustParseAddr(t, "10.0.0.9/24")}, nil).Twice()
	reader.On("RouteList", eth0Link, unix.AF_INET).Return([]netlink.Route{
		{LinkIndex: 2, Gw: net.ParseIP("10.0.0.254")},
	}, nil).Once()

	n := NewDryRunNetlinker(reader)
	h := newTestHost(n, dns.NewMemory())
	cfg := adapter.ConfigurationRecord{Index: 2, Name: "eth0", IPEnabled: true}
	ctx := context.Background()

	require.NoError(t, h.EnableStatic(ctx, cfg, []string{"10.0.0.5"}, []string{"255.255.255.0"}))
	require.NoError(t, h.SetGateways(ctx, cfg, []string{"10.0.0.1"}, []int{1}))
	require.NoError(t, h.Disable(ctx, adapter.AdapterRecord{Index: 2, Name: "eth0"}))
	require.NoError(t, h.Enable(ctx, adapter.AdapterRecord{Index: 2, Name: "eth0"}))

	assert.Equal(t, []string{
		"ip addr del 10.0.0.9/24 dev eth0",
		"ip addr add 10.0.0.5/24 dev eth0",
		"ip route del default via 10.0.0.254 ifindex 2",
		"ip route add default via 10.0.0.1 ifindex 2 metric 1",
		"ip link set eth0 down",
		"ip link set eth0 up",
	}, n.Operations())
	reader.AssertExpectations(t)
}

func TestDryRunNetlinkerWithoutReader(t *testing.T) {
	n := NewDryRunNetlinker(nil)

	links, err := n.LinkList()
	require.NoError(t, err)
	assert.Empty(t, links)

	link, err := n.LinkByIndex(4)
	require.NoError(t, err)
	assert.Equal(t, "if4", link.Attrs().Name)

	require.NoError(t, n.LinkSetDown(link))
	assert.Equal(t, []string{"ip link set if4 down"}, n.Operations())
}
