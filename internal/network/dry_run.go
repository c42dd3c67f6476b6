package network

import (
	"fmt"
	"strings"
	"sync"

	"github.com/vishvananda/netlink"
)

// DryRunExecutor implements CommandExecutor but only records commands.
type DryRunExecutor struct {
	mu       sync.Mutex
	Commands []string
}

// NewDryRunExecutor creates a new dry run executor.
func NewDryRunExecutor() *DryRunExecutor {
	return &DryRunExecutor{
		Commands: make([]string, 0),
	}
}

// RunCommand records the command instead of executing it.
func (e *DryRunExecutor) RunCommand(name string, arg ...string) (string, error) {
	return e.RunCommandWithInput("", name, arg...)
}

// RunCommandWithInput records the command and a one-line summary of its
// input.
func (e *DryRunExecutor) RunCommandWithInput(input, name string, arg ...string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cmd := strings.TrimSpace(fmt.Sprintf("%s %s", name, strings.Join(arg, " ")))
	if input != "" {
		cmd += " <<< " + strings.Join(strings.Fields(input), " ")
	}
	e.Commands = append(e.Commands, cmd)
	return "", nil
}

// Operations returns a copy of the recorded commands.
func (e *DryRunExecutor) Operations() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string{}, e.Commands...)
}

// DryRunNetlinker records netlink writes without applying them. Reads go to
// Reader when set, so a dry run sees the real host state.
type DryRunNetlinker struct {
	mu     sync.Mutex
	Ops    []string
	Reader Netlinker
}

// NewDryRunNetlinker creates a dry run netlinker reading through reader,
// which may be nil.
func NewDryRunNetlinker(reader Netlinker) *DryRunNetlinker {
	return &DryRunNetlinker{Reader: reader}
}

func (n *DryRunNetlinker) log(op string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Ops = append(n.Ops, fmt.Sprintf("ip %s", op))
}

// Operations returns a copy of the recorded operations.
func (n *DryRunNetlinker) Operations() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string{}, n.Ops...)
}

func (n *DryRunNetlinker) LinkByIndex(index int) (netlink.Link, error) {
	if n.Reader != nil {
		return n.Reader.LinkByIndex(index)
	}
	return &netlink.Device{LinkAttrs: netlink.LinkAttrs{Index: index, Name: fmt.Sprintf("if%d", index)}}, nil
}
func (n *DryRunNetlinker) LinkList() ([]netlink.Link, error) {
	if n.Reader != nil {
		return n.Reader.LinkList()
	}
	return nil, nil
}
func (n *DryRunNetlinker) LinkSetUp(link netlink.Link) error {
	n.log(fmt.Sprintf("link set %s up", link.Attrs().Name))
	return nil
}
func (n *DryRunNetlinker) LinkSetDown(link netlink.Link) error {
	n.log(fmt.Sprintf("link set %s down", link.Attrs().Name))
	return nil
}
func (n *DryRunNetlinker) AddrList(link netlink.Link, family int) ([]netlink.Addr, error) {
	if n.Reader != nil {
		return n.Reader.AddrList(link, family)
	}
	return nil, nil
}
func (n *DryRunNetlinker) AddrAdd(link netlink.Link, addr *netlink.Addr) error {
	n.log(fmt.Sprintf("addr add %s dev %s", addr.IPNet.String(), link.Attrs().Name))
	return nil
}
func (n *DryRunNetlinker) AddrDel(link netlink.Link, addr *netlink.Addr) error {
	n.log(fmt.Sprintf("addr del %s dev %s", addr.IPNet.String(), link.Attrs().Name))
	return nil
}
func (n *DryRunNetlinker) RouteList(link netlink.Link, family int) ([]netlink.Route, error) {
	if n.Reader != nil {
		return n.Reader.RouteList(link, family)
	}
	return nil, nil
}
func (n *DryRunNetlinker) RouteAdd(route *netlink.Route) error {
	n.log("route add " + describeRoute(route))
	return nil
}
func (n *DryRunNetlinker) RouteDel(route *netlink.Route) error {
	n.log("route del " + describeRoute(route))
	return nil
}
func (n *DryRunNetlinker) ParseAddr(s string) (*netlink.Addr, error) {
	return netlink.ParseAddr(s)
}

func describeRoute(route *netlink.Route) string {
	dst := "default"
	if !isDefaultRoute(*route) {
		dst = route.Dst.String()
	}
	s := dst
	if route.Gw != nil {
		s += " via " + route.Gw.String()
	}
	s += fmt.Sprintf(" ifindex %d", route.LinkIndex)
	if route.Priority != 0 {
		s += fmt.Sprintf(" metric %d", route.Priority)
	}
	return s
}
