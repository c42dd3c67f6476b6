package network

import (
	"github.com/vishvananda/netlink"
)

// Netlinker is an interface that abstracts netlink interactions.
type Netlinker interface {
	LinkByIndex(index int) (netlink.Link, error)
	LinkList() ([]netlink.Link, error)
	LinkSetUp(link netlink.Link) error
	LinkSetDown(link netlink.Link) error

	AddrList(link netlink.Link, family int) ([]netlink.Addr, error)
	AddrAdd(link netlink.Link, addr *netlink.Addr) error
	AddrDel(link netlink.Link, addr *netlink.Addr) error

	RouteList(link netlink.Link, family int) ([]netlink.Route, error)
	RouteAdd(route *netlink.Route) error
	RouteDel(route *netlink.Route) error

	ParseAddr(s string) (*netlink.Addr, error)
}

// CommandExecutor is an interface that abstracts executing shell commands.
type CommandExecutor interface {
	RunCommand(name string, arg ...string) (string, error)
	// RunCommandWithInput runs a command with input on its standard input.
	RunCommandWithInput(input, name string, arg ...string) (string, error)
}

// LinkInfoProvider reports driver details of a link. Both values may be
// empty for virtual links.
type LinkInfoProvider interface {
	DriverInfo(name string) (driver, busInfo string, err error)
}
