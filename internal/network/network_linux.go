//go:build linux
// +build linux

package network

import (
	"fmt"

	"github.com/vishvananda/netlink"
	"github.com/vishvananda/netns"
)

// RealNetlinker is a concrete implementation of Netlinker backed by a
// netlink handle, optionally bound to a named network namespace.
type RealNetlinker struct {
	handle *netlink.Handle
}

// NewNetlinker opens a netlink handle. A non-empty nsName binds the handle
// to that named namespace (as created by `ip netns add`).
func NewNetlinker(nsName string) (*RealNetlinker, error) {
	if nsName == "" {
		h, err := netlink.NewHandle()
		if err != nil {
			return nil, fmt.Errorf("failed to open netlink handle: %w", err)
		}
		return &RealNetlinker{handle: h}, nil
	}

	ns, err := netns.GetFromName(nsName)
	if err != nil {
		return nil, fmt.Errorf("failed to open netns %s: %w", nsName, err)
	}
	defer ns.Close()

	h, err := netlink.NewHandleAt(ns)
	if err != nil {
		return nil, fmt.Errorf("failed to open netlink handle in netns %s: %w", nsName, err)
	}
	return &RealNetlinker{handle: h}, nil
}

// Close releases the netlink handle.
func (r *RealNetlinker) Close() {
	r.handle.Close()
}

// LinkByIndex retrieves a link by kernel index.
func (r *RealNetlinker) LinkByIndex(index int) (netlink.Link, error) {
	return r.handle.LinkByIndex(index)
}

// LinkList retrieves all links.
func (r *RealNetlinker) LinkList() ([]netlink.Link, error) {
	return r.handle.LinkList()
}

// LinkSetUp sets the link up.
func (r *RealNetlinker) LinkSetUp(link netlink.Link) error {
	return r.handle.LinkSetUp(link)
}

// LinkSetDown sets the link down.
func (r *RealNetlinker) LinkSetDown(link netlink.Link) error {
	return r.handle.LinkSetDown(link)
}

// AddrList retrieves a list of addresses for a link.
func (r *RealNetlinker) AddrList(link netlink.Link, family int) ([]netlink.Addr, error) {
	return r.handle.AddrList(link, family)
}

// AddrAdd adds an address to a link.
func (r *RealNetlinker) AddrAdd(link netlink.Link, addr *netlink.Addr) error {
	return r.handle.AddrAdd(link, addr)
}

// AddrDel deletes an address from a link.
func (r *RealNetlinker) AddrDel(link netlink.Link, addr *netlink.Addr) error {
	return r.handle.AddrDel(link, addr)
}

// RouteList retrieves the routes of a link.
func (r *RealNetlinker) RouteList(link netlink.Link, family int) ([]netlink.Route, error) {
	return r.handle.RouteList(link, family)
}

// RouteAdd adds a route.
func (r *RealNetlinker) RouteAdd(route *netlink.Route) error {
	return r.handle.RouteAdd(route)
}

// RouteDel deletes a route.
func (r *RealNetlinker) RouteDel(route *netlink.Route) error {
	return r.handle.RouteDel(route)
}

// ParseAddr parses a string into a netlink.Addr.
func (r *RealNetlinker) ParseAddr(s string) (*netlink.Addr, error) {
	return netlink.ParseAddr(s)
}
