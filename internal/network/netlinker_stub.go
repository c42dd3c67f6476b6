//go:build !linux
// +build !linux

package network

import (
	"fmt"

	"github.com/vishvananda/netlink"
)

var errUnsupported = fmt.Errorf("netlink not supported on this platform")

// RealNetlinker is a stub implementation of Netlinker.
type RealNetlinker struct{}

// NewNetlinker returns a stub whose every call fails.
func NewNetlinker(nsName string) (*RealNetlinker, error) {
	if nsName != "" {
		return nil, fmt.Errorf("netns %s: %w", nsName, errUnsupported)
	}
	return &RealNetlinker{}, nil
}

func (r *RealNetlinker) Close() {}

func (r *RealNetlinker) LinkByIndex(index int) (netlink.Link, error) {
	return nil, errUnsupported
}

func (r *RealNetlinker) LinkList() ([]netlink.Link, error) {
	return nil, errUnsupported
}

func (r *RealNetlinker) LinkSetUp(link netlink.Link) error {
	return errUnsupported
}

func (r *RealNetlinker) LinkSetDown(link netlink.Link) error {
	return errUnsupported
}

func (r *RealNetlinker) AddrList(link netlink.Link, family int) ([]netlink.Addr, error) {
	return nil, errUnsupported
}

func (r *RealNetlinker) AddrAdd(link netlink.Link, addr *netlink.Addr) error {
	return errUnsupported
}

func (r *RealNetlinker) AddrDel(link netlink.Link, addr *netlink.Addr) error {
	return errUnsupported
}

func (r *RealNetlinker) RouteList(link netlink.Link, family int) ([]netlink.Route, error) {
	return nil, errUnsupported
}

func (r *RealNetlinker) RouteAdd(route *netlink.Route) error {
	return errUnsupported
}

func (r *RealNetlinker) RouteDel(route *netlink.Route) error {
	return errUnsupported
}

func (r *RealNetlinker) ParseAddr(s string) (*netlink.Addr, error) {
	return netlink.ParseAddr(s)
}
