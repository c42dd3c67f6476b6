package network

import (
	"github.com/stretchr/testify/mock"
	"github.com/vishvananda/netlink"
)

// MockNetlinker is a mock implementation of the Netlinker interface.
type MockNetlinker struct {
	mock.Mock
}

func (m *MockNetlinker) LinkByIndex(index int) (netlink.Link, error) {
	args := m.Called(index)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(netlink.Link), args.Error(1)
}
func (m *MockNetlinker) LinkList() ([]netlink.Link, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]netlink.Link), args.Error(1)
}
func (m *MockNetlinker) LinkSetUp(link netlink.Link) error {
	args := m.Called(link)
	return args.Error(0)
}
func (m *MockNetlinker) LinkSetDown(link netlink.Link) error {
	args := m.Called(link)
	return args.Error(0)
}
func (m *MockNetlinker) AddrList(link netlink.Link, family int) ([]netlink.Addr, error) {
	args := m.Called(link, family)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]netlink.Addr), args.Error(1)
}
func (m *MockNetlinker) AddrAdd(link netlink.Link, addr *netlink.Addr) error {
	args := m.Called(link, addr)
	return args.Error(0)
}
func (m *MockNetlinker) AddrDel(link netlink.Link, addr *netlink.Addr) error {
	args := m.Called(link, addr)
	return args.Error(0)
}
func (m *MockNetlinker) RouteList(link netlink.Link, family int) ([]netlink.Route, error) {
	args := m.Called(link, family)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]netlink.Route), args.Error(1)
}
func (m *MockNetlinker) RouteAdd(route *netlink.Route) error {
	args := m.Called(route)
	return args.Error(0)
}
func (m *MockNetlinker) RouteDel(route *netlink.Route) error {
	args := m.Called(route)
	return args.Error(0)
}
func (m *MockNetlinker) ParseAddr(s string) (*netlink.Addr, error) {
	args := m.Called(s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*netlink.Addr), args.Error(1)
}

// MockCommandExecutor is a mock implementation of the CommandExecutor interface.
type MockCommandExecutor struct {
	mock.Mock
}

func (m *MockCommandExecutor) RunCommand(name string, arg ...string) (string, error) {
	argsSlice := []interface{}{name}
	for _, a := range arg {
		argsSlice = append(argsSlice, a)
	}
	args := m.Called(argsSlice...)
	return args.String(0), args.Error(1)
}

func (m *MockCommandExecutor) RunCommandWithInput(input, name string, arg ...string) (string, error) {
	argsSlice := []interface{}{input, name}
	for _, a := range arg {
		argsSlice = append(argsSlice, a)
	}
	args := m.Called(argsSlice...)
	return args.String(0), args.Error(1)
}

// MockLinkInfo is a mock implementation of the LinkInfoProvider interface.
type MockLinkInfo struct {
	mock.Mock
}

func (m *MockLinkInfo) DriverInfo(name string) (string, string, error) {
	args := m.Called(name)
	return args.String(0), args.String(1), args.Error(2)
}
