//go:build linux

package network

import (
	"fmt"

	"github.com/safchain/ethtool"
)

// EthtoolInfo reads driver details through the ethtool ioctl. A handle is
// opened and closed on every call.
type EthtoolInfo struct{}

// DriverInfo returns the link's driver name and bus address.
func (EthtoolInfo) DriverInfo(name string) (string, string, error) {
	e, err := ethtool.NewEthtool()
	if err != nil {
		return "", "", fmt.Errorf("failed to open ethtool handle: %w", err)
	}
	defer e.Close()

	info, err := e.DriverInfo(name)
	if err != nil {
		return "", "", fmt.Errorf("failed to read driver info of %s: %w", name, err)
	}
	return info.Driver, info.BusInfo, nil
}
