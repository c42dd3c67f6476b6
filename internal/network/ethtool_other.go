//go:build !linux

package network

// EthtoolInfo reports nothing outside Linux.
type EthtoolInfo struct{}

func (EthtoolInfo) DriverInfo(name string) (string, string, error) {
	return "", "", errUnsupported
}
