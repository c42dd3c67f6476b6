package network

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

// ErrInvalidMask is returned for a subnet mask that is neither a contiguous
// dotted IPv4 mask nor a prefix length between 0 and 32.
var ErrInvalidMask = errors.New("invalid subnet mask")

// ParseMask returns the prefix length of an IPv4 subnet mask given as
// "255.255.255.0", "24" or "/24".
func ParseMask(s string) (int, error) {
	s = strings.TrimSpace(s)
	if bits, ok := strings.CutPrefix(s, "/"); ok || !strings.Contains(s, ".") {
		n, err := strconv.Atoi(bits)
		if err != nil || n < 0 || n > 32 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidMask, s)
		}
		return n, nil
	}

	ip := net.ParseIP(s).To4()
	if ip == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMask, s)
	}
	ones, bits := net.IPMask(ip).Size()
	if bits == 0 {
		// Size reports 0, 0 for non-canonical masks such as 255.0.255.0.
		return 0, fmt.Errorf("%w: %q is not contiguous", ErrInvalidMask, s)
	}
	return ones, nil
}

// MaskString renders a prefix length as a dotted IPv4 mask.
func MaskString(prefix int) string {
	return net.IP(net.CIDRMask(prefix, 32)).String()
}
