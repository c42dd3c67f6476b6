package network

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// DefaultVendorRegistry is where Debian's ieee-data package installs the
// IEEE MA-L registry.
const DefaultVendorRegistry = "/usr/share/ieee-data/oui.txt"

// Matches the "(hex)" lines of the IEEE registry text format:
//
//	00-00-5E   (hex)		USC INFORMATION SCIENCES INST
//	00-55-DA-9 (hex)		Manufacturer (MA-M)
var hexLineRegex = regexp.MustCompile(`^([0-9A-F]{2})-([0-9A-F]{2})-([0-9A-F]{2})([-0-9A-F]*)\s+\(hex\)\s+(.+)$`)

// VendorDB maps MAC address prefixes to manufacturer names. A nil *VendorDB
// is valid and knows no vendors.
type VendorDB struct {
	entries map[string]string // raw upper-case hex prefix -> manufacturer
}

// LoadVendorDB reads an IEEE registry file. Files ending in .gz are
// decompressed.
func LoadVendorDB(path string) (*VendorDB, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}
	return ParseVendorRegistry(r)
}

// ParseVendorRegistry parses the IEEE MA-L, MA-M, MA-S or IAB text format.
// Registries may be concatenated.
func ParseVendorRegistry(r io.Reader) (*VendorDB, error) {
	db := &VendorDB{entries: make(map[string]string)}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		m := hexLineRegex.FindStringSubmatch(line)
		if len(m) != 6 {
			continue
		}
		prefix := m[1] + m[2] + m[3] + strings.ReplaceAll(m[4], "-", "")
		db.entries[prefix] = strings.TrimSpace(m[5])
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return db, nil
}

// Len returns the number of known prefixes.
func (db *VendorDB) Len() int {
	if db == nil {
		return 0
	}
	return len(db.entries)
}

// Lookup returns the manufacturer for a MAC address, using the longest
// matching prefix. Locally administered addresses return "Random MAC".
func (db *VendorDB) Lookup(mac string) string {
	if db == nil {
		return ""
	}

	raw := strings.NewReplacer(":", "", "-", "", ".", "").Replace(mac)
	if len(raw) < 6 {
		return ""
	}
	raw = strings.ToUpper(raw)

	// Bit 1 of the first octet marks a locally administered address.
	switch raw[1] {
	case '2', '6', 'A', 'E':
		return "Random MAC"
	}

	// MA-S (36 bits), MA-M (28 bits), MA-L (24 bits).
	for _, n := range []int{9, 7, 6} {
		if len(raw) < n {
			continue
		}
		if vendor, ok := db.entries[raw[:n]]; ok {
			return vendor
		}
	}
	return ""
}
