package config

import (
	"fmt"
	"strconv"
	"strings"
)

// SchemaVersion is a MAJOR.MINOR config schema version.
type SchemaVersion struct {
	Major int
	Minor int
}

// ParseVersion parses "MAJOR.MINOR".
func ParseVersion(s string) (SchemaVersion, error) {
	majorStr, minorStr, ok := strings.Cut(s, ".")
	if !ok {
		return SchemaVersion{}, fmt.Errorf("invalid version %q (expected MAJOR.MINOR)", s)
	}
	major, err := strconv.Atoi(majorStr)
	if err != nil || major < 0 {
		return SchemaVersion{}, fmt.Errorf("invalid major version in %q", s)
	}
	minor, err := strconv.Atoi(minorStr)
	if err != nil || minor < 0 {
		return SchemaVersion{}, fmt.Errorf("invalid minor version in %q", s)
	}
	return SchemaVersion{Major: major, Minor: minor}, nil
}

func (v SchemaVersion) String() string {
	return strconv.Itoa(v.Major) + "." + strconv.Itoa(v.Minor)
}

// ReadableBy reports whether a release that writes reader can load a file
// at version v: same major, minor no newer.
func (v SchemaVersion) ReadableBy(reader SchemaVersion) bool {
	return v.Major == reader.Major && v.Minor <= reader.Minor
}
