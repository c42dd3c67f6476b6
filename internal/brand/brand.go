// Package brand holds the product name and the default paths derived from
// it. The values come from brand.json, embedded at build time.
package brand

import (
	_ "embed"
	"encoding/json"
	"os"
	"path/filepath"
)

//go:embed brand.json
var brandJSON []byte

// Brand is the product identity.
type Brand struct {
	Name             string `json:"name"`
	Vendor           string `json:"vendor"`
	Website          string `json:"website"`
	Description      string `json:"description"`
	ConfigEnvPrefix  string `json:"configEnvPrefix"`
	DefaultConfigDir string `json:"defaultConfigDir"`
	BinaryName       string `json:"binaryName"`
	ConfigFileName   string `json:"configFileName"`
}

var current = mustParse(brandJSON)

var (
	Name             = current.Name
	Vendor           = current.Vendor
	Website          = current.Website
	Description      = current.Description
	ConfigEnvPrefix  = current.ConfigEnvPrefix
	DefaultConfigDir = current.DefaultConfigDir
	BinaryName       = current.BinaryName
	ConfigFileName   = current.ConfigFileName

	// Set with -ldflags "-X grimm.is/nicctl/internal/brand.Version=...".
	Version   = "dev"
	GitCommit = "unknown"
)

func mustParse(data []byte) Brand {
	var b Brand
	if err := json.Unmarshal(data, &b); err != nil {
		panic("failed to parse brand.json: " + err.Error())
	}
	return b
}

// Get returns the product identity.
func Get() Brand {
	return current
}

// EnvVar returns the environment variable name for key, e.g. NICCTL_PREFIX.
func EnvVar(key string) string {
	return ConfigEnvPrefix + "_" + key
}

// GetConfigDir returns the config directory: $NICCTL_CONFIG_DIR, else
// $NICCTL_PREFIX/etc, else the built-in default.
func GetConfigDir() string {
	if dir := os.Getenv(EnvVar("CONFIG_DIR")); dir != "" {
		return dir
	}
	if prefix := os.Getenv(EnvVar("PREFIX")); prefix != "" {
		return filepath.Join(prefix, "etc")
	}
	return DefaultConfigDir
}

// GetConfigPath returns the default config file path.
func GetConfigPath() string {
	return filepath.Join(GetConfigDir(), ConfigFileName)
}
