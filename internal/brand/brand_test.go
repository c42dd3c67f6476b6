package brand

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	b := Get()
	assert.Equal(t, "nicctl", b.Name)
	assert.Equal(t, Name, b.Name)
	assert.Equal(t, "nicctl", BinaryName)
	assert.NotEmpty(t, Version)
}

func TestEnvVar(t *testing.T) {
	assert.Equal(t, "NICCTL_PREFIX", EnvVar("PREFIX"))
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv(EnvVar("PREFIX"), "")
	t.Setenv(EnvVar("CONFIG_DIR"), "")
	assert.Equal(t, "/etc/nicctl", GetConfigDir())
	assert.Equal(t, "/etc/nicctl/nicctl.hcl", GetConfigPath())

	t.Setenv(EnvVar("PREFIX"), "/opt/nicctl")
	assert.Equal(t, "/opt/nicctl/etc", GetConfigDir())

	t.Setenv(EnvVar("CONFIG_DIR"), "/custom/config")
	assert.Equal(t, "/custom/config/nicctl.hcl", GetConfigPath())
}
