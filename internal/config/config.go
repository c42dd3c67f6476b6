package config

import (
	"time"

	"grimm.is/nicctl/internal/adapter"
	"grimm.is/nicctl/internal/dns"
	"grimm.is/nicctl/internal/logging"
)

// CurrentSchemaVersion is the latest config schema version.
const CurrentSchemaVersion = "1.0"

// Config is the top-level configuration.
type Config struct {
	SchemaVersion string `hcl:"schema_version,optional" json:"schema_version,omitempty"`

	LogLevel string `hcl:"log_level,optional" json:"log_level,omitempty" env:"NICCTL_LOG_LEVEL"`
	LogJSON  bool   `hcl:"log_json,optional" json:"log_json,omitempty" env:"NICCTL_LOG_JSON"`
	// LogFile receives a copy of every log record, rotated by size.
	LogFile string `hcl:"log_file,optional" json:"log_file,omitempty" env:"NICCTL_LOG_FILE"`

	// Netns runs every netlink call inside this named network namespace.
	Netns  string `hcl:"netns,optional" json:"netns,omitempty" env:"NICCTL_NETNS"`
	DryRun bool   `hcl:"dry_run,optional" json:"dry_run,omitempty" env:"NICCTL_DRY_RUN"`
	// VendorDB is an IEEE OUI registry used to name adapter vendors. A
	// missing file is ignored.
	VendorDB string `hcl:"vendor_db,optional" json:"vendor_db,omitempty" env:"NICCTL_VENDOR_DB"`

	DNS     *DNS     `hcl:"dns,block" json:"dns,omitempty"`
	Restart *Restart `hcl:"restart,block" json:"restart,omitempty"`
	Metrics *Metrics `hcl:"metrics,block" json:"metrics,omitempty"`
}

// DNS selects and configures the DNS backend.
type DNS struct {
	Backend       string `hcl:"backend,optional" json:"backend,omitempty"`
	ResolvconfDir string `hcl:"resolvconf_dir,optional" json:"resolvconf_dir,omitempty"`
	ResolvConf    string `hcl:"resolv_conf,optional" json:"resolv_conf,omitempty"`
}

// Restart controls the wait after an adapter restart.
type Restart struct {
	Wait            string `hcl:"wait,optional" json:"wait,omitempty"`
	Settle          string `hcl:"settle,optional" json:"settle,omitempty"`
	PollInterval    string `hcl:"poll_interval,optional" json:"poll_interval,omitempty"`
	ProbeGateway    bool   `hcl:"probe_gateway,optional" json:"probe_gateway,omitempty"`
	ProbeTimeout    string `hcl:"probe_timeout,optional" json:"probe_timeout,omitempty"`
	ProbePrivileged bool   `hcl:"probe_privileged,optional" json:"probe_privileged,omitempty"`
	AlwaysAfterDNS  bool   `hcl:"always_after_dns,optional" json:"always_after_dns,omitempty"`
}

// Metrics configures metric output.
type Metrics struct {
	// Textfile is written in the node_exporter textfile format after each
	// run.
	Textfile string `hcl:"textfile,optional" json:"textfile,omitempty"`
}

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.SchemaVersion == "" {
		c.SchemaVersion = CurrentSchemaVersion
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.DNS == nil {
		c.DNS = &DNS{}
	}
	if c.DNS.Backend == "" {
		c.DNS.Backend = dns.BackendAuto
	}
	if c.DNS.ResolvconfDir == "" {
		c.DNS.ResolvconfDir = dns.DefaultResolvconfDir
	}
	if c.DNS.ResolvConf == "" {
		c.DNS.ResolvConf = dns.DefaultResolvConfPath
	}
	if c.Restart == nil {
		c.Restart = &Restart{}
	}
	if c.Restart.Wait == "" {
		c.Restart.Wait = string(adapter.WaitLink)
	}
	if c.Restart.Settle == "" {
		c.Restart.Settle = adapter.DefaultSettle.String()
	}
	if c.Restart.PollInterval == "" {
		c.Restart.PollInterval = adapter.DefaultPollInterval.String()
	}
	if c.Restart.ProbeTimeout == "" {
		c.Restart.ProbeTimeout = "1s"
	}
	if c.Metrics == nil {
		c.Metrics = &Metrics{}
	}
}

// Validate checks a config with defaults applied and reports every invalid
// setting at once.
func (c *Config) Validate() error {
	var errs ValidationErrors

	current, _ := ParseVersion(CurrentSchemaVersion)
	if version, err := ParseVersion(c.SchemaVersion); err != nil {
		errs.add("schema_version", "%v", err)
	} else if !version.ReadableBy(current) {
		errs.add("schema_version", "version %s cannot be read by this release (supports %s)", version, current)
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs.add("log_level", "%v", err)
	}

	switch c.DNS.Backend {
	case dns.BackendAuto, dns.BackendResolved, dns.BackendResolvconf, dns.BackendMemory:
	default:
		errs.add("dns.backend", "unknown backend %q", c.DNS.Backend)
	}

	if err := (adapter.RestartPolicy{Wait: adapter.WaitMode(c.Restart.Wait)}).Validate(); err != nil {
		errs.add("restart.wait", "%v", err)
	}
	for field, value := range map[string]string{
		"restart.settle":        c.Restart.Settle,
		"restart.poll_interval": c.Restart.PollInterval,
		"restart.probe_timeout": c.Restart.ProbeTimeout,
	} {
		d, err := time.ParseDuration(value)
		switch {
		case err != nil:
			errs.add(field, "%v", err)
		case d <= 0:
			errs.add(field, "must be positive")
		}
	}

	if errs.HasErrors() {
		return errs.sorted()
	}
	return nil
}

// RestartPolicy converts the restart block. The config must be valid.
func (c *Config) RestartPolicy() adapter.RestartPolicy {
	settle, _ := time.ParseDuration(c.Restart.Settle)
	poll, _ := time.ParseDuration(c.Restart.PollInterval)
	return adapter.RestartPolicy{
		Wait:           adapter.WaitMode(c.Restart.Wait),
		Settle:         settle,
		PollInterval:   poll,
		ProbeGateway:   c.Restart.ProbeGateway,
		AlwaysAfterDNS: c.Restart.AlwaysAfterDNS,
	}
}

// ProbeTimeout returns the per-attempt gateway probe timeout.
func (c *Config) ProbeTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Restart.ProbeTimeout)
	return d
}

// LoggingConfig returns the logger configuration.
func (c *Config) LoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	if level, err := logging.ParseLevel(c.LogLevel); err == nil {
		cfg.Level = level
	}
	cfg.JSON = c.LogJSON
	cfg.File = c.LogFile
	return cfg
}
