package config

import (
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// MarshalHCL renders the config as HCL. Zero-valued optional settings are
// left out.
func (c *Config) MarshalHCL() []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	setString(body, "schema_version", c.SchemaVersion)
	setString(body, "log_level", c.LogLevel)
	setBool(body, "log_json", c.LogJSON)
	setString(body, "log_file", c.LogFile)
	setString(body, "netns", c.Netns)
	setBool(body, "dry_run", c.DryRun)
	setString(body, "vendor_db", c.VendorDB)

	if c.DNS != nil {
		body.AppendNewline()
		b := body.AppendNewBlock("dns", nil).Body()
		setString(b, "backend", c.DNS.Backend)
		setString(b, "resolvconf_dir", c.DNS.ResolvconfDir)
		setString(b, "resolv_conf", c.DNS.ResolvConf)
	}

	if c.Restart != nil {
		body.AppendNewline()
		b := body.AppendNewBlock("restart", nil).Body()
		setString(b, "wait", c.Restart.Wait)
		setString(b, "settle", c.Restart.Settle)
		setString(b, "poll_interval", c.Restart.PollInterval)
		setBool(b, "probe_gateway", c.Restart.ProbeGateway)
		setString(b, "probe_timeout", c.Restart.ProbeTimeout)
		setBool(b, "probe_privileged", c.Restart.ProbePrivileged)
		setBool(b, "always_after_dns", c.Restart.AlwaysAfterDNS)
	}

	if c.Metrics != nil && c.Metrics.Textfile != "" {
		body.AppendNewline()
		b := body.AppendNewBlock("metrics", nil).Body()
		setString(b, "textfile", c.Metrics.Textfile)
	}

	return hclwrite.Format(f.Bytes())
}

func setString(body *hclwrite.Body, name, value string) {
	if value != "" {
		body.SetAttributeValue(name, cty.StringVal(value))
	}
}

func setBool(body *hclwrite.Body, name string, value bool) {
	if value {
		body.SetAttributeValue(name, cty.BoolVal(value))
	}
}
