package adapter

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"grimm.is/nicctl/internal/clock"
	"grimm.is/nicctl/internal/logging"
	"grimm.is/nicctl/internal/metrics"
)

// Configurator applies configuration intents to adapters selected by
// description.
type Configurator struct {
	facility Facility
	policy   RestartPolicy
	clock    clock.Clock
	prober   GatewayProber
	metrics  *metrics.Registry
	log      *logging.Logger
}

// NewConfigurator creates a configurator over the given facility.
func NewConfigurator(f Facility, policy RestartPolicy) *Configurator {
	return &Configurator{
		facility: f,
		policy:   policy.withDefaults(),
		clock:    clock.Default,
		log:      logging.WithComponent("adapter"),
	}
}

// SetClock replaces the clock used for restart waits.
func (c *Configurator) SetClock(clk clock.Clock) {
	c.clock = clk
}

// SetProber sets the prober used when the policy asks for a gateway probe.
func (c *Configurator) SetProber(p GatewayProber) {
	c.prober = p
}

// SetMetrics sets the metrics registry. A nil registry disables metrics.
func (c *Configurator) SetMetrics(r *metrics.Registry) {
	c.metrics = r
}

// SetLogger sets the logger.
func (c *Configurator) SetLogger(l *logging.Logger) {
	c.log = l.WithComponent("adapter")
}

// Policy returns the effective restart policy.
func (c *Configurator) Policy() RestartPolicy {
	return c.policy
}

// ListEnabledAdapters returns the descriptions of all IP-enabled adapters in
// the order the facility reports them.
func (c *Configurator) ListEnabledAdapters(ctx context.Context) (names []string, err error) {
	defer func() { c.metrics.ObserveOperation("list-enabled", err) }()

	configs, err := c.configurations(ctx, "list-enabled")
	if err != nil {
		return nil, err
	}

	names = make([]string, 0, len(configs))
	for _, cfg := range configs {
		if cfg.IPEnabled {
			names = append(names, cfg.Description)
		}
	}
	return names, nil
}

// Adapters returns every adapter record, enabled or not.
func (c *Configurator) Adapters(ctx context.Context) (records []AdapterRecord, err error) {
	defer func() { c.metrics.ObserveOperation("adapters", err) }()

	records, err = c.facility.Adapters(ctx)
	if err != nil {
		return nil, &HostQueryError{Op: "adapters", Err: err}
	}
	return records, nil
}

// Configuration returns the configuration of the first IP-enabled adapter
// matching description, or nil when none matches.
func (c *Configurator) Configuration(ctx context.Context, description string) (rec *ConfigurationRecord, err error) {
	defer func() { c.metrics.ObserveOperation("configuration", err) }()

	configs, err := c.configurations(ctx, "configuration")
	if err != nil {
		return nil, err
	}
	matches := matchConfigurations(configs, description)
	if len(matches) == 0 {
		return nil, nil
	}
	return &matches[0], nil
}

// GetNameservers returns the DNS server search order of the first IP-enabled
// adapter matching description. It returns nil, without error, when nothing
// matches.
func (c *Configurator) GetNameservers(ctx context.Context, description string) (servers []string, err error) {
	defer func() { c.metrics.ObserveOperation("get-nameservers", err) }()

	configs, err := c.configurations(ctx, "get-nameservers")
	if err != nil {
		return nil, err
	}
	matches := matchConfigurations(configs, description)
	if len(matches) == 0 {
		c.log.Debug("no IP-enabled adapter matches", "description", description)
		return nil, nil
	}
	return matches[0].DNSServerSearchOrder, nil
}

// SetNameservers replaces the DNS servers of every IP-enabled adapter
// matching description. An empty list clears them. Each adapter whose update
// succeeds is restarted when restart is true or the policy sets
// AlwaysAfterDNS.
//
// updated is true when at least one adapter was updated. Failures on one
// adapter do not stop the others; they are joined into err.
func (c *Configurator) SetNameservers(ctx context.Context, description string, servers []string, restart bool) (updated bool, err error) {
	defer func() { c.metrics.ObserveOperation("set-nameservers", err) }()

	configs, err := c.configurations(ctx, "set-nameservers")
	if err != nil {
		return false, err
	}

	servers = append([]string{}, servers...)
	opID := uuid.NewString()

	var errs []error
	for _, cfg := range matchConfigurations(configs, description) {
		cerr := c.command(opID, "set-dns", cfg.Description, map[string]any{
			"link":    cfg.Name,
			"servers": strings.Join(servers, ","),
		}, func() error {
			return c.facility.SetDNSServerSearchOrder(ctx, cfg, servers)
		})
		if cerr != nil {
			errs = append(errs, cerr)
			continue
		}
		updated = true

		if restart || c.policy.AlwaysAfterDNS {
			if rerr := c.RestartAdapter(ctx, description); rerr != nil {
				errs = append(errs, rerr)
			}
		}
	}
	return updated, errors.Join(errs...)
}

// SetIP assigns ipAddresses, each with subnetMask, to every IP-enabled
// adapter matching description. A non-empty gateway replaces the adapter's
// default gateways with that single gateway at GatewayMetric. The first
// failing command aborts the call; earlier changes are not rolled back.
func (c *Configurator) SetIP(ctx context.Context, description string, ipAddresses []string, subnetMask, gateway string) (err error) {
	defer func() { c.metrics.ObserveOperation("set-ip", err) }()

	if len(ipAddresses) == 0 {
		return ErrNoAddresses
	}

	configs, err := c.configurations(ctx, "set-ip")
	if err != nil {
		return err
	}

	addrs := append([]string{}, ipAddresses...)
	masks := make([]string, len(addrs))
	for i := range masks {
		masks[i] = subnetMask
	}
	opID := uuid.NewString()

	for _, cfg := range matchConfigurations(configs, description) {
		err := c.command(opID, "enable-static", cfg.Description, map[string]any{
			"link":      cfg.Name,
			"addresses": strings.Join(addrs, ","),
			"mask":      subnetMask,
		}, func() error {
			return c.facility.EnableStatic(ctx, cfg, addrs, masks)
		})
		if err != nil {
			return err
		}

		if gateway == "" {
			continue
		}
		err = c.command(opID, "set-gateways", cfg.Description, map[string]any{
			"link":    cfg.Name,
			"gateway": gateway,
			"metric":  GatewayMetric,
		}, func() error {
			return c.facility.SetGateways(ctx, cfg, []string{gateway}, []int{GatewayMetric})
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// RestartAdapter disables and re-enables the first adapter whose
// description matches, then waits for it according to the restart policy.
// Unlike the other operations it does not require the adapter to be
// IP-enabled. It is a no-op when nothing matches.
func (c *Configurator) RestartAdapter(ctx context.Context, description string) (err error) {
	defer func() { c.metrics.ObserveOperation("restart", err) }()

	adapters, err := c.facility.Adapters(ctx)
	if err != nil {
		return &HostQueryError{Op: "restart", Err: err}
	}

	for _, a := range adapters {
		if a.Description != description {
			continue
		}

		opID := uuid.NewString()
		details := map[string]any{"link": a.Name}
		if err := c.command(opID, "disable", a.Description, details, func() error {
			return c.facility.Disable(ctx, a)
		}); err != nil {
			return err
		}
		if err := c.command(opID, "enable", a.Description, details, func() error {
			return c.facility.Enable(ctx, a)
		}); err != nil {
			return err
		}
		return c.waitForAdapter(ctx, a)
	}

	c.log.Debug("no adapter to restart", "description", description)
	return nil
}

func (c *Configurator) configurations(ctx context.Context, op string) ([]ConfigurationRecord, error) {
	configs, err := c.facility.Configurations(ctx)
	if err != nil {
		return nil, &HostQueryError{Op: op, Err: err}
	}
	return configs, nil
}

// command runs one mutating facility call, counts it and audits it on
// success.
func (c *Configurator) command(opID, name, description string, details map[string]any, fn func() error) error {
	err := fn()
	c.metrics.ObserveCommand(name, err)
	if err != nil {
		return &HostCommandError{Op: name, Adapter: description, Err: err}
	}
	c.log.Audit(opID, name, description, details)
	return nil
}
