package adapter

import (
	"context"
	"fmt"
	"time"
)

// WaitMode selects how RestartAdapter waits after re-enabling an adapter.
type WaitMode string

const (
	// WaitLink polls the link state until it is up, bounded by Settle.
	WaitLink WaitMode = "link"
	// WaitFixed sleeps for Settle unconditionally.
	WaitFixed WaitMode = "fixed"
)

const (
	DefaultSettle       = 4 * time.Second
	DefaultPollInterval = 250 * time.Millisecond
)

// RestartPolicy controls the wait that follows an adapter restart and
// whether a DNS change triggers one.
type RestartPolicy struct {
	Wait         WaitMode
	Settle       time.Duration
	PollInterval time.Duration
	// ProbeGateway pings the adapter's first default gateway once the link
	// is up, until it answers or Settle elapses.
	ProbeGateway bool
	// AlwaysAfterDNS restarts after every successful DNS change, whatever
	// the caller asked for.
	AlwaysAfterDNS bool
}

// DefaultRestartPolicy polls the link for up to four seconds.
func DefaultRestartPolicy() RestartPolicy {
	return RestartPolicy{
		Wait:         WaitLink,
		Settle:       DefaultSettle,
		PollInterval: DefaultPollInterval,
	}
}

func (p RestartPolicy) withDefaults() RestartPolicy {
	if p.Wait == "" {
		p.Wait = WaitLink
	}
	if p.Settle <= 0 {
		p.Settle = DefaultSettle
	}
	if p.PollInterval <= 0 {
		p.PollInterval = DefaultPollInterval
	}
	return p
}

// Validate checks the wait mode.
func (p RestartPolicy) Validate() error {
	switch p.Wait {
	case "", WaitLink, WaitFixed:
		return nil
	}
	return fmt.Errorf("unknown restart wait mode %q (want %q or %q)", p.Wait, WaitLink, WaitFixed)
}

func (c *Configurator) waitForAdapter(ctx context.Context, a AdapterRecord) error {
	start := c.clock.Now()
	defer func() { c.metrics.ObserveRestartWait(c.clock.Since(start)) }()

	if c.policy.Wait == WaitFixed {
		return c.clock.Sleep(ctx, c.policy.Settle)
	}

	up, err := c.pollLink(ctx, a, start)
	if err != nil {
		return err
	}
	if !up {
		c.log.Warn("link did not come up before settle timeout",
			"adapter", a.Description, "settle", c.policy.Settle)
		return nil
	}
	c.log.Debug("link up after restart", "adapter", a.Description, "elapsed", c.clock.Since(start))

	if c.policy.ProbeGateway && c.prober != nil {
		return c.probeGateway(ctx, a, start)
	}
	return nil
}

// pollLink returns true once the facility reports the link up, or false once
// Settle has elapsed since start. Facility errors are treated as "not yet".
func (c *Configurator) pollLink(ctx context.Context, a AdapterRecord, start time.Time) (bool, error) {
	for {
		up, err := c.facility.LinkUp(ctx, a)
		if err != nil {
			c.log.Debug("link state unavailable", "adapter", a.Description, "error", err)
		} else if up {
			return true, nil
		}

		if c.clock.Since(start) >= c.policy.Settle {
			return false, nil
		}
		if err := c.clock.Sleep(ctx, c.policy.PollInterval); err != nil {
			return false, err
		}
	}
}

func (c *Configurator) probeGateway(ctx context.Context, a AdapterRecord, start time.Time) error {
	configs, err := c.facility.Configurations(ctx)
	if err != nil {
		c.log.Debug("skipping gateway probe", "adapter", a.Description, "error", err)
		return nil
	}

	var gateway string
	for _, cfg := range configs {
		if cfg.Index == a.Index && len(cfg.DefaultIPGateway) > 0 {
			gateway = cfg.DefaultIPGateway[0]
			break
		}
	}
	if gateway == "" {
		return nil
	}

	for {
		perr := c.prober.ProbeGateway(ctx, gateway)
		if perr == nil {
			c.log.Debug("gateway answered", "adapter", a.Description, "gateway", gateway)
			return nil
		}
		if c.clock.Since(start) >= c.policy.Settle {
			c.log.Warn("gateway did not answer before settle timeout",
				"adapter", a.Description, "gateway", gateway, "error", perr)
			return nil
		}
		if err := c.clock.Sleep(ctx, c.policy.PollInterval); err != nil {
			return err
		}
	}
}
