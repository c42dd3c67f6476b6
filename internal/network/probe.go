package network

import (
	"context"
	"fmt"
	"time"

	probing "github.com/prometheus-community/pro-bing"
)

// Pinger probes gateways with a single ICMP echo per attempt.
type Pinger struct {
	Timeout time.Duration
	// Privileged selects raw ICMP sockets over unprivileged UDP ones.
	Privileged bool
}

// NewPinger creates an unprivileged pinger with a one second timeout.
func NewPinger() *Pinger {
	return &Pinger{Timeout: time.Second}
}

// ProbeGateway sends one echo request to gateway and waits for the reply.
func (p *Pinger) ProbeGateway(ctx context.Context, gateway string) error {
	pinger, err := probing.NewPinger(gateway)
	if err != nil {
		return fmt.Errorf("failed to create pinger: %w", err)
	}

	pinger.Count = 1
	if p.Timeout > 0 {
		pinger.Timeout = p.Timeout
	}
	pinger.SetPrivileged(p.Privileged)

	if err := pinger.RunWithContext(ctx); err != nil {
		return err
	}
	if pinger.Statistics().PacketsRecv == 0 {
		return fmt.Errorf("no reply from %s", gateway)
	}
	return nil
}
