//go:build !linux

package dns

import (
	"context"
	"fmt"
)

// Resolved is only available on Linux.
type Resolved struct{}

func NewResolved() *Resolved { return &Resolved{} }

func (r *Resolved) Name() string { return BackendResolved }

func (r *Resolved) Nameservers(context.Context, Link) ([]string, error) {
	return nil, fmt.Errorf("systemd-resolved: %w", ErrUnavailable)
}

func (r *Resolved) SetNameservers(context.Context, Link, []string) error {
	return fmt.Errorf("systemd-resolved: %w", ErrUnavailable)
}

func ResolvedAvailable() bool { return false }
