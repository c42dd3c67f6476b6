package dns

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// DryRun reads through another resolver and records writes instead of
// applying them.
type DryRun struct {
	Reader Resolver

	mu  sync.Mutex
	ops []string
}

// NewDryRun wraps reader.
func NewDryRun(reader Resolver) *DryRun {
	return &DryRun{Reader: reader}
}

func (d *DryRun) Name() string { return d.Reader.Name() }

func (d *DryRun) Nameservers(ctx context.Context, link Link) ([]string, error) {
	return d.Reader.Nameservers(ctx, link)
}

// SetNameservers validates servers and records the change.
func (d *DryRun) SetNameservers(_ context.Context, link Link, servers []string) error {
	if _, err := parseServers(servers); err != nil {
		return err
	}

	op := fmt.Sprintf("%s: clear dns on %s", d.Reader.Name(), link)
	if len(servers) > 0 {
		op = fmt.Sprintf("%s: set dns on %s to %s", d.Reader.Name(), link, strings.Join(servers, " "))
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.ops = append(d.ops, op)
	return nil
}

// Operations returns a copy of the recorded writes.
func (d *DryRun) Operations() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string{}, d.ops...)
}
