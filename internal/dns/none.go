package dns

import (
	"context"
	"fmt"
)

// BackendNone is used when no per-link DNS manager runs on the host.
const BackendNone = "none"

// None reports no per-link servers and refuses writes.
type None struct{}

func (None) Name() string { return BackendNone }

func (None) Nameservers(context.Context, Link) ([]string, error) {
	return nil, nil
}

func (None) SetNameservers(_ context.Context, link Link, _ []string) error {
	return fmt.Errorf("set nameservers on %s: %w", link, ErrUnavailable)
}
