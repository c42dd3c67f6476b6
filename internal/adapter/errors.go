package adapter

import (
	"errors"
	"fmt"
)

// ErrNoAddresses is returned by SetIP when no address is supplied.
var ErrNoAddresses = errors.New("at least one IP address is required")

// HostQueryError reports a failed enumeration of adapters or configurations.
type HostQueryError struct {
	Op  string
	Err error
}

func (e *HostQueryError) Error() string {
	return fmt.Sprintf("%s: host query failed: %v", e.Op, e.Err)
}

func (e *HostQueryError) Unwrap() error {
	return e.Err
}

// HostCommandError reports a failed mutating command against one adapter.
type HostCommandError struct {
	Op      string
	Adapter string
	Err     error
}

func (e *HostCommandError) Error() string {
	return fmt.Sprintf("%s on %q failed: %v", e.Op, e.Adapter, e.Err)
}

func (e *HostCommandError) Unwrap() error {
	return e.Err
}
