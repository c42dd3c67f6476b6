package dns

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strings"

	"github.com/miekg/dns"
)

const (
	DefaultResolvconfDir  = "/run/resolvconf/interface"
	DefaultResolvConfPath = "/etc/resolv.conf"
	resolvconfCommand     = "resolvconf"
)

// Runner executes external commands.
type Runner interface {
	RunCommand(name string, arg ...string) (string, error)
	RunCommandWithInput(input, name string, arg ...string) (string, error)
}

// Resolvconf manages per-interface records through resolvconf(8).
type Resolvconf struct {
	dir    string
	fsys   fs.FS
	runner Runner
}

// NewResolvconf reads interface records from dir and writes them through
// runner.
func NewResolvconf(dir string, runner Runner) *Resolvconf {
	return &Resolvconf{
		dir:    dir,
		fsys:   os.DirFS(dir),
		runner: runner,
	}
}

func (r *Resolvconf) Name() string { return BackendResolvconf }

// Nameservers parses the link's interface record. A missing record means no
// servers.
func (r *Resolvconf) Nameservers(_ context.Context, link Link) ([]string, error) {
	f, err := r.fsys.Open(link.Name)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open resolvconf record for %s: %w", link.Name, err)
	}
	defer f.Close()

	cfg, err := dns.ClientConfigFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("parse resolvconf record for %s: %w", link.Name, err)
	}
	return cfg.Servers, nil
}

// SetNameservers replaces the link's record, or deletes it when servers is
// empty.
func (r *Resolvconf) SetNameservers(_ context.Context, link Link, servers []string) error {
	if r.runner == nil {
		return fmt.Errorf("resolvconf: no command runner: %w", ErrUnavailable)
	}

	if len(servers) == 0 {
		if _, err := r.runner.RunCommand(resolvconfCommand, "-f", "-d", link.Name); err != nil {
			return fmt.Errorf("clear nameservers on %s: %w", link.Name, err)
		}
		return nil
	}

	addrs, err := parseServers(servers)
	if err != nil {
		return err
	}

	var b strings.Builder
	for _, addr := range addrs {
		fmt.Fprintf(&b, "nameserver %s\n", addr)
	}
	if _, err := r.runner.RunCommandWithInput(b.String(), resolvconfCommand, "-a", link.Name); err != nil {
		return fmt.Errorf("set nameservers on %s: %w", link.Name, err)
	}
	return nil
}

// ResolvconfAvailable reports whether the resolvconf command is installed.
func ResolvconfAvailable() bool {
	_, err := exec.LookPath(resolvconfCommand)
	return err == nil
}
