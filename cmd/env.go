package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"grimm.is/nicctl/internal/adapter"
	"grimm.is/nicctl/internal/brand"
	"grimm.is/nicctl/internal/config"
	"grimm.is/nicctl/internal/dns"
	"grimm.is/nicctl/internal/i18n"
	"grimm.is/nicctl/internal/logging"
	"grimm.is/nicctl/internal/metrics"
	"grimm.is/nicctl/internal/network"
	"grimm.is/nicctl/internal/tui"
)

// Printer is the global message printer for the CLI
var Printer = i18n.NewCLIPrinter()

// GlobalOptions are the flags every subcommand accepts.
type GlobalOptions struct {
	ConfigFile  string
	LogLevel    string
	DryRun      bool
	MetricsFile string
	Netns       string
}

// AddGlobalFlags registers the global flags on fs.
func AddGlobalFlags(fs *flag.FlagSet) *GlobalOptions {
	opts := &GlobalOptions{}
	fs.StringVar(&opts.ConfigFile, "config", brand.GetConfigPath(), "Configuration file")
	fs.StringVar(&opts.ConfigFile, "c", brand.GetConfigPath(), "Configuration file (short)")
	fs.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.BoolVar(&opts.DryRun, "dry-run", false, "Print host changes instead of applying them")
	fs.BoolVar(&opts.DryRun, "n", false, "Dry run (short)")
	fs.StringVar(&opts.MetricsFile, "metrics-file", "", "Write metrics to this node_exporter textfile")
	fs.StringVar(&opts.Netns, "netns", "", "Operate inside this named network namespace")
	return opts
}

// LoadConfig reads the config file named by opts, then applies NICCTL_*
// environment overrides and finally flag overrides. A missing file at the
// default location yields the defaults.
func LoadConfig(opts *GlobalOptions) (*config.Config, error) {
	var cfg *config.Config
	_, statErr := os.Stat(opts.ConfigFile)
	switch {
	case os.IsNotExist(statErr) && opts.ConfigFile == brand.GetConfigPath():
		cfg = config.Default()
	default:
		loaded, err := config.LoadFile(opts.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if opts.LogLevel != "" {
		if _, err := logging.ParseLevel(opts.LogLevel); err != nil {
			return nil, err
		}
		cfg.LogLevel = opts.LogLevel
	}
	if opts.DryRun {
		cfg.DryRun = true
	}
	if opts.Netns != "" {
		cfg.Netns = opts.Netns
	}
	if opts.MetricsFile != "" {
		cfg.Metrics.Textfile = opts.MetricsFile
	}
	return cfg, nil
}

// Env is the wired state shared by every subcommand.
type Env struct {
	Config       *config.Config
	Configurator *adapter.Configurator
	Metrics      *metrics.Registry
	Log          *logging.Logger
	Out          io.Writer
	// Interactive enables the adapter picker when an adapter argument is
	// omitted.
	Interactive bool

	closers []func()
	dryRun  []func() []string
}

// Setup loads configuration and wires the host facility behind a
// configurator.
func Setup(opts *GlobalOptions) (*Env, error) {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return nil, err
	}

	logger := logging.New(cfg.LoggingConfig())
	logging.SetDefault(logger)

	nl, err := network.NewNetlinker(cfg.Netns)
	if err != nil {
		return nil, err
	}

	env := &Env{
		Config:      cfg,
		Metrics:     metrics.New(),
		Log:         logger,
		Out:         os.Stdout,
		Interactive: tui.Interactive(),
		closers:     []func(){nl.Close},
	}

	var netlinker network.Netlinker = nl
	var runner network.CommandExecutor = network.DefaultCommandExecutor
	if cfg.DryRun {
		dryNL := network.NewDryRunNetlinker(nl)
		dryExec := network.NewDryRunExecutor()
		netlinker, runner = dryNL, dryExec
		env.dryRun = append(env.dryRun, dryNL.Operations, dryExec.Operations)
	}

	resolver, err := dns.New(cfg.DNS.Backend, dns.Options{
		ResolvconfDir: cfg.DNS.ResolvconfDir,
		ResolvConf:    cfg.DNS.ResolvConf,
		Runner:        runner,
	})
	switch {
	case errors.Is(err, dns.ErrUnavailable):
		logger.Warn("no per-link dns manager found, nameservers are read-only", "error", err)
		resolver = dns.None{}
	case err != nil:
		env.Close()
		return nil, err
	}
	if cfg.DryRun && resolver.Name() != dns.BackendResolvconf {
		dry := dns.NewDryRun(resolver)
		resolver = dry
		env.dryRun = append(env.dryRun, dry.Operations)
	}
	logger.Debug("dns backend selected", "backend", resolver.Name())

	host := network.NewHost(netlinker, resolver)
	host.SetLogger(logger)
	host.SetLinkInfo(network.EthtoolInfo{})
	if db := loadVendorDB(cfg.VendorDB, logger); db != nil {
		host.SetVendorDB(db)
	}

	configurator := adapter.NewConfigurator(host, cfg.RestartPolicy())
	configurator.SetLogger(logger)
	configurator.SetMetrics(env.Metrics)
	if cfg.Restart.ProbeGateway {
		configurator.SetProber(&network.Pinger{
			Timeout:    cfg.ProbeTimeout(),
			Privileged: cfg.Restart.ProbePrivileged,
		})
	}
	env.Configurator = configurator

	return env, nil
}

func loadVendorDB(path string, logger *logging.Logger) *network.VendorDB {
	explicit := path != ""
	if !explicit {
		path = network.DefaultVendorRegistry
	}
	db, err := network.LoadVendorDB(path)
	if err != nil {
		if explicit {
			logger.Warn("vendor registry not loaded", "path", path, "error", err)
		}
		return nil
	}
	logger.Debug("vendor registry loaded", "path", path, "entries", db.Len())
	return db
}

// Close prints any recorded dry-run operations, writes the metrics
// textfile and releases host handles.
func (e *Env) Close() {
	if e.Config != nil && e.Config.DryRun {
		var ops []string
		for _, source := range e.dryRun {
			ops = append(ops, source()...)
		}
		if len(ops) > 0 {
			Printer.Fprintf(e.Out, "\n[DRY RUN] Changes not applied:\n")
			for _, op := range ops {
				Printer.Fprintf(e.Out, "  %s\n", op)
			}
		}
	}

	if e.Config != nil && e.Config.Metrics.Textfile != "" {
		if err := e.Metrics.WriteTextfile(e.Config.Metrics.Textfile, time.Now()); err != nil {
			e.Log.Warn("metrics not written", "error", err)
		}
	}

	for _, c := range e.closers {
		c()
	}
	e.closers = nil
}

// resolveAdapter returns arg, or asks the user to pick one of the enabled
// adapters when arg is empty.
func (e *Env) resolveAdapter(ctx context.Context, arg string) (string, error) {
	if arg != "" {
		return arg, nil
	}
	if !e.Interactive {
		return "", fmt.Errorf("adapter description required")
	}
	names, err := e.Configurator.ListEnabledAdapters(ctx)
	if err != nil {
		return "", err
	}
	return tui.Pick("Adapter", unique(names))
}

func unique(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	return out
}
