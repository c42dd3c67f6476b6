package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"grimm.is/nicctl/cmd"
	"grimm.is/nicctl/internal/brand"
	"grimm.is/nicctl/internal/i18n"
	"grimm.is/nicctl/internal/logging"
)

var printer = i18n.NewCLIPrinter()

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	logging.SetProcessName(brand.BinaryName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch os.Args[1] {
	case "list":
		fs := flag.NewFlagSet("list", flag.ExitOnError)
		opts := cmd.AddGlobalFlags(fs)
		all := fs.Bool("all", false, "List every adapter with link details")
		fs.BoolVar(all, "a", false, "List every adapter (short)")
		format := fs.String("output", cmd.FormatTable, "Output format (table, json, yaml)")
		fs.StringVar(format, "o", cmd.FormatTable, "Output format (short)")
		fs.Parse(os.Args[2:])

		run(ctx, "List", opts, func(env *cmd.Env) error {
			return cmd.RunList(ctx, env, *all, *format)
		})

	case "show":
		fs := flag.NewFlagSet("show", flag.ExitOnError)
		opts := cmd.AddGlobalFlags(fs)
		format := fs.String("output", cmd.FormatTable, "Output format (table, json, yaml)")
		fs.StringVar(format, "o", cmd.FormatTable, "Output format (short)")
		fs.Parse(os.Args[2:])

		run(ctx, "Show", opts, func(env *cmd.Env) error {
			return cmd.RunShow(ctx, env, fs.Arg(0), *format)
		})

	case "dns":
		runDNS(ctx, os.Args[2:])

	case "ip":
		if len(os.Args) < 3 || os.Args[2] != "set" {
			printer.Printf("Usage: %s ip set --mask <mask> [--gateway <ip>] <adapter> <ip>...\n", brand.BinaryName)
			os.Exit(1)
		}
		fs := flag.NewFlagSet("ip set", flag.ExitOnError)
		opts := cmd.AddGlobalFlags(fs)
		mask := fs.String("mask", "", "Subnet mask applied to every address (dotted or prefix length)")
		fs.StringVar(mask, "m", "", "Subnet mask (short)")
		gateway := fs.String("gateway", "", "Default gateway")
		fs.StringVar(gateway, "g", "", "Default gateway (short)")
		fs.Parse(os.Args[3:])

		if fs.NArg() < 2 || *mask == "" {
			printer.Printf("Usage: %s ip set --mask <mask> [--gateway <ip>] <adapter> <ip>...\n", brand.BinaryName)
			os.Exit(1)
		}
		run(ctx, "Set IP", opts, func(env *cmd.Env) error {
			return cmd.RunIPSet(ctx, env, fs.Arg(0), fs.Args()[1:], cmd.IPSetOptions{Mask: *mask, Gateway: *gateway})
		})

	case "restart":
		fs := flag.NewFlagSet("restart", flag.ExitOnError)
		opts := cmd.AddGlobalFlags(fs)
		fs.Parse(os.Args[2:])

		run(ctx, "Restart", opts, func(env *cmd.Env) error {
			return cmd.RunRestart(ctx, env, fs.Arg(0))
		})

	case "config":
		runConfig(os.Args[2:])

	case "version":
		printer.Printf("%s %s (%s)\n", brand.Name, brand.Version, brand.GitCommit)

	case "help", "-h", "--help":
		printUsage()

	default:
		printer.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// run wires the environment, runs fn and exits non-zero on failure.
func run(ctx context.Context, name string, opts *cmd.GlobalOptions, fn func(env *cmd.Env) error) {
	env, err := cmd.Setup(opts)
	if err != nil {
		printer.Fprintf(os.Stderr, "%s failed: %v\n", name, err)
		os.Exit(1)
	}

	err = fn(env)
	env.Close()
	if err != nil {
		logging.Error(name+" failed", "error", err)
		printer.Fprintf(os.Stderr, "%s failed: %v\n", name, err)
		os.Exit(1)
	}
}

func runDNS(ctx context.Context, args []string) {
	if len(args) < 1 {
		printer.Printf("Usage: %s dns get|set ...\n", brand.BinaryName)
		os.Exit(1)
	}

	switch args[0] {
	case "get":
		fs := flag.NewFlagSet("dns get", flag.ExitOnError)
		opts := cmd.AddGlobalFlags(fs)
		format := fs.String("output", cmd.FormatTable, "Output format (table, json, yaml)")
		fs.StringVar(format, "o", cmd.FormatTable, "Output format (short)")
		fs.Parse(args[1:])

		run(ctx, "DNS get", opts, func(env *cmd.Env) error {
			return cmd.RunDNSGet(ctx, env, fs.Arg(0), *format)
		})

	case "set":
		fs := flag.NewFlagSet("dns set", flag.ExitOnError)
		opts := cmd.AddGlobalFlags(fs)
		restart := fs.Bool("restart", false, "Restart the adapter after a successful change")
		fs.BoolVar(restart, "r", false, "Restart (short)")
		preview := fs.Bool("preview", false, "Show the change without applying it")
		fs.BoolVar(preview, "p", false, "Preview (short)")
		fs.Parse(args[1:])

		if fs.NArg() < 1 {
			printer.Printf("Usage: %s dns set [--restart] [--preview] <adapter> [server...]\n", brand.BinaryName)
			os.Exit(1)
		}
		run(ctx, "DNS set", opts, func(env *cmd.Env) error {
			return cmd.RunDNSSet(ctx, env, fs.Arg(0), fs.Args()[1:], cmd.DNSSetOptions{
				Restart: *restart,
				Preview: *preview,
			})
		})

	default:
		printer.Fprintf(os.Stderr, "Unknown dns command: %s\n", args[0])
		os.Exit(1)
	}
}

func runConfig(args []string) {
	if len(args) < 1 {
		printer.Printf("Usage: %s config show|check ...\n", brand.BinaryName)
		os.Exit(1)
	}

	switch args[0] {
	case "show":
		fs := flag.NewFlagSet("config show", flag.ExitOnError)
		opts := cmd.AddGlobalFlags(fs)
		fs.Parse(args[1:])

		if err := cmd.RunConfigShow(os.Stdout, opts); err != nil {
			printer.Fprintf(os.Stderr, "Config show failed: %v\n", err)
			os.Exit(1)
		}

	case "check":
		fs := flag.NewFlagSet("config check", flag.ExitOnError)
		fs.Parse(args[1:])

		configFile := brand.GetConfigPath()
		if fs.NArg() > 0 {
			configFile = fs.Arg(0)
		}
		if err := cmd.RunCheck(os.Stdout, configFile); err != nil {
			printer.Fprintf(os.Stderr, "Check failed: %v\n", err)
			os.Exit(1)
		}

	default:
		printer.Fprintf(os.Stderr, "Unknown config command: %s\n", args[0])
		os.Exit(1)
	}
}

func printUsage() {
	printer.Printf("%s - network adapter configuration\n\n", brand.Name)
	printer.Printf("Usage: %s <command> [options]\n\n", brand.BinaryName)
	printer.Printf("Commands:\n")
	printer.Printf("  list [-a] [-o table|json|yaml]        List IP-enabled adapters (-a: every adapter)\n")
	printer.Printf("  show [adapter] [-o ...]               Show an adapter's IP configuration\n")
	printer.Printf("  dns get [adapter] [-o ...]            Print an adapter's DNS servers\n")
	printer.Printf("  dns set [-r] [-p] adapter [server...] Replace DNS servers (none clears them)\n")
	printer.Printf("  ip set -m mask [-g gw] adapter ip...  Assign static addresses\n")
	printer.Printf("  restart [adapter]                     Disable and re-enable an adapter\n")
	printer.Printf("  config show                           Print the effective configuration\n")
	printer.Printf("  config check [file]                   Validate a configuration file\n")
	printer.Printf("  version                               Print version information\n\n")
	printer.Printf("Global options:\n")
	printer.Printf("  -c, --config <file>   Configuration file (default %s)\n", brand.GetConfigPath())
	printer.Printf("  --log-level <level>   debug, info, warn or error\n")
	printer.Printf("  -n, --dry-run         Print host changes instead of applying them\n")
	printer.Printf("  --metrics-file <file> Write metrics as a node_exporter textfile\n")
	printer.Printf("  --netns <name>        Operate inside a named network namespace\n\n")
	printer.Printf("Environment: NICCTL_LOG_LEVEL, NICCTL_LOG_JSON, NICCTL_LOG_FILE, NICCTL_NETNS,\n")
	printer.Printf("NICCTL_DRY_RUN and NICCTL_VENDOR_DB override the file; flags override both.\n")
}
