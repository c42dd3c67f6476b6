package cmd

import (
	"errors"
	"fmt"
	"io"

	"grimm.is/nicctl/internal/config"
)

// RunConfigShow prints the effective configuration, with defaults and flag
// overrides applied, as HCL.
func RunConfigShow(w io.Writer, opts *GlobalOptions) error {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return err
	}
	_, err = w.Write(cfg.MarshalHCL())
	return err
}

// RunCheck validates a configuration file.
func RunCheck(w io.Writer, configFile string) error {
	cfg, err := config.LoadFile(configFile)
	if err != nil {
		var verrs config.ValidationErrors
		if errors.As(err, &verrs) {
			for _, e := range verrs {
				Printer.Fprintf(w, "  %s\n", e.Error())
			}
		}
		return fmt.Errorf("configuration invalid: %w", err)
	}

	Printer.Fprintf(w, "Configuration valid!\n")
	Printer.Fprintf(w, "Schema Version: %s\n", cfg.SchemaVersion)
	Printer.Fprintf(w, "DNS Backend: %s\n", cfg.DNS.Backend)
	Printer.Fprintf(w, "Restart Wait: %s (settle %s)\n", cfg.Restart.Wait, cfg.Restart.Settle)
	return nil
}
