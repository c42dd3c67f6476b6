package dns

import (
	"bufio"
	"os"
	"strings"

	"grimm.is/nicctl/internal/logging"
)

// hint is the DNS manager named in the header comments of resolv.conf.
type hint int

const (
	hintUnknown hint = iota
	hintResolved
	hintResolvconf
	hintFile
)

// Detect picks a backend from the resolv.conf header, verified against what
// is actually running. It returns BackendAuto when nothing usable is found.
func Detect(resolvConf string) string {
	log := logging.WithComponent("dns")

	h := detectFromResolvConf(resolvConf)
	switch h {
	case hintResolved:
		if ResolvedAvailable() {
			return BackendResolved
		}
		log.Warn("resolv.conf names systemd-resolved but it is not running")
	case hintResolvconf:
		if ResolvconfAvailable() {
			return BackendResolvconf
		}
		log.Warn("resolv.conf names resolvconf but the command is missing")
	}

	if ResolvedAvailable() {
		return BackendResolved
	}
	if ResolvconfAvailable() {
		return BackendResolvconf
	}
	return BackendAuto
}

func detectFromResolvConf(path string) hint {
	f, err := os.Open(path)
	if err != nil {
		return hintUnknown
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text[0] != '#' {
			return hintFile
		}
		switch {
		case strings.Contains(text, "systemd-resolved"):
			return hintResolved
		case strings.Contains(text, "resolvconf"):
			return hintResolvconf
		}
	}
	if scanner.Err() != nil {
		return hintUnknown
	}
	return hintFile
}
