package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

const componentKey = "component"

// ConsoleHandler writes one human-readable line per record:
//
//	2025-06-15T12:00:00Z nicctl[4242]: [info] adapter: dns updated adapter=Uplink
type ConsoleHandler struct {
	level  slog.Leveler
	out    io.Writer
	mu     *sync.Mutex
	attrs  []slog.Attr
	prefix string
}

var (
	processName   = "nicctl"
	processNameMu sync.RWMutex
)

// SetProcessName overrides the tag written on console lines.
func SetProcessName(name string) {
	processNameMu.Lock()
	defer processNameMu.Unlock()
	processName = strings.ToLower(name)
}

func getProcessName() string {
	processNameMu.RLock()
	defer processNameMu.RUnlock()
	return processName
}

// NewConsoleHandler creates a new ConsoleHandler.
func NewConsoleHandler(out io.Writer, opts *slog.HandlerOptions) *ConsoleHandler {
	h := &ConsoleHandler{out: out, mu: &sync.Mutex{}, level: slog.LevelInfo}
	if opts != nil && opts.Level != nil {
		h.level = opts.Level
	}
	return h
}

func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	t := r.Time
	if t.IsZero() {
		t = time.Now()
	}

	var attrs []slog.Attr
	component := componentOf(h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == componentKey && h.prefix == "" {
			component = strings.ToLower(a.Value.String())
			return true
		}
		attrs = append(attrs, a)
		return true
	})

	var sb strings.Builder
	sb.WriteString(t.Format(time.RFC3339))
	sb.WriteString(" ")
	sb.WriteString(getProcessName())
	sb.WriteString("[")
	sb.WriteString(strconv.Itoa(os.Getpid()))
	sb.WriteString("]: [")
	sb.WriteString(strings.ToLower(r.Level.String()))
	sb.WriteString("] ")
	if component != "" {
		sb.WriteString(component)
		sb.WriteString(": ")
	}
	sb.WriteString(r.Message)

	for _, a := range h.attrs {
		if a.Key != componentKey {
			writeAttr(&sb, "", a)
		}
	}
	for _, a := range attrs {
		writeAttr(&sb, h.prefix, a)
	}
	sb.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, sb.String())
	return err
}

func componentOf(attrs []slog.Attr) string {
	component := ""
	for _, a := range attrs {
		if a.Key == componentKey {
			component = strings.ToLower(a.Value.String())
		}
	}
	return component
}

func writeAttr(sb *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			writeAttr(sb, prefix+a.Key+".", ga)
		}
		return
	}

	sb.WriteString(" ")
	sb.WriteString(prefix)
	sb.WriteString(a.Key)
	sb.WriteString("=")
	val := a.Value.String()
	if val == "" || strings.ContainsAny(val, " \t\n\"=") {
		val = strconv.Quote(val)
	}
	sb.WriteString(val)
}

func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	for _, a := range attrs {
		if h.prefix != "" {
			a.Key = h.prefix + a.Key
		}
		clone.attrs = append(clone.attrs, a)
	}
	return &clone
}

// WithGroup prefixes later attribute keys with name.
func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}
