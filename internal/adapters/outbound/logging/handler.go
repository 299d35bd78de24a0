// Package logging renders slog records as the "[LEVEL] message" lines the
// validator prints to the terminal.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	infoColor  = lipgloss.Color("#22C55E") // green
	warnColor  = lipgloss.Color("#F59E0B") // amber-yellow
	errorColor = lipgloss.Color("#EF4444") // red
	debugColor = lipgloss.Color("#3B82F6") // blue
)

// Handler is a slog.Handler writing one colored, tagged line per record.
type Handler struct {
	mu     *sync.Mutex
	w      io.Writer
	level  slog.Leveler
	styles map[slog.Level]lipgloss.Style
	attrs  []slog.Attr
	group  string
}

// NewHandler creates a Handler. Colors are dropped when w is not a terminal.
func NewHandler(w io.Writer, level slog.Leveler) *Handler {
	r := lipgloss.NewRenderer(w)
	return &Handler{
		mu:    &sync.Mutex{},
		w:     w,
		level: level,
		styles: map[slog.Level]lipgloss.Style{
			slog.LevelDebug: r.NewStyle().Foreground(debugColor),
			slog.LevelInfo:  r.NewStyle().Foreground(infoColor),
			slog.LevelWarn:  r.NewStyle().Foreground(warnColor),
			slog.LevelError: r.NewStyle().Foreground(errorColor),
		},
	}
}

// New returns a logger at info level, or debug level when verbose is set.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(NewHandler(w, level))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(NewHandler(io.Discard, slog.LevelError+1))
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(h.tag(r.Level))
	b.WriteByte(' ')
	b.WriteString(r.Message)

	for _, a := range h.attrs {
		writeAttr(&b, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, h.group, a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	for _, a := range attrs {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		clone.attrs = append(clone.attrs, a)
	}
	return &clone
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	if clone.group != "" {
		clone.group += "." + name
	} else {
		clone.group = name
	}
	return &clone
}

func (h *Handler) tag(level slog.Level) string {
	var name string
	var style lipgloss.Style
	switch {
	case level >= slog.LevelError:
		name, style = "ERROR", h.styles[slog.LevelError]
	case level >= slog.LevelWarn:
		name, style = "WARN", h.styles[slog.LevelWarn]
	case level >= slog.LevelInfo:
		name, style = "INFO", h.styles[slog.LevelInfo]
	default:
		name, style = "DEBUG", h.styles[slog.LevelDebug]
	}
	return style.Render("[" + name + "]")
}

func writeAttr(b *strings.Builder, group string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if group != "" {
		key = group + "." + key
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			writeAttr(b, key, ga)
		}
		return
	}
	val := a.Value.String()
	if strings.ContainsAny(val, " \t\"=") {
		val = fmt.Sprintf("%q", val)
	}
	fmt.Fprintf(b, " %s=%s", key, val)
}
