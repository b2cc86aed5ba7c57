package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Handler implements slog.Handler for TTY-optimized text output.
// It provides colorized output when the writer supports it and masks
// sensitive attributes.
type Handler struct {
	opts   slog.HandlerOptions
	out    io.Writer
	mu     *sync.Mutex
	attrs  []slog.Attr
	groups []string

	colors *palette
}

type palette struct {
	time  *color.Color
	debug *color.Color
	info  *color.Color
	warn  *color.Color
	err   *color.Color
	key   *color.Color
}

func newPalette() *palette {
	p := &palette{
		time:  color.New(color.FgHiBlack),
		debug: color.New(color.FgMagenta),
		info:  color.New(color.FgGreen),
		warn:  color.New(color.FgYellow),
		err:   color.New(color.FgRed, color.Bold),
		key:   color.New(color.FgCyan),
	}
	// fatih/color disables itself on non-terminals; the handler decides instead.
	for _, c := range []*color.Color{p.time, p.debug, p.info, p.warn, p.err, p.key} {
		c.EnableColor()
	}
	return p
}

// NewHandler creates a new TTY-optimized text handler.
// If opts.ReplaceAttr is nil, sensitive attributes are masked by key.
func NewHandler(out io.Writer, opts *slog.HandlerOptions) *Handler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}

	h := &Handler{
		opts: *opts,
		out:  out,
		mu:   &sync.Mutex{},
	}
	if h.opts.ReplaceAttr == nil {
		h.opts.ReplaceAttr = redactAttr
	}

	if SupportsColor(out) {
		h.colors = newPalette()
	}

	return h
}

// WithColor returns a copy of h with color output forced on or off.
func (h *Handler) WithColor(enabled bool) *Handler {
	newH := *h
	newH.colors = nil
	if enabled {
		newH.colors = newPalette()
	}
	return &newH
}

// Enabled reports whether the handler handles records at the given level.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

// Handle handles the Record.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder

	if !r.Time.IsZero() {
		t := r.Time.Format(time.Kitchen)
		if h.colors != nil {
			t = h.colors.time.Sprint(t)
		}
		sb.WriteString(t)
		sb.WriteByte(' ')
	}

	fmt.Fprintf(&sb, "%-5s ", h.level(r.Level))
	sb.WriteString(r.Message)

	for _, a := range h.attrs {
		h.appendAttr(&sb, nil, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&sb, h.groups, a)
		return true
	})
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, sb.String())
	return err
}

func (h *Handler) level(l slog.Level) string {
	s := l.String()
	if l <= LevelTrace {
		s = "TRACE"
	}
	if h.colors == nil {
		return s
	}
	switch {
	case l >= slog.LevelError:
		return h.colors.err.Sprint(s)
	case l >= slog.LevelWarn:
		return h.colors.warn.Sprint(s)
	case l >= slog.LevelInfo:
		return h.colors.info.Sprint(s)
	default:
		return h.colors.debug.Sprint(s)
	}
}

func (h *Handler) appendAttr(sb *strings.Builder, groups []string, a slog.Attr) {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		sub := groups
		if a.Key != "" {
			sub = append(append([]string(nil), groups...), a.Key)
		}
		for _, ga := range a.Value.Group() {
			h.appendAttr(sb, sub, ga)
		}
		return
	}

	a = h.opts.ReplaceAttr(groups, a)
	if a.Equal(slog.Attr{}) {
		return
	}

	key := a.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}
	if h.colors != nil {
		key = h.colors.key.Sprint(key)
	}

	fmt.Fprintf(sb, " %s=%v", key, a.Value.Any())
}

// WithAttrs returns a new Handler with the given attributes.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	newH := *h
	newH.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	newH.attrs = append(newH.attrs, h.attrs...)
	for _, a := range attrs {
		if len(h.groups) > 0 {
			a = slog.Attr{Key: strings.Join(h.groups, "."), Value: slog.GroupValue(a)}
		}
		newH.attrs = append(newH.attrs, a)
	}
	return &newH
}

// WithGroup returns a new Handler whose subsequent attribute keys are
// prefixed with name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	newH := *h
	newH.groups = append(append([]string(nil), h.groups...), name)
	return &newH
}
