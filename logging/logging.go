// Package logging provides module-scoped slog loggers that share one
// reconfigurable output.
//
// Packages keep a package-level logger:
//
//	var logger = logging.GetLogger("reader")
//
// and the application calls [Setup] once flags are parsed. Loggers created
// before Setup pick up the new level and writer.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorWhite  = "\033[37m"
	colorGray   = "\033[90m"
)

// Options configures the shared output
type Options struct {
	// Level is one of debug, info, warn or error.
	Level string

	// Writer receives log lines; nil means os.Stderr.
	Writer io.Writer

	// Color enables ANSI colors.
	Color bool
}

// sink is the output shared by every handler.
type sink struct {
	mu    sync.Mutex
	w     io.Writer
	color bool
	level slog.LevelVar
}

var (
	shared     = &sink{w: os.Stderr}
	rootLogger = slog.New(&customHandler{out: shared})
)

// GetLogger returns a logger with the given module prefix for easier filtering
func GetLogger(module string) *slog.Logger {
	return rootLogger.With("module", module)
}

// Setup reconfigures the level and output of every logger.
func Setup(opts Options) error {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return err
	}
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	shared.mu.Lock()
	shared.w = w
	shared.color = opts.Color
	shared.mu.Unlock()
	shared.level.Set(level)
	return nil
}

// ParseLevel maps a level name onto a slog level. The empty string is info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

type customHandler struct {
	out   *sink
	attrs []slog.Attr
	group string
}

func (h *customHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.out.level.Level()
}

func (h *customHandler) Handle(_ context.Context, record slog.Record) error {
	var color, levelStr string
	switch record.Level {
	case slog.LevelDebug:
		color, levelStr = colorWhite, "DEBUG"
	case slog.LevelInfo:
		color, levelStr = colorBlue, "INFO"
	case slog.LevelWarn:
		color, levelStr = colorYellow, "WARNING"
	case slog.LevelError:
		color, levelStr = colorRed, "ERROR"
	default:
		color, levelStr = colorWhite, record.Level.String()
	}

	var module string
	var args []string
	collect := func(a slog.Attr) bool {
		if a.Key == "module" {
			module = a.Value.String()
			return true
		}
		key := a.Key
		if h.group != "" {
			key = h.group + "." + key
		}
		args = append(args, fmt.Sprintf("%s=%v", key, a.Value))
		return true
	}
	for _, a := range h.attrs {
		collect(a)
	}
	record.Attrs(collect)

	argsStr := ""
	if len(args) > 0 {
		argsStr = " (" + strings.Join(args, ", ") + ")"
	}
	timeStr := record.Time.Format("15:04:05")

	h.out.mu.Lock()
	defer h.out.mu.Unlock()

	// Format: [module] <LEVEL>: <msg> (<args>) [HH:MM:SS]
	var err error
	if h.out.color {
		prefix := ""
		if module != "" {
			prefix = fmt.Sprintf("%s[%s]%s ", colorGray, module, colorReset)
		}
		_, err = fmt.Fprintf(h.out.w, "%s%s%s%s: %s%s [%s]\n",
			prefix, color, levelStr, colorReset, record.Message, argsStr, timeStr)
	} else {
		prefix := ""
		if module != "" {
			prefix = "[" + module + "] "
		}
		_, err = fmt.Fprintf(h.out.w, "%s%s: %s%s [%s]\n",
			prefix, levelStr, record.Message, argsStr, timeStr)
	}
	return err
}

func (h *customHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	copy(newAttrs[len(h.attrs):], attrs)
	return &customHandler{out: h.out, attrs: newAttrs, group: h.group}
}

func (h *customHandler) WithGroup(name string) slog.Handler {
	return &customHandler{out: h.out, attrs: h.attrs, group: name}
}
