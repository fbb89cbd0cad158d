// Package log provides the clusterctl status-line helpers and the leveled
// diagnostic logger.
// Status lines go to stderr, leaving stdout to command output, and are
// colorized when stderr is a TTY.
package log

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// ANSI escape codes.
const (
	reset = "\033[0m"
	bold  = "\033[1m"
	cyan  = "\033[36m"
	green = "\033[32m"
	red   = "\033[31m"
)

// isTTY reports whether w is a terminal.
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// colorize wraps msg in an ANSI color sequence only when w is a TTY.
func colorize(w io.Writer, color, msg string) string {
	if isTTY(w) {
		return color + bold + msg + reset
	}
	return msg
}

func Info(msg string)  { fmt.Fprintf(os.Stderr, "%s %s\n", colorize(os.Stderr, cyan, "[+]"), msg) }
func Ok(msg string)    { fmt.Fprintf(os.Stderr, "%s %s\n", colorize(os.Stderr, green, "[✓]"), msg) }
func Error(msg string) { fmt.Fprintf(os.Stderr, "%s %s\n", colorize(os.Stderr, red, "[!]"), msg) }

// Level maps a -v occurrence count to the diagnostic log level.
// Without -v only warnings and errors are shown.
func Level(verbosity int) zapcore.Level {
	switch {
	case verbosity <= 0:
		return zapcore.WarnLevel
	case verbosity == 1:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// New returns the diagnostic logger for one clusterctl invocation. Every
// entry carries the run ID.
func New(verbosity int, runID string, w io.Writer) *zap.Logger {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	enc.CallerKey = ""
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	if isTTY(w) {
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(enc),
		zapcore.Lock(zapcore.AddSync(w)),
		Level(verbosity),
	)
	return zap.New(core).With(zap.String("run", runID))
}
