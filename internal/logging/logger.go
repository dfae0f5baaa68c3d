// Package logging builds the zerolog loggers used by flockctl.
//
// Console output is human-readable on a color-capable TTY and JSON
// otherwise. An optional rotating file copy is written with lumberjack.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mrz1836/asyncflock/internal/constants"
	"github.com/mrz1836/asyncflock/internal/errors"
)

// globalMu protects writes to the zerolog global logger.
var globalMu sync.Mutex //nolint:gochecknoglobals // Protects zerolog global

// Options selects level and outputs for New.
type Options struct {
	// Level is the minimum level. Verbose and Quiet override it.
	Level zerolog.Level

	// Verbose forces debug level.
	Verbose bool

	// Quiet forces warn level. Verbose wins when both are set.
	Quiet bool

	// Console receives console output. Nil means os.Stderr.
	Console io.Writer

	// FilePath enables a rotating log file at the given path.
	FilePath string
}

// Logger is a configured zerolog logger plus the file it may own.
type Logger struct {
	zerolog.Logger

	file io.Closer
}

// Close releases the log file, if one was opened. It is safe to call more than once.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// New creates a logger from opts and installs it as the zerolog global
// logger so code using github.com/rs/zerolog/log shares its settings.
// When the log file cannot be created the logger falls back to console
// output and the error is returned alongside the usable logger.
func New(opts Options) (*Logger, error) {
	console := opts.Console
	if console == nil {
		console = selectOutput(os.Stderr)
	}

	writer := console
	out := &Logger{}

	var fileErr error
	if opts.FilePath != "" {
		fw, err := newFileWriter(opts.FilePath)
		if err != nil {
			fileErr = err
		} else {
			out.file = fw
			writer = zerolog.MultiLevelWriter(console, fw)
		}
	}

	out.Logger = zerolog.New(writer).
		Level(SelectLevel(opts.Level, opts.Verbose, opts.Quiet)).
		With().Timestamp().Logger()

	setGlobal(out.Logger)
	return out, fileErr
}

// SelectLevel determines the log level from a base level and verbosity flags.
func SelectLevel(base zerolog.Level, verbose, quiet bool) zerolog.Level {
	switch {
	case verbose:
		return zerolog.DebugLevel
	case quiet:
		return zerolog.WarnLevel
	default:
		return base
	}
}

// ParseLevel parses a level name. An empty name yields info.
func ParseLevel(name string) (zerolog.Level, error) {
	if name == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.NoLevel, errors.Wrapf(errors.ErrConfigInvalidLog, "%q", name)
	}
	return level, nil
}

func setGlobal(l zerolog.Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	log.Logger = l
}

// selectOutput returns a console writer for a TTY without NO_COLOR and the
// raw stream (JSON lines) otherwise.
func selectOutput(f *os.File) io.Writer {
	if term.IsTerminal(int(f.Fd())) && os.Getenv("NO_COLOR") == "" {
		return zerolog.ConsoleWriter{
			Out:        f,
			TimeFormat: time.Kitchen,
		}
	}
	return f
}

// newFileWriter creates a rotating writer at path, creating its directory.
func newFileWriter(path string) (io.WriteCloser, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, errors.Wrap(err, "failed to create log directory")
	}

	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    constants.LogMaxSizeMB,
		MaxBackups: constants.LogMaxBackups,
		MaxAge:     constants.LogMaxAgeDays,
		Compress:   constants.LogCompress,
	}, nil
}
