// Package logging builds the application logger: a size-rotated file,
// optionally mirrored to stderr.
package logging

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Yus314/MoLe-sub005/internal/config"
)

// Prefix starts every log line.
const Prefix = "[hlsync] "

// Logger is a *log.Logger plus the file behind it.
type Logger struct {
	*log.Logger
	file *lumberjack.Logger
}

// New creates a logger writing to cfg.File under dir. A relative path is
// resolved against dir. With verbose set, lines also go to stderr.
func New(dir string, cfg config.LogConfig, verbose bool) *Logger {
	path := cfg.File
	if path != "" && !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}

	var (
		file *lumberjack.Logger
		out  []io.Writer
	)
	if path != "" {
		file = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}
		out = append(out, file)
	}
	if verbose || cfg.Verbose {
		out = append(out, os.Stderr)
	}

	var w io.Writer = io.Discard
	switch len(out) {
	case 0:
	case 1:
		w = out[0]
	default:
		w = io.MultiWriter(out...)
	}
	return &Logger{Logger: log.New(w, Prefix, log.LstdFlags), file: file}
}

// Close closes the log file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
