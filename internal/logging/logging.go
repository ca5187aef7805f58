// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures New. Level is one of debug, info, warn or error;
// Format is json (the default) or text.
type Options struct {
	Level  string
	Format string

	// File, when set, sends output to a size-rotated file instead of stdout.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// New returns a logrus logger writing at the configured level and format.
// The returned closer flushes and closes the log file, if any.
func New(opts Options) (*logrus.Logger, io.Closer, error) {
	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}

	log := logrus.New()
	log.SetLevel(level)

	switch opts.Format {
	case "", "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
		}
		log.SetOutput(rotator)
		closer = rotator
	} else {
		log.SetOutput(os.Stdout)
	}
	return log, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
