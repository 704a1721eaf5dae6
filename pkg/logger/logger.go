// Package logger builds the zerolog logger shared by the server and
// the stores.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

const permission = 0o664

// Build accumulates logger options. Zero value logs to stdout at info.
type Build struct {
	writer io.Writer
	path   string
	level  zerolog.Level
}

// Log is the assembled logger plus the file it may own.
type Log struct {
	file   *os.File
	Logger zerolog.Logger
}

func New() *Build {
	return &Build{level: zerolog.InfoLevel}
}

// FromPath appends log lines to the file at path.
func (b *Build) FromPath(path string) *Build {
	b.path = path
	return b
}

// FromBuffer writes log lines to w. Tests use this to capture output.
func (b *Build) FromBuffer(w io.Writer) *Build {
	b.writer = w
	return b
}

func (b *Build) Level(level zerolog.Level) *Build {
	b.level = level
	return b
}

func (b *Build) Make() (*Log, error) {
	log := &Log{}
	writer := b.writer
	if writer == nil {
		writer = os.Stdout
	}
	if b.path != "" {
		file, err := os.OpenFile(b.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, err
		}
		log.file = file
		writer = zerolog.SyncWriter(file)
	}
	log.Logger = zerolog.New(writer).Level(b.level).With().Timestamp().Logger()
	return log, nil
}

// Close releases the log file, if one was opened.
func (l *Log) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
