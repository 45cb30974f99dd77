package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup installs the global logger: console on stdout, plus an optional
// append-only log file. Returns the file handle so the caller can close it.
func Setup(level, file string) (io.Closer, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	console := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}

	var out io.Writer = console
	var closer io.Closer
	if file != "" {
		if dir := filepath.Dir(file); dir != "." && dir != "" {
			_ = os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		out = zerolog.MultiLevelWriter(console, f)
		closer = f
	}

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(lvl)
	return closer, nil
}
