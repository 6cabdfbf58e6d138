package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// L is the operator console. The TUI owns stdout, so it writes to a file.
var L = zerolog.Nop()

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Init points L at path (stdout when empty) at the given level.
// The returned closer releases the file.
func Init(path, level string) (io.Closer, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	var w io.Writer = os.Stdout
	var c io.Closer = nopCloser{}
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		w, c = file, file
	}
	L = zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: path != ""}).
		Level(lvl).
		With().Timestamp().Logger()
	return c, nil
}

func Infof(f string, v ...interface{})  { L.Info().Msgf(f, v...) }
func Errorf(f string, v ...interface{}) { L.Error().Msgf(f, v...) }
