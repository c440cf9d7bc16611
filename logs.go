package tapebf

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLogger builds the diagnostic logger: text on w, plus JSON lines in
// LogConfig.File and the systemd journal when configured. The returned closer
// releases the log file.
func NewLogger(lc *LogConfig, w io.Writer) (*slog.Logger, io.Closer, error) {
	if lc == nil {
		lc = &LogConfig{}
	}

	level := new(slog.LevelVar)
	if lc.Level != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(lc.Level)); err != nil {
			return nil, nil, fmt.Errorf("Failed to parse log level [%s]: %w", lc.Level, err)
		}
		level.Set(l)
	}

	handlers := []slog.Handler{
		slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}),
	}

	var closer io.Closer = nopCloser{}
	if lc.File != "" {
		f, err := os.OpenFile(lc.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("Failed to open log file [%s]: %w", lc.File, err)
		}
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
		closer = f
	}

	if lc.Journal {
		journal, err := slogjournal.NewHandler(&slogjournal.Options{Level: level})
		if err != nil {
			// Not fatal: the terminal handler still works.
			slog.New(handlers[0]).Warn("new systemd journal handler", "error", err)
		} else {
			handlers = append(handlers, journal)
		}
	}

	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}
