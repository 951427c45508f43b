package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/phsym/console-slog"
	slogmulti "github.com/samber/slog-multi"

	"github.com/vanshika/heronet/internal/config"
)

// New builds a slog.Logger configured according to the provided logging config.
// Records go to stderr so that stdout stays reserved for reports. When cfg.File
// is set every record is also appended to that file as JSON; the returned
// closer releases it.
func New(cfg config.LoggingConfig) (*slog.Logger, io.Closer, error) {
	handler := newHandler(os.Stderr, cfg)

	if cfg.File == "" {
		return slog.New(handler), nopCloser{}, nil
	}

	file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: cfg.IncludeCaller,
	})

	return slog.New(slogmulti.Fanout(handler, fileHandler)), file, nil
}

func newHandler(w io.Writer, cfg config.LoggingConfig) slog.Handler {
	level := parseLevel(cfg.Level)

	if strings.EqualFold(cfg.Format, "json") {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     level,
			AddSource: cfg.IncludeCaller,
		})
	}
	return console.NewHandler(w, &console.HandlerOptions{
		Level:     level,
		AddSource: cfg.IncludeCaller,
		NoColor:   !cfg.Colored,
	})
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
