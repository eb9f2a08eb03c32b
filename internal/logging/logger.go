package logging

import (
	"log/slog"
	"os"
)

// Setup installs the process-wide JSON logger. main layers the Postgres
// sink on top once the database connection is up.
func Setup() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}
