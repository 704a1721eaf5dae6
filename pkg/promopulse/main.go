package promopulse

import (
	"context"
	"fmt"

	"github.com/promopulse/promopulse/pkg/logger"
)

// Main is the entry point shared by the binary and tests. It parses
// args, builds the logger and application, and dispatches the command.
//
// Environment variables:
//
//	SURREALDB_URL    - SurrealDB WebSocket URL (default: ws://localhost:8000/rpc)
//	SURREALDB_NS     - SurrealDB namespace (default: promopulse)
//	SURREALDB_DB     - SurrealDB database (default: promopulse)
//	SURREALDB_USER   - SurrealDB username (default: root)
//	SURREALDB_PASS   - SurrealDB password (default: root)
//	DATA_DIR         - Local fallback store directory (default: data)
//	PORT             - HTTP server port (default: 8080)
//	LOG_FILE         - Append logs to this file instead of stdout
func Main(ctx context.Context, args []string) error {
	cmd, config, err := Parse(args)
	if err != nil {
		return fmt.Errorf("failed to parse configuration: %w", err)
	}

	build := logger.New()
	if path := getEnv("LOG_FILE", ""); path != "" {
		build = build.FromPath(path)
	}
	log, err := build.Make()
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer log.Close()

	switch c := cmd.(type) {
	case *CheckCommand:
		return Check(ctx, config, log.Logger)
	case *RunCommand:
		app, err := New(config, log.Logger)
		if err != nil {
			return fmt.Errorf("failed to create application: %w", err)
		}
		defer app.Close()
		if err := app.Run(ctx, c); err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown command type: %T", cmd)
	}
}
