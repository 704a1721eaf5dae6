package promopulse

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Parse parses command line arguments into the command to execute and
// the shared application configuration. Flags take precedence over
// environment variables, which take precedence over defaults. A .env
// file in the working directory is loaded first when present.
func Parse(args []string) (Command, *Config, error) {
	// Missing .env is the normal case outside development.
	_ = godotenv.Load()

	flagSet := flag.NewFlagSet("promopulse", flag.ContinueOnError)

	var (
		port      = flagSet.String("port", getEnv("PORT", "8080"), "Server port")
		dataDir   = flagSet.String("data-dir", getEnv("DATA_DIR", "data"), "Directory for the local fallback store")
		localOnly = flagSet.Bool("local-only", false, "Skip SurrealDB and serve from the local store")
	)

	if err := flagSet.Parse(args); err != nil {
		return nil, nil, err
	}

	remainingArgs := flagSet.Args()
	if len(remainingArgs) == 0 {
		return nil, nil, fmt.Errorf(`subcommand required

Usage: promopulse [flags] <command>

Commands:
  run      Start the KPI tracker server
  check    Probe the SurrealDB backend and report the failure class

Examples:
  promopulse run                      # SurrealDB primary, local fallback
  promopulse -local-only run          # Local store only
  promopulse -port=8090 run
  promopulse check`)
	}

	var cmd Command
	switch remainingArgs[0] {
	case "run":
		cmd = &RunCommand{}
	case "check":
		cmd = &CheckCommand{}
	default:
		return nil, nil, fmt.Errorf("unknown command: %s\n\nValid commands: run, check", remainingArgs[0])
	}

	config := &Config{
		SurrealDBURL:  getEnv("SURREALDB_URL", "ws://localhost:8000/rpc"),
		SurrealDBNS:   getEnv("SURREALDB_NS", "promopulse"),
		SurrealDBDB:   getEnv("SURREALDB_DB", "promopulse"),
		SurrealDBUser: getEnv("SURREALDB_USER", "root"),
		SurrealDBPass: getEnv("SURREALDB_PASS", "root"),
		DataDir:       *dataDir,
		ServerPort:    *port,
		LocalOnly:     *localOnly,
	}

	return cmd, config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
