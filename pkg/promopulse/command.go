package promopulse

// Command is a parsed CLI subcommand. Each implementation carries its
// command-specific options; shared configuration lives in [Config].
type Command interface {
	// Name returns the subcommand identifier used for routing.
	Name() string
}

// RunCommand starts the HTTP server.
type RunCommand struct{}

func (c *RunCommand) Name() string { return "run" }

// CheckCommand probes the SurrealDB backend and reports how a failure
// would be classified, without starting the server. Operators use it to
// tell apart an unreachable host from bad credentials or a missing
// namespace before blaming the failover layer.
type CheckCommand struct{}

func (c *CheckCommand) Name() string { return "check" }
