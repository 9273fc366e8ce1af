package cli

import "github.com/google/subcommands"

// Register adds the fintrack subcommands to c.
func Register(c *subcommands.Commander) {
	c.Register(&serveCmd{}, "")
	c.Register(&reportCmd{}, "")
}
