package cmd

import "github.com/corey/reel/internal/ports"

// Process exit codes.
const (
	ExitFailure = 1
	ExitConfig  = 2
)

// ExitCode maps a command error to the process exit code.
func ExitCode(err error) int {
	if ports.Classify(err) == ports.ClassConfiguration {
		return ExitConfig
	}
	return ExitFailure
}
