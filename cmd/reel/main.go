// reel normalizes biomedical entity mentions to ontology concepts.
// Candidate generation, disambiguation graphs and an external PPR ranker.
package main

import (
	"os"

	"github.com/corey/reel/cmd/reel/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
