// Package ranker invokes the external Personalized PageRank disambiguation
// engine as a child process.
package ranker

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/corey/reel/internal/logging"
	"github.com/corey/reel/internal/ports"
)

// Default command line of the ranker: java ppr_for_ned_all <label> <model> <mode>.
const DefaultCommand = "java"

// DefaultArgs precede the positional run arguments.
var DefaultArgs = []string{"ppr_for_ned_all"}

// Process implements ports.Ranker. The engine runs in Dir, where it expects
// the candidates/ and results/ trees and the <label>_ic file.
type Process struct {
	Command string
	Args    []string
	Dir     string
	log     logging.Logger
}

// New returns a ranker process. An empty command selects DefaultCommand and
// DefaultArgs.
func New(command string, args []string, dir string, log logging.Logger) *Process {
	if command == "" {
		command, args = DefaultCommand, DefaultArgs
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Process{Command: command, Args: args, Dir: dir, log: log}
}

// Available reports whether the command resolves on PATH.
func (p *Process) Available() bool {
	_, err := exec.LookPath(p.Command)
	return err == nil
}

// Rank implements ports.Ranker. Output of a failed run is included in the error.
func (p *Process) Rank(ctx context.Context, runLabel string, model ports.Model, linkMode ports.LinkMode) error {
	path, err := exec.LookPath(p.Command)
	if err != nil {
		return fmt.Errorf("%w: ranker %q: %v", ports.ErrMissingResource, p.Command, err)
	}
	args := append(append([]string(nil), p.Args...), runLabel, string(model), string(linkMode))

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = p.Dir

	start := time.Now()
	p.log.Info("ranker started",
		logging.String("command", p.Command),
		logging.String("args", strings.Join(args, " ")))
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("ranker: %w", ctxErr)
		}
		return fmt.Errorf("ranker %s: %w\n%s", p.Command, err, output)
	}
	p.log.Info("ranker finished", logging.Duration("elapsed", time.Since(start)))
	if out := strings.TrimSpace(string(output)); out != "" {
		p.log.Debug("ranker output", logging.String("output", out))
	}
	return nil
}
