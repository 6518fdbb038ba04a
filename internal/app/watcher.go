package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	fsw "github.com/corey/reel/internal/adapters/fsnotify"
	"github.com/corey/reel/internal/domain/status"
	"github.com/corey/reel/internal/logging"
	"github.com/corey/reel/internal/ports"
)

// RunDone is called after each watched input file has been processed.
type RunDone func(inputFile string, summary *status.Summary, err error)

// RunLabelFor derives the run label of an input file from its name:
// inbox/batch_7.json.gz → batch_7.
func RunLabelFor(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), ".gz")
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Watch runs every free-text input file dropped into inbox through the
// pipeline, using base for everything but the input file and run label,
// until ctx is cancelled. Runs are serialized; a failed run is reported to
// onDone and the watcher carries on.
func (a *App) Watch(ctx context.Context, inbox string, base RunOptions, onDone RunDone) error {
	base.Dataset = ""
	// Options are checked once up front with a placeholder input file.
	probe := base
	probe.InputFile = filepath.Join(inbox, "input.json")
	if _, err := a.plan(probe); err != nil {
		return err
	}

	fw, err := fsw.NewWatcher(0)
	if err != nil {
		return fmt.Errorf("inbox watcher: %w", err)
	}
	var w ports.Watcher = fw
	defer w.Stop()

	files := make(chan string, 64)
	err = w.Watch(inbox, func(path string) {
		select {
		case files <- path:
		case <-ctx.Done():
		}
	})
	if err != nil {
		return err
	}
	a.Log.Info("watching inbox", logging.String("dir", inbox))

	for {
		select {
		case <-ctx.Done():
			return nil
		case path := <-files:
			opts := base
			opts.InputFile = path
			opts.RunLabel = RunLabelFor(path)
			summary, err := a.Run(ctx, opts)
			if err != nil {
				a.Log.Error("inbox run failed", logging.String("file", path), logging.Err(err))
			}
			if onDone != nil {
				onDone(path, summary, err)
			}
		}
	}
}
