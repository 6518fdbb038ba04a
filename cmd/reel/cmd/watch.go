package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/reel/internal/app"
	"github.com/corey/reel/internal/domain/status"
)

var watchOpts app.RunOptions

var watchCmd = &cobra.Command{
	Use:   "watch <inbox>",
	Short: "Run every free-text input dropped into a directory",
	Long: "Watches <inbox> for new *.json or *.json.gz input files and runs each one through\n" +
		"the pipeline, labelled with its file name. Stops on SIGINT or SIGTERM.",
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	f := watchCmd.Flags()
	f.StringVar(&watchOpts.Model, "model", "baseline", "Disambiguation model: baseline or ppr_ic")
	f.StringVar(&watchOpts.LinkMode, "link-mode", "none", "Graph links: none, kb_link, corpus_link, kb_corpus_link")
	f.StringVar(&watchOpts.TargetKB, "target-kb", "", "Target ontology: chebi, ctd_chem or medic")
	f.StringVar(&watchOpts.OutDir, "out-dir", "", "Directory for <label>_results.json (default the output dir)")
	f.StringVar(&watchOpts.Relations, "relations", app.RelationsFile, "Relation source for corpus links")
	watchCmd.MarkFlagRequired("target-kb")
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, done, err := openApp()
	if err != nil {
		return err
	}
	defer done()

	ctx, cancel := signalContext()
	defer cancel()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "⚡ watching %s (ctrl-c to stop)\n", args[0])
	return a.Watch(ctx, args[0], watchOpts, func(file string, s *status.Summary, err error) {
		if err != nil {
			fmt.Fprintln(out, formatError(fmt.Errorf("%s: %w", file, err)))
			return
		}
		fmt.Fprint(out, formatSummary(s))
	})
}
