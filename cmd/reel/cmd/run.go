package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/reel/internal/app"
)

var runOpts app.RunOptions

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Normalize the mentions of a dataset or an input file",
	Long: "Builds candidate lists for every mention. The baseline model answers with the best\n" +
		"lexical candidate; ppr_ic writes disambiguation graphs and runs the external ranker.\n" +
		"Dataset runs are evaluated against their gold annotations.",
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	addRunFlags(runCmd, &runOpts, "")
	runCmd.MarkFlagRequired("model")
}

// addRunFlags registers the run selection flags shared by run and results.
func addRunFlags(c *cobra.Command, o *app.RunOptions, model string) {
	f := c.Flags()
	f.StringVar(&o.RunLabel, "run-label", app.DefaultRunLabel, "Label of the run (dataset runs use the dataset name)")
	f.StringVar(&o.Model, "model", model, "Disambiguation model: baseline or ppr_ic")
	f.StringVar(&o.LinkMode, "link-mode", "none", "Graph links: none, kb_link, corpus_link, kb_corpus_link")
	f.StringVar(&o.Dataset, "dataset", "", "Evaluation dataset (craft_chebi, bc5cdr_medic_<subset>, bc5cdr_chemicals_<subset>)")
	f.StringVar(&o.InputFile, "input-file", "", "Free-text JSON input: {doc_id: [mention, ...]}")
	f.StringVar(&o.TargetKB, "target-kb", "", "Target ontology: chebi, ctd_chem or medic")
	f.StringVar(&o.OutDir, "out-dir", "", "Directory for <label>_results.json (default the output dir)")
	f.StringVar(&o.Relations, "relations", app.RelationsFile, "Relation source for corpus links: file or cdr")
}

func runRun(cmd *cobra.Command, args []string) error {
	a, done, err := openApp()
	if err != nil {
		return err
	}
	defer done()

	ctx, cancel := signalContext()
	defer cancel()

	summary, err := a.Run(ctx, runOpts)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatSummary(summary))
	return nil
}
