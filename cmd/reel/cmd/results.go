package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/reel/internal/app"
)

var resultsOpts app.RunOptions

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Re-process the ranker output of a finished ppr_ic run",
	Long: "Reads results/<label>/ppr_ic/<mode>/all_all again. Dataset runs rewrite their\n" +
		"statistics file; free-text runs rewrite <label>_results.json.",
	Args: cobra.NoArgs,
	RunE: runResults,
}

func init() {
	addRunFlags(resultsCmd, &resultsOpts, "ppr_ic")
}

func runResults(cmd *cobra.Command, args []string) error {
	a, done, err := openApp()
	if err != nil {
		return err
	}
	defer done()

	ctx, cancel := signalContext()
	defer cancel()

	ranked, err := a.Results(ctx, resultsOpts)
	if err != nil {
		return err
	}
	if ranked == nil {
		fmt.Fprintln(cmd.OutOrStdout(), successLine("answers written"))
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), formatRanked(*ranked))
	return nil
}
