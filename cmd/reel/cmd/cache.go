package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corey/reel/internal/ports"
)

var (
	cacheTargetKB string
	cacheForce    bool
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the persisted match cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cached mention counts per ontology",
	Args:  cobra.NoArgs,
	RunE:  runCacheStats,
}

var cacheWipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete the cached matches of one ontology",
	Long:  "Cached matches are rebuilt on the next run. Only the selected ontology is touched.",
	Args:  cobra.NoArgs,
	RunE:  runCacheWipe,
}

func init() {
	cacheCmd.PersistentFlags().StringVar(&cacheTargetKB, "target-kb", "", "Ontology: chebi, ctd_chem or medic (stats: all when empty)")
	cacheWipeCmd.Flags().BoolVar(&cacheForce, "force", false, "Skip confirmation prompt")
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheWipeCmd)
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	targets := ports.Ontologies
	if cacheTargetKB != "" {
		o, err := ports.ParseOntology(cacheTargetKB)
		if err != nil {
			return err
		}
		targets = []ports.Ontology{o}
	}

	a, done, err := openApp()
	if err != nil {
		return err
	}
	defer done()

	counts := make(map[ports.Ontology]int, len(targets))
	for _, o := range targets {
		n, err := a.CacheCount(o)
		if err != nil {
			return fmt.Errorf("count %s cache: %w", o, err)
		}
		counts[o] = n
	}
	fmt.Fprint(cmd.OutOrStdout(), formatCacheStats(a.Config.Cache.Backend, targets, counts))
	return nil
}

func runCacheWipe(cmd *cobra.Command, args []string) error {
	o, err := ports.ParseOntology(cacheTargetKB)
	if err != nil {
		return err
	}

	if !cacheForce {
		fmt.Fprintf(cmd.OutOrStdout(), "⚠ This will delete the %s match cache. Continue? [y/N] ", o)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
			return nil
		}
	}

	a, done, err := openApp()
	if err != nil {
		return err
	}
	defer done()

	if err := a.WipeCache(o); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), successLine(fmt.Sprintf("%s match cache wiped", o)))
	return nil
}
