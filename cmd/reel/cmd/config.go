package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corey/reel/internal/adapters/corpus"
	"github.com/corey/reel/internal/config"
	"github.com/corey/reel/internal/ports"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show resolved configuration",
	Long:  "Prints the configuration after file, environment and defaults are merged. Nothing is opened.",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatConfig(cfg))
	return nil
}

func formatConfig(cfg *config.Config) string {
	var sb strings.Builder
	sb.WriteString(bold.Sprint("⚡ reel config") + "\n")

	sources := cfg.OntologySources()
	for _, o := range ports.Ontologies {
		fmt.Fprintf(&sb, "  %-14s %s\n", string(o)+":", sources[o])
	}
	fmt.Fprintf(&sb, "  %-14s %s\n", "Corpora:", cfg.CorpusDir())
	fmt.Fprintf(&sb, "  %-14s %s\n", "Relations:", cfg.RelationsDir())
	fmt.Fprintf(&sb, "  %-14s %s\n", "CDR format:", cfg.Data.CDRFormat)

	cache := cfg.Cache.Path
	if cfg.Cache.Backend == config.BackendRedis {
		cache = cfg.Cache.Addr + " (prefix " + cfg.Cache.Prefix + ")"
	}
	fmt.Fprintf(&sb, "  %-14s %s %s\n", "Cache:", cfg.Cache.Backend, cache)
	fmt.Fprintf(&sb, "  %-14s %s\n", "Output:", cfg.Pipeline.OutputDir)
	fmt.Fprintf(&sb, "  %-14s %s\n", "Min score:", formatScore(cfg.Pipeline.MinMatchScore))
	fmt.Fprintf(&sb, "  %-14s %d\n", "Workers:", cfg.Pipeline.Workers)
	fmt.Fprintf(&sb, "  %-14s %s\n", "Ranker:", strings.Join(append([]string{cfg.Ranker.Command}, cfg.Ranker.Args...), " "))
	fmt.Fprintf(&sb, "  %-14s %s/%s\n", "Log:", cfg.Log.Level, cfg.Log.Format)
	if cfg.Metrics.Textfile != "" {
		fmt.Fprintf(&sb, "  %-14s %s\n", "Metrics:", cfg.Metrics.Textfile)
	}
	fmt.Fprintf(&sb, "  %-14s %s\n", "Datasets:", gray.Sprint(strings.Join(corpus.Datasets(), " ")))
	return sb.String()
}
