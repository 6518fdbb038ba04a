package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/corey/reel/internal/domain/status"
	"github.com/corey/reel/internal/ports"
)

var (
	bold   = color.New(color.Bold)
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
	cyan   = color.New(color.FgCyan)
	gray   = color.New(color.FgHiBlack)
)

func successLine(msg string) string {
	return green.Sprint("⚡ " + msg)
}

func formatScore(f float64) string {
	return status.FormatFloat(f)
}

// formatError renders a failure with its class:
//
//	✗ configuration: unknown ontology: "go" (valid: chebi, ctd_chem, medic)
func formatError(err error) string {
	return fmt.Sprintf("%s %s", red.Sprintf("✗ %s:", ports.Classify(err)), err)
}

// formatSummary renders a finished run for the terminal.
//
//	⚡ craft_chebi │ chebi │ ppr_ic/kb_link
//	  Documents:  67 │ entities 6347 │ unique 3151
//	  Baseline:   P 0.7871 │ R 0.8962 │ F1 0.8381
//	  Ranked:     P 0.8105 │ R 0.9013 │ F1 0.8535
//	  Cache:      2980 hits │ 171 misses
func formatSummary(s *status.Summary) string {
	var sb strings.Builder
	mode := s.Model
	if s.Model == string(ports.ModelPPRIC) {
		mode += "/" + s.LinkMode
	}
	fmt.Fprintf(&sb, "%s │ %s │ %s\n", bold.Sprint("⚡ "+s.RunLabel), cyan.Sprint(s.Ontology), mode)

	if b := s.Baseline; b != nil {
		fmt.Fprintf(&sb, "  %-11s %d │ entities %d │ unique %d", "Documents:", b.Documents, b.Total, b.Unique)
		if b.NILs > 0 {
			fmt.Fprintf(&sb, " │ %s", gray.Sprintf("NIL %d", b.NILs))
		}
		if b.NoSolution > 0 {
			fmt.Fprintf(&sb, " │ %s", yellow.Sprintf("no solution %d", b.NoSolution))
		}
		sb.WriteString("\n")
		if b.FirstRank > 0 || b.NoSolution > 0 {
			fmt.Fprintf(&sb, "  %-11s %s\n", "Baseline:", formatPRF(b.Precision(), b.Recall(), b.F1()))
		}
	}
	if s.EntitiesWritten > 0 {
		fmt.Fprintf(&sb, "  %-11s %d\n", "Graph:", s.EntitiesWritten)
	}
	if r := s.Ranked; r != nil {
		fmt.Fprintf(&sb, "  %-11s %s\n", "Ranked:", formatPRF(r.Precision(), r.Recall(), r.F1()))
	}
	fmt.Fprintf(&sb, "  %-11s %d hits │ %d misses\n", "Cache:", s.CacheHits, s.CacheMisses)
	return sb.String()
}

func formatRanked(r status.Ranked) string {
	return fmt.Sprintf("%s │ answers %d │ correct %d │ no solution %d\n  %s\n",
		bold.Sprint("⚡ ranked results"), r.Answers, r.Correct, r.NoSolution,
		formatPRF(r.Precision(), r.Recall(), r.F1()))
}

func formatPRF(p, r, f1 float64) string {
	return fmt.Sprintf("P %.4f │ R %.4f │ F1 %s", p, r, green.Sprintf("%.4f", f1))
}

func formatCacheStats(backend string, targets []ports.Ontology, counts map[ports.Ontology]int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s │ %s\n", bold.Sprint("⚡ match cache"), backend)
	for _, o := range targets {
		n := counts[o]
		line := fmt.Sprintf("  %-10s %d mentions", string(o)+":", n)
		if n == 0 {
			line = gray.Sprint(line)
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}
