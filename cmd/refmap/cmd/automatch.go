package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/drew/refmap/internal/adapters/ahocorasick"
	"github.com/drew/refmap/internal/adapters/csvio"
	"github.com/drew/refmap/internal/adapters/socket"
	"github.com/drew/refmap/internal/app"
	"github.com/drew/refmap/internal/config"
	"github.com/drew/refmap/internal/domain/automatch"
	"github.com/drew/refmap/internal/domain/index"
	"github.com/drew/refmap/internal/ports"
)

var (
	automatchRefsPath string
	automatchOutPath  string
	automatchMinScore float64
)

var automatchCmd = &cobra.Command{
	Use:   "automatch --refs <csv>",
	Short: "Suggest a corpus path for every reference in a CSV",
	Long: "Matches each reference description against the available corpus paths and\n" +
		"suggests the best fit. Paths already claimed by committed mappings are\n" +
		"excluded, and no path is suggested twice within one run.",
	RunE: runAutomatch,
}

func init() {
	automatchCmd.Flags().StringVar(&automatchRefsPath, "refs", "", "reference CSV to match (required)")
	automatchCmd.Flags().StringVar(&automatchOutPath, "out", "", "write a suggestions CSV instead of a table")
	automatchCmd.Flags().Float64Var(&automatchMinScore, "min-score", 0, "treat suggestions below this score as unmatched")
	automatchCmd.MarkFlagRequired("refs")
}

func runAutomatch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	root := cfg.Corpus.Root

	f, err := os.Open(automatchRefsPath)
	if err != nil {
		return fmt.Errorf("open references: %w", err)
	}
	refs, err := csvio.ImportReferences(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("import references: %w", err)
	}

	var (
		result      *socket.AutoMatchResult
		fingerprint string
	)
	client := socket.NewClient(socket.SocketPath(root))
	if client.Ping() {
		result, err = client.AutoMatch(refs)
		if err != nil {
			return err
		}
		if st, serr := client.Stats(); serr == nil {
			fingerprint = st.Fingerprint
		}
	} else {
		fmt.Fprintln(os.Stderr, "refmap: daemon not running, matching in-process")
		result, fingerprint, err = localAutoMatch(cfg, refs)
		if err != nil {
			return err
		}
	}

	if automatchMinScore > 0 {
		applyMinScore(result, automatchMinScore)
	}

	if automatchOutPath != "" {
		out, err := os.Create(automatchOutPath)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		werr := csvio.ExportSuggestions(out, result.Suggestions, fingerprint, time.Now())
		cerr := out.Close()
		if werr != nil {
			return fmt.Errorf("write suggestions: %w", werr)
		}
		if cerr != nil {
			return cerr
		}
		fmt.Print(formatAutoMatchSummary(result, result.Elapsed))
		fmt.Printf("⚡ wrote %s\n", automatchOutPath)
		return nil
	}

	fmt.Print(formatSuggestions(result, result.Elapsed))
	return nil
}

func localAutoMatch(cfg *config.Config, refs []ports.Reference) (*socket.AutoMatchResult, string, error) {
	start := time.Now()

	paths, err := app.WalkCorpus(cfg.Corpus.Root, cfg.Corpus.Include, cfg.Corpus.Ignore)
	if err != nil {
		return nil, "", err
	}
	used, err := localUsedPaths(cfg.Corpus.Root)
	if err != nil {
		return nil, "", err
	}

	res := automatch.Run(refs, paths, used, automatch.Options{
		Index: index.Options{CacheSize: cfg.Search.CacheSize, Matcher: ahocorasick.NewMatcher},
		Progress: func(done, total int) {
			fmt.Fprintf(os.Stderr, "  matched %d/%d\n", done, total)
		},
	})

	return &socket.AutoMatchResult{
		Suggestions: res.Suggestions,
		High:        res.High,
		Medium:      res.Medium,
		Low:         res.Low,
		Elapsed:     time.Since(start).String(),
	}, app.Fingerprint(paths), nil
}

// applyMinScore blanks suggestions under min and recounts the bands.
// The references stay in the output so the operator sees what fell out.
func applyMinScore(result *socket.AutoMatchResult, min float64) {
	result.High, result.Medium, result.Low = 0, 0, 0
	for i := range result.Suggestions {
		s := &result.Suggestions[i]
		if s.SuggestedPath == "" {
			continue
		}
		if s.Score < min {
			s.SuggestedPath = ""
			s.Score = 0
			continue
		}
		switch ports.Confidence(s.Score) {
		case "high":
			result.High++
		case "medium":
			result.Medium++
		default:
			result.Low++
		}
	}
}
