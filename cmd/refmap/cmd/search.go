package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/drew/refmap/internal/adapters/socket"
	"github.com/drew/refmap/internal/config"
	"github.com/drew/refmap/internal/domain/index"
)

var (
	searchLimit int
	searchAll   bool
)

var searchCmd = &cobra.Command{
	Use:   "search [term...]",
	Short: "Fuzzy-search the corpus for matching paths",
	Long: "Ranks corpus paths against a free-text term. Multi-word terms need no quoting.\n" +
		"Wildcards (* and ?) switch to glob filtering with numeric-aware ordering.\n" +
		"Without a term, lists every available path.",
	Args:          cobra.ArbitraryArgs,
	RunE:          runSearch,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", index.InteractiveLimit, "maximum results (0 = no cap)")
	searchCmd.Flags().BoolVar(&searchAll, "all", false, "include paths already claimed by mappings")
}

func runSearch(cmd *cobra.Command, args []string) error {
	term := strings.TrimSpace(strings.Join(args, " "))
	cfg := loadConfig()
	root := cfg.Corpus.Root

	// Config's interactive limit applies unless -n was given.
	limit := searchLimit
	if !cmd.Flags().Changed("limit") {
		limit = cfg.Search.InteractiveLimit
	}

	client := socket.NewClient(socket.SocketPath(root))
	if client.Ping() {
		if term == "" {
			result, err := client.Paths("", searchAll)
			if err != nil {
				return err
			}
			fmt.Print(formatBrowse(result))
			return nil
		}
		result, err := client.Search(term, limit, searchAll)
		if err != nil {
			return err
		}
		fmt.Print(formatMatches(result))
		if result.Count == 0 {
			return exitError{code: 1, msg: "no match"}
		}
		return nil
	}

	// No daemon: one-shot index over the corpus.
	fmt.Fprintln(os.Stderr, "refmap: daemon not running, searching in-process")

	if term == "" {
		paths, err := localBrowse(cfg, searchAll)
		if err != nil {
			return err
		}
		fmt.Print(formatBrowse(&socket.PathsResult{Paths: paths, Count: len(paths)}))
		return nil
	}

	result, err := localSearch(cfg, term, limit, searchAll)
	if err != nil {
		return err
	}
	fmt.Print(formatMatches(result))
	if result.Count == 0 {
		return exitError{code: 1, msg: "no match"}
	}
	return nil
}

func localSearch(cfg *config.Config, term string, limit int, includeUsed bool) (*socket.SearchResult, error) {
	start := time.Now()

	ix, _, err := localIndex(cfg)
	if err != nil {
		return nil, err
	}
	var excluded map[string]bool
	if !includeUsed {
		excluded, err = localUsedPaths(cfg.Corpus.Root)
		if err != nil {
			return nil, err
		}
	}

	matches := ix.Search(term, excluded)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return &socket.SearchResult{
		Matches: matches,
		Count:   len(matches),
		Elapsed: time.Since(start).String(),
	}, nil
}

func localBrowse(cfg *config.Config, includeUsed bool) ([]string, error) {
	ix, _, err := localIndex(cfg)
	if err != nil {
		return nil, err
	}
	var excluded map[string]bool
	if !includeUsed {
		excluded, err = localUsedPaths(cfg.Corpus.Root)
		if err != nil {
			return nil, err
		}
	}

	var paths []string
	for _, m := range ix.Search("", excluded) {
		paths = append(paths, m.Path)
	}
	return paths, nil
}
