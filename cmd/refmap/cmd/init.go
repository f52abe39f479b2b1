package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/drew/refmap/internal/app"
)

// configTemplate is the starter config written by init. Everything is
// commented out; the defaults apply until a key is uncommented.
const configTemplate = `# refmap configuration (all keys optional)
#
# corpus:
#   root: ~/documents/case-1234     # defaults to this folder
#   include: ["*.pdf", "*.docx"]    # base-name globs; empty means all files
#   ignore: ["drafts"]              # extra names to skip
#
# search:
#   limit: 50              # ranked result cap
#   interactive_limit: 20  # default -n for the search command
#   cache_size: 2048       # similarity memo entries
#
# watch:
#   debounce_ms: 250       # rebuild coalescing window
#
# logging:
#   level: info            # debug, info, warn, error
#   file: ""               # defaults to .refmap/log/daemon.log
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Prepare this folder for refmap",
	Long:  "Creates the .refmap state directory, writes a starter config, and reports the corpus size.",
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	root := cfg.Corpus.Root

	p := app.NewPaths(root)
	if err := p.EnsureDirs(); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	if _, err := os.Stat(p.ConfigFile); os.IsNotExist(err) {
		if err := os.WriteFile(p.ConfigFile, []byte(configTemplate), 0644); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		fmt.Printf("⚡ wrote starter config to %s\n", p.ConfigFile)
	}

	paths, err := app.WalkCorpus(root, cfg.Corpus.Include, cfg.Corpus.Ignore)
	if err != nil {
		return fmt.Errorf("walk corpus: %w", err)
	}

	fmt.Printf("⚡ corpus ready: %d paths under %s (fingerprint %s)\n",
		len(paths), root, app.Fingerprint(paths))
	fmt.Println("  next: refmap daemon start, or refmap search <term>")
	return nil
}
