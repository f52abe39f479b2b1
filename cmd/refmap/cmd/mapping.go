package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/drew/refmap/internal/adapters/csvio"
	"github.com/drew/refmap/internal/app"
	"github.com/drew/refmap/internal/ports"
)

var (
	mapExportOut   string
	mapImportForce bool
)

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Manage committed reference-to-path mappings",
}

var mapAcceptCmd = &cobra.Command{
	Use:   "accept <ref-id> <path>",
	Short: "Commit a mapping from a reference to a corpus path",
	Long: "Records the path as claimed by the reference. Claimed paths drop out of\n" +
		"search results and automatch pools until the mapping is removed.",
	Args: cobra.ExactArgs(2),
	RunE: runMapAccept,
}

var mapListCmd = &cobra.Command{
	Use:   "list",
	Short: "List committed mappings",
	RunE:  runMapList,
}

var mapExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export mappings as CSV",
	Long:  "Writes mappings with a comment header carrying the corpus fingerprint.",
	RunE:  runMapExport,
}

var mapImportCmd = &cobra.Command{
	Use:   "import <csv>",
	Short: "Import mappings from a CSV",
	Long: "Restores mappings from an export. Refuses when the embedded corpus\n" +
		"fingerprint does not match the current corpus, unless --force is given.",
	Args: cobra.ExactArgs(1),
	RunE: runMapImport,
}

var mapRemoveCmd = &cobra.Command{
	Use:   "remove <ref-id>",
	Short: "Remove the mapping for a reference",
	Args:  cobra.ExactArgs(1),
	RunE:  runMapRemove,
}

func init() {
	mapExportCmd.Flags().StringVar(&mapExportOut, "out", "", "write to a file instead of stdout")
	mapImportCmd.Flags().BoolVar(&mapImportForce, "force", false, "import despite a fingerprint mismatch")

	mapCmd.AddCommand(mapAcceptCmd)
	mapCmd.AddCommand(mapListCmd)
	mapCmd.AddCommand(mapExportCmd)
	mapCmd.AddCommand(mapImportCmd)
	mapCmd.AddCommand(mapRemoveCmd)
}

func runMapAccept(cmd *cobra.Command, args []string) error {
	refID, path := args[0], args[1]
	cfg := loadConfig()

	paths, err := app.WalkCorpus(cfg.Corpus.Root, cfg.Corpus.Include, cfg.Corpus.Ignore)
	if err != nil {
		return fmt.Errorf("walk corpus: %w", err)
	}
	found := false
	for _, p := range paths {
		if p == path {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("path %q is not in the corpus (list candidates with: refmap search)", path)
	}

	store, err := openLocalStore(cfg.Corpus.Root)
	if err != nil {
		return err
	}
	defer store.Close()

	err = store.SaveMapping(ports.Mapping{
		ReferenceID: refID,
		Path:        path,
		Score:       1.0,
		CreatedAt:   time.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("save mapping: %w", err)
	}

	fmt.Printf("⚡ mapped %s → %s\n", refID, path)
	return nil
}

func runMapList(cmd *cobra.Command, args []string) error {
	store, err := openLocalStore(corpusRoot())
	if err != nil {
		return err
	}
	defer store.Close()

	mappings, err := store.LoadMappings()
	if err != nil {
		return fmt.Errorf("load mappings: %w", err)
	}
	fmt.Print(formatMappings(mappings))
	return nil
}

func runMapExport(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	store, err := openLocalStore(cfg.Corpus.Root)
	if err != nil {
		return err
	}
	defer store.Close()

	mappings, err := store.LoadMappings()
	if err != nil {
		return fmt.Errorf("load mappings: %w", err)
	}
	fingerprint, err := localFingerprint(cfg)
	if err != nil {
		return fmt.Errorf("fingerprint corpus: %w", err)
	}

	if mapExportOut == "" {
		return csvio.ExportMappings(os.Stdout, mappings, fingerprint, time.Now())
	}

	out, err := os.Create(mapExportOut)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	werr := csvio.ExportMappings(out, mappings, fingerprint, time.Now())
	cerr := out.Close()
	if werr != nil {
		return fmt.Errorf("write mappings: %w", werr)
	}
	if cerr != nil {
		return cerr
	}
	fmt.Printf("⚡ wrote %d mappings to %s\n", len(mappings), mapExportOut)
	return nil
}

func runMapImport(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open mappings: %w", err)
	}
	mappings, embedded, err := csvio.ImportMappings(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("import mappings: %w", err)
	}

	if embedded != "" && !mapImportForce {
		current, err := localFingerprint(cfg)
		if err != nil {
			return fmt.Errorf("fingerprint corpus: %w", err)
		}
		if embedded != current {
			return fmt.Errorf("corpus fingerprint mismatch: export %s, current %s\n"+
				"  the folder changed since this export; review the paths or pass --force",
				embedded, current)
		}
	}

	store, err := openLocalStore(cfg.Corpus.Root)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, m := range mappings {
		if err := store.SaveMapping(m); err != nil {
			return fmt.Errorf("save mapping %s: %w", m.ReferenceID, err)
		}
	}

	fmt.Printf("⚡ imported %d mappings\n", len(mappings))
	return nil
}

func runMapRemove(cmd *cobra.Command, args []string) error {
	store, err := openLocalStore(corpusRoot())
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeleteMapping(args[0]); err != nil {
		return fmt.Errorf("delete mapping: %w", err)
	}
	fmt.Printf("⚡ removed mapping for %s\n", args[0])
	return nil
}
