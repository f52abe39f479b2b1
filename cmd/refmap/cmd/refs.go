package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/drew/refmap/internal/adapters/csvio"
)

var refsCmd = &cobra.Command{
	Use:   "refs",
	Short: "Manage the stored reference list",
}

var refsImportCmd = &cobra.Command{
	Use:   "import <csv>",
	Short: "Import references from a CSV into the store",
	Long: "Reads a CSV with a description column (id, date, and external_ref are\n" +
		"optional) and stores the references. Rows without an id get one synthesized.",
	Args: cobra.ExactArgs(1),
	RunE: runRefsImport,
}

var refsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored references",
	RunE:  runRefsList,
}

func init() {
	refsCmd.AddCommand(refsImportCmd)
	refsCmd.AddCommand(refsListCmd)
}

func runRefsImport(cmd *cobra.Command, args []string) error {
	root := corpusRoot()

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open references: %w", err)
	}
	refs, err := csvio.ImportReferences(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("import references: %w", err)
	}

	store, err := openLocalStore(root)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SaveReferences(refs); err != nil {
		return fmt.Errorf("save references: %w", err)
	}

	generated := 0
	for _, r := range refs {
		if r.Generated {
			generated++
		}
	}
	if generated > 0 {
		fmt.Printf("⚡ imported %d references (%d with generated ids)\n", len(refs), generated)
	} else {
		fmt.Printf("⚡ imported %d references\n", len(refs))
	}
	return nil
}

func runRefsList(cmd *cobra.Command, args []string) error {
	root := corpusRoot()

	store, err := openLocalStore(root)
	if err != nil {
		return err
	}
	defer store.Close()

	refs, err := store.LoadReferences()
	if err != nil {
		return fmt.Errorf("load references: %w", err)
	}
	fmt.Print(formatReferences(refs))
	return nil
}
