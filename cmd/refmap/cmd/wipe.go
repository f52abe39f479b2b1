package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/drew/refmap/internal/adapters/socket"
	"github.com/drew/refmap/internal/app"
)

var wipeForce bool

var wipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete all stored references and mappings",
	Long:  "Clears the store. The corpus files and the config are untouched.",
	RunE:  runWipe,
}

func init() {
	wipeCmd.Flags().BoolVar(&wipeForce, "force", false, "Skip confirmation prompt")
}

func runWipe(cmd *cobra.Command, args []string) error {
	root := corpusRoot()

	if !wipeForce {
		fmt.Printf("⚠ This will delete all references and mappings for %s. Continue? [y/N] ", filepath.Base(root))
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Println("cancelled")
			return nil
		}
	}

	// The daemon holds the store exclusively while it runs.
	client := socket.NewClient(socket.SocketPath(root))
	if client.Ping() {
		return fmt.Errorf("daemon is running and holds the store\n" +
			"  → stop it first:  refmap daemon stop\n" +
			"  → then retry:     refmap wipe")
	}

	dbPath := app.NewPaths(root).DB
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("⚡ no data to wipe")
		return nil
	}

	store, err := openLocalStore(root)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Wipe(); err != nil {
		return fmt.Errorf("wipe store: %w", err)
	}

	fmt.Println("⚡ references and mappings wiped")
	return nil
}
