package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drew/refmap/internal/adapters/socket"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the daemon's corpus index",
	Long:  "Forces a fresh corpus walk and index swap; useful after bulk file moves.",
	RunE:  runReindex,
}

func runReindex(cmd *cobra.Command, args []string) error {
	root := corpusRoot()
	client := socket.NewClient(socket.SocketPath(root))

	if !client.Ping() {
		return fmt.Errorf("daemon not running. Start with: refmap daemon start")
	}

	result, err := client.Reindex()
	if err != nil {
		return err
	}

	fmt.Printf("⚡ indexed %d paths, %d tokens (%dms), fingerprint %s\n",
		result.PathCount, result.TokenCount, result.ElapsedMs, result.Fingerprint)
	return nil
}
