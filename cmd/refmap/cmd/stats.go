package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drew/refmap/internal/adapters/socket"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show daemon statistics",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	root := corpusRoot()
	client := socket.NewClient(socket.SocketPath(root))

	if !client.Ping() {
		return fmt.Errorf("daemon not running. Start with: refmap daemon start")
	}

	result, err := client.Stats()
	if err != nil {
		return err
	}

	fmt.Print(formatStats(result))
	return nil
}
