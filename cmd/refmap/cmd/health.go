package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drew/refmap/internal/adapters/socket"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check daemon health",
	RunE:  runHealth,
}

func runHealth(cmd *cobra.Command, args []string) error {
	root := corpusRoot()
	client := socket.NewClient(socket.SocketPath(root))

	if !client.Ping() {
		fmt.Println("⚡ refmap daemon is not running")
		return nil
	}

	health, err := client.Health()
	if err != nil {
		return err
	}

	fmt.Print(formatHealth(health))
	return nil
}
