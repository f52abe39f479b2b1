package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drew/refmap/internal/adapters/socket"
	"github.com/drew/refmap/internal/app"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show effective configuration",
	Long:  "Shows the corpus root, store and socket paths, limits, and daemon status. No daemon required.",
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	root := cfg.Corpus.Root
	sockPath := socket.SocketPath(root)
	p := app.NewPaths(root)

	client := socket.NewClient(sockPath)
	daemonStatus := paint(colorYellow, "✗ not running")
	if client.Ping() {
		daemonStatus = paint(colorGreen, "✓ running")
	}

	fmt.Println(paint(colorBold, "⚡ refmap config"))
	fmt.Printf("  Root:         %s\n", root)
	fmt.Printf("  Config:       %s\n", p.ConfigFile)
	fmt.Printf("  DB:           %s\n", p.DB)
	fmt.Printf("  Socket:       %s\n", sockPath)
	fmt.Printf("  Log:          %s\n", cfg.Logging.File)
	fmt.Printf("  Log level:    %s\n", cfg.Logging.Level)
	fmt.Printf("  Limit:        %d\n", cfg.Search.Limit)
	fmt.Printf("  Interactive:  %d\n", cfg.Search.InteractiveLimit)
	fmt.Printf("  Cache size:   %d\n", cfg.Search.CacheSize)
	fmt.Printf("  Debounce:     %dms\n", cfg.Watch.DebounceMs)
	if len(cfg.Corpus.Include) > 0 {
		fmt.Printf("  Include:      %v\n", cfg.Corpus.Include)
	}
	if len(cfg.Corpus.Ignore) > 0 {
		fmt.Printf("  Ignore:       %v\n", cfg.Corpus.Ignore)
	}
	fmt.Printf("  Daemon:       %s\n", daemonStatus)
	return nil
}
