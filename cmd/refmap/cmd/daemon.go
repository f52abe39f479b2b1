package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/drew/refmap/internal/adapters/socket"
	"github.com/drew/refmap/internal/app"
	"github.com/drew/refmap/internal/logging"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Manage the refmap daemon",
}

var daemonStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the daemon in the foreground",
	Long: "Builds the corpus index, watches the folder for changes, and serves\n" +
		"search and automatch requests over a Unix socket.",
	RunE: runDaemonStart,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the daemon",
	RunE:  runDaemonStop,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	RunE:  runDaemonStatus,
}

func init() {
	daemonCmd.AddCommand(daemonStartCmd)
	daemonCmd.AddCommand(daemonStopCmd)
	daemonCmd.AddCommand(daemonStatusCmd)
}

func runDaemonStart(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	root := cfg.Corpus.Root
	sockPath := socket.SocketPath(root)

	client := socket.NewClient(sockPath)
	if client.Ping() {
		fmt.Println("⚡ daemon already running")
		return nil
	}

	logger := logging.New(logging.Options{
		File:    cfg.Logging.File,
		Level:   cfg.Logging.Level,
		Console: true,
	})
	defer logger.Sync()

	a, err := app.New(app.Config{
		CorpusRoot:  root,
		Include:     cfg.Corpus.Include,
		Ignore:      cfg.Corpus.Ignore,
		SearchLimit: cfg.Search.Limit,
		CacheSize:   cfg.Search.CacheSize,
		DebounceMs:  cfg.Watch.DebounceMs,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}

	if err := a.Start(); err != nil {
		a.Stop()
		return err
	}

	fmt.Printf("⚡ refmap daemon started at %s\n", sockPath)

	// Foreground until a signal or a remote stop arrives.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		fmt.Println("\n⚡ shutting down...")
	case <-a.Server.ShutdownCh():
		fmt.Println("⚡ stop requested, shutting down...")
	}
	return a.Stop()
}

func runDaemonStop(cmd *cobra.Command, args []string) error {
	root := corpusRoot()
	client := socket.NewClient(socket.SocketPath(root))

	if !client.Ping() {
		fmt.Println("⚡ daemon is not running")
		return nil
	}

	if err := client.Shutdown(); err != nil {
		return err
	}

	// Give the process a moment to release the socket and the store.
	for i := 0; i < 20; i++ {
		if !client.Ping() {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	fmt.Println("⚡ daemon stopped")
	return nil
}

func runDaemonStatus(cmd *cobra.Command, args []string) error {
	root := corpusRoot()
	client := socket.NewClient(socket.SocketPath(root))

	if client.Ping() {
		h, err := client.Health()
		if err != nil {
			return err
		}
		fmt.Print(formatHealth(h))
		return nil
	}

	p := app.NewPaths(root)
	if data, err := os.ReadFile(p.PIDFile); err == nil {
		fmt.Printf("⚡ daemon not responding (stale pid file, pid %s)\n", strings.TrimSpace(string(data)))
		fmt.Println("  → a previous daemon may have crashed; check: ps aux | grep 'refmap daemon'")
		return nil
	}

	fmt.Println("⚡ daemon is not running")
	return nil
}
