package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/drew/refmap/internal/adapters/socket"
)

// isDBLockError returns true if the error chain contains a bbolt lock
// timeout. bbolt reports "timeout" when it cannot acquire the file lock
// within the configured deadline.
func isDBLockError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "timeout")
}

// diagnoseDBLock checks the daemon state and returns actionable guidance
// when a bbolt open fails due to lock contention. It distinguishes three
// scenarios: daemon running, stale socket, and unknown lock holder.
func diagnoseDBLock(root string) string {
	sockPath := socket.SocketPath(root)
	client := socket.NewClient(sockPath)

	if client.Ping() {
		return "database is locked by the running daemon\n" +
			"  → stop it first:  refmap daemon stop\n" +
			"  → then retry your command"
	}

	if _, err := os.Stat(sockPath); err == nil {
		return fmt.Sprintf("database is locked; daemon socket exists but is not responding\n"+
			"  → a previous daemon may have crashed\n"+
			"  → find the process:  ps aux | grep 'refmap daemon'\n"+
			"  → kill it:           kill <PID>\n"+
			"  → clean up socket:   rm %s", sockPath)
	}

	return "database is locked by another process\n" +
		"  → find the process:  ps aux | grep 'refmap'\n" +
		"  → kill it:           kill <PID>\n" +
		"  → then retry your command"
}

// openStoreError wraps a store-open failure with lock diagnosis when
// that is what actually happened.
func openStoreError(root string, err error) error {
	if isDBLockError(err) {
		return fmt.Errorf("%s", diagnoseDBLock(root))
	}
	return fmt.Errorf("open store: %w", err)
}
