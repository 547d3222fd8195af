package mcp

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// WatchParent cancels the server when the parent process goes away, so a
// disconnected editor does not leave the stdio server running forever.
// It must not read from stdin: the SDK's StdioTransport owns stdin and
// stray reads would corrupt the JSON-RPC stream.
func WatchParent(ctx context.Context, cancel context.CancelFunc) {
	ppid := os.Getppid()
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if os.Getppid() != ppid {
					slog.Warn("parent process gone, shutting down", "was_pid", ppid)
					cancel()
					return
				}
			}
		}
	}()
}
