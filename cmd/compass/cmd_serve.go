package main

import (
	"context"

	"github.com/spf13/cobra"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"compass/internal/graphstore"
	"compass/internal/logging"
	mcpserver "compass/internal/mcp"
)

var serveFlags struct {
	graphDir string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server over stdio",
	Long: "Starts an MCP server over stdin/stdout exposing the compile, generate and\n" +
		"inspection tools to agent tooling. The server watches its parent process and\n" +
		"self-terminates when the parent goes away.",
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.graphDir, "graphs", "", "Graph store directory (default from project config)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	graphDir := serveFlags.graphDir
	if graphDir == "" {
		graphDir = cfg.GraphDir
	}
	store, err := graphstore.NewFileStore(graphDir)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	mcpserver.WatchParent(ctx, cancel)

	srv := mcpserver.NewServer(store)
	logging.New("mcp").Info("starting compass MCP server over stdio", "graphs", graphDir)
	return srv.Run(ctx, &sdkmcp.StdioTransport{})
}
