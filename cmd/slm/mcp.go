// ABOUTME: MCP serve command
// ABOUTME: Starts the MCP server so AI agents can score tracks and read history

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harper/slm/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpNoHistory bool

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for AI agents",
	Long: `Start a Model Context Protocol server on stdio.

Tools score tracks and files, measure geodesic distances and, unless
--no-history is set, save and read attempts in the history database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var server *mcp.Server
		var err error
		if mcpNoHistory {
			server, err = mcp.NewServer(engine, nil)
		} else {
			repo, openErr := openDB()
			if openErr != nil {
				return openErr
			}
			server, err = mcp.NewServer(engine, repo)
		}
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(commandContext(cmd))
		defer cancel()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		go func() {
			select {
			case <-sigCh:
				cancel()
			case <-ctx.Done():
			}
		}()

		return server.Serve(ctx)
	},
}

func init() {
	mcpCmd.Flags().BoolVar(&mcpNoHistory, "no-history", false, "serve without the attempt history tools")

	rootCmd.AddCommand(mcpCmd)
}
