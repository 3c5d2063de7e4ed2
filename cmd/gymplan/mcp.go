package main

import (
	"time"

	"github.com/claude/gymgpt/internal/mcp"
	"github.com/claude/gymgpt/internal/plans"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

var (
	mcpServerURL string
	mcpAPIKey    string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the planner as an MCP server over stdio",
	Long: `Serve the planner as an MCP server over stdio.

Set logs and plan history come from the local database, or from a gymgpt
server when --server is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		p, err := newPlanner()
		if err != nil {
			return err
		}

		var ds mcp.DataSource
		if mcpServerURL != "" {
			ds = mcp.NewHTTPClient(mcpServerURL, mcpAPIKey)
		} else {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			ds = store
		}

		svc := plans.NewService(p, ds, log, plans.WithWindow(time.Duration(historyDays)*24*time.Hour))
		return server.ServeStdio(mcp.New(svc, ds, Version, log))
	},
}

func init() {
	mcpCmd.Flags().StringVar(&mcpServerURL, "server", "", "read set logs from this gymgpt server")
	mcpCmd.Flags().StringVar(&mcpAPIKey, "api-key", "", "server API key")
	rootCmd.AddCommand(mcpCmd)
}
