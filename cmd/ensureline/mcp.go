package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/ensureline/internal/cli"
	"github.com/aretw0/ensureline/pkg/adapters/mcp"
)

var mcpOpts struct {
	transport string
	port      int
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the ensure_line tool and the documentation resource to MCP clients.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadSettings(cmd)
		if err != nil {
			return err
		}

		ed, closer, err := cli.NewEditor(cmd.Context(), cfg, cli.EditorOptions{Logger: logger, LogEvents: true})
		if err != nil {
			return err
		}
		defer closer()

		srv := mcp.NewServer(cli.WithDefaults(ed, cfg), logger)

		switch mcpOpts.transport {
		case "stdio":
			logger.Info("starting MCP server (stdio)")
			return srv.ServeStdio()
		case "sse":
			logger.Info("starting MCP server (SSE)", "port", mcpOpts.port)
			return srv.ServeSSE(cmd.Context(), mcpOpts.port)
		default:
			return fmt.Errorf("unknown transport %q, supported: stdio, sse", mcpOpts.transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringVar(&mcpOpts.transport, "transport", "stdio", "transport protocol: stdio or sse")
	mcpCmd.Flags().IntVar(&mcpOpts.port, "port", 8080, "port to listen on (sse only)")
}
