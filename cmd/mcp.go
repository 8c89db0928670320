package cmd

import (
	"github.com/huangsam/incentive/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the incentive MCP server",
	Long:  `Launch an MCP server on stdio that lets AI agents query reports, leaderboards, comparisons and bank statements.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Headers are suppressed per request by the handlers
		// to avoid polluting stdio which is used for the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		mcp.Version = version
		return mcp.StartMCPServer(rootCtx, cfg, deps)
	},
}
