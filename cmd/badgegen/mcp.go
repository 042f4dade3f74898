package main

import (
	"github.com/spf13/cobra"

	"github.com/DeutscheModelUnitedNations/badgeGenerator/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve badge generation over MCP on stdin/stdout",
	Long: `Runs a Model Context Protocol server. Add it to an MCP client as:

  {"mcpServers": {"badgegen": {"command": "badgegen", "args": ["mcp"]}}}`,
	RunE: func(cmd *cobra.Command, args []string) error {
		gen, closer, err := newGenerator()
		if err != nil {
			return err
		}
		defer closer()

		server := mcp.NewServer()
		mcp.NewService(gen).Register(server)
		return server.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
