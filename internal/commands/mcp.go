package commands

import (
	"github.com/spf13/cobra"

	"github.com/balkashynov/remindr/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve reminders as MCP tools over stdio",
	Long: `Start an MCP server on stdin/stdout exposing the tools list_lists,
list_reminders, search_reminders, add_reminder, complete_reminder and
delete_reminder. Set REMINDR_DB_PATH to point it at another database.`,
	Args: cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, rt *runtime) error {
		rt.log.Infow("mcp server starting", "db", rt.cfg.DBPath)
		return mcpserver.NewServer(rt.app, version).ServeStdio()
	}),
}
