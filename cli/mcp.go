package cli

import (
	"github.com/spf13/cobra"

	"github.com/yoanbernabeu/keycount/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the record operations as MCP tools over stdio",
	Long: `Start a Model Context Protocol server on stdin/stdout exposing
save_keywords, get_keywords, update_keywords and delete_keywords.

Logs go to stderr so the protocol stream stays clean.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer sess.Close()
		return mcpserver.New(sess.records, Version).Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
