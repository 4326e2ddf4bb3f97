package cmd

import "github.com/spf13/cobra"

func RegisterCommands(root *cobra.Command) {
	root.AddCommand(versionCmd)

	root.AddCommand(annotateCmd)
	root.AddCommand(listCmd)
	root.AddCommand(copyCmd)
	root.AddCommand(configCmd)
}
