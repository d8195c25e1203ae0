package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yeremiapane/tableorder/utils"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "tableorder",
		Short:         "Table ordering backend: table sessions, orders and kitchen displays",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newWatchCommand(),
		newTokenCommand(),
	)
	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		utils.ErrorLogger.Error(err)
		os.Exit(1)
	}
}
