package main

import (
	"github.com/spf13/cobra"

	"github.com/yeremiapane/tableorder/database"
	"github.com/yeremiapane/tableorder/utils"
)

func newMigrateCommand() *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			if !seed {
				return nil
			}
			restaurant, err := database.Seed(cmd.Context(), a.db)
			if err != nil {
				return err
			}
			utils.InfoLogger.Printf("Demo restaurant id is %d", restaurant.ID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", false, "load the demo restaurant, tables and menu")
	return cmd
}
