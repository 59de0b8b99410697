package cmd

import (
	"comptroller/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/spf13/cobra"
)

// command for migrating database
var migrateCmd = &cobra.Command{
	Use:     "migrate",
	Aliases: []string{"setdb"},
	Short:   "migrate database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.App.Store != core.StoreSQL {
			cmd.Println("store is", cfg.App.Store, "nothing to migrate")
			return nil
		}

		database := provideDatabase()
		defer database.Close()

		if err := db.Migrate(database); err != nil {
			cmd.PrintErrln("migrate database error:", err)
			return err
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
