package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/gym-tracker/internal/migrations"
)

// migrateCmd объединяет команды миграций схемы.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		d, s, err := storageSettings()
		if err != nil {
			return err
		}
		if err := migrations.Up(d, s); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "migrations applied (%s)\n", d)
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back all migrations (drops every table)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		d, s, err := storageSettings()
		if err != nil {
			return err
		}
		if err := migrations.Down(d, s); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "migrations rolled back (%s)\n", d)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
}
