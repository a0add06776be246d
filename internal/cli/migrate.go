package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maheshrc27/influence-api/internal/database"
)

func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				_, db, err := openDB(cmd.Context())
				if err != nil {
					return err
				}
				defer db.Close()
				return database.Migrate(db)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				_, db, err := openDB(cmd.Context())
				if err != nil {
					return err
				}
				defer db.Close()
				return database.Rollback(db)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			RunE: func(cmd *cobra.Command, args []string) error {
				_, db, err := openDB(cmd.Context())
				if err != nil {
					return err
				}
				defer db.Close()

				version, err := database.Version(db)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), version)
				return nil
			},
		},
	)

	return cmd
}
