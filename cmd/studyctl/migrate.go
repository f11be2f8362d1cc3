package main

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/noah-isme/studytracker-api/pkg/database"
)

func newMigrateCmd(app *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return app.withDB(func(db *sqlx.DB) error {
					if err := database.Migrate(db.DB, app.cfg.Database.Driver); err != nil {
						return err
					}
					return app.printVersion(cmd, db)
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return app.withDB(func(db *sqlx.DB) error {
					if err := database.Rollback(db.DB, app.cfg.Database.Driver); err != nil {
						return err
					}
					return app.printVersion(cmd, db)
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show applied and pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return app.withDB(func(db *sqlx.DB) error {
					if err := database.Status(db.DB, app.cfg.Database.Driver); err != nil {
						return err
					}
					return app.printVersion(cmd, db)
				})
			},
		},
	)
	return cmd
}

func (app *cli) withDB(fn func(db *sqlx.DB) error) error {
	db, err := database.Open(app.cfg.Database)
	if err != nil {
		return fmt.Errorf("open %s database: %w", app.cfg.Database.Driver, err)
	}
	defer db.Close()
	return fn(db)
}

func (app *cli) printVersion(cmd *cobra.Command, db *sqlx.DB) error {
	version, err := database.Version(db.DB, app.cfg.Database.Driver)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version: %d\n", version)
	return nil
}
