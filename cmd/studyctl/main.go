// Command studyctl administers a study tracker deployment: schema migrations
// and API token minting.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/noah-isme/studytracker-api/pkg/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// cli carries state shared by subcommands.
type cli struct {
	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	app := &cli{}
	root := &cobra.Command{
		Use:           "studyctl",
		Short:         "Administer the study tracker API",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			app.cfg = cfg
			return nil
		},
	}
	root.AddCommand(newMigrateCmd(app), newTokenCmd(app))
	return root
}
