package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/studytracker-api/internal/service"
)

func newTokenCmd(app *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage API access tokens",
	}

	var (
		subject string
		ttl     time.Duration
		asJSON  bool
	)
	issue := &cobra.Command{
		Use:   "issue",
		Short: "Sign a bearer token with JWT_SECRET",
		Example: `  studyctl token issue --subject me
  studyctl token issue --subject phone --ttl 24h --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			auth := service.NewAuthService(service.AuthConfig{
				Secret:        app.cfg.Auth.Secret,
				Issuer:        app.cfg.Auth.Issuer,
				DefaultExpiry: app.cfg.Auth.Expiration,
			})
			token, err := auth.IssueToken(subject, ttl)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return json.NewEncoder(out).Encode(token)
			}
			fmt.Fprintln(out, token.AccessToken)
			return nil
		},
	}
	issue.Flags().StringVar(&subject, "subject", "", "token subject (required)")
	issue.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default JWT_EXPIRATION)")
	issue.Flags().BoolVar(&asJSON, "json", false, "print token and expiry as JSON")
	_ = issue.MarkFlagRequired("subject")

	cmd.AddCommand(issue)
	return cmd
}
