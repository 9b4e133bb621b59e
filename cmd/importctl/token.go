package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"infinite-experiment/contactimport/internal/auth"
	"infinite-experiment/contactimport/internal/constants"
)

func newTokenCmd() *cobra.Command {
	var (
		secret  string
		subject string
		role    string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an API bearer token",
		Example: `  JWT_SECRET=... importctl token --subject ops@example.com --role importer --ttl 720h`,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := constants.ParseRole(role)
			if r == "" {
				return fmt.Errorf("unknown role %q (want viewer, importer or admin)", role)
			}

			signer, err := auth.NewTokenSigner(secret)
			if err != nil {
				return fmt.Errorf("%w: pass --secret or set JWT_SECRET", err)
			}

			token, err := signer.Issue(subject, r, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "HMAC secret shared with the server")
	cmd.Flags().StringVar(&subject, "subject", "", "who the token is for")
	cmd.Flags().StringVar(&role, "role", constants.RoleImporter.String(), "viewer, importer or admin")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
