// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/basketrules/internal/auth"
	"github.com/tomtom215/basketrules/internal/config"
)

func newTokenCmd() *cobra.Command {
	var (
		subject string
		role    string
		secret  string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed API token",
		Long:  "Issues an HS256 token accepted by a server running with AUTH_MODE=jwt and the same JWT_SECRET.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = os.Getenv("JWT_SECRET")
			}
			manager, err := auth.NewJWTManager(&config.SecurityConfig{
				JWTSecret:      secret,
				SessionTimeout: ttl,
			})
			if err != nil {
				return err
			}
			token, err := manager.GenerateToken(subject, role)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "token subject")
	cmd.Flags().StringVar(&role, "role", auth.RoleViewer, "admin or viewer")
	cmd.Flags().StringVar(&secret, "secret", "", "signing secret, defaults to $JWT_SECRET")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}
