package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yeremiapane/tableorder/middlewares"
	"github.com/yeremiapane/tableorder/utils"
)

// newTokenCommand signs staff tokens for local development; in production
// they come from the identity provider.
func newTokenCommand() *cobra.Command {
	var (
		name string
		role string
		ttl  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a signed staff token for local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := os.Getenv("JWT_SECRET")
			if secret == "" {
				return errors.New("JWT_SECRET is required")
			}
			switch role {
			case middlewares.RoleAdmin, middlewares.RoleStaff, middlewares.RoleChef:
			default:
				return fmt.Errorf("unknown role %q", role)
			}

			tok, err := utils.GenerateToken([]byte(secret), name, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "dev", "staff display name")
	cmd.Flags().StringVar(&role, "role", middlewares.RoleStaff, "admin, staff or chef")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "token lifetime")
	return cmd
}
