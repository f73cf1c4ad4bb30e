package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/recruitment-performance/internal/auth"
	"github.com/frahmantamala/recruitment-performance/internal/user"
)

var (
	tokenUserID int64
	tokenRole   string
	tokenTTL    time.Duration
)

// tokenCmd mints a development access token signed with the configured secret.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a development access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !user.IsValidRole(tokenRole) {
			return fmt.Errorf("unknown role %q", tokenRole)
		}
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}

		token, err := auth.NewJWTTokenVerifier(cfg.Security).IssueToken(tokenUserID, tokenRole, tokenTTL)
		if err != nil {
			return fmt.Errorf("issue token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().Int64Var(&tokenUserID, "user-id", 0, "user id the token is issued for")
	tokenCmd.Flags().StringVar(&tokenRole, "role", user.RoleRecruiter, "role claim, must match the stored user role")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("user-id")

	rootCmd.AddCommand(tokenCmd)
}
