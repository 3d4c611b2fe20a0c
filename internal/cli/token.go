package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	transport "vocab-quiz-service/internal/transport/http"
)

// NewTokenCmd signs a bearer token for local testing with the configured secret.
func NewTokenCmd(configPath *string) *cobra.Command {
	var (
		userID string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a bearer token for a user id",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()

			token, err := transport.NewAuthenticator(cfg.Auth.JWTSecret).IssueToken(userID, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "demo-user", "user id to put in the userId claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
