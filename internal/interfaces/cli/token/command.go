package token

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ibis1225/pet-ai/internal/infrastructure/auth"
	"github.com/ibis1225/pet-ai/internal/infrastructure/config"
	"github.com/ibis1225/pet-ai/internal/shared/constants"
)

var (
	env        string
	configPath string
	subject    string
	role       string
	ttl        time.Duration
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Admin API token tools",
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	cmd.AddCommand(newIssueCommand())
	return cmd
}

func newIssueCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a bearer token for the admin API",
		Long:  `Sign a JWT with the configured secret. The token is printed to stdout.`,
		RunE:  runIssue,
	}

	cmd.Flags().StringVarP(&subject, "subject", "s", "", "Operator name stored as the token subject (required)")
	cmd.Flags().StringVarP(&role, "role", "r", constants.RoleAdmin, "Token role (admin, operator)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (default: auth.jwt.access_exp_minutes)")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}

func runIssue(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	expMinutes := cfg.Auth.JWT.AccessExpMinutes
	if ttl > 0 {
		expMinutes = int(ttl.Round(time.Minute) / time.Minute)
		if expMinutes < 1 {
			expMinutes = 1
		}
	}

	svc := auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.Issuer, expMinutes)
	signed, expiresAt, err := svc.Issue(subject, role)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), signed)
	fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expiresAt.UTC().Format(time.RFC3339))
	return nil
}
