package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/sadopc/focusos/internal/identity"
)

const minPasswordLen = 8

func signupCmd() *cobra.Command {
	var (
		email    string
		name     string
		password string
		save     bool
	)
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account with the identity provider",
		Long: `Create an account with the identity provider.

The name is stored in the provider's user metadata and becomes the
display name on first sign-in. Missing values are prompted for.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Auth.ProviderURL == "" {
				return errors.New("auth.provider_url is not configured")
			}

			if email == "" || password == "" {
				if err := promptSignup(&email, &name, &password); err != nil {
					return err
				}
			} else if err := checkPassword(password, password); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			session, err := identity.NewClient(cfg.Auth.ProviderURL, cfg.Auth.APIKey).
				SignUp(ctx, strings.TrimSpace(email), strings.TrimSpace(name), password)
			if err != nil {
				return fmt.Errorf("sign up: %w", err)
			}

			out := cmd.OutOrStdout()
			if session.AccessToken == "" {
				fmt.Fprintf(out, "Account created for %s. Confirm your email, then run \"focusos login\".\n", session.Principal().Email)
				return nil
			}
			if save {
				path := configFile()
				if err := saveToken(path, session.AccessToken); err != nil {
					return err
				}
				fmt.Fprintf(out, "Signed up as %s; token saved to %s\n", session.Principal().Email, path)
				return nil
			}
			fmt.Fprintln(out, session.AccessToken)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when empty)")
	cmd.Flags().BoolVar(&save, "save", false, "store the token in the config file")
	return cmd
}

func promptSignup(email, name, password *string) error {
	var confirm string
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(name),
			huh.NewInput().Title("Email").Value(email).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("email is required")
					}
					return nil
				}),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(password).
				Validate(func(s string) error { return checkPassword(s, s) }),
			huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(&confirm).
				Validate(func(s string) error { return checkPassword(*password, s) }),
		),
	).Run()
}

func checkPassword(password, confirm string) error {
	if password != confirm {
		return errors.New("passwords do not match")
	}
	if len(password) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}
	return nil
}
