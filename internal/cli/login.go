package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sadopc/focusos/internal/config"
	"github.com/sadopc/focusos/internal/identity"
)

func loginCmd() *cobra.Command {
	var (
		email    string
		password string
		save     bool
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with the identity provider and print an access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Auth.ProviderURL == "" {
				return errors.New("auth.provider_url is not configured")
			}

			if email == "" || password == "" {
				if err := promptCredentials(&email, &password); err != nil {
					return err
				}
			}

			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			session, err := identity.NewClient(cfg.Auth.ProviderURL, cfg.Auth.APIKey).SignIn(ctx, email, password)
			if err != nil {
				if errors.Is(err, identity.ErrInvalid) {
					return errors.New("invalid email or password")
				}
				return fmt.Errorf("sign in: %w", err)
			}

			if save {
				path := configFile()
				if err := saveToken(path, session.AccessToken); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s; token saved to %s\n", session.Principal().Email, path)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), session.AccessToken)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when empty)")
	cmd.Flags().BoolVar(&save, "save", false, "store the token in the config file")
	return cmd
}

func promptCredentials(email, password *string) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Email").Value(email),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(password),
		),
	).Run()
}

// configFile is the file --save writes to.
func configFile() string {
	if cfgPath != "" {
		return cfgPath
	}
	return config.DefaultPath()
}

// saveToken sets the token key in the YAML config at path, keeping every
// other key as it was.
func saveToken(path, token string) error {
	doc := map[string]any{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		if doc == nil {
			doc = map[string]any{}
		}
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("read %s: %w", path, err)
	}

	doc["token"] = strings.TrimSpace(token)
	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, out, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
