// Package cli wires the focusos commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sadopc/focusos/internal/config"
)

var (
	cfgPath string
	rootCmd *cobra.Command
)

func init() {
	rootCmd = newRootCmd()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "focusos",
		Short: "focusos - focus sessions, tasks and reflection",
		Long: `focusos tracks tasks and timed focus sessions.

Run "focusos serve" for the REST backend and "focusos tui" for the terminal client.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default "+config.DefaultPath()+")")

	cmd.AddCommand(serveCmd())
	cmd.AddCommand(tuiCmd())
	cmd.AddCommand(loginCmd())
	cmd.AddCommand(signupCmd())
	cmd.AddCommand(configCmd())
	cmd.AddCommand(versionCmd())
	return cmd
}

// Execute runs the root command
func Execute(version string) error {
	rootCmd.Version = version
	buildVersion = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
