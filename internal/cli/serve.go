package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/sadopc/focusos/internal/api"
	"github.com/sadopc/focusos/internal/charmlog"
	"github.com/sadopc/focusos/internal/config"
	"github.com/sadopc/focusos/internal/identity"
	"github.com/sadopc/focusos/internal/store"
)

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST backend",
		Long: `Start the focusos REST backend.

Examples:
  focusos serve
  focusos serve --addr :9000
  FOCUSOS_AUTH_MODE=jwt FOCUSOS_AUTH_JWT_SECRET=... focusos serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			return runServe(cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func runServe(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, closeLog, err := charmlog.Open(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	dbPath := cfg.DBPath
	if dbPath == "" {
		if dbPath, err = store.DefaultDBPath(); err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
	}
	st, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	verifier, err := newVerifier(cfg.Auth)
	if err != nil {
		return err
	}

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := api.NewServer(api.Options{
		Store:          st,
		Verifier:       verifier,
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting", "db", dbPath, "auth", cfg.Auth.Mode)
	return srv.Run(ctx, cfg.Addr)
}

func newVerifier(auth config.AuthConfig) (identity.Verifier, error) {
	switch auth.Mode {
	case config.AuthJWT:
		v, err := identity.NewJWTVerifier(auth.JWTSecret)
		if err != nil {
			return nil, err
		}
		return v, nil
	case config.AuthRemote:
		return identity.NewRemoteVerifier(auth.ProviderURL, auth.APIKey), nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", auth.Mode)
	}
}
