package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/limehawk/gam-multi/pkg/logger"
	"github.com/limehawk/gam-multi/pkg/server"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the GAM tools over MCP on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			s, err := server.New(server.Options{Name: cfg.Server.Name, Version: version, Registry: a.registry})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.InfoCF("server", "Starting", map[string]interface{}{
				"name":    cfg.Server.Name,
				"version": version,
				"timeout": cfg.Exec.Timeout.String(),
			})
			if err := server.Serve(ctx, s); err != nil && ctx.Err() == nil {
				return err
			}
			logger.InfoC("server", "Stopped")
			return nil
		},
	}
}
