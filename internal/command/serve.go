package command

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hongminglow/all-in-auth/internal/server"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the sign-in and session endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFrom(cmd.Context())
			if err != nil {
				return err
			}
			logger := slog.Default()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			store, err := openStore(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			srv := server.New(cfg, logger, store)
			grp, ctx := errgroup.WithContext(ctx)
			grp.Go(func() error {
				logger.InfoContext(ctx, "listening", slog.String("address", cfg.HTTPAddress()))
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			grp.Go(func() error {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), server.ShutdownTimeout)
				defer cancel()
				logger.InfoContext(shutdownCtx, "shutting down")
				return srv.Shutdown(shutdownCtx)
			})
			return grp.Wait()
		},
	}
}
