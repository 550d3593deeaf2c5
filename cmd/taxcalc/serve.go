package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/sataxfile/taxcalc/internal/api"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			if a.cfg.Server.Environment == "production" {
				gin.SetMode(gin.ReleaseMode)
			}

			sc := a.cfg.Server
			srv := &http.Server{
				Addr:         sc.Port,
				Handler:      api.Setup(api.NewTaxHandler(svc, a.logger), a.logger, sc.MaxBodyBytes),
				ReadTimeout:  sc.ReadTimeout,
				WriteTimeout: sc.WriteTimeout,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("server starting", "addr", srv.Addr, "tax_years", svc.TaxYears(), "default_year", svc.DefaultYear())
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			a.logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), sc.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			a.logger.Info("server stopped")
			return nil
		},
	}

	f := cmd.Flags()
	f.String("port", ":8080", "listen address")
	_ = a.v.BindPFlag("server.port", f.Lookup("port"))
	return cmd
}
