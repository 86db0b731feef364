package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	httpapi "github.com/tbourn/go-invoice-backend/internal/http"
	"github.com/tbourn/go-invoice-backend/internal/observability"
	"github.com/tbourn/go-invoice-backend/internal/ratelimit"
	"github.com/tbourn/go-invoice-backend/internal/services"
)

const shutdownTimeout = 15 * time.Second

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the invoice HTTP API.

Endpoints:
  POST /upload                 screenshots → invoice record (rate limited)
  POST /generate-invoice       invoice → PDF
  POST /generate-invoice/xlsx  invoice → XLSX
  POST /invoice-preview        invoice → HTML
  POST /support                support ticket forwarding
  GET  /health, GET /metrics

Examples:
  invoicer serve               # PORT from the environment (default 8000)
  invoicer serve --port 9000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort != "" {
			cfg.Port = servePort
		}

		shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, GitRelease)
		if err != nil {
			return fmt.Errorf("otel: %w", err)
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := shutdownOTel(sctx); err != nil {
				log.Warn().Err(err).Msg("otel shutdown")
			}
		}()

		renderSvc, err := services.NewRenderService(cfg.RenderLocale)
		if err != nil {
			return err
		}

		gin.SetMode(cfg.GinMode)
		r := gin.New()
		httpapi.RegisterRoutes(r, httpapi.Deps{
			Extraction: services.NewExtractionService(newVisionClient(cfg)),
			Render:     renderSvc,
			Support:    services.NewSupportService(cfg.Support.ForwardURL, cfg.Support.SharedSecret, cfg.Support.Timeout),
			Limiter:    ratelimit.New(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window),
		}, cfg)

		srv := &http.Server{
			Addr:              cfg.Addr(),
			Handler:           r,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
			MaxHeaderBytes:    cfg.MaxHeaderBytes,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info().
				Str("addr", srv.Addr).
				Str("model", cfg.Vision.Model).
				Int("rate_limit_max", cfg.RateLimit.MaxRequests).
				Dur("rate_limit_window", cfg.RateLimit.Window).
				Bool("support_enabled", cfg.Support.ForwardURL != "").
				Msg("http server listening")
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

		log.Info().Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}
