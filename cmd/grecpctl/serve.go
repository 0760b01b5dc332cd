package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danmuck/grecp/internal/observability"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

type serveOptions struct {
	listen string
}

func newServeCommand(opts *globalOptions) *cobra.Command {
	var so serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve an HTTP decode API and prometheus metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts, so)
		},
	}
	cmd.Flags().StringVar(&so.listen, "listen", "", "Listen address (default from config listen_addr)")
	return cmd
}

func runServe(ctx context.Context, opts *globalOptions, so serveOptions) error {
	d, err := newDecoder(opts.cfg)
	if err != nil {
		return err
	}
	addr := opts.cfg.ListenAddr
	if so.listen != "" {
		addr = so.listen
	}
	logger := observability.Logger("http")
	observability.RegisterMetrics()

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(d, logger, opts.cfg.CorsOrigins),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info().Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

type decodeRequest struct {
	Hex         string `json:"hex" binding:"required"`
	PayloadOnly *bool  `json:"payload_only"`
}

func newRouter(d *decoder, logger zerolog.Logger, corsOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), observability.RequestLogger(logger), observability.RequestMetrics())
	if len(corsOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: corsOrigins,
			AllowMethods: []string{"GET", "POST"},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "binding": d.binding.String()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/v1/decode", handleDecode(d))
	return r
}

func handleDecode(d *decoder) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req decodeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		raw, ok, err := parseHexLine(req.Hex)
		if !ok || err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "hex must encode at least one byte"})
			return
		}

		dd := *d
		if req.PayloadOnly != nil {
			dd.payloadOnly = *req.PayloadOnly
		}
		out := dd.decode(raw)
		if out.Err != nil {
			c.JSON(http.StatusUnprocessableEntity, newErrorView(out))
			return
		}
		c.JSON(http.StatusOK, newMessageView(out.Header, out.Message))
	}
}
