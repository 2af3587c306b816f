package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/review-matcher/internal/beauty"
	"github.com/spigell/review-matcher/internal/metrics"
	"github.com/spigell/review-matcher/internal/rest"
	"github.com/spigell/review-matcher/internal/reviews"
	"github.com/spigell/review-matcher/internal/soco"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("port", "p", "", "port to listen on (default is 3000 or $PORT)")
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the review-matcher", zap.String("version", version))

	svc := newService(ctx, config, metrics.New(prometheus.DefaultRegisterer), logger)

	handler := rest.NewReviewHandler(svc, config.Upstream.DefaultProductID, config.Server.RequestTimeout, logger)
	e, err := rest.NewServer(&rest.ServerDeps{
		Handler:      handler,
		Gatherer:     prometheus.DefaultGatherer,
		AllowOrigins: config.Server.AllowOrigins,
		Logger:       logger,
	})
	if err != nil {
		logger.Fatal("building http server", zap.Error(err))
	}

	go func() {
		addr := fmt.Sprintf(":%s", config.Server.Port)
		logger.Info("server starting", zap.String("address", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

// newService wires the upstream client, matcher and summarizer. The summarizer
// is left out with a warning when no llm provider is usable.
func newService(ctx context.Context, config *Config, m *metrics.Metrics, logger *zap.Logger) *reviews.Service {
	deps := &reviews.Deps{
		Upstream: newUpstream(config.Upstream, logger),
		Matcher:  beauty.NewMatcher(config.Matcher),
		Metrics:  m,
		Logger:   logger,
	}

	summarizer, err := newSummarizer(ctx, config.AI, logger)
	if err != nil {
		logger.Warn("review summaries are disabled",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY or OPENAI_API_KEY"),
		)
	} else {
		deps.Summarizer = summarizer
	}

	return reviews.New(deps)
}

func newUpstream(cfg *UpstreamConfig, logger *zap.Logger) *soco.Client {
	client := soco.New(logger.Named("soco"), cfg.Timeout)

	if cfg.ReviewsURL != "" {
		client.ReviewsURL = cfg.ReviewsURL
	}
	if cfg.CatalogURL != "" {
		client.CatalogURL = cfg.CatalogURL
	}
	if cfg.ProfileURL != "" {
		client.ProfileURL = cfg.ProfileURL
	}
	if cfg.UserAgent != "" {
		client.UserAgent = cfg.UserAgent
	}
	if cfg.ReviewLimit > 0 {
		client.ReviewLimit = cfg.ReviewLimit
	}

	return client
}
