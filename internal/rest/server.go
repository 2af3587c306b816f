package rest

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type ServerDeps struct {
	Handler *ReviewHandler
	// Gatherer backs /metrics. The default gatherer is used when nil.
	Gatherer     prometheus.Gatherer
	AllowOrigins []string
	Logger       *zap.Logger
}

// NewServer builds the echo instance with middlewares and all routes.
func NewServer(deps *ServerDeps) (*echo.Echo, error) {
	if deps == nil || deps.Handler == nil {
		return nil, errors.New("review handler is required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	origins := deps.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler(logger)

	e.Use(echomiddleware.Recover())
	e.Use(RequestID())
	e.Use(RequestLogger(logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	router := NewRouter(e)
	if err := SetupRoutes(router, deps.Handler, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})); err != nil {
		return nil, err
	}

	logger.Debug("routes registered", zap.Strings("routes", router.Routes()))

	return e, nil
}

func SetupRoutes(r *Router, h *ReviewHandler, metrics http.Handler) error {
	routes := []struct {
		method  string
		path    string
		handler echo.HandlerFunc
	}{
		{http.MethodGet, "/api/reviews", h.GetReviews},
		{http.MethodGet, "/api/reviews/summary", h.GetSummary},
		{http.MethodGet, "/api/reviews/analyze", h.Analyze},
		{http.MethodGet, "/api/reviews/matching-percentage", h.MatchingPercentage},
		{http.MethodGet, "/api/products", h.GetProducts},
		{http.MethodGet, "/api/products/:id/reviews", h.GetProductReviews},
		{http.MethodPost, "/api/products/reviews/:id", h.GetProductReviews},
		{http.MethodGet, "/healthz", Healthz},
		{http.MethodGet, "/metrics", echo.WrapHandler(metrics)},
	}

	for _, route := range routes {
		if err := r.Handle(route.method, route.path, route.handler); err != nil {
			return err
		}
	}

	return nil
}

func Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
