package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/review-matcher/internal/ai"
	"github.com/spigell/review-matcher/internal/beauty"
	"github.com/spigell/review-matcher/internal/logger"
	"github.com/spigell/review-matcher/internal/metrics"
	"github.com/spigell/review-matcher/internal/soco"
)

// ErrSummarizerDisabled is returned by Summarize when no LLM provider is configured.
var ErrSummarizerDisabled = errors.New("review summarizer is not configured")

// Upstream is the review/catalog API the service proxies.
type Upstream interface {
	GetReviews(ctx context.Context, productID int64, opts soco.ReviewOptions) ([]beauty.Review, error)
	GetProducts(ctx context.Context, skip, limit int) ([]*soco.Product, error)
	GetBeautyProfile(ctx context.Context, userID string) (beauty.Profile, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, product ai.Product, reviews []beauty.Review) (*ai.Summary, error)
}

// Service glues the upstream API, the matcher and the summarizer together.
// Upstream failures never reach callers: they are logged and replaced by empty data.
type Service struct {
	upstream   Upstream
	summarizer Summarizer
	matcher    *beauty.Matcher
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

type Deps struct {
	Upstream Upstream
	// Summarizer is optional.
	Summarizer Summarizer
	Matcher    *beauty.Matcher
	// Metrics is optional.
	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

func New(deps *Deps) *Service {
	s := &Service{
		upstream:   deps.Upstream,
		summarizer: deps.Summarizer,
		matcher:    deps.Matcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
	}

	if s.matcher == nil {
		s.matcher = beauty.NewMatcher(beauty.MatcherConfig{})
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}

	return s
}

// Reviews returns the reviews of productID or an empty list when the upstream fails.
func (s *Service) Reviews(ctx context.Context, productID int64) []beauty.Review {
	reviews, err := s.upstream.GetReviews(ctx, productID, soco.ReviewOptions{})
	if err != nil {
		s.logger.Warn("fetching reviews failed, using empty list",
			append(logger.MatchFields(productID, ""), zap.Error(err))...,
		)
		s.metrics.UpstreamFailed(metrics.UpstreamReviews)
		return []beauty.Review{}
	}

	if reviews == nil {
		reviews = []beauty.Review{}
	}

	return reviews
}

// Products returns a catalog page or an empty list when the upstream fails.
func (s *Service) Products(ctx context.Context, skip, limit int) []*soco.Product {
	products, err := s.upstream.GetProducts(ctx, skip, limit)
	if err != nil {
		s.logger.Warn("fetching products failed, using empty list",
			zap.Int("skip", skip),
			zap.Int("limit", limit),
			zap.Error(err),
		)
		s.metrics.UpstreamFailed(metrics.UpstreamProducts)
		return []*soco.Product{}
	}

	if products == nil {
		products = []*soco.Product{}
	}

	return products
}

// Profile returns the beauty profile of userID or an empty profile when the upstream fails.
func (s *Service) Profile(ctx context.Context, userID string) beauty.Profile {
	profile, err := s.upstream.GetBeautyProfile(ctx, userID)
	if err != nil {
		s.logger.Warn("fetching beauty profile failed, using empty profile",
			append(logger.MatchFields(0, userID), zap.Error(err))...,
		)
		s.metrics.UpstreamFailed(metrics.UpstreamProfile)
		return nil
	}

	return profile
}

// Match scores productID for userID. Without a user the ratings fallback is used.
// Reviews and profile are fetched concurrently.
func (s *Service) Match(ctx context.Context, productID int64, userID string) *beauty.MatchResult {
	userID = strings.TrimSpace(userID)
	log := s.logger.With(logger.MatchFields(productID, userID)...)

	var (
		reviews []beauty.Review
		profile beauty.Profile
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		reviews = s.Reviews(gctx, productID)
		return nil
	})
	if userID != "" {
		g.Go(func() error {
			profile = s.Profile(gctx, userID)
			return nil
		})
	}
	// fetchers degrade to empty data and never return an error
	_ = g.Wait()

	var result *beauty.MatchResult
	if userID == "" {
		result = beauty.RatingsMatch(reviews)
	} else {
		result = s.matcher.Match(reviews, profile)
	}

	log.Debug("matched product",
		zap.String("mode", string(result.Mode)),
		zap.Int("reviews", len(reviews)),
		zap.Int("percentage", result.FinalPercentage),
		zap.String("message", result.Message),
	)
	s.metrics.ObserveMatch(string(result.Mode), result.FinalPercentage)

	return result
}

// Summarize fetches the reviews of productID and asks the LLM for a summary.
func (s *Service) Summarize(ctx context.Context, productID int64, product ai.Product) (*ai.Summary, error) {
	if s.summarizer == nil {
		return nil, ErrSummarizerDisabled
	}

	reviews := s.Reviews(ctx, productID)

	started := time.Now()
	summary, err := s.summarizer.Summarize(ctx, product, reviews)
	if err != nil {
		s.metrics.UpstreamFailed(metrics.UpstreamLLM)
		return nil, fmt.Errorf("summarize reviews of product %d: %w", productID, err)
	}

	s.metrics.ObserveSummary(summary.Provider, started)

	return summary, nil
}
