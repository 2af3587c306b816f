package soco

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	reviewsURL = "https://api.soco.id/reviews"
	catalogURL = "https://catalog-api1.sociolla.com/v3/products"
	profileURL = "https://api.soco.id/users"
	userAgent  = "spigell/review-matcher"

	defaultTimeout     = 10 * time.Second
	defaultReviewLimit = 6
	defaultReviewSort  = "most_relevant"
	defaultProductSort = "-updated_at"
)

// Client talks to the Soco review API and the Sociolla catalog.
// Every request is bounded by HTTPClient.Timeout.
type Client struct {
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	ReviewsURL string
	CatalogURL string
	ProfileURL string
	// ReviewLimit is the page size used when ReviewOptions.Limit is unset.
	ReviewLimit int

	now func() time.Time
}

func New(logger *zap.Logger, timeout time.Duration) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		logger: logger,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		UserAgent:   userAgent,
		ReviewsURL:  reviewsURL,
		CatalogURL:  catalogURL,
		ProfileURL:  profileURL,
		ReviewLimit: defaultReviewLimit,
		now:         time.Now,
	}
}
