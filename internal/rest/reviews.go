package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/spigell/review-matcher/internal/ai"
	"github.com/spigell/review-matcher/internal/beauty"
	"github.com/spigell/review-matcher/internal/reviews"
	"github.com/spigell/review-matcher/internal/soco"
)

const (
	MessageSummaryFailed = "Failed to generate review summary."
	MessageSummaryOK     = "Review summary generated successfully"
	MessageMatchOK       = "Matching percentage calculated successfully"
	MessageReviewsOK     = "Reviews fetched successfully"

	defaultProductsLimit = 20
)

type (
	ReviewHandler struct {
		service          ReviewService
		validate         *validator.Validate
		logger           *zap.Logger
		defaultProductID int64
		timeout          time.Duration
		now              func() time.Time
	}

	ReviewService interface {
		Reviews(ctx context.Context, productID int64) []beauty.Review
		Products(ctx context.Context, skip, limit int) []*soco.Product
		Match(ctx context.Context, productID int64, userID string) *beauty.MatchResult
		Summarize(ctx context.Context, productID int64, product ai.Product) (*ai.Summary, error)
	}

	ReviewsQuery struct {
		ProductID int64 `query:"product_id" validate:"gte=0"`
	}

	SummaryQuery struct {
		ProductID int64  `query:"product_id" validate:"gte=0"`
		Name      string `query:"name" validate:"max=200"`
		Brand     string `query:"brand" validate:"max=200"`
		Category  string `query:"category" validate:"max=200"`
	}

	MatchQuery struct {
		ProductID int64  `query:"product_id" validate:"gte=0"`
		UserID    string `query:"user_id" validate:"max=64"`
	}

	ProductsQuery struct {
		Skip  int `query:"skip" validate:"gte=0"`
		Limit int `query:"limit" validate:"gte=0,lte=100"`
	}

	ProductPath struct {
		ID int64 `param:"id" validate:"required,gt=0"`
	}

	SummaryData struct {
		Summary   string `json:"summary"`
		Timestamp string `json:"timestamp"`
	}
)

func NewReviewHandler(svc ReviewService, defaultProductID int64, timeout time.Duration, logger *zap.Logger) *ReviewHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &ReviewHandler{
		service:          svc,
		validate:         validator.New(),
		logger:           logger,
		defaultProductID: defaultProductID,
		timeout:          timeout,
		now:              time.Now,
	}
}

// bind fills req from the path and query and validates it. Errors are rendered as 400.
func (h *ReviewHandler) bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	if err := h.validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}
	return nil
}

func (h *ReviewHandler) productID(id int64) int64 {
	if id == 0 {
		return h.defaultProductID
	}
	return id
}

// GetReviews returns the raw review list of a product.
func (h *ReviewHandler) GetReviews(c echo.Context) error {
	var q ReviewsQuery
	if err := h.bind(c, &q); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	return c.JSON(http.StatusOK, h.service.Reviews(ctx, h.productID(q.ProductID)))
}

func (h *ReviewHandler) GetSummary(c echo.Context) error {
	var q SummaryQuery
	if err := h.bind(c, &q); err != nil {
		return err
	}

	summary, err := h.summarize(c, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: MessageSummaryFailed})
	}

	return c.JSON(http.StatusOK, map[string]string{"review_summary": summary.Text})
}

func (h *ReviewHandler) Analyze(c echo.Context) error {
	var q SummaryQuery
	if err := h.bind(c, &q); err != nil {
		return err
	}

	summary, err := h.summarize(c, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, Envelope{Success: false, Message: MessageSummaryFailed})
	}

	return c.JSON(http.StatusOK, Envelope{
		Success: true,
		Message: MessageSummaryOK,
		Data: SummaryData{
			Summary:   summary.Text,
			Timestamp: h.now().UTC().Format(time.RFC3339),
		},
	})
}

func (h *ReviewHandler) summarize(c echo.Context, q SummaryQuery) (*ai.Summary, error) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	productID := h.productID(q.ProductID)
	summary, err := h.service.Summarize(ctx, productID, ai.Product{
		Name:     q.Name,
		Brand:    q.Brand,
		Category: q.Category,
	})
	if err != nil {
		level := h.logger.Error
		if errors.Is(err, reviews.ErrSummarizerDisabled) {
			level = h.logger.Warn
		}
		level("generating review summary", zap.Int64("product_id", productID), zap.Error(err))
		return nil, err
	}

	return summary, nil
}

func (h *ReviewHandler) MatchingPercentage(c echo.Context) error {
	var q MatchQuery
	if err := h.bind(c, &q); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result := h.service.Match(ctx, h.productID(q.ProductID), q.UserID)

	return c.JSON(http.StatusOK, Envelope{
		Success: true,
		Message: MessageMatchOK,
		Data:    result,
	})
}

func (h *ReviewHandler) GetProducts(c echo.Context) error {
	var q ProductsQuery
	if err := h.bind(c, &q); err != nil {
		return err
	}

	if q.Limit == 0 {
		q.Limit = defaultProductsLimit
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.service.Products(ctx, q.Skip, q.Limit)))
}

// GetProductReviews serves both the product scoped and the legacy POST path.
func (h *ReviewHandler) GetProductReviews(c echo.Context) error {
	var p ProductPath
	if err := h.bind(c, &p); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	return c.JSON(http.StatusOK, Envelope{
		Success: true,
		Message: MessageReviewsOK,
		Data:    h.service.Reviews(ctx, p.ID),
	})
}
