package soco

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/spigell/review-matcher/internal/beauty"
)

const (
	anonymousUser = "Anonymous"
	noComment     = "No comment provided"
)

// ReviewOptions narrows a reviews request.
type ReviewOptions struct {
	Skip  int
	Limit int
	Sort  string
}

type reviewFilter struct {
	IsPublished   bool  `json:"is_published"`
	ElasticSearch bool  `json:"elastic_search"`
	ProductID     int64 `json:"product_id"`
	IsHighlight   bool  `json:"is_highlight"`
}

// GetReviews returns the highlighted published reviews of a product.
func (c *Client) GetReviews(ctx context.Context, productID int64, opts ReviewOptions) ([]beauty.Review, error) {
	q, err := c.reviewParams(productID, opts)
	if err != nil {
		return nil, err
	}

	body, err := c.getJSON(ctx, c.ReviewsURL, q)
	if err != nil {
		return nil, fmt.Errorf("get reviews of product %d: %w", productID, err)
	}

	return decodeReviews(gjson.GetBytes(body, "data"), c.now()), nil
}

func (c *Client) reviewParams(productID int64, opts ReviewOptions) (url.Values, error) {
	filter, err := json.Marshal(reviewFilter{
		IsPublished:   true,
		ElasticSearch: true,
		ProductID:     productID,
		IsHighlight:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal review filter: %w", err)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = c.ReviewLimit
	}
	if limit <= 0 {
		limit = defaultReviewLimit
	}

	sort := strings.TrimSpace(opts.Sort)
	if sort == "" {
		sort = defaultReviewSort
	}

	q := url.Values{}
	q.Set("filter", string(filter))
	q.Set("skip", strconv.Itoa(max(opts.Skip, 0)))
	q.Set("limit", strconv.Itoa(limit))
	q.Set("sort", sort)

	return q, nil
}

// decodeReviews never fails: absent or mistyped fields fall back to defaults.
func decodeReviews(data gjson.Result, now time.Time) []beauty.Review {
	if !data.IsArray() {
		return []beauty.Review{}
	}

	items := data.Array()
	reviews := make([]beauty.Review, 0, len(items))
	for idx, item := range items {
		if !item.IsObject() {
			continue
		}
		reviews = append(reviews, decodeReview(idx+1, item, now))
	}

	return reviews
}

func decodeReview(id int, item gjson.Result, now time.Time) beauty.Review {
	review := beauty.Review{
		ID:          id,
		User:        stringOr(item.Get("user.name"), anonymousUser),
		Rating:      numberOr(item.Get("average_rating")),
		Comment:     stringOr(item.Get("details"), noComment),
		Date:        now.UTC(),
		Repurchased: item.Get("is_repurchase").Bool(),
	}

	if created := item.Get("created_at").String(); created != "" {
		if ts, err := time.Parse(time.RFC3339, created); err == nil {
			review.Date = ts
		}
	}

	for _, dim := range beauty.Dimensions {
		if star := numberOr(item.Get("star_" + dim)); star > 0 {
			if review.Stars == nil {
				review.Stars = make(map[string]float64)
			}
			review.Stars[dim] = star
		}
	}

	review.Beauty = payloadFrom(item.Get("user"))
	if review.Beauty.Kind == beauty.PayloadNone {
		review.Beauty = payloadFrom(item)
	}

	return review
}

func stringOr(v gjson.Result, fallback string) string {
	if v.Type != gjson.String {
		return fallback
	}
	s := strings.TrimSpace(v.String())
	if s == "" {
		return fallback
	}
	return s
}

// numberOr accepts numbers and numeric strings, anything else is 0.
func numberOr(v gjson.Result) float64 {
	switch v.Type {
	case gjson.Number:
		return v.Float()
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.String()), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
