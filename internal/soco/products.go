package soco

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

const unknown = "Unknown"

// Product is a catalog entry reduced to what the API exposes.
type Product struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Brand     string `json:"brand"`
	Category  string `json:"category"`
	UpdatedAt string `json:"updated_at"`
}

type catalogProduct struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Brand struct {
		Name string `json:"name"`
	} `json:"brand"`
	Categories []struct {
		Name string `json:"name"`
	} `json:"categories"`
	UpdatedAt string `json:"updated_at"`
}

type catalogResponse struct {
	Data []any `json:"data"`
}

// GetProducts returns a page of recently updated catalog products.
// Items that cannot be decoded are skipped.
func (c *Client) GetProducts(ctx context.Context, skip, limit int) ([]*Product, error) {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(max(skip, 0)))
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	q.Set("sort", defaultProductSort)

	body, err := c.getJSON(ctx, c.CatalogURL, q)
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}

	var resp catalogResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse products: %w", err)
	}

	products := make([]*Product, 0, len(resp.Data))
	for idx, item := range resp.Data {
		var raw catalogProduct
		if err := decodeProduct(item, &raw); err != nil {
			c.logger.Debug("skipping undecodable product", zap.Int("index", idx), zap.Error(err))
			continue
		}
		products = append(products, raw.toProduct(idx+1, c.now().UTC().Format("2006-01-02T15:04:05.000Z")))
	}

	return products, nil
}

func decodeProduct(item any, target *catalogProduct) error {
	cfg := &mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "json",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return err
	}
	return decoder.Decode(item)
}

func (p *catalogProduct) toProduct(position int, now string) *Product {
	product := &Product{
		ID:        strings.TrimSpace(p.ID),
		Name:      strings.TrimSpace(p.Name),
		Brand:     strings.TrimSpace(p.Brand.Name),
		Category:  unknown,
		UpdatedAt: strings.TrimSpace(p.UpdatedAt),
	}

	if product.ID == "" {
		product.ID = strconv.Itoa(position)
	}
	if product.Brand == "" {
		product.Brand = unknown
	}
	if len(p.Categories) > 0 && strings.TrimSpace(p.Categories[0].Name) != "" {
		product.Category = strings.TrimSpace(p.Categories[0].Name)
	}
	if product.UpdatedAt == "" {
		product.UpdatedAt = now
	}

	return product
}
