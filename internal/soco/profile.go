package soco

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/spigell/review-matcher/internal/beauty"
)

// GetBeautyProfile returns the beauty profile a user declared. A user without
// beauty data yields an empty profile, not an error.
func (c *Client) GetBeautyProfile(ctx context.Context, userID string) (beauty.Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errors.New("user id is required")
	}

	endpoint := fmt.Sprintf("%s/%s", strings.TrimRight(c.ProfileURL, "/"), url.PathEscape(userID))

	body, err := c.getJSON(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("get beauty profile of user %s: %w", userID, err)
	}

	node := gjson.GetBytes(body, "data")
	if !node.Exists() {
		node = gjson.ParseBytes(body)
	}

	return payloadFrom(node).Profile(), nil
}
