package soco

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/spigell/review-matcher/internal/beauty"
)

// payloadFrom detects which beauty shape node carries. The nested
// beauty[].subtags[] form wins over the flat skin_types/hair_types form.
func payloadFrom(node gjson.Result) beauty.Payload {
	if !node.IsObject() {
		return beauty.Payload{}
	}

	if categories := node.Get("beauty"); categories.IsArray() {
		return beauty.CategoriesPayload(decodeCategories(categories))
	}

	skin, hair := node.Get(beauty.LegacySkinCategory), node.Get(beauty.LegacyHairCategory)
	if skin.IsArray() || hair.IsArray() {
		return beauty.LegacyPayload(decodeSubtags(skin), decodeSubtags(hair))
	}

	return beauty.Payload{}
}

func decodeCategories(v gjson.Result) []beauty.Category {
	items := v.Array()
	categories := make([]beauty.Category, 0, len(items))
	for _, item := range items {
		if !item.IsObject() {
			continue
		}
		categories = append(categories, beauty.Category{
			Name:    strings.TrimSpace(item.Get("name").String()),
			Subtags: decodeSubtags(item.Get("subtags")),
		})
	}
	return categories
}

func decodeSubtags(v gjson.Result) []beauty.Subtag {
	if !v.IsArray() {
		return nil
	}

	items := v.Array()
	subtags := make([]beauty.Subtag, 0, len(items))
	for _, item := range items {
		name := ""
		switch {
		case item.IsObject():
			name = item.Get("name").String()
		case item.Type == gjson.String:
			name = item.String()
		}

		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		subtags = append(subtags, beauty.Subtag{Name: name})
	}
	return subtags
}
