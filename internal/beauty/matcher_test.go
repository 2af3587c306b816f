package beauty

import (
	"encoding/json"
	"reflect"
	"testing"
)

func skinProfile(names ...string) Profile {
	subtags := make([]Subtag, 0, len(names))
	for _, name := range names {
		subtags = append(subtags, Subtag{Name: name})
	}
	return Profile{{Name: "Skin Type", Subtags: subtags}}
}

func reviewWith(rating float64, attrs ...string) Review {
	subtags := make([]Subtag, 0, len(attrs))
	for _, attr := range attrs {
		subtags = append(subtags, Subtag{Name: attr})
	}
	return Review{
		Rating: rating,
		Beauty: CategoriesPayload([]Category{{Name: "Skin Type", Subtags: subtags}}),
	}
}

func oilyReviews() []Review {
	return []Review{
		reviewWith(5, "Oily"),
		reviewWith(5, "Oily"),
		reviewWith(3, "Dry"),
	}
}

func TestMatchExactAttribute(t *testing.T) {
	m := NewMatcher(MatcherConfig{})

	res := m.Match(oilyReviews(), skinProfile("Oily"))

	if res.FinalPercentage != 100 {
		t.Fatalf("expected 100, got %d", res.FinalPercentage)
	}
	if res.SimplePercentage != 100 || res.WeightedPercentage != 100 {
		t.Fatalf("unexpected simple/weighted: %d/%d", res.SimplePercentage, res.WeightedPercentage)
	}
	if !reflect.DeepEqual(res.AttributePercentages, map[string]int{"Oily": 100}) {
		t.Fatalf("unexpected attribute percentages: %v", res.AttributePercentages)
	}
	expected := []SignificantAttribute{{Name: "oily", Frequency: 2}}
	if !reflect.DeepEqual(res.SignificantAttributes, expected) {
		t.Fatalf("unexpected significant attributes: %v", res.SignificantAttributes)
	}
	if _, ok := res.AttributeFrequencies["dry"]; ok {
		t.Fatalf("low rated review must not be counted: %v", res.AttributeFrequencies)
	}
	if res.Mode != ModeAttributes {
		t.Fatalf("unexpected mode %q", res.Mode)
	}
}

func TestMatchNoCommonAttribute(t *testing.T) {
	m := NewMatcher(MatcherConfig{})

	res := m.Match(oilyReviews(), skinProfile("Combination"))

	if res.FinalPercentage != 0 {
		t.Fatalf("expected 0, got %d", res.FinalPercentage)
	}
	if !reflect.DeepEqual(res.AttributePercentages, map[string]int{"combination": 0}) {
		t.Fatalf("unexpected attribute percentages: %v", res.AttributePercentages)
	}
}

func TestMatchWhitespaceInsensitive(t *testing.T) {
	m := NewMatcher(MatcherConfig{})
	reviews := []Review{
		reviewWith(5, "Dry Skin"),
		reviewWith(4, "Dry Skin"),
	}

	res := m.Match(reviews, skinProfile("DrySkin"))

	if res.FinalPercentage != 100 {
		t.Fatalf("expected 100, got %d", res.FinalPercentage)
	}
	// no subtag spelled "dry skin" exists in the profile, so the match key is used
	if res.AttributePercentages["dry skin"] != 100 {
		t.Fatalf("unexpected attribute percentages: %v", res.AttributePercentages)
	}
}

func TestMatchPrefersWeighted(t *testing.T) {
	m := NewMatcher(MatcherConfig{})
	reviews := []Review{
		reviewWith(5, "Oily", "Sensitive"),
		reviewWith(5, "Oily", "Sensitive"),
		reviewWith(4, "Oily", "Normal"),
	}

	res := m.Match(reviews, skinProfile("Oily", "Normal"))

	if res.SimplePercentage != 50 {
		t.Fatalf("expected simple 50, got %d", res.SimplePercentage)
	}
	if res.WeightedPercentage != 60 {
		t.Fatalf("expected weighted 60, got %d", res.WeightedPercentage)
	}
	if res.FinalPercentage != 60 {
		t.Fatalf("expected final 60, got %d", res.FinalPercentage)
	}
	expected := map[string]int{"Oily": 60, "normal": 0}
	if !reflect.DeepEqual(res.AttributePercentages, expected) {
		t.Fatalf("unexpected attribute percentages: %v", res.AttributePercentages)
	}
	if res.SignificantAttributes[0].Name != "oily" || res.SignificantAttributes[1].Name != "sensitive" {
		t.Fatalf("significant attributes must be sorted by frequency: %v", res.SignificantAttributes)
	}
}

func TestMatchKeepsDuplicatesAndClamps(t *testing.T) {
	m := NewMatcher(MatcherConfig{})
	profile := Profile{
		{Name: "Skin Type", Subtags: []Subtag{{Name: "Oily"}}},
		{Name: "Face Concern", Subtags: []Subtag{{Name: "oily"}}},
	}

	res := m.Match(oilyReviews(), profile)

	if !reflect.DeepEqual(res.UserAttributes, []string{"oily", "oily"}) {
		t.Fatalf("duplicates must be kept: %v", res.UserAttributes)
	}
	if res.FinalPercentage != 100 {
		t.Fatalf("expected clamped 100, got %d", res.FinalPercentage)
	}
}

func TestMatchNoSignificantAttributes(t *testing.T) {
	m := NewMatcher(MatcherConfig{})
	reviews := []Review{
		reviewWith(5, "Oily"),
		reviewWith(5, "Dry"),
		reviewWith(5, "Normal"),
	}

	res := m.Match(reviews, skinProfile("Oily", "Dry", "Normal"))

	if res.FinalPercentage != 0 {
		t.Fatalf("expected 0 without significant attributes, got %d", res.FinalPercentage)
	}
	if len(res.SignificantAttributes) != 0 {
		t.Fatalf("expected no significant attributes, got %v", res.SignificantAttributes)
	}
}

func TestMatchEmptyInputs(t *testing.T) {
	m := NewMatcher(MatcherConfig{})

	tests := []struct {
		name    string
		reviews []Review
		profile Profile
		message string
	}{
		{name: "nil reviews", reviews: nil, profile: skinProfile("Oily"), message: MessageNoReviews},
		{name: "empty reviews and profile", reviews: []Review{}, profile: nil, message: MessageNoReviews},
		{name: "nil profile", reviews: oilyReviews(), profile: nil, message: MessageNoProfile},
		{name: "categories without subtags", reviews: oilyReviews(), profile: Profile{{Name: "Skin Type"}}, message: MessageNoProfile},
		{name: "blank subtags", reviews: oilyReviews(), profile: skinProfile("  "), message: MessageNoProfile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := m.Match(tt.reviews, tt.profile)
			if res.FinalPercentage != 0 {
				t.Fatalf("expected 0, got %d", res.FinalPercentage)
			}
			if res.Message != tt.message {
				t.Fatalf("expected message %q, got %q", tt.message, res.Message)
			}
			if res.AttributePercentages == nil || len(res.AttributePercentages) != 0 {
				t.Fatalf("expected empty attribute percentages, got %v", res.AttributePercentages)
			}
		})
	}
}

func TestMatchResultJSONShape(t *testing.T) {
	m := NewMatcher(MatcherConfig{})

	results := map[string]*MatchResult{
		"no reviews":       m.Match(nil, skinProfile("Oily")),
		"no profile":       m.Match(oilyReviews(), nil),
		"ratings":          RatingsMatch([]Review{{Rating: 4}}),
		"ratings default":  RatingsMatch(nil),
		"attributes match": m.Match(oilyReviews(), skinProfile("Oily")),
	}

	for name, res := range results {
		t.Run(name, func(t *testing.T) {
			raw, err := json.Marshal(res)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}

			var body map[string]any
			if err := json.Unmarshal(raw, &body); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}

			for _, key := range []string{
				"matching_percentage",
				"attribute_percentages",
				"attribute_frequencies",
				"significant_attributes",
				"user_attributes",
				"simple_percentage",
				"weighted_percentage",
				"mode",
			} {
				v, ok := body[key]
				if !ok || v == nil {
					t.Fatalf("expected %q to be present and non-null in %s", key, raw)
				}
			}
		})
	}
}

func TestMatchIsIdempotent(t *testing.T) {
	m := NewMatcher(MatcherConfig{})
	reviews := []Review{
		reviewWith(5, "Oily", "Sensitive", "Acne"),
		reviewWith(5, "Oily", "Sensitive"),
		reviewWith(4, "Oily", "Acne"),
		reviewWith(2, "Dry"),
	}
	profile := skinProfile("Sensitive", "Acne Prone", "Dry")

	first := m.Match(reviews, profile)
	second := m.Match(reviews, profile)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results:\n%+v\n%+v", first, second)
	}
	if first.FinalPercentage < 0 || first.FinalPercentage > 100 {
		t.Fatalf("percentage out of range: %d", first.FinalPercentage)
	}
}

func TestMatcherConfigThresholds(t *testing.T) {
	m := NewMatcher(MatcherConfig{MinRating: 3, SignificanceThreshold: 2})

	reviews := []Review{
		reviewWith(3, "Dry"),
		reviewWith(3, "Dry"),
		reviewWith(5, "Dry"),
		reviewWith(5, "Oily"),
		reviewWith(5, "Oily"),
	}

	res := m.Match(reviews, skinProfile("Dry", "Oily"))

	expected := []SignificantAttribute{{Name: "dry", Frequency: 3}}
	if !reflect.DeepEqual(res.SignificantAttributes, expected) {
		t.Fatalf("unexpected significant attributes: %v", res.SignificantAttributes)
	}
	if res.FinalPercentage != 100 {
		t.Fatalf("expected 100, got %d", res.FinalPercentage)
	}
}

func TestPercent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		part, whole, expect int
	}{
		{part: 0, whole: 0, expect: 0},
		{part: 1, whole: 0, expect: 0},
		{part: 1, whole: 3, expect: 33},
		{part: 2, whole: 3, expect: 67},
		{part: 1, whole: 8, expect: 13},
	}

	for _, tt := range tests {
		if got := percent(tt.part, tt.whole); got != tt.expect {
			t.Fatalf("percent(%d, %d): expected %d, got %d", tt.part, tt.whole, tt.expect, got)
		}
	}
}
