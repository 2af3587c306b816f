package beauty

import (
	"math"
	"sort"
	"strings"
)

const (
	defaultMinRating             = 4
	defaultSignificanceThreshold = 1

	MessageNoReviews = "no reviews"
	MessageNoProfile = "no beauty profile"
)

// Mode names the policy that produced a MatchResult.
type Mode string

const (
	ModeAttributes Mode = "attributes"
	ModeRatings    Mode = "ratings"
)

// SignificantAttribute is an attribute seen often enough among highly rated
// reviews to carry weight.
type SignificantAttribute struct {
	Name      string `json:"name"`
	Frequency int    `json:"frequency"`
}

// MatchResult is the outcome of scoring a product against a user.
type MatchResult struct {
	FinalPercentage       int                    `json:"matching_percentage"`
	AttributePercentages  map[string]int         `json:"attribute_percentages"`
	AttributeFrequencies  map[string]int         `json:"attribute_frequencies"`
	SignificantAttributes []SignificantAttribute `json:"significant_attributes"`
	UserAttributes        []string               `json:"user_attributes"`
	SimplePercentage      int                    `json:"simple_percentage"`
	WeightedPercentage    int                    `json:"weighted_percentage"`
	Message               string                 `json:"message,omitempty"`
	Mode                  Mode                   `json:"mode"`
}

// MatcherConfig tunes the attribute matcher. Zero values fall back to defaults.
type MatcherConfig struct {
	// MinRating is the lowest rating counted as highly rated.
	MinRating float64 `mapstructure:"min-rating"`
	// SignificanceThreshold is the frequency an attribute must exceed to be significant.
	SignificanceThreshold int `mapstructure:"significance-threshold"`
}

// Matcher scores how well a user's beauty profile fits the reviewers who
// rated a product highly. It holds no state between calls.
type Matcher struct {
	minRating float64
	threshold int
}

func NewMatcher(cfg MatcherConfig) *Matcher {
	m := &Matcher{
		minRating: cfg.MinRating,
		threshold: cfg.SignificanceThreshold,
	}
	if m.minRating <= 0 {
		m.minRating = defaultMinRating
	}
	if m.threshold < 1 {
		m.threshold = defaultSignificanceThreshold
	}
	return m
}

// Match computes the matching percentage of profile against reviews.
func (m *Matcher) Match(reviews []Review, profile Profile) *MatchResult {
	if len(reviews) == 0 {
		return noSignal(MessageNoReviews)
	}
	if profile.IsEmpty() {
		return noSignal(MessageNoProfile)
	}

	frequencies := m.frequencies(reviews)
	significant := m.significant(frequencies)

	total := 0
	exact := make(map[string]int, len(significant))
	normalized := make(map[string]string, len(significant))
	for _, attr := range significant {
		total += attr.Frequency
		exact[attr.Name] = attr.Frequency
		// significant is sorted, so the most frequent spelling wins
		if _, ok := normalized[NormalizeAttribute(attr.Name)]; !ok {
			normalized[NormalizeAttribute(attr.Name)] = attr.Name
		}
	}

	userAttrs := profile.LowerNames()
	if userAttrs == nil {
		userAttrs = []string{}
	}
	percentages := make(map[string]int, len(userAttrs))
	matched, matchedWeight := 0, 0

	for _, name := range userAttrs {
		key, ok := name, false
		if _, ok = exact[name]; !ok {
			key, ok = normalized[NormalizeAttribute(name)]
		}
		if !ok {
			percentages[name] = 0
			continue
		}

		weight := exact[key]
		matched++
		matchedWeight += weight

		label := key
		if original, found := profile.OriginalName(key); found {
			label = original
		}
		percentages[label] = percent(weight, total)
	}

	simple := percent(matched, len(userAttrs))
	weighted := percent(matchedWeight, total)

	final := weighted
	if final == 0 {
		final = simple
	}

	return &MatchResult{
		FinalPercentage:       clampPercentage(final),
		AttributePercentages:  percentages,
		AttributeFrequencies:  frequencies,
		SignificantAttributes: significant,
		UserAttributes:        userAttrs,
		SimplePercentage:      clampPercentage(simple),
		WeightedPercentage:    clampPercentage(weighted),
		Mode:                  ModeAttributes,
	}
}

func (m *Matcher) frequencies(reviews []Review) map[string]int {
	frequencies := make(map[string]int)
	for _, review := range reviews {
		if !review.HighlyRated(m.minRating) {
			continue
		}
		for _, attr := range review.ReportedAttributes() {
			frequencies[strings.ToLower(attr.Name)]++
		}
	}
	return frequencies
}

func (m *Matcher) significant(frequencies map[string]int) []SignificantAttribute {
	significant := make([]SignificantAttribute, 0, len(frequencies))
	for name, count := range frequencies {
		if count > m.threshold {
			significant = append(significant, SignificantAttribute{Name: name, Frequency: count})
		}
	}

	sort.Slice(significant, func(i, j int) bool {
		if significant[i].Frequency != significant[j].Frequency {
			return significant[i].Frequency > significant[j].Frequency
		}
		return significant[i].Name < significant[j].Name
	})

	return significant
}

func noSignal(message string) *MatchResult {
	return emptyResult(message, ModeAttributes)
}

// emptyResult has every collection allocated so the JSON shape never changes.
func emptyResult(message string, mode Mode) *MatchResult {
	return &MatchResult{
		AttributePercentages:  map[string]int{},
		AttributeFrequencies:  map[string]int{},
		SignificantAttributes: []SignificantAttribute{},
		UserAttributes:        []string{},
		Message:               message,
		Mode:                  mode,
	}
}

// percent returns round(100*part/whole), or 0 when whole is zero.
func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(whole)))
}

func clampPercentage(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
