package beauty

import "math"

const (
	// DefaultRatingsPercentage is reported when there is no review to average.
	DefaultRatingsPercentage = 70

	MessageRatingsFallback = "no beauty profile available, derived from star ratings"

	maxStars = 5.0
)

// RatingsMatch derives a percentage from average star ratings alone. It is
// used when no attribute data about the user exists. Dimensions nobody rated
// are left out of the breakdown.
func RatingsMatch(reviews []Review) *MatchResult {
	if len(reviews) == 0 {
		result := emptyResult(MessageNoReviews, ModeRatings)
		result.FinalPercentage = DefaultRatingsPercentage
		return result
	}

	overall := 0.0
	sums := make(map[string]float64, len(Dimensions))
	counts := make(map[string]int, len(Dimensions))

	for _, review := range reviews {
		overall += review.Rating
		for _, dim := range Dimensions {
			if star := review.Stars[dim]; star > 0 {
				sums[dim] += star
				counts[dim]++
			}
		}
	}

	breakdown := make(map[string]int, len(counts))
	for _, dim := range Dimensions {
		if counts[dim] == 0 {
			continue
		}
		breakdown[dim] = scaleStars(sums[dim] / float64(counts[dim]))
	}

	final := scaleStars(overall / float64(len(reviews)))

	result := emptyResult(MessageRatingsFallback, ModeRatings)
	result.FinalPercentage = final
	result.AttributePercentages = breakdown
	result.SimplePercentage = final
	return result
}

// scaleStars maps an average on the 0-5 scale linearly to 0-100.
func scaleStars(avg float64) int {
	if math.IsNaN(avg) {
		return 0
	}
	return clampPercentage(int(math.Round(100 * avg / maxStars)))
}
