package beauty

import "time"

// Star rating dimensions reported by the review API besides the overall rating.
const (
	DimensionDurability    = "durability"
	DimensionEffectiveness = "effectiveness"
	DimensionEficiency     = "eficiency"
	DimensionLongWear      = "long_wear"
	DimensionPackaging     = "packaging"
	DimensionPigmentation  = "pigmentation"
	DimensionScent         = "scent"
	DimensionTexture       = "texture"
	DimensionValueForMoney = "value_for_money"
)

// Dimensions lists every star dimension in a stable order.
var Dimensions = []string{
	DimensionDurability,
	DimensionEffectiveness,
	DimensionEficiency,
	DimensionLongWear,
	DimensionPackaging,
	DimensionPigmentation,
	DimensionScent,
	DimensionTexture,
	DimensionValueForMoney,
}

// Review is a single product review with the reviewer's beauty data.
type Review struct {
	ID          int                `json:"id"`
	User        string             `json:"user"`
	Rating      float64            `json:"rating"`
	Comment     string             `json:"comment"`
	Date        time.Time          `json:"date"`
	Stars       map[string]float64 `json:"stars,omitempty"`
	Repurchased bool               `json:"repurchased"`
	Beauty      Payload            `json:"-"`
}

// ReportedAttributes returns the reviewer's attributes, or an empty list.
func (r Review) ReportedAttributes() []Attribute {
	return r.Beauty.Attributes()
}

// HighlyRated reports whether the review rating reaches the threshold.
func (r Review) HighlyRated(threshold float64) bool {
	return r.Rating >= threshold
}
