package beauty

// PayloadKind tells which upstream shape a beauty payload was read from.
type PayloadKind int

const (
	// PayloadNone means the upstream object carried no beauty data.
	PayloadNone PayloadKind = iota
	// PayloadLegacy is the flat shape: skin_types[] and hair_types[] of {name}.
	PayloadLegacy
	// PayloadCategories is the nested shape: beauty[] of {name, subtags[]}.
	PayloadCategories
)

const (
	LegacySkinCategory = "skin_types"
	LegacyHairCategory = "hair_types"
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadLegacy:
		return "legacy"
	case PayloadCategories:
		return "categories"
	default:
		return "none"
	}
}

// Payload is the beauty data of a user as returned upstream. Only the fields
// belonging to Kind are meaningful.
type Payload struct {
	Kind PayloadKind

	// PayloadLegacy
	SkinTypes []Subtag
	HairTypes []Subtag

	// PayloadCategories
	Categories []Category
}

// LegacyPayload builds a payload of the flat skin/hair shape.
func LegacyPayload(skin, hair []Subtag) Payload {
	return Payload{Kind: PayloadLegacy, SkinTypes: skin, HairTypes: hair}
}

// CategoriesPayload builds a payload of the nested beauty[].subtags[] shape.
func CategoriesPayload(categories []Category) Payload {
	return Payload{Kind: PayloadCategories, Categories: categories}
}

// Profile adapts any payload kind to a Profile.
func (p Payload) Profile() Profile {
	switch p.Kind {
	case PayloadLegacy:
		profile := make(Profile, 0, 2)
		if len(p.SkinTypes) > 0 {
			profile = append(profile, Category{Name: LegacySkinCategory, Subtags: p.SkinTypes})
		}
		if len(p.HairTypes) > 0 {
			profile = append(profile, Category{Name: LegacyHairCategory, Subtags: p.HairTypes})
		}
		return profile
	case PayloadCategories:
		return Profile(p.Categories)
	default:
		return Profile{}
	}
}

// Attributes flattens the payload regardless of its kind.
func (p Payload) Attributes() []Attribute {
	return p.Profile().Attributes()
}
