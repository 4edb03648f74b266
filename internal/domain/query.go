package domain

// Category is one of the fixed beauty-product categories accepted by the API
type Category string

const (
	CategoryParfums     Category = "Parfums"
	CategoryMaquillage  Category = "Maquillage"
	CategorySoins       Category = "Soins"
	CategoryCheveux     Category = "Cheveux"
	CategoryCorps       Category = "Corps"
	CategoryAccessoires Category = "Accessoires"
)

// Categories lists every accepted category, in display order
var Categories = []Category{
	CategoryParfums, CategoryMaquillage, CategorySoins,
	CategoryCheveux, CategoryCorps, CategoryAccessoires,
}

// ParseCategory validates a raw category string against the fixed enum
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// GenerationRequest is the immutable pipeline input: a free-text (possibly
// misspelled) product/brand pair plus its category. Never mutated after entry.
type GenerationRequest struct {
	ProductName string   `json:"productName" binding:"required"`
	Brand       string   `json:"brand" binding:"required"`
	Category    Category `json:"category" binding:"required"`
}

// NormalizedQuery is the canonical comparable form of a GenerationRequest:
// lowercased, trimmed, accent-folded strings plus pre-split tokens and a
// best-effort language tag. Owned by the normalizer, read-only downstream.
type NormalizedQuery struct {
	ProductName   string   `json:"productName"`
	Brand         string   `json:"brand"`
	Language      string   `json:"language"` // "fr" or "en", advisory only
	ProductTokens []string `json:"productTokens"`
	BrandTokens   []string `json:"brandTokens"`
}
