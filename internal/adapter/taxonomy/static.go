package taxonomy

import (
	"context"

	"github.com/querent-labs/horary-display/internal/domain"
)

// StaticResolver serves the built-in category contracts without any network
// dependency. It is the default when no taxonomy service is configured, and
// the fallback table mirrors what the taxonomy service itself seeds.
type StaticResolver struct{}

// NewStaticResolver creates a resolver over the built-in contract table.
func NewStaticResolver() *StaticResolver {
	return &StaticResolver{}
}

func (s *StaticResolver) Source() string { return "static" }

// Resolve looks up the contract for a category. Unknown or empty categories
// fall back to the general contract.
func (s *StaticResolver) Resolve(_ context.Context, category string) (domain.Contract, error) {
	if c, ok := categoryContracts[category]; ok {
		return c, nil
	}
	c := categoryContracts["general"]
	c.Category = category
	if category == "" {
		c.Category = "general"
	}
	return c, nil
}

// categoryContracts maps question categories to the houses under judgment
// and the natural significators consulted alongside the house rulers. The
// first house is always the querent's; the last is the quesited's.
var categoryContracts = map[string]domain.Contract{
	"general":     {Category: "general", Houses: []int{1, 7}},
	"lost_object": {Category: "lost_object", Houses: []int{1, 2}},
	"marriage": {
		Category: "marriage",
		Houses:   []int{1, 7},
		Significators: map[string]string{
			"venus": "natural significator of love",
			"mars":  "natural significator of men",
		},
	},
	"pregnancy": {Category: "pregnancy", Houses: []int{1, 5}},
	"children":  {Category: "children", Houses: []int{1, 5}},
	"travel": {
		Category: "travel",
		Houses:   []int{1, 3, 6},
		Significators: map[string]string{
			"mercury": "short journeys",
			"jupiter": "long journeys and foreign travel",
		},
	},
	"gambling": {
		Category: "gambling",
		Houses:   []int{1, 5},
		Significators: map[string]string{
			"jupiter": "natural significator of fortune and luck",
			"venus":   "natural significator of pleasure and enjoyment",
		},
	},
	"funding": {
		Category: "funding",
		Houses:   []int{1, 2, 8},
		Significators: map[string]string{
			"jupiter": "natural significator of abundance and investors",
			"venus":   "natural significator of attraction and partnerships",
			"mercury": "natural significator of contracts and negotiations",
		},
	},
	"money": {
		Category: "money",
		Houses:   []int{1, 2},
		Significators: map[string]string{
			"jupiter": "greater fortune",
			"venus":   "lesser fortune",
		},
	},
	"career": {
		Category: "career",
		Houses:   []int{1, 10},
		Significators: map[string]string{
			"sun":     "honor and reputation",
			"jupiter": "success",
		},
	},
	"health": {
		Category: "health",
		Houses:   []int{1, 6},
		Significators: map[string]string{
			"mars":   "fever and inflammation",
			"saturn": "chronic illness",
		},
	},
	"lawsuit":      {Category: "lawsuit", Houses: []int{1, 7}},
	"relationship": {Category: "relationship", Houses: []int{1, 7}},
	"education": {
		Category: "education",
		Houses:   []int{1, 10, 9},
		Significators: map[string]string{
			"mercury": "natural significator of learning and knowledge",
			"jupiter": "wisdom and higher learning",
		},
		Examiner: "sun",
	},
	"parent":       {Category: "parent", Houses: []int{1, 4}},
	"sibling":      {Category: "sibling", Houses: []int{1, 3}},
	"friend_enemy": {Category: "friend_enemy", Houses: []int{1, 11}},
	"property":     {Category: "property", Houses: []int{1, 4}},
	"death":        {Category: "death", Houses: []int{1, 8}},
	"spiritual":    {Category: "spiritual", Houses: []int{1, 9}},
}
