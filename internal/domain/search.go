package domain

import (
	"encoding/json"
)

// FilterParams narrows a category listing. Nil level bounds are unset.
type FilterParams struct {
	Search   string   `json:"search,omitempty"`
	Rarities []Rarity `json:"rarities,omitempty"`
	MinLevel *int     `json:"minLevel,omitempty"`
	MaxLevel *int     `json:"maxLevel,omitempty"`
}

// IsZero reports whether no filter is set
func (f FilterParams) IsZero() bool {
	return f.Search == "" && len(f.Rarities) == 0 && f.MinLevel == nil && f.MaxLevel == nil
}

// Signature is the canonical JSON form used to key filter results
func (f FilterParams) Signature() string {
	b, err := json.Marshal(f)
	if err != nil {
		return ""
	}
	return string(b)
}

// ItemPage is one page of a category listing
type ItemPage struct {
	Items      []Item
	TotalCount int
	HasMore    bool
}
