package entity

// PriceAnalysis is the structured object the image-analysis model is asked to
// embed in its reply.
type PriceAnalysis struct {
	ItemName       string     `json:"itemName"`
	Category       string     `json:"category"`
	ConditionScore int        `json:"conditionScore"`
	Demand         string     `json:"demand"`
	PriceRange     PriceRange `json:"priceRange"`
	Insights       []string   `json:"insights"`
	Reasoning      string     `json:"reasoning"`
}

type PriceRange struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency"`
}
