// Package brand is the single source of truth for brand assets: identity
// copy, packaging facts, and the per-region regulatory sentences the
// compliance checker verifies against.
package brand

import (
	"encoding/json"
	"fmt"
	"os"
)

const (
	Product         = "Energy Drink"
	Name            = "Ctrl+Z Energy"
	Subtitle        = "For the dev who just lost their entire project and needs a reset."
	Tagline         = "Undo your burnout."
	Style           = "Modern tech aesthetic with neon cyberpunk vibes."
	LogoDescription = "A stylized 'Z' shaped like an undo arrow, with a lightning bolt inside."
	FontStyle       = "Adobe Clean - bold, uppercase letters"

	NetVolume        = "12 FL OZ (355mL)"
	KeyAttributes    = "180mg Caffeine (from yerba mate), 250mg L-Theanine for clarity, Electrolytes & B-Vitamins, Zero Sugar, Zero Artificial Sweeteners"
	Ingredients      = "Carbonated Water, Yerba Mate, Citric Acid, Natural Flavors, Taurine, B-Vitamins, Electrolytes"
	NutritionalFacts = "Calories: 35 Total Fat: 0g Carbohydrates: 9g Sugars: 0g Protein: 0g"
)

var regulatoryTexts = map[string]string{
	"default": "Contains caffeine. Not recommended for children or pregnant women.",
	"US":      "Contains caffeine. Not recommended for children or pregnant women.",
	"LATAM":   "Contiene cafeína. No recomendado para niños o mujeres embarazadas.",
	"Japan":   "カフェインを含みます。お子様や妊婦にはお勧めしません。",
}

// RegulatoryText returns the regulatory sentence for region, or the empty
// string when the region has no entry. Lookup is by exact key; there is no
// normalization and no implicit fallback to the default entry.
func RegulatoryText(region string) string {
	return regulatoryTexts[region]
}

// SKUBrief is the campaign input that drives the batch grid.
type SKUBrief struct {
	TargetAudience string   `json:"target_audience"`
	TargetRegions  []string `json:"target_region"`
	Flavors        []string `json:"flavors"`
	Attributes     []string `json:"attributes"`
}

// LoadSKUBrief reads and decodes the SKU brief JSON at path.
func LoadSKUBrief(path string) (SKUBrief, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SKUBrief{}, fmt.Errorf("read sku brief: %w", err)
	}
	var brief SKUBrief
	if err := json.Unmarshal(data, &brief); err != nil {
		return SKUBrief{}, fmt.Errorf("parse sku brief %s: %w", path, err)
	}
	return brief, nil
}
