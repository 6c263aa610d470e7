package domain

// StylePreset is a fixed catalog entry biasing the look of generated
// headshots. Presets are static; they are never created or mutated at runtime.
type StylePreset struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Fragment string `json:"-"`
}

var stylePresets = []StylePreset{
	{ID: "professional", Label: "Professional", Fragment: "a classic corporate look with a tailored suit, neutral studio background, and soft even lighting"},
	{ID: "business-casual", Label: "Business Casual", Fragment: "a relaxed business-casual outfit, light blazer over an open collar, bright modern office backdrop"},
	{ID: "executive", Label: "Executive", Fragment: "a premium executive portrait, dark formal attire, dramatic rim lighting against a deep charcoal background"},
	{ID: "creative", Label: "Creative", Fragment: "a contemporary creative-industry look, smart streetwear, colorful out-of-focus urban background"},
	{ID: "outdoor", Label: "Outdoor", Fragment: "natural golden-hour lighting outdoors, softly blurred greenery behind the subject"},
	{ID: "monochrome", Label: "Black & White", Fragment: "a timeless black-and-white portrait with high contrast and fine film grain"},
}

// StylePresets returns the full catalog in display order.
func StylePresets() []StylePreset {
	out := make([]StylePreset, len(stylePresets))
	copy(out, stylePresets)
	return out
}

// StyleByID looks up a preset by identifier.
func StyleByID(id string) (StylePreset, bool) {
	for _, s := range stylePresets {
		if s.ID == id {
			return s, true
		}
	}
	return StylePreset{}, false
}
