package detect

// accommodationCatalog maps condition keys to accommodation suggestions.
// The keys are the short condition names clients pass around, not the full
// detector labels.
var accommodationCatalog = map[string][]string{
	"Dyslexia": {
		"Use dyslexia-friendly fonts and generous line spacing",
		"Offer text-to-speech for all reading material",
		"Break reading into short chunks with comprehension checks",
	},
	"ADHD": {
		"Split lessons into short, timed activity blocks",
		"Use visual schedules and progress indicators",
		"Allow movement breaks between activities",
	},
	"Dyscalculia": {
		"Pair number work with visual and physical representations",
		"Allow calculators and reference charts during practice",
		"Teach one operation at a time with worked examples",
	},
}

// labelKeys maps full detector labels to their catalog keys.
var labelKeys = map[string]string{
	ConditionDyslexia: "Dyslexia",
	ConditionADHD:     "ADHD",
}

// RecommendationsForLabel resolves a full detector label (or a bare catalog
// key) to accommodation suggestions.
func RecommendationsForLabel(label string) []string {
	if key, ok := labelKeys[label]; ok {
		return Recommendations(key)
	}
	return Recommendations(label)
}

// Recommendations returns accommodation suggestions for a condition key.
// Unknown conditions yield an empty list, never an error.
func Recommendations(condition string) []string {
	recs, ok := accommodationCatalog[condition]
	if !ok {
		return nil
	}
	out := make([]string, len(recs))
	copy(out, recs)
	return out
}
