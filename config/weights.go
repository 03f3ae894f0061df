package config

// maxMultiplier caps every category weight so that embedding similarity
// stays the dominant ranking signal.
const maxMultiplier = 1.4

// WeightsConfig holds the explicit category weight tables. Keys are
// social mode / intensity, then POI category. Missing entries default to a
// neutral 1.0 multiplier. Tables are loaded once at process start and are
// immutable afterwards.
type WeightsConfig struct {
	Social    map[string]map[string]float64 `json:"social" yaml:"social"`
	Intensity map[string]map[string]float64 `json:"intensity" yaml:"intensity"`
}

// SocialMultiplier returns the bounded multiplier for a category under a
// social mode.
func (w *WeightsConfig) SocialMultiplier(mode, category string) float64 {
	return lookupMultiplier(w.Social, mode, category)
}

// IntensityMultiplier returns the bounded multiplier for a category under
// an intensity level.
func (w *WeightsConfig) IntensityMultiplier(level, category string) float64 {
	return lookupMultiplier(w.Intensity, level, category)
}

func lookupMultiplier(table map[string]map[string]float64, key, category string) float64 {
	if table == nil {
		return 1.0
	}

	categories, ok := table[key]
	if !ok {
		return 1.0
	}

	multiplier, ok := categories[category]
	if !ok || multiplier <= 0 {
		return 1.0
	}

	if multiplier > maxMultiplier {
		return maxMultiplier
	}

	return multiplier
}

// withDefaults merges the built-in tables under any user-supplied
// overrides, so a partial YAML table doesn't wipe the rest.
func (w *WeightsConfig) withDefaults() *WeightsConfig {
	defaults := defaultWeights()
	if w == nil {
		return defaults
	}

	w.Social = mergeTables(defaults.Social, w.Social)
	w.Intensity = mergeTables(defaults.Intensity, w.Intensity)

	return w
}

func mergeTables(base, override map[string]map[string]float64) map[string]map[string]float64 {
	merged := make(map[string]map[string]float64, len(base))
	for key, categories := range base {
		row := make(map[string]float64, len(categories))
		for category, multiplier := range categories {
			row[category] = multiplier
		}
		merged[key] = row
	}

	for key, categories := range override {
		row, ok := merged[key]
		if !ok {
			row = make(map[string]float64, len(categories))
			merged[key] = row
		}
		for category, multiplier := range categories {
			row[category] = multiplier
		}
	}

	return merged
}

// defaultWeights returns the built-in category weight tables.
func defaultWeights() *WeightsConfig {
	return &WeightsConfig{
		Social: map[string]map[string]float64{
			"solo": {
				"museum":   1.2,
				"gallery":  1.2,
				"bookshop": 1.15,
				"park":     1.1,
				"bar":      0.85,
			},
			"friends": {
				"bar":         1.3,
				"market":      1.2,
				"street_food": 1.2,
				"landmark":    1.05,
				"museum":      0.9,
			},
			"family": {
				"park":     1.3,
				"zoo":      1.25,
				"museum":   1.1,
				"landmark": 1.1,
				"bar":      0.5,
			},
		},
		Intensity: map[string]map[string]float64{
			"relaxed": {
				"park":      1.2,
				"cafe":      1.2,
				"garden":    1.15,
				"viewpoint": 1.1,
				"market":    0.9,
			},
			"medium": {},
			"intense": {
				"landmark":  1.2,
				"market":    1.15,
				"viewpoint": 1.15,
				"museum":    0.9,
				"cafe":      0.85,
			},
		},
	}
}
