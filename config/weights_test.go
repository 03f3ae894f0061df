package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeightsConfig_MissingCategoryDefaultsToNeutral(t *testing.T) {
	weights := (&WeightsConfig{}).withDefaults()

	assert.Equal(t, 1.0, weights.SocialMultiplier("friends", "no_such_category"))
	assert.Equal(t, 1.0, weights.IntensityMultiplier("medium", "museum"))
	assert.Equal(t, 1.0, weights.SocialMultiplier("unknown_mode", "bar"))
}

func TestWeightsConfig_MultiplierIsBounded(t *testing.T) {
	weights := &WeightsConfig{
		Social: map[string]map[string]float64{
			"friends": {"bar": 9.0},
		},
	}

	assert.Equal(t, maxMultiplier, weights.SocialMultiplier("friends", "bar"))
}

func TestWeightsConfig_DefaultTables(t *testing.T) {
	weights := (&WeightsConfig{}).withDefaults()

	assert.Equal(t, 1.3, weights.SocialMultiplier("friends", "bar"))
	assert.Equal(t, 1.3, weights.SocialMultiplier("family", "park"))
	assert.Equal(t, 1.2, weights.IntensityMultiplier("relaxed", "cafe"))
}

func TestWeightsConfig_OverridesMergeOverDefaults(t *testing.T) {
	weights := (&WeightsConfig{
		Social: map[string]map[string]float64{
			"friends": {"bar": 1.1},
		},
	}).withDefaults()

	// Overridden entry wins, untouched defaults survive.
	assert.Equal(t, 1.1, weights.SocialMultiplier("friends", "bar"))
	assert.Equal(t, 1.2, weights.SocialMultiplier("friends", "market"))
	assert.Equal(t, 1.3, weights.SocialMultiplier("family", "park"))
}

func TestWeightsConfig_NonPositiveMultiplierIgnored(t *testing.T) {
	weights := &WeightsConfig{
		Intensity: map[string]map[string]float64{
			"relaxed": {"park": -2.0},
		},
	}

	assert.Equal(t, 1.0, weights.IntensityMultiplier("relaxed", "park"))
}
