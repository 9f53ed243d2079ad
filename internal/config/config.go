// Package config provides typed configuration for the generator and the
// meta-analyzer, with defaults in code and optional YAML/JSON file overlays.
package config

import (
	"github.com/go-playground/validator/v10"

	pkgerrors "p3-backend/pkg/errors"
)

// Config is the root configuration for the framework core.
type Config struct {
	Generator GeneratorConfig `yaml:"generator" json:"generator"`
	Analysis  AnalysisConfig  `yaml:"analysis" json:"analysis"`
}

// GeneratorConfig tunes synthetic data generation.
type GeneratorConfig struct {
	// StrengthMin and StrengthMax bound the uniform strength distribution
	// for intra-domain relationships.
	StrengthMin float64 `yaml:"strength_min" json:"strength_min" validate:"gte=0,lte=1"`
	StrengthMax float64 `yaml:"strength_max" json:"strength_max" validate:"gte=0,lte=1,gtefield=StrengthMin"`

	// ConfidenceFloor is the lower bound of the uniform confidence
	// distribution. Kept well above zero so generated links never carry a
	// spurious zero confidence.
	ConfidenceFloor float64 `yaml:"confidence_floor" json:"confidence_floor" validate:"gte=0,lte=1"`

	// MaxResampleAttempts bounds re-sampling when all relationship slots
	// come up empty.
	MaxResampleAttempts int `yaml:"max_resample_attempts" json:"max_resample_attempts" validate:"gte=0,lte=10"`

	// IncludeAllPatterns forces every slot to be populated when sampling
	// intra-domain relationships.
	IncludeAllPatterns bool `yaml:"include_all_patterns" json:"include_all_patterns"`
}

// AnalysisConfig tunes the meta-analyzer's report shaping.
type AnalysisConfig struct {
	// TopConnections is how many of the strongest cross-domain
	// relationships the cross-domain analysis reports individually.
	TopConnections int `yaml:"top_connections" json:"top_connections" validate:"gte=1"`

	// MinSharedDomains is the minimum number of domains a pattern name must
	// appear in to count as a common pattern.
	MinSharedDomains int `yaml:"min_shared_domains" json:"min_shared_domains" validate:"gte=2"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Generator: DefaultGeneratorConfig(),
		Analysis:  DefaultAnalysisConfig(),
	}
}

// DefaultGeneratorConfig returns balanced generation defaults.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		StrengthMin:         0.0,
		StrengthMax:         1.0,
		ConfidenceFloor:     0.5,
		MaxResampleAttempts: 3,
		IncludeAllPatterns:  false,
	}
}

// DefaultAnalysisConfig returns the default report shaping.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		TopConnections:   10,
		MinSharedDomains: 2,
	}
}

// Validate checks the configuration against its struct constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return pkgerrors.Wrap(err, "invalid configuration")
	}
	return nil
}
