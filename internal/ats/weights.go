package ats

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const weightTolerance = 1e-9

// Weights are the composite weights of the five sub-scores. They must sum to 1.0.
type Weights struct {
	Skill      float64 `json:"skill"`
	Keyword    float64 `json:"keyword"`
	Experience float64 `json:"experience"`
	Education  float64 `json:"education"`
	Format     float64 `json:"format"`
}

// DefaultWeights returns the standard weighting.
func DefaultWeights() Weights {
	return Weights{
		Skill:      0.40,
		Keyword:    0.25,
		Experience: 0.20,
		Education:  0.10,
		Format:     0.05,
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Skill + w.Keyword + w.Experience + w.Education + w.Format
}

// Validate rejects negative weights and weights that do not sum to 1.0.
func (w Weights) Validate() error {
	named := []struct {
		name  string
		value float64
	}{
		{"skill", w.Skill},
		{"keyword", w.Keyword},
		{"experience", w.Experience},
		{"education", w.Education},
		{"format", w.Format},
	}
	for _, n := range named {
		if math.IsNaN(n.value) || n.value < 0 {
			return fmt.Errorf("ats weights: %s must be a non-negative number, got %v", n.name, n.value)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1.0) > weightTolerance {
		return fmt.Errorf("ats weights: must sum to 1.0, got %.6f", sum)
	}
	return nil
}

// ParseWeights reads "skill=0.4,keyword=0.25,..." on top of DefaultWeights.
// An empty string yields DefaultWeights. The result is validated.
func ParseWeights(raw string) (Weights, error) {
	w := DefaultWeights()
	if strings.TrimSpace(raw) == "" {
		return w, nil
	}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return Weights{}, fmt.Errorf("ats weights: malformed entry %q", part)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(kv[1]), 64)
		if err != nil {
			return Weights{}, fmt.Errorf("ats weights: %s: %w", kv[0], err)
		}
		switch strings.ToLower(strings.TrimSpace(kv[0])) {
		case "skill":
			w.Skill = value
		case "keyword":
			w.Keyword = value
		case "experience":
			w.Experience = value
		case "education":
			w.Education = value
		case "format":
			w.Format = value
		default:
			return Weights{}, fmt.Errorf("ats weights: unknown component %q", kv[0])
		}
	}
	if err := w.Validate(); err != nil {
		return Weights{}, err
	}
	return w, nil
}
