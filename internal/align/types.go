// Package align is the alignment core of spec.md §4.F: it aligns
// sentence-segmented source and target text, synchronizes cursor offsets
// across language panes, scores alignment quality, and learns per-pair
// scorer weights from user corrections.
package align

import "github.com/tradocflow/tradocflow/internal/langcode"

// Method records how a SentenceAlignment was produced.
type Method string

const (
	MethodPositionBased  Method = "position_based"
	MethodLengthRatio    Method = "length_ratio"
	MethodStructural     Method = "structural"
	MethodUserValidated  Method = "user_validated"
)

// ValidationStatus tracks whether a human has reviewed an alignment.
type ValidationStatus string

const (
	ValidationUnreviewed ValidationStatus = "unreviewed"
	ValidationAccepted   ValidationStatus = "accepted"
	ValidationRejected   ValidationStatus = "rejected"
)

// SentenceAlignment is one aligned source/target sentence pair.
type SentenceAlignment struct {
	ID               string
	SourceSentence   string
	TargetSentence   string
	SourceLanguage   langcode.Code
	TargetLanguage   langcode.Code
	SourcePosition   int
	TargetPosition   int
	Confidence       float64
	Method           Method
	ValidationStatus ValidationStatus
}

// QualityIndicators is the output of calculate_quality_indicators.
type QualityIndicators struct {
	Overall                   float64
	PositionConsistency       float64
	LengthRatioConsistency    float64
	StructuralCoherence       float64
	UserValidationRate        float64
	ProblemAreas              []int // indices into the alignment slice
}

// Weights are the scorer's per-language-pair tunable weights, adjusted by
// learn_from_correction.
type Weights struct {
	Position  float64
	Length    float64
	Structure float64
}

// DefaultWeights matches spec.md's scorer: position, length-ratio, and
// structure contribute roughly equally before any learning has happened.
func DefaultWeights() Weights {
	return Weights{Position: 0.4, Length: 0.3, Structure: 0.3}
}

// Config holds AlignmentConfig knobs from spec.md §4.F.
type Config struct {
	Weights            Weights
	ConfidenceThreshold float64
}

// DefaultConfig is a reasonable starting point: weights sum to 1 and the
// acceptance threshold sits comfortably above chance-level scores.
func DefaultConfig() Config {
	return Config{Weights: DefaultWeights(), ConfidenceThreshold: 0.5}
}
