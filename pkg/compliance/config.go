package compliance

// Config contains configuration for the compliance engine.
type Config struct {
	// CaseSensitive disables the default case-insensitive pattern
	// matching.
	CaseSensitive bool

	// MinConfidenceThreshold is the minimum confidence a raw match
	// needs to survive filtering. Range [0, 1], default 0.7.
	MinConfidenceThreshold float64

	// SatisfactionRatio is the fraction of a requirement's distinct
	// patterns that must match for SATISFIED status. Default 0.7.
	SatisfactionRatio float64
}

// Confidence heuristic constants. A raw match starts at the base value
// and earns bonuses from its surrounding context.
const (
	// baseConfidence is the starting score for every raw match.
	baseConfidence = 0.8

	// structuralCueBonus is added when the match context contains a
	// structural cue word (section, chapter, article).
	structuralCueBonus = 0.1

	// keywordBonus is added per domain keyword present in the context.
	keywordBonus = 0.02

	// keywordBonusCap limits the total domain-keyword bonus.
	keywordBonusCap = 0.1

	// contextWindow is the number of characters inspected on each side
	// of a match.
	contextWindow = 50
)

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		CaseSensitive:          false,
		MinConfidenceThreshold: 0.7,
		SatisfactionRatio:      0.7,
	}
}
