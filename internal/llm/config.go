// Package llm provides the LLM client abstraction used for portal content
// generation.
package llm

// ModelTier selects the capability/cost tradeoff for a request.
type ModelTier string

const (
	// TierLite is for short summaries and rewrites.
	TierLite ModelTier = "lite"
	// TierStandard is for structured generation such as chat personas.
	TierStandard ModelTier = "standard"
)

// Config holds model selection for the LLM client.
type Config struct {
	LiteModel     string
	StandardModel string
}

// DefaultConfig returns the default model configuration.
func DefaultConfig() *Config {
	return &Config{
		LiteModel:     "gemini-2.0-flash-lite",
		StandardModel: "gemini-2.0-flash",
	}
}

// Model returns the configured model name for a tier.
func (c *Config) Model(tier ModelTier) string {
	switch tier {
	case TierStandard:
		return c.StandardModel
	default:
		return c.LiteModel
	}
}
