package questiongen

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// DefaultCount is used when Input.Count is not positive.
	DefaultCount int

	// MaxCount caps the number of questions requested in topic mode.
	MaxCount int

	// MaxAttempts bounds how often a malformed or empty response is
	// re-requested. Transport retries happen below this, in the provider.
	MaxAttempts int
}

// DefaultConfig returns the recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:    4096,
		Temperature:  0.7,
		DefaultCount: 5,
		MaxCount:     30,
		MaxAttempts:  2,
	}
}
