package generator

// Config controls the behavior of the Generator.
type Config struct {
	// Validators run in order; the first failure stops the pipeline.
	Validators []Validator

	MaxTokens   int
	Temperature float64

	// Options is the number of answer options asked for per question.
	Options int

	// MaxAvoid caps how many existing prompts are listed for deduplication.
	MaxAvoid int

	// Attempts is how many times a retryable validation failure is
	// regenerated before giving up.
	Attempts int
}

// DefaultConfig returns the standard validator chain and recommended
// defaults.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{MaxPromptLen: 500, MaxOptionLen: 200},
		},
		MaxTokens:   4096,
		Temperature: 0.7,
		Options:     4,
		MaxAvoid:    20,
		Attempts:    2,
	}
}
