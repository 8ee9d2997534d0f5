package differ

// DiffConfig holds configuration for URL diffing
type DiffConfig struct {
	EnableSemanticCleanup bool
	// EnableColor renders removals red and additions green instead of bracket markers.
	EnableColor bool
}

// DefaultDiffConfig returns default configuration
func DefaultDiffConfig() DiffConfig {
	return DiffConfig{
		EnableSemanticCleanup: true,
		EnableColor:           false,
	}
}
