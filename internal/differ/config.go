package differ

// DiffConfig holds configuration for dry-run diff rendering
type DiffConfig struct {
	ContextLines int
}

// DefaultDiffConfig returns default configuration
func DefaultDiffConfig() DiffConfig {
	return DiffConfig{
		ContextLines: 3,
	}
}
