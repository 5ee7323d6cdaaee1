package scribe

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so the app
// automatically matches any color scheme.
type Theme struct {
	Pending int // Steps not yet started
	Running int // Step in flight, spinner
	Success int // Completed steps
	Error   int // Failed steps, error messages
	Muted   int // Status bar, usage details
	Accent  int // Headings, links
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		Pending: 8,
		Running: 3,
		Success: 2,
		Error:   1,
		Muted:   8,
		Accent:  5,
	}
}
