package analysis

// Config is the per-analysis configuration, threaded explicitly through the
// traversal rather than read from ambient state.
type Config struct {
	// Quiet suppresses the diagnostic log entirely.
	Quiet bool

	// Verbosity gates the diagnostic log: 0 silent, 1 the per-unit
	// summary line, 2 per-fact reasoning, 3 adds source line/column
	// prefixes.
	Verbosity int

	// Lax skips the bodies of conditional, loop, exception, and boolean
	// constructs to avoid false positives from compatibility fallback code.
	Lax bool
}
