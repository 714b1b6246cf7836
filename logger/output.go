package logger

// Output controls what categories of information the CLI prints at each
// verbosity level. Log levels filter by severity; output categories filter
// by kind, so a summary table can be shown at -v without enabling debug logs.
//
// Verbosity Levels:
//
//	0 (default) - Diagnostics and the final status line
//	1 (-v)      - + Files written, per-schema declaration summary
//	2 (-vv)     - + Timing, resolved configuration
//	3 (-vvv)    - + Per-declaration size table, parser traces

// OutputCategory defines a category of output that can be enabled/disabled
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputDiagnostics OutputCategory = iota // Schema errors with coordinates and hints
	OutputUserStatus                        // Final success/failure status

	// Level 1 (-v) - Informational
	OutputFilesWritten // Paths of generated files
	OutputSummary      // Declaration counts per schema

	// Level 2 (-vv) - Detailed
	OutputTiming // Parse and generation timing
	OutputConfig // Resolved configuration values

	// Level 3 (-vvv) - Trace
	OutputSizes  // Per-declaration size bounds
	OutputTokens // Parser token traces
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	OutputDiagnostics: VerbosityUser,
	OutputUserStatus:  VerbosityUser,

	OutputFilesWritten: VerbosityInfo,
	OutputSummary:      VerbosityInfo,

	OutputTiming: VerbosityDebug,
	OutputConfig: VerbosityDebug,

	OutputSizes:  VerbosityTrace,
	OutputTokens: VerbosityTrace,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		// Unknown category, default to highest verbosity required
		return verbosity >= VerbosityTrace
	}
	return verbosity >= minLevel
}

var categoryNames = map[OutputCategory]string{
	OutputDiagnostics:  "diagnostics",
	OutputUserStatus:   "status",
	OutputFilesWritten: "files",
	OutputSummary:      "summary",
	OutputTiming:       "timing",
	OutputConfig:       "config",
	OutputSizes:        "sizes",
	OutputTokens:       "tokens",
}

// CategoryName returns the human-readable name for an output category
func CategoryName(category OutputCategory) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return "unknown"
}

// VerbosityDescription returns a description of what's shown at each level
func VerbosityDescription(verbosity int) string {
	switch verbosity {
	case VerbosityUser:
		return "diagnostics and status only"
	case VerbosityInfo:
		return "diagnostics, files written, and declaration summary"
	case VerbosityDebug:
		return "above + timing and resolved config"
	case VerbosityTrace:
		return "above + size table and parser traces"
	default:
		if verbosity > VerbosityTrace {
			return "maximum verbosity"
		}
		return "unknown verbosity level"
	}
}
