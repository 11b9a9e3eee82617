// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.4.0"

// Milestones:
// 0.4.0 - Sky view with Sun and Moon traces, YAML location presets, --at
// 0.3.0 - Selectable day solvers (series, equation, meeus), JSON export
// 0.2.0 - Moon position and rise/set, transition events
// 0.1.0 - Initial release: Roman clock face TUI, headless now/riseset modes
