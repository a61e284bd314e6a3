package ui

// ANSI color and style constants for CLI output
const (
	ColorReset = "\033[0m"
	ColorBold  = "\033[1m"
	ColorDim   = "\033[2m"

	ColorCyan  = "\033[36m"
	ColorGreen = "\033[32m"
)

// Bold wraps s in bold styling.
func Bold(s string) string {
	return ColorBold + s + ColorReset
}

// Dim wraps s in dim styling.
func Dim(s string) string {
	return ColorDim + s + ColorReset
}

// Highlight wraps s in the accent color used for category names.
func Highlight(s string) string {
	return ColorCyan + s + ColorReset
}
