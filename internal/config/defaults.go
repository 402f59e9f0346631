package config

// Default configuration values.
const (
	DefaultOutput   = "auto" // Auto-detect: TTY=text, non-TTY=json
	DefaultLogLevel = "warn"
	DefaultColor    = "auto"
	DefaultDebounce = "100ms"
)

// DefaultExtensions are the file extensions `slq check` picks up when
// walking a directory.
var DefaultExtensions = []string{".slq"}

// OutputModes lists the accepted values of the output setting.
var OutputModes = []string{"auto", "text", "json", "yaml"}

// ColorModes lists the accepted values of the color setting.
var ColorModes = []string{"auto", "always", "never"}

// Defaults returns the default settings keyed by their koanf paths.
func Defaults() map[string]any {
	return map[string]any{
		"output":           DefaultOutput,
		"log_level":        DefaultLogLevel,
		"verbose":          false,
		"color":            DefaultColor,
		"format.join":      "",
		"format.comments":  true,
		"check.workers":    0,
		"check.extensions": DefaultExtensions,
		"check.debounce":   DefaultDebounce,
	}
}
