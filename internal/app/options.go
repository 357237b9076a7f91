package app

// Options configures the application at startup.
type Options struct {
	// ConfigPath locates the TOML configuration file.
	ConfigPath string

	// SessionPath overrides the configured session file location.
	SessionPath string

	// LogLevel overrides the configured log level.
	LogLevel string

	// Debug forces the debug log level.
	Debug bool

	// File is an optional file whose content seeds the document.
	File string

	// MacroPath is an optional Lua macro script to run at startup.
	MacroPath string
}
