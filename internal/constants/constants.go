package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "rsbridge"

	// ConfigFileName is the default config file name written by init
	ConfigFileName = "rsbridge.yaml"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "RSBRIDGE"
)

// Watch mode constants
const (
	// WatchDebounceMillis is how long a report must stay unchanged before it is re-ingested
	WatchDebounceMillis = 500
)
