package build

const (
	// EnvvarPrefix is the prefix of every environment variable that
	// overrides a value in the settings file, e.g. GATEWAYD_LOG_LEVEL.
	EnvvarPrefix = "GATEWAYD"

	// EnvvarSettingsFile is the environment variable that sets a custom
	// settings file if the -c flag is not used.
	EnvvarSettingsFile = "GATEWAYD_SETTINGS"
)
