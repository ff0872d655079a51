// Package settings loads the gatewayd settings file. A Settings value is
// produced once at startup and is never modified afterwards; it is shared by
// value with the logger and every subcommand.
package settings

import (
	"fmt"
	"net"
	"strings"

	"github.com/spf13/viper"
	"gitlab.com/NebulousLabs/errors"

	"gitlab.com/scpcorp/gatewayd/build"
)

// LogMethod selects the transport log records are written to.
type LogMethod string

// LogLevel is the minimum severity that is logged.
type LogLevel string

// Region is the radio region plan the gateway operates in.
type Region string

const (
	// LogMethodStdio writes one formatted line per record to stdout.
	LogMethodStdio LogMethod = "stdio"
	// LogMethodSyslog routes records to the local syslog daemon.
	LogMethodSyslog LogMethod = "syslog"
)

const (
	LogLevelTrace    LogLevel = "trace"
	LogLevelDebug    LogLevel = "debug"
	LogLevelInfo     LogLevel = "info"
	LogLevelWarn     LogLevel = "warn"
	LogLevelWarning  LogLevel = "warning"
	LogLevelError    LogLevel = "error"
	LogLevelCritical LogLevel = "critical"
)

// Default values for keys missing from the settings file.
const (
	DefaultListen     = "127.0.0.1:1680"
	DefaultAPI        = "127.0.0.1:4467"
	DefaultRegion     = Region("US915")
	DefaultDedupCache = 1024
)

var (
	// ErrInvalidSettings is composed into every validation failure returned
	// by Load.
	ErrInvalidSettings = errors.New("invalid settings")

	// knownRegions lists the region plans the gateway accepts.
	knownRegions = map[Region]struct{}{
		"US915": {}, "EU868": {}, "EU433": {}, "CN470": {}, "CN779": {},
		"AU915": {}, "AS923_1": {}, "AS923_2": {}, "AS923_3": {}, "AS923_4": {},
		"KR920": {}, "IN865": {},
	}

	knownLevels = map[LogLevel]struct{}{
		LogLevelTrace: {}, LogLevelDebug: {}, LogLevelInfo: {}, LogLevelWarn: {},
		LogLevelWarning: {}, LogLevelError: {}, LogLevelCritical: {},
	}
)

type (
	// Settings is the validated content of the settings file.
	Settings struct {
		// Keypair is the path of the gateway's key file.
		Keypair string `mapstructure:"keypair"`
		// Listen is the UDP address packet forwarders send to.
		Listen string `mapstructure:"listen"`
		// API is the TCP address of the local HTTP API.
		API string `mapstructure:"api"`
		// Region is the region plan reported to clients.
		Region Region `mapstructure:"region"`
		// DedupCache is the number of recent uplink fingerprints kept to
		// detect duplicates.
		DedupCache int `mapstructure:"dedup_cache"`

		Log LogSettings `mapstructure:"log"`
	}

	// LogSettings configures the process logger.
	LogSettings struct {
		Method LogMethod `mapstructure:"method"`
		Level  LogLevel  `mapstructure:"level"`
		// Timestamp includes a local timestamp in stdio output. It has no
		// effect on syslog, which stamps records itself.
		Timestamp bool `mapstructure:"timestamp"`
	}
)

// Default returns the settings used for every key missing from the file.
func Default() Settings {
	return Settings{
		Keypair:    build.DefaultKeypairFile,
		Listen:     DefaultListen,
		API:        DefaultAPI,
		Region:     DefaultRegion,
		DedupCache: DefaultDedupCache,
		Log: LogSettings{
			Method:    LogMethodStdio,
			Level:     LogLevelInfo,
			Timestamp: false,
		},
	}
}

// Load reads the TOML settings file at path, applies defaults and
// GATEWAYD_* environment overrides, and validates the result.
func Load(path string) (Settings, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix(build.EnvvarPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := Default()
	v.SetDefault("keypair", def.Keypair)
	v.SetDefault("listen", def.Listen)
	v.SetDefault("api", def.API)
	v.SetDefault("region", string(def.Region))
	v.SetDefault("dedup_cache", def.DedupCache)
	v.SetDefault("log.method", string(def.Log.Method))
	v.SetDefault("log.level", string(def.Log.Level))
	v.SetDefault("log.timestamp", def.Log.Timestamp)

	if err := v.ReadInConfig(); err != nil {
		return Settings{}, errors.AddContext(err, fmt.Sprintf("unable to read settings file %v", path))
	}
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, errors.AddContext(err, fmt.Sprintf("unable to decode settings file %v", path))
	}
	s.normalize()
	if err := s.Validate(); err != nil {
		return Settings{}, errors.AddContext(err, fmt.Sprintf("unable to load settings from %v", path))
	}
	return s, nil
}

// normalize canonicalizes case-insensitive values.
func (s *Settings) normalize() {
	s.Region = Region(strings.ToUpper(string(s.Region)))
	s.Log.Method = LogMethod(strings.ToLower(string(s.Log.Method)))
	s.Log.Level = LogLevel(strings.ToLower(string(s.Log.Level)))
}

// Validate checks every field and returns all problems found, composed with
// ErrInvalidSettings, or nil.
func (s Settings) Validate() error {
	var errs []error
	if s.Keypair == "" {
		errs = append(errs, errors.New("keypair path must not be empty"))
	}
	if _, _, err := net.SplitHostPort(s.Listen); err != nil {
		errs = append(errs, errors.AddContext(err, "bad listen address"))
	}
	if _, _, err := net.SplitHostPort(s.API); err != nil {
		errs = append(errs, errors.AddContext(err, "bad api address"))
	}
	if _, ok := knownRegions[s.Region]; !ok {
		errs = append(errs, fmt.Errorf("unknown region %q", s.Region))
	}
	if s.DedupCache <= 0 {
		errs = append(errs, fmt.Errorf("dedup_cache must be positive, got %v", s.DedupCache))
	}
	if err := s.Log.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Compose(append([]error{ErrInvalidSettings}, errs...)...)
}

// Validate checks the log method and level.
func (ls LogSettings) Validate() error {
	var errs []error
	switch ls.Method {
	case LogMethodStdio, LogMethodSyslog:
	default:
		errs = append(errs, fmt.Errorf("unknown log method %q", ls.Method))
	}
	if _, ok := knownLevels[ls.Level]; !ok {
		errs = append(errs, fmt.Errorf("unknown log level %q", ls.Level))
	}
	return errors.Compose(errs...)
}
