// Package config loads the dispatcher's tunables from a JSON file,
// merges them under a shipped set of defaults, validates the result,
// and applies it to a live Dispatcher — grounded on the teacher's
// pkg/config/config.go (viper + mapstructure + env overrides), with
// go-playground/validator actually invoked rather than merely tagged.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/KrolPaul/call-center/internal/dispatcher"
	"github.com/KrolPaul/call-center/internal/logger"
)

// Config is the wire shape of the configuration file, spec.md §6,
// plus the ambient Logging and Metrics sections. Those two sections are
// read the same way as the other fields: from the embedded defaults, the
// user file, and CALLCENTER_* environment overrides.
type Config struct {
	MinResponseTime     uint   `mapstructure:"minResponseTime" validate:"gte=0"`
	MaxResponseTime     uint   `mapstructure:"maxResponseTime" validate:"gtefield=MinResponseTime"`
	MinCallDuration     uint   `mapstructure:"minCallDuration" validate:"gte=1"`
	MaxCallDuration     uint   `mapstructure:"maxCallDuration" validate:"gtefield=MinCallDuration"`
	NOperators          uint64 `mapstructure:"nOperators" validate:"gte=1"`
	MaxCallQueueSize    int    `mapstructure:"maxCallQueueSize" validate:"gte=1"`
	RejectRepeatedCalls bool   `mapstructure:"rejectRepeatedCalls"`

	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// LoggingConfig controls internal/logger, teacher idiom
// (pkg/config/config.go's LoggingConfig).
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=DEBUG INFO WARN ERROR debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
	Output string `mapstructure:"output" validate:"required"`
}

// MetricsConfig controls Prometheus instrumentation. Enabled registers
// the dispatcher collector; the /metrics endpoint is served on the main
// HTTP listener either way, and ListenAddr is not used.
type MetricsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	ListenAddr string `mapstructure:"listenAddr"`
}

// DispatcherConfig converts the wire-level (seconds, uint) fields into
// the time.Duration-based dispatcher.Config the scheduler consumes.
func (c Config) DispatcherConfig() dispatcher.Config {
	return dispatcher.Config{
		MinResponseTime: time.Duration(c.MinResponseTime) * time.Second,
		MaxResponseTime: time.Duration(c.MaxResponseTime) * time.Second,
		MinCallDuration: time.Duration(c.MinCallDuration) * time.Second,
		MaxCallDuration: time.Duration(c.MaxCallDuration) * time.Second,
		NOperators:      c.NOperators,
		MaxQueueSize:    c.MaxCallQueueSize,
		RejectRepeated:  c.RejectRepeatedCalls,
	}
}

// Default returns the shipped baseline configuration, merged under any
// user-supplied file by Load. A missing default is a programmer error,
// not a runtime one — it is embedded at compile time (see defaults.go).
func Default() Config {
	var cfg Config
	v := viper.New()
	v.SetConfigType("json")
	if err := v.ReadConfig(strings.NewReader(defaultConfigJSON)); err != nil {
		// The embedded default is a build-time asset; a parse failure
		// here means the binary itself is broken.
		panic(fmt.Sprintf("config: embedded default is invalid JSON: %v", err))
	}
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("config: embedded default failed to decode: %v", err))
	}
	return cfg
}

var validate = validator.New()

// Validate checks every field's constraints and reports the first
// violation. Load and LoadStrict call it on the merged configuration,
// so one invalid field rejects the whole file: Load then falls back to
// Default(), and LoadStrict returns the error.
func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config: validation failed: %w", err)
	}
	return nil
}

// Load reads configPath (a JSON file matching spec.md §6's schema),
// merges it under Default(), applies environment overrides
// (CALLCENTER_<FIELD>), and validates the result. If configPath is
// empty or unreadable, the default configuration is returned
// unmodified — spec.md §7's configIOError falls back to defaults,
// logged rather than fatal (a missing *default* is what's fatal, not a
// missing user file).
func Load(configPath string) (Config, error) {
	def := Default()

	v := viper.New()
	v.SetConfigType("json")
	v.SetEnvPrefix("CALLCENTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaultsFrom(v, def)

	if configPath == "" {
		return def, nil
	}

	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		logger.Warn("config file unreadable, falling back to defaults",
			"path", configPath, "error", err)
		return def, nil
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		logger.Warn("config file failed to parse, falling back to defaults",
			"path", configPath, "error", err)
		return def, nil
	}

	if err := Validate(cfg); err != nil {
		logger.Warn("config file failed validation, falling back to defaults",
			"path", configPath, "error", err)
		return def, nil
	}

	return cfg, nil
}

// LoadStrict reads and validates configPath without the fallback
// behavior Load uses for a running server: a missing file, a parse
// error, or a validation failure are all returned to the caller
// rather than silently swallowed. Used by the validate-config CLI
// subcommand, where silence would defeat the point of asking.
func LoadStrict(path string) (Config, error) {
	def := Default()

	v := viper.New()
	v.SetConfigType("json")
	setDefaultsFrom(v, def)
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// setDefaultsFrom seeds viper's default layer from a Config value so
// a partial user file only overrides the keys it actually sets —
// the "default merged under any partial override" rule of spec.md §6.
func setDefaultsFrom(v *viper.Viper, def Config) {
	v.SetDefault("minResponseTime", def.MinResponseTime)
	v.SetDefault("maxResponseTime", def.MaxResponseTime)
	v.SetDefault("minCallDuration", def.MinCallDuration)
	v.SetDefault("maxCallDuration", def.MaxCallDuration)
	v.SetDefault("nOperators", def.NOperators)
	v.SetDefault("maxCallQueueSize", def.MaxCallQueueSize)
	v.SetDefault("rejectRepeatedCalls", def.RejectRepeatedCalls)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)
	v.SetDefault("logging.output", def.Logging.Output)
	v.SetDefault("metrics.enabled", def.Metrics.Enabled)
	v.SetDefault("metrics.listenAddr", def.Metrics.ListenAddr)
}

// Apply pushes every field of cfg onto d through its setters,
// one field at a time, so a single invalid field (caught upstream by
// Validate, or a race against a concurrent setter) never prevents the
// rest from applying — spec.md §7: "setter call fails for that field;
// other fields proceed."
func Apply(d *dispatcher.Dispatcher, cfg Config) {
	if !d.SetMinMaxResponseTime(
		time.Duration(cfg.MinResponseTime)*time.Second,
		time.Duration(cfg.MaxResponseTime)*time.Second,
	) {
		logger.Warn("rejected response-time window", "min", cfg.MinResponseTime, "max", cfg.MaxResponseTime)
	}
	if !d.SetMinMaxCallDuration(
		time.Duration(cfg.MinCallDuration)*time.Second,
		time.Duration(cfg.MaxCallDuration)*time.Second,
	) {
		logger.Warn("rejected call-duration window", "min", cfg.MinCallDuration, "max", cfg.MaxCallDuration)
	}
	if !d.SetNOperators(cfg.NOperators) {
		logger.Warn("rejected operator count", "nOperators", cfg.NOperators)
	}
	if !d.SetMaxQueueSize(cfg.MaxCallQueueSize) {
		logger.Warn("rejected queue size", "maxCallQueueSize", cfg.MaxCallQueueSize)
	}
	d.SetRejectRepeatedCalls(cfg.RejectRepeatedCalls)
}
