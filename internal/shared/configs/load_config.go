package configs

import (
	"fmt"
	"strings"

	"pulse-reports/internal/shared/validators"

	"github.com/spf13/viper"
)

const envPrefix = "PULSE"

// LoadConfig reads configuration from file, applies defaults and PULSE_* environment
// overrides, and validates it.
var LoadConfig = func(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read from file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", configPath, err)
	}

	// Unmarshal into Config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Reports.applyCacheKeyNames()

	// Validate config
	validate := validators.New()
	if err := validate.Struct(&cfg); err != nil {
		var validationErrors []string
		if ve, ok := err.(validators.ValidationErrors); ok {
			for _, e := range ve {
				validationErrors = append(validationErrors, formatValidationError(e))
			}
		} else {
			validationErrors = append(validationErrors, err.Error())
		}
		return nil, fmt.Errorf("config validation failed: %s", strings.Join(validationErrors, ", "))
	}
	if err := cfg.ReportCache.validateBackend(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("event_store.query_timeout", 30)
	v.SetDefault("report_cache.backend", "memory")
	v.SetDefault("report_cache.key_prefix", "pulse:")
	v.SetDefault("reports.slow_endpoint_threshold", 1000)
}

// applyCacheKeyNames lets a cache key entry be given as a bare pattern.
func (c *ReportsConfig) applyCacheKeyNames() {
	for i := range c.CacheKeys {
		if strings.TrimSpace(c.CacheKeys[i].Name) == "" {
			c.CacheKeys[i].Name = c.CacheKeys[i].Pattern
		}
	}
}

func (c ReportCacheConfig) validateBackend() error {
	switch c.Backend {
	case "file":
		if c.File.RootDir == "" {
			return fmt.Errorf("reportcache.file.rootdir (required for backend=file)")
		}
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("reportcache.redis.addr (required for backend=redis)")
		}
	}
	return nil
}

// formatValidationError formats a single validation error into a readable string.
func formatValidationError(e validators.FieldError) string {
	field := e.Field()
	tag := e.Tag()

	// Build field path (e.g., "Config.Server.Port" -> "server.port")
	if e.StructNamespace() != "" {
		parts := strings.Split(e.StructNamespace(), ".")
		if len(parts) >= 2 {
			field = strings.ToLower(strings.Join(parts[1:], "."))
		}
	}

	switch tag {
	case "required":
		return fmt.Sprintf("%s (required)", field)
	case "min", "max", "oneof", "unique", "startswith":
		return fmt.Sprintf("%s (%s=%s)", field, tag, e.Param())
	case validators.TagRegexp:
		return fmt.Sprintf("%s (invalid regular expression %q)", field, e.Value())
	default:
		return fmt.Sprintf("%s (%s)", field, tag)
	}
}
