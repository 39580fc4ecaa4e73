package configs

// Config holds all configuration for the application.
type Config struct {
	Server      ServerConfig      `mapstructure:"server" validate:"required"`
	Log         LogConfig         `mapstructure:"log" validate:"required"`
	EventStore  EventStoreConfig  `mapstructure:"event_store"`
	ReportCache ReportCacheConfig `mapstructure:"report_cache" validate:"required"`
	Reports     ReportsConfig     `mapstructure:"reports" validate:"required"`
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port              int `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadHeaderTimeout int `mapstructure:"read_header_timeout" validate:"required,min=1"` // seconds
	ReadTimeout       int `mapstructure:"read_timeout" validate:"required,min=1"`        // seconds (headers+body)
	WriteTimeout      int `mapstructure:"write_timeout" validate:"required,min=1"`       // seconds (response)
	IdleTimeout       int `mapstructure:"idle_timeout" validate:"required,min=1"`        // seconds (keep-alive)
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required"`
}

// EventStoreConfig holds the DuckDB event store configuration.
type EventStoreConfig struct {
	Path         string `mapstructure:"path"`                                   // empty = in-memory database
	QueryTimeout int    `mapstructure:"query_timeout" validate:"min=1,max=600"` // seconds
}

// ReportCacheConfig selects and configures the memoized report cache backend.
type ReportCacheConfig struct {
	Backend   string           `mapstructure:"backend" validate:"required,oneof=memory file redis"`
	KeyPrefix string           `mapstructure:"key_prefix"`
	File      FileCacheConfig  `mapstructure:"file"`
	Redis     RedisCacheConfig `mapstructure:"redis"`
}

// FileCacheConfig holds the file cache backend configuration.
type FileCacheConfig struct {
	RootDir string `mapstructure:"root_dir"`
}

// RedisCacheConfig holds the redis cache backend configuration.
type RedisCacheConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"min=0"`
}

// ReportsConfig holds the parameters of the dashboard reports.
type ReportsConfig struct {
	SlowEndpointThreshold int64            `mapstructure:"slow_endpoint_threshold" validate:"min=0"` // milliseconds
	CacheKeys             []CacheKeyConfig `mapstructure:"cache_keys" validate:"unique=Name,dive"`
	Routes                []RouteConfig    `mapstructure:"routes" validate:"dive"`
}

// CacheKeyConfig is one monitored cache key pattern. Name defaults to Pattern.
type CacheKeyConfig struct {
	Name    string `mapstructure:"name" validate:"required"`
	Pattern string `mapstructure:"pattern" validate:"required,regexp"`
}

// RouteConfig maps a route of the monitored application to its handler name.
type RouteConfig struct {
	Method  string `mapstructure:"method" validate:"required,oneof=GET HEAD POST PUT PATCH DELETE OPTIONS CONNECT TRACE"`
	Path    string `mapstructure:"path" validate:"required,startswith=/"`
	Handler string `mapstructure:"handler" validate:"required"`
}
