package configs

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfig = `server:
  port: 8080
  read_header_timeout: 5
  read_timeout: 10
  write_timeout: 10
  idle_timeout: 60
log:
  level: debug
event_store:
  path: ./data/pulse.duckdb
  query_timeout: 15
report_cache:
  backend: memory
reports:
  slow_endpoint_threshold: 250
  cache_keys:
    - name: api
      pattern: "^api:"
    - name: sessions
      pattern: "^sess:"
    - pattern: "^config:"
  routes:
    - method: GET
      path: /users/{user}
      handler: UserController@show
`

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	tmpfile, err := os.CreateTemp(t.TempDir(), "test_config_*.yml")
	require.NoError(t, err)
	_, err = tmpfile.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())
	return tmpfile.Name()
}

func TestLoadConfig_ValidConfig(t *testing.T) {
	cfg, err := LoadConfig(writeTempConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Server.ReadHeaderTimeout)
	assert.Equal(t, 60, cfg.Server.IdleTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "./data/pulse.duckdb", cfg.EventStore.Path)
	assert.Equal(t, 15, cfg.EventStore.QueryTimeout)
	assert.Equal(t, "memory", cfg.ReportCache.Backend)
	assert.Equal(t, int64(250), cfg.Reports.SlowEndpointThreshold)

	require.Len(t, cfg.Reports.CacheKeys, 3)
	assert.Equal(t, CacheKeyConfig{Name: "api", Pattern: "^api:"}, cfg.Reports.CacheKeys[0])
	assert.Equal(t, CacheKeyConfig{Name: "sessions", Pattern: "^sess:"}, cfg.Reports.CacheKeys[1])
	assert.Equal(t, CacheKeyConfig{Name: "^config:", Pattern: "^config:"}, cfg.Reports.CacheKeys[2], "bare pattern is its own name")

	require.Len(t, cfg.Reports.Routes, 1)
	assert.Equal(t, RouteConfig{Method: "GET", Path: "/users/{user}", Handler: "UserController@show"}, cfg.Reports.Routes[0])
}

func TestLoadConfig_Defaults(t *testing.T) {
	minimal := `server:
  port: 8080
  read_header_timeout: 5
  read_timeout: 10
  write_timeout: 10
  idle_timeout: 60
log:
  level: info
`
	cfg, err := LoadConfig(writeTempConfig(t, minimal))
	require.NoError(t, err)

	assert.Equal(t, "", cfg.EventStore.Path)
	assert.Equal(t, 30, cfg.EventStore.QueryTimeout)
	assert.Equal(t, "memory", cfg.ReportCache.Backend)
	assert.Equal(t, "pulse:", cfg.ReportCache.KeyPrefix)
	assert.Equal(t, int64(1000), cfg.Reports.SlowEndpointThreshold)
	assert.Empty(t, cfg.Reports.CacheKeys)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/configs.yml")
	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_ValidationFailures(t *testing.T) {
	base := `server:
  port: 8080
  read_header_timeout: 5
  read_timeout: 10
  write_timeout: 10
  idle_timeout: 60
log:
  level: info
`
	tests := []struct {
		name    string
		extra   string
		wantMsg string
	}{
		{
			name: "invalid cache key regexp",
			extra: `reports:
  cache_keys:
    - name: broken
      pattern: "^(api"
`,
			wantMsg: "invalid regular expression",
		},
		{
			name: "duplicate cache key names",
			extra: `reports:
  cache_keys:
    - name: api
      pattern: "^api:"
    - name: api
      pattern: "^v2:api:"
`,
			wantMsg: "cachekeys (unique=Name)",
		},
		{
			name: "unknown cache backend",
			extra: `report_cache:
  backend: memcached
`,
			wantMsg: "reportcache.backend (oneof=memory file redis)",
		},
		{
			name: "file backend without root dir",
			extra: `report_cache:
  backend: file
`,
			wantMsg: "reportcache.file.rootdir",
		},
		{
			name: "redis backend without addr",
			extra: `report_cache:
  backend: redis
`,
			wantMsg: "reportcache.redis.addr",
		},
		{
			name: "route path without leading slash",
			extra: `reports:
  routes:
    - method: GET
      path: users
      handler: UserController@index
`,
			wantMsg: "startswith=/",
		},
		{
			name: "route with unsupported method",
			extra: `reports:
  routes:
    - method: FETCH
      path: /users
      handler: UserController@index
`,
			wantMsg: "oneof=",
		},
		{
			name: "negative threshold",
			extra: `reports:
  slow_endpoint_threshold: -5
`,
			wantMsg: "reports.slowendpointthreshold (min=0)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(writeTempConfig(t, base+tt.extra))
			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "validation failed")
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoadConfig_InvalidPortRange(t *testing.T) {
	invalidConfig := `server:
  port: 70000
  read_header_timeout: 5
  read_timeout: 10
  write_timeout: 10
  idle_timeout: 60
log:
  level: info
`
	cfg, err := LoadConfig(writeTempConfig(t, invalidConfig))
	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Contains(t, err.Error(), "port")
}
