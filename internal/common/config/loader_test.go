package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
camunda:
  broker_address: localhost:26500
workers:
  filter-seats:
    enabled: true
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "college-advisor", cfg.App.Name)
	assert.Equal(t, SeatSourceFile, cfg.Datasets.SeatSource)
	assert.Equal(t, "data/adv_rank.json", cfg.Datasets.AdvancedRankTable)
	assert.Equal(t, "seat_allocations", cfg.Datasets.SeatTableName)
	assert.Equal(t, 3600, cfg.Cache.TTLSeconds)
	assert.Equal(t, time.Hour, cfg.Cache.TTL())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, 10, cfg.Database.Redis.PoolSize)
	assert.Equal(t, 0, cfg.Database.Redis.MinIdleConns)

	w := cfg.Workers["filter-seats"]
	assert.True(t, w.Enabled)
	assert.Equal(t, 5, w.MaxJobsActive)
	assert.Equal(t, 30000, w.Timeout)
	assert.Equal(t, 3, w.MaxRetries)
}

func TestLoadFromFile_ExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("TEST_ADVISOR_BROKER", "zeebe:26500")
	path := writeConfig(t, `
camunda:
  broker_address: ${TEST_ADVISOR_BROKER}
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "zeebe:26500", cfg.Camunda.BrokerAddress)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing broker",
			body:    "app:\n  name: x\n",
			wantErr: "camunda.broker_address is required",
		},
		{
			name: "unknown seat source",
			body: `
camunda:
  broker_address: localhost:26500
datasets:
  seat_source: s3
`,
			wantErr: "datasets.seat_source must be",
		},
		{
			name: "postgres source without host",
			body: `
camunda:
  broker_address: localhost:26500
datasets:
  seat_source: postgres
`,
			wantErr: "database.postgres.host is required",
		},
		{
			name: "cache without redis",
			body: `
camunda:
  broker_address: localhost:26500
cache:
  enabled: true
`,
			wantErr: "database.redis.address is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ZEEBE_ADDRESS", "")
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestGetWorkerConfig(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"predict-rank": {Enabled: false, MaxJobsActive: 2, Timeout: 1000, MaxRetries: 1},
	}}

	assert.Equal(t, 2, GetWorkerConfig(cfg, "predict-rank").MaxJobsActive)
	assert.False(t, IsWorkerEnabled(cfg, "predict-rank"))

	def := GetWorkerConfig(cfg, "classify-query")
	assert.True(t, def.Enabled)
	assert.Equal(t, 5, def.MaxJobsActive)
	assert.True(t, IsWorkerEnabled(cfg, "classify-query"))
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "seats", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=seats sslmode=disable", p.GetDSN())
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}
