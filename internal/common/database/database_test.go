// internal/common/database/database_test.go
package database

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"college-advisor/internal/common/config"
)

func TestNewRedis_UsesConfiguredPool(t *testing.T) {
	mr := miniredis.RunT(t)

	rc, err := NewRedis(config.RedisConfig{Address: mr.Addr(), PoolSize: 4, MinIdleConns: 1})
	require.NoError(t, err)
	defer rc.Close()

	opts := rc.Client.Options()
	assert.Equal(t, 4, opts.PoolSize)
	assert.Equal(t, 1, opts.MinIdleConns)
	assert.NoError(t, rc.Ping(context.Background()))
}

func TestNewRedis_PingFailure(t *testing.T) {
	rc, err := NewRedis(config.RedisConfig{Address: "127.0.0.1:1", PoolSize: 1})
	require.NoError(t, err)
	defer rc.Close()

	err = rc.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping failed")
}

func TestNewRedis_EmptyAddress(t *testing.T) {
	_, err := NewRedis(config.RedisConfig{})
	assert.Error(t, err)
}

func TestNewPostgres_PoolLimits(t *testing.T) {
	pg, err := NewPostgres(config.PostgresConfig{
		Host: "localhost", Port: 5432, Database: "college_advisor", User: "advisor",
		MaxConnections: 3, MaxIdle: 1, SSLMode: "disable",
	})
	require.NoError(t, err)
	defer pg.Close()

	assert.Equal(t, 3, pg.DB.Stats().MaxOpenConnections)
}

func TestClose_NilClients(t *testing.T) {
	assert.NoError(t, (&PostgresClient{}).Close())
	assert.NoError(t, (&RedisClient{}).Close())
}
