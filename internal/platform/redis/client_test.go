package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swissshield/internal/platform/config"
)

func TestNewWithoutURLIsDisabled(t *testing.T) {
	c, err := New(context.Background(), config.RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestNewRejectsMalformedURL(t *testing.T) {
	_, err := New(context.Background(), config.RedisConfig{URL: "http://not-redis"})
	require.Error(t, err)
}

func TestApplyPoolKeepsURLDefaultsForZeroValues(t *testing.T) {
	opts, err := redis.ParseURL("redis://localhost:6379/2?dial_timeout=7s")
	require.NoError(t, err)

	applyPool(opts, config.RedisConfig{PoolSize: 25, ReadTimeout: time.Second})

	assert.Equal(t, ClientName, opts.ClientName)
	assert.Equal(t, 25, opts.PoolSize)
	assert.Equal(t, time.Second, opts.ReadTimeout)
	assert.Equal(t, 7*time.Second, opts.DialTimeout)
	assert.Equal(t, 2, opts.DB)
}
