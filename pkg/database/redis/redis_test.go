//go:build !integration

package redis

import (
	"testing"
	"time"

	"npsSurvey/pkg/config"
)

func TestClientOptions(t *testing.T) {
	opts := clientOptions(config.RedisConfig{
		RedisHost:        "cache.internal",
		RedisPort:        "6380",
		RedisPassword:    "pw",
		RedisDB:          3,
		RedisPoolSize:    2,
		RedisDialTimeout: 2 * time.Second,
		RedisOpTimeout:   500 * time.Millisecond,
	})

	if opts.Addr != "cache.internal:6380" {
		t.Fatalf("addr = %s", opts.Addr)
	}
	if opts.DB != 3 || opts.Password != "pw" || opts.PoolSize != 2 {
		t.Fatalf("unexpected options %+v", opts)
	}
	if opts.DialTimeout != 2*time.Second || opts.ReadTimeout != 500*time.Millisecond || opts.WriteTimeout != 500*time.Millisecond {
		t.Fatalf("unexpected timeouts dial=%s read=%s write=%s", opts.DialTimeout, opts.ReadTimeout, opts.WriteTimeout)
	}
}

func TestCloseRedisClient_Nil(t *testing.T) {
	if err := CloseRedisClient(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
