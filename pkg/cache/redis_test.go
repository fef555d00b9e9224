package cache

import (
	"context"
	"os"
	"testing"

	"github.com/ghuser/catalog/pkg/config"
)

func newTestConfig(url string) *config.Config {
	return &config.Config{
		RedisURL: url,
	}
}

// newTestClient connects to REDIS_URL or skips the test.
func newTestClient(t *testing.T) *RedisClient {
	t.Helper()
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set; skipping integration tests")
	}
	rc, err := NewRedisClient(newTestConfig(redisURL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = rc.Close() })
	return rc
}

func TestNewRedisClient_InvalidURL(t *testing.T) {
	_, err := NewRedisClient(newTestConfig("not-a-valid-url"))
	if err == nil {
		t.Fatal("expected error for invalid URL, got nil")
	}
}

func TestNewRedisClient_UnreachableHost(t *testing.T) {
	_, err := NewRedisClient(newTestConfig("redis://localhost:19999"))
	if err == nil {
		t.Fatal("expected error when Redis is unreachable, got nil")
	}
}

func TestRedisIntegration(t *testing.T) {
	rc := newTestClient(t)

	t.Run("Ping_Success", func(t *testing.T) {
		if err := rc.Ping(context.Background()); err != nil {
			t.Fatalf("Ping failed: %v", err)
		}
	})

	t.Run("Client_NotNil", func(t *testing.T) {
		if rc.Client() == nil {
			t.Fatal("expected non-nil underlying client")
		}
	})

	t.Run("Close_Idempotent", func(t *testing.T) {
		other, err := NewRedisClient(newTestConfig(os.Getenv("REDIS_URL")))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := other.Close(); err != nil {
			t.Fatalf("first Close failed: %v", err)
		}
		if err := other.Close(); err != nil {
			t.Fatalf("second Close failed: %v", err)
		}
	})
}
