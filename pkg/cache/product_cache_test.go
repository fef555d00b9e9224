package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func TestIsMiss(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"redis nil", redis.Nil, true},
		{"ErrMiss", ErrMiss, true},
		{"wrapped", errors.Join(errors.New("lookup"), redis.Nil), true},
		{"other", errors.New("connection refused"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsMiss(tt.err); got != tt.want {
				t.Errorf("IsMiss(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestDecodeProduct(t *testing.T) {
	id := uuid.New()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	valid := map[string]string{
		"id":          id.String(),
		"name":        "Espresso cup",
		"description": "porcelain",
		"category":    "kitchen",
		"price_cents": "1250",
		"available":   "true",
		"created_at":  now.Format(time.RFC3339Nano),
		"updated_at":  now.Format(time.RFC3339Nano),
	}

	p, err := decodeProduct(valid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != id || p.PriceCents != 1250 || !p.Available || !p.CreatedAt.Equal(now) {
		t.Fatalf("unexpected product %+v", p)
	}

	for _, field := range []string{"id", "price_cents", "available", "created_at", "updated_at"} {
		t.Run("bad "+field, func(t *testing.T) {
			broken := make(map[string]string, len(valid))
			for k, v := range valid {
				broken[k] = v
			}
			broken[field] = "garbage"
			if _, err := decodeProduct(broken); err == nil {
				t.Fatalf("expected error for corrupt %s", field)
			}
		})
	}
}

func TestProductCacheIntegration(t *testing.T) {
	rc := newTestClient(t)
	c := NewProductCache(rc)
	ctx := context.Background()

	p := &CachedProduct{
		ID:         uuid.New(),
		Name:       "Tea pot",
		Category:   "kitchen",
		PriceCents: 3400,
		Available:  true,
		CreatedAt:  time.Now().UTC().Truncate(time.Microsecond),
		UpdatedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}
	t.Cleanup(func() { _ = c.Delete(context.Background(), p.ID) })

	if _, err := c.Get(ctx, p.ID); !IsMiss(err) {
		t.Fatalf("expected miss before Set, got %v", err)
	}
	if err := c.Set(ctx, p); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := c.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != p.Name || got.PriceCents != p.PriceCents || !got.UpdatedAt.Equal(p.UpdatedAt) {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, p)
	}
	ttl, err := rc.Client().TTL(ctx, key(p.ID)).Result()
	if err != nil || ttl <= 0 || ttl > ProductCacheTTL {
		t.Fatalf("unexpected ttl %v (err %v)", ttl, err)
	}

	if err := c.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := c.Get(ctx, p.ID); !IsMiss(err) {
		t.Fatalf("expected miss after Delete, got %v", err)
	}
}
