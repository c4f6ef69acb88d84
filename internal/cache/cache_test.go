package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/portfolio-api/internal/cache"
)

type item struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func backends(t *testing.T) map[string]cache.Cache {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return map[string]cache.Cache{
		"memory": cache.NewMemoryCache(),
		"redis":  cache.NewRedisCache(client, "test:"),
	}
}

func TestRemember(t *testing.T) {
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			calls := 0
			compute := func(ctx context.Context) ([]item, error) {
				calls++
				return []item{{Name: "go", Count: 3}}, nil
			}

			first, err := cache.Remember(ctx, c, "tags", time.Hour, compute)
			if err != nil {
				t.Fatalf("Remember failed: %v", err)
			}
			second, err := cache.Remember(ctx, c, "tags", time.Hour, compute)
			if err != nil {
				t.Fatalf("Remember failed: %v", err)
			}

			if calls != 1 {
				t.Errorf("Expected compute to run once, ran %d times", calls)
			}
			if len(second) != 1 || second[0] != first[0] {
				t.Errorf("Expected cached value %v, got %v", first, second)
			}
		})
	}
}

func TestRemember_ErrorNotCached(t *testing.T) {
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			boom := errors.New("db down")

			_, err := cache.Remember(ctx, c, "k", time.Hour, func(ctx context.Context) (int, error) {
				return 0, boom
			})
			if !errors.Is(err, boom) {
				t.Fatalf("Expected compute error, got %v", err)
			}

			var v int
			if found, _ := c.Get(ctx, "k", &v); found {
				t.Error("Expected failed computation not to be cached")
			}
		})
	}
}

func TestDelete(t *testing.T) {
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			c.Set(ctx, cache.KeyHomeSkills, item{Name: "a"}, time.Hour)
			c.Set(ctx, cache.KeyHomeProjects, item{Name: "b"}, time.Hour)

			if err := c.Delete(ctx, cache.KeyHomeSkills); err != nil {
				t.Fatalf("Delete failed: %v", err)
			}

			var got item
			if found, _ := c.Get(ctx, cache.KeyHomeSkills, &got); found {
				t.Error("Expected deleted key to be missing")
			}
			if found, _ := c.Get(ctx, cache.KeyHomeProjects, &got); !found || got.Name != "b" {
				t.Errorf("Expected other key untouched, got %v found=%v", got, found)
			}
		})
	}
}

func TestRedisCache_TTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	c := cache.NewRedisCache(client, "")
	ctx := context.Background()

	c.Set(ctx, cache.KeyFeed, "xml", time.Hour)
	mr.FastForward(2 * time.Hour)

	var v string
	if found, _ := c.Get(ctx, cache.KeyFeed, &v); found {
		t.Error("Expected key to expire")
	}
}
