package cache_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-payroll/internal/shared/cache"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"golang.org/x/sync/singleflight"
)

type totals struct {
	Gross int64 `json:"gross"`
	Net   int64 `json:"net"`
}

func TestKey(t *testing.T) {
	assert.Equal(t, "payroll:period:school-1:p-1", cache.Key("payroll", "period", "school-1", "p-1"))
}

func TestRedisCache_GetSet(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	c := cache.NewRedisCache(db)

	t.Run("miss", func(t *testing.T) {
		mock.ExpectGet("k1").RedisNil()

		var dest totals
		found, err := c.Get(ctx, "k1", &dest)

		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("hit", func(t *testing.T) {
		payload, _ := json.Marshal(totals{Gross: 100, Net: 80})
		mock.ExpectGet("k2").SetVal(string(payload))

		var dest totals
		found, err := c.Get(ctx, "k2", &dest)

		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, int64(80), dest.Net)
	})

	t.Run("set", func(t *testing.T) {
		payload, _ := json.Marshal(totals{Gross: 1, Net: 1})
		mock.ExpectSet("k3", payload, time.Minute).SetVal("OK")

		err := c.Set(ctx, "k3", totals{Gross: 1, Net: 1}, time.Minute)
		assert.NoError(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_InvalidatePrefix(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	c := cache.NewRedisCache(db)

	t.Run("deletes every matching key", func(t *testing.T) {
		mock.ExpectScan(0, "salary_structures:s1*", 100).SetVal([]string{"salary_structures:s1:all", "salary_structures:s1:active"}, 0)
		mock.ExpectDel("salary_structures:s1:all", "salary_structures:s1:active").SetVal(2)

		assert.NoError(t, c.InvalidatePrefix(ctx, "salary_structures:s1"))
	})

	t.Run("nothing to delete", func(t *testing.T) {
		mock.ExpectScan(0, "empty*", 100).SetVal([]string{}, 0)

		assert.NoError(t, c.InvalidatePrefix(ctx, "empty"))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

type memCache struct {
	data map[string][]byte
	sets int
}

func (m *memCache) Get(_ context.Context, key string, dest any) (bool, error) {
	v, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(v, dest)
}

func (m *memCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = b
	m.sets++
	return nil
}

func (m *memCache) InvalidatePrefix(context.Context, string) error { return nil }

func TestRemember(t *testing.T) {
	ctx := context.Background()
	mc := &memCache{data: map[string][]byte{}}
	sf := &singleflight.Group{}
	loads := 0

	load := func(ctx context.Context) (totals, error) {
		loads++
		return totals{Gross: 500, Net: 400}, nil
	}

	first, err := cache.Remember(ctx, mc, sf, "t", time.Minute, load)
	assert.NoError(t, err)
	second, err := cache.Remember(ctx, mc, sf, "t", time.Minute, load)
	assert.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, loads)
	assert.Equal(t, 1, mc.sets)

	_, err = cache.Remember(ctx, mc, sf, "boom", time.Minute, func(ctx context.Context) (totals, error) {
		return totals{}, errors.New("db down")
	})
	assert.EqualError(t, err, "db down")
}
