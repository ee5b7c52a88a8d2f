package secrets

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/talentbridge/internal/common"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "otp:a@x.com", OTPKey(" A@X.com "))
	assert.Equal(t, "reset:abc", ResetKey("abc"))
}

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client), mr
}

func TestRedisStore_PutGetDelete(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "otp:a@x.com")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, "otp:a@x.com", "123456", 5*time.Minute))
	assert.Equal(t, 5*time.Minute, mr.TTL("otp:a@x.com"))

	v, ok, err := s.Get(ctx, "otp:a@x.com")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "123456", v)

	require.NoError(t, s.Put(ctx, "otp:a@x.com", "654321", 5*time.Minute))
	v, _, _ = s.Get(ctx, "otp:a@x.com")
	assert.Equal(t, "654321", v)

	require.NoError(t, s.Delete(ctx, "otp:a@x.com"))
	require.NoError(t, s.Delete(ctx, "otp:a@x.com"))
	_, ok, err = s.Get(ctx, "otp:a@x.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_Expiry(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "k", "v", 300*time.Second))

	mr.FastForward(299 * time.Second)
	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(time.Second)
	_, ok, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_Unavailable(t *testing.T) {
	s, mr := newRedisStore(t)
	mr.Close()
	ctx := context.Background()

	assert.ErrorIs(t, s.Put(ctx, "k", "v", time.Minute), common.ErrStoreUnavailable)
	_, _, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, common.ErrStoreUnavailable)
	assert.ErrorIs(t, s.Delete(ctx, "k"), common.ErrStoreUnavailable)
	_, _, err = s.Take(ctx, "k")
	assert.ErrorIs(t, err, common.ErrStoreUnavailable)
	_, err = s.ConsumeIfEqual(ctx, "k", "v")
	assert.ErrorIs(t, err, common.ErrStoreUnavailable)
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func TestMemoryStore_Expiry(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	s := NewMemoryStoreWithClock(clock.Now)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "k", "v", 10*time.Second))

	clock.Advance(9 * time.Second)
	v, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	clock.Advance(time.Second)
	_, ok, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_DeleteIdempotent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "k", "v", time.Minute))
	require.NoError(t, s.Delete(ctx, "k"))
	require.NoError(t, s.Delete(ctx, "k"))

	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_Concurrent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Put(ctx, "k", "v", time.Minute)
			_, _, _ = s.Get(ctx, "k")
			_ = s.Delete(ctx, "k")
		}()
	}
	wg.Wait()
}

func bothStores(t *testing.T) map[string]Store {
	t.Helper()
	rs, _ := newRedisStore(t)
	return map[string]Store{"memory": NewMemoryStore(), "redis": rs}
}

func TestStore_Take(t *testing.T) {
	for name, s := range bothStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, ok, err := s.Take(ctx, "reset:t")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Put(ctx, "reset:t", "a@x.com", time.Minute))
			v, ok, err := s.Take(ctx, "reset:t")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "a@x.com", v)

			_, ok, err = s.Take(ctx, "reset:t")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestStore_ConsumeIfEqual(t *testing.T) {
	for name, s := range bothStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			ok, err := s.ConsumeIfEqual(ctx, "otp:a@x.com", "123456")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Put(ctx, "otp:a@x.com", "123456", time.Minute))

			ok, err = s.ConsumeIfEqual(ctx, "otp:a@x.com", "000000")
			require.NoError(t, err)
			assert.False(t, ok)
			v, ok, err := s.Get(ctx, "otp:a@x.com")
			require.NoError(t, err)
			assert.True(t, ok, "mismatch must keep the code")
			assert.Equal(t, "123456", v)

			ok, err = s.ConsumeIfEqual(ctx, "otp:a@x.com", "123456")
			require.NoError(t, err)
			assert.True(t, ok)
			_, ok, err = s.Get(ctx, "otp:a@x.com")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestStore_ConcurrentConsumeSucceedsOnce(t *testing.T) {
	const n = 20
	for name, s := range bothStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Put(ctx, "reset:t", "a@x.com", time.Minute))
			require.NoError(t, s.Put(ctx, "otp:a@x.com", "123456", time.Minute))

			var (
				wg             sync.WaitGroup
				mu             sync.Mutex
				taken, matched int
			)
			for i := 0; i < n; i++ {
				wg.Add(2)
				go func() {
					defer wg.Done()
					_, ok, err := s.Take(ctx, "reset:t")
					assert.NoError(t, err)
					if ok {
						mu.Lock()
						taken++
						mu.Unlock()
					}
				}()
				go func() {
					defer wg.Done()
					ok, err := s.ConsumeIfEqual(ctx, "otp:a@x.com", "123456")
					assert.NoError(t, err)
					if ok {
						mu.Lock()
						matched++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()

			assert.Equal(t, 1, taken)
			assert.Equal(t, 1, matched)
		})
	}
}

func TestMemoryStore_ConsumeExpired(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	s := NewMemoryStoreWithClock(clock.Now)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "otp:a@x.com", "123456", time.Minute))
	require.NoError(t, s.Put(ctx, "reset:t", "a@x.com", time.Minute))
	clock.Advance(time.Minute)

	ok, err := s.ConsumeIfEqual(ctx, "otp:a@x.com", "123456")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = s.Take(ctx, "reset:t")
	require.NoError(t, err)
	assert.False(t, ok)
}
