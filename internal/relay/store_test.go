package relay

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saaga0h/lux-platform/pkg/redis"
	"github.com/saaga0h/lux-platform/pkg/redis/redistest"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func stores(t *testing.T) map[string]Store {
	t.Helper()
	return map[string]Store{
		"memory": NewMemoryStore(3),
		"redis":  NewRedisStore(redistest.NewFake(), 3, testLogger()),
	}
}

func TestStore_EmptyLast(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			c, err := s.Last(context.Background())
			require.NoError(t, err)
			assert.Equal(t, int64(0), c.ID)
			assert.Empty(t, c.Cmd)
			assert.True(t, c.At.Equal(Epoch))
		})
	}
}

func TestStore_AppendAssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			first, err := s.Append(ctx, "lux on all")
			require.NoError(t, err)
			second, err := s.Append(ctx, "lux off kitchen")
			require.NoError(t, err)

			assert.Equal(t, int64(1), first.ID)
			assert.Equal(t, int64(2), second.ID)

			last, err := s.Last(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(2), last.ID)
			assert.Equal(t, "lux off kitchen", last.Cmd)
			assert.WithinDuration(t, time.Now(), last.At, time.Minute)
		})
	}
}

func TestStore_HistoryIsBounded(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for _, cmd := range []string{"a", "b", "c", "d", "e"} {
				_, err := s.Append(ctx, cmd)
				require.NoError(t, err)
			}

			history, err := s.History(ctx, 0)
			require.NoError(t, err)
			require.Len(t, history, 3)
			assert.Equal(t, "e", history[0].Cmd)
			assert.Equal(t, "c", history[2].Cmd)

			two, err := s.History(ctx, 2)
			require.NoError(t, err)
			assert.Len(t, two, 2)
			assert.Equal(t, int64(5), two[0].ID)
		})
	}
}

func TestRedisStore_UsesKeyLayout(t *testing.T) {
	ctx := context.Background()
	fake := redistest.NewFake()
	s := NewRedisStore(fake, 50, testLogger())

	_, err := s.Append(ctx, "lux help")
	require.NoError(t, err)

	seq, err := fake.Get(ctx, redis.CommandSeqKey)
	require.NoError(t, err)
	assert.Equal(t, "1", seq)

	last, err := fake.HGetAll(ctx, redis.CommandLastKey)
	require.NoError(t, err)
	assert.Equal(t, "lux help", last["cmd"])
	assert.Equal(t, "1", last["id"])
	assert.Equal(t, 1, fake.Len(redis.CommandHistoryKey))
}

type failingIncr struct {
	*redistest.Fake
}

func (failingIncr) Incr(ctx context.Context, key string) (int64, error) {
	return 0, errors.New("connection refused")
}

func TestRedisStore_AppendError(t *testing.T) {
	s := NewRedisStore(failingIncr{redistest.NewFake()}, 5, testLogger())
	_, err := s.Append(context.Background(), "lux on all")
	assert.ErrorContains(t, err, "failed to allocate command id")
}
