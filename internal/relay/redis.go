package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/saaga0h/lux-platform/pkg/redis"
)

// RedisStore shares relayed commands between processes through Redis
type RedisStore struct {
	client redis.Client
	limit  int
	logger *slog.Logger
	now    func() time.Time
}

// NewRedisStore creates a Redis-backed store keeping limit commands of history
func NewRedisStore(client redis.Client, limit int, logger *slog.Logger) *RedisStore {
	if limit < 1 {
		limit = 1
	}
	return &RedisStore{
		client: client,
		limit:  limit,
		logger: logger,
		now:    time.Now,
	}
}

func (s *RedisStore) Last(ctx context.Context) (Command, error) {
	fields, err := s.client.HGetAll(ctx, redis.CommandLastKey)
	if err != nil {
		return Command{}, fmt.Errorf("failed to read last command: %w", err)
	}
	if len(fields) == 0 {
		return Empty(), nil
	}

	c := Empty()
	c.Cmd = fields["cmd"]
	if c.ID, err = strconv.ParseInt(fields["id"], 10, 64); err != nil {
		return Command{}, fmt.Errorf("invalid command id %q: %w", fields["id"], err)
	}
	if at, err := time.Parse(time.RFC3339Nano, fields["at"]); err == nil {
		c.At = at
	} else {
		s.logger.Warn("Ignoring unparsable command timestamp", "at", fields["at"], "error", err)
	}
	return c, nil
}

func (s *RedisStore) Append(ctx context.Context, cmd string) (Command, error) {
	id, err := s.client.Incr(ctx, redis.CommandSeqKey)
	if err != nil {
		return Command{}, fmt.Errorf("failed to allocate command id: %w", err)
	}

	c := Command{ID: id, Cmd: cmd, At: s.now().UTC()}

	err = s.client.HSet(ctx, redis.CommandLastKey, map[string]interface{}{
		"id":  c.ID,
		"cmd": c.Cmd,
		"at":  c.At.Format(time.RFC3339Nano),
	})
	if err != nil {
		return Command{}, fmt.Errorf("failed to store last command: %w", err)
	}

	data, err := json.Marshal(c)
	if err != nil {
		return Command{}, fmt.Errorf("failed to marshal command: %w", err)
	}
	if err := s.client.LPush(ctx, redis.CommandHistoryKey, string(data)); err != nil {
		return Command{}, fmt.Errorf("failed to append command history: %w", err)
	}
	if err := s.client.LTrim(ctx, redis.CommandHistoryKey, 0, int64(s.limit-1)); err != nil {
		return Command{}, fmt.Errorf("failed to trim command history: %w", err)
	}

	s.logger.Debug("Relayed command", "id", c.ID, "cmd", c.Cmd)
	return c, nil
}

func (s *RedisStore) History(ctx context.Context, n int) ([]Command, error) {
	if n <= 0 || n > s.limit {
		n = s.limit
	}

	items, err := s.client.LRange(ctx, redis.CommandHistoryKey, 0, int64(n-1))
	if err != nil {
		return nil, fmt.Errorf("failed to read command history: %w", err)
	}

	out := make([]Command, 0, len(items))
	for _, item := range items {
		var c Command
		if err := json.Unmarshal([]byte(item), &c); err != nil {
			s.logger.Warn("Skipping malformed history entry", "error", err)
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
