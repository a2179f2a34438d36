package slotlock

import (
	"context"
	"strconv"
	"time"

	"marketplace-booking/internal/domain/reservation"
	"marketplace-booking/internal/pkg/clock"
	"marketplace-booking/internal/pkg/config"
	"marketplace-booking/internal/pkg/errs"
	"marketplace-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Holds of one service live in a sorted set scored by expiry (unix ms). The
// scripts prune expired members first, so an expired hold is never honored.
//
// KEYS[1] set key
// ARGV: now, holder, start, end, expires_at, ttl_ms
var acquireScript = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', ARGV[1])
local holder = ARGV[2]
local s, e = tonumber(ARGV[3]), tonumber(ARGV[4])
local members = redis.call('ZRANGE', KEYS[1], 0, -1)
local own = {}
for _, m in ipairs(members) do
  local h, ms, me = string.match(m, '^([^|]+)|(%d+)|(%d+)$')
  if h and tonumber(ms) < e and tonumber(me) > s then
    if h ~= holder then
      return 0
    end
    table.insert(own, m)
  end
end
for _, m in ipairs(own) do
  redis.call('ZREM', KEYS[1], m)
end
redis.call('ZADD', KEYS[1], ARGV[5], holder .. '|' .. ARGV[3] .. '|' .. ARGV[4])
if redis.call('PTTL', KEYS[1]) < tonumber(ARGV[6]) then
  redis.call('PEXPIRE', KEYS[1], ARGV[6])
end
return 1
`)

// KEYS[1] set key
// ARGV: now, holder, start, end
var releaseScript = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', ARGV[1])
local s, e = tonumber(ARGV[3]), tonumber(ARGV[4])
local removed = 0
for _, m in ipairs(redis.call('ZRANGE', KEYS[1], 0, -1)) do
  local h, ms, me = string.match(m, '^([^|]+)|(%d+)|(%d+)$')
  if h == ARGV[2] and tonumber(ms) < e and tonumber(me) > s then
    removed = removed + redis.call('ZREM', KEYS[1], m)
  end
end
return removed
`)

type RedisStore struct {
	client  redis.UniversalClient
	prefix  string
	timeout time.Duration
	clock   clock.Clock
}

var _ shared.SlotHoldStore = (*RedisStore)(nil)

func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, errs.Wrap(err, "failed to parse Redis URL")
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, errs.Wrap(err, "failed to connect to Redis")
	}
	return client, nil
}

func NewRedisStore(client redis.UniversalClient, cfg config.RedisConfig, clk clock.Clock) *RedisStore {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "slot_lock"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &RedisStore{client: client, prefix: prefix, timeout: timeout, clock: clk}
}

func (s *RedisStore) key(serviceID uuid.UUID) string {
	return s.prefix + ":" + serviceID.String()
}

func (s *RedisStore) Acquire(ctx context.Context, hold *reservation.SlotReservation) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	now := s.clock.Now()
	ttl := hold.ExpiresIn(now)
	if ttl <= 0 {
		return errs.Wrap(reservation.ErrInvalidTTL, "hold already expired")
	}

	ok, err := acquireScript.Run(ctx, s.client, []string{s.key(hold.ServiceID())},
		now.UnixMilli(),
		hold.HolderID().String(),
		hold.StartTime().UnixMilli(),
		hold.EndTime().UnixMilli(),
		hold.ExpiresAt().UnixMilli(),
		ttl.Milliseconds(),
	).Int()
	if err != nil {
		return errs.Wrap(err, "slot hold acquire failed")
	}
	if ok == 0 {
		return errs.Wrapf(shared.ErrHoldConflict, "service %s", hold.ServiceID())
	}
	return nil
}

func (s *RedisStore) Release(ctx context.Context, serviceID, holderID uuid.UUID, start, end time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := releaseScript.Run(ctx, s.client, []string{s.key(serviceID)},
		s.clock.Now().UnixMilli(),
		holderID.String(),
		start.UnixMilli(),
		end.UnixMilli(),
	).Err()
	if err != nil && !errs.Is(err, redis.Nil) {
		return errs.Wrap(err, "slot hold release failed")
	}
	return nil
}

func (s *RedisStore) Live(ctx context.Context, serviceID uuid.UUID, from, to time.Time) ([]*reservation.SlotReservation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	now := s.clock.Now()
	members, err := s.client.ZRangeByScoreWithScores(ctx, s.key(serviceID), &redis.ZRangeBy{
		Min: "(" + strconv.FormatInt(now.UnixMilli(), 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, errs.Wrap(err, "slot hold lookup failed")
	}

	var out []*reservation.SlotReservation
	for _, z := range members {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		h, ok := reservation.ParseMember(serviceID, member, time.UnixMilli(int64(z.Score)).UTC())
		if !ok || !h.Overlaps(from, to) {
			continue
		}
		out = append(out, h)
	}
	return out, nil
}
