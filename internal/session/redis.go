package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"spice-storefront/internal/resolver"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	redisKeyPrefix  = "storefront:tabs:"
	slotFieldPrefix = "slot:"
	seqFieldPrefix  = "seq:"
)

// saveScript writes a slot only when its generation is newer. Generations are
// compared as decimal strings since Lua numbers cannot hold them exactly.
var saveScript = redis.NewScript(`
local current = redis.call('HGET', KEYS[1], ARGV[1])
if current then
  local incoming = ARGV[2]
  if #current > #incoming or (#current == #incoming and current >= incoming) then
    return 0
  end
end
redis.call('HSET', KEYS[1], ARGV[1], ARGV[2], ARGV[3], ARGV[4])
redis.call('PEXPIRE', KEYS[1], ARGV[5])
return 1
`)

// redisStore keeps one hash per session. Each selector has a slot field and
// a generation field, in disjoint prefixed namespaces.
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisStore creates a redis-backed store. Sessions expire ttl after their
// last write.
func NewRedisStore(client *redis.Client, ttl time.Duration, logger zerolog.Logger) Store {
	return &redisStore{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "redis-tab-store").Logger(),
	}
}

func (s *redisStore) key(sessionID string) string {
	return redisKeyPrefix + sessionID
}

func (s *redisStore) Load(ctx context.Context, sessionID string) (map[string]resolver.Slot, error) {
	if err := validate(sessionID); err != nil {
		return nil, err
	}

	fields, err := s.client.HGetAll(ctx, s.key(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("load tabs: %w", err)
	}

	slots := make(map[string]resolver.Slot, len(fields)/2)
	for field, value := range fields {
		selector, ok := strings.CutPrefix(field, slotFieldPrefix)
		if !ok {
			continue
		}
		var slot resolver.Slot
		if err := json.Unmarshal([]byte(value), &slot); err != nil {
			s.logger.Warn().Err(err).Str("selector", selector).Msg("discarding unreadable tab slot")
			continue
		}
		slots[selector] = slot
	}
	return slots, nil
}

func (s *redisStore) Save(ctx context.Context, sessionID, selector string, slot resolver.Slot) (bool, error) {
	if err := validate(sessionID); err != nil {
		return false, err
	}

	payload, err := json.Marshal(slot)
	if err != nil {
		return false, fmt.Errorf("encode tab slot: %w", err)
	}

	applied, err := saveScript.Run(ctx, s.client,
		[]string{s.key(sessionID)},
		seqField(selector),
		strconv.FormatUint(slot.Seq, 10),
		slotField(selector),
		payload,
		s.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("save tab slot: %w", err)
	}
	return applied == 1, nil
}

func slotField(selector string) string {
	return slotFieldPrefix + selector
}

func seqField(selector string) string {
	return seqFieldPrefix + selector
}

// Prune is a no-op; redis expires whole sessions through their TTL.
func (s *redisStore) Prune(ctx context.Context, before time.Time) (int, error) {
	return 0, nil
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
