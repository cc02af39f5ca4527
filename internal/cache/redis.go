package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisPrefix = "availability:"

// Redis - кэш, общий для нескольких экземпляров сервиса
// Ошибки Redis не прерывают запрос: кэш считается пустым
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedis(client *redis.Client, ttl time.Duration, logger *zap.Logger) *Redis {
	return &Redis{client: client, ttl: ttl, logger: logger}
}

// setIfGeneration пишет значение, только если поколение не изменилось с момента чтения.
// KEYS[1] - счётчик поколения, KEYS[2] - ключ значения; ARGV: поколение, значение, TTL в мс.
var setIfGeneration = redis.NewScript(`
local current = redis.call('GET', KEYS[1]) or '0'
if current ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[2], ARGV[2])
end
return 1
`)

func (c *Redis) Get(ctx context.Context, eventTypeID uuid.UUID, key string) ([]string, Generation, bool) {
	gen, err := c.generation(ctx, eventTypeID)
	if err != nil {
		c.logger.Warn("Failed to read cache generation", zap.String("event_type_id", eventTypeID.String()), zap.Error(err))
		return nil, gen, false
	}

	raw, err := c.client.Get(ctx, redisPrefix+entryKey(eventTypeID, gen, key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Failed to read cache entry", zap.String("key", key), zap.Error(err))
		}
		return nil, gen, false
	}

	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		c.logger.Warn("Failed to decode cache entry", zap.String("key", key), zap.Error(err))
		return nil, gen, false
	}
	return values, gen, true
}

// Set атомарно сверяет поколение и записывает значение
func (c *Redis) Set(ctx context.Context, eventTypeID uuid.UUID, gen Generation, key string, values []string) {
	raw, err := json.Marshal(values)
	if err != nil {
		return
	}

	keys := []string{generationKey(eventTypeID), redisPrefix + entryKey(eventTypeID, gen, key)}
	written, err := setIfGeneration.Run(ctx, c.client, keys, strconv.FormatUint(uint64(gen), 10), raw, c.ttl.Milliseconds()).Int()
	if err != nil {
		c.logger.Warn("Failed to write cache entry", zap.String("key", key), zap.Error(err))
		return
	}
	if written == 0 {
		c.logger.Debug("Cache entry skipped, generation changed", zap.String("event_type_id", eventTypeID.String()), zap.String("key", key))
	}
}

// Invalidate увеличивает поколение, старые ключи истекают по TTL
func (c *Redis) Invalidate(ctx context.Context, eventTypeID uuid.UUID) {
	if err := c.client.Incr(ctx, generationKey(eventTypeID)).Err(); err != nil {
		c.logger.Error("Failed to invalidate cache", zap.String("event_type_id", eventTypeID.String()), zap.Error(err))
	}
}

// Ping проверяет соединение с Redis
func (c *Redis) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

func (c *Redis) generation(ctx context.Context, eventTypeID uuid.UUID) (Generation, error) {
	gen, err := c.client.Get(ctx, generationKey(eventTypeID)).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return Generation(gen), err
}

func generationKey(eventTypeID uuid.UUID) string {
	return redisPrefix + "gen:" + eventTypeID.String()
}
