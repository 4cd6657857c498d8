package hold

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/metinatakli/seating-session/internal/domain"
	"github.com/redis/go-redis/v9"
)

var lockSeatsScript = redis.NewScript(`
    -- KEYS = [holdKey, holdSeatsKey, seat hold keys...]
    -- ARGV = [token, ttl, seat ids...] (ARGV[i] is the seat of KEYS[i])

    if redis.call("EXISTS", KEYS[1]) == 0 then
        return {err = "hold expired"}
    end

    for i=3, #KEYS do
        local owner = redis.call("GET", KEYS[i])
        if owner and owner ~= ARGV[1] then
            return {err = "seat already held"}
        end
    end

    for i=3, #KEYS do
        redis.call("SET", KEYS[i], ARGV[1], "EX", ARGV[2])
        redis.call("SADD", KEYS[2], ARGV[i])
    end

    redis.call("EXPIRE", KEYS[2], ARGV[2])

    return "OK"
`)

var refreshHoldScript = redis.NewScript(`
    -- KEYS = [holdKey, holdSeatsKey]
    -- ARGV = [token, ttl, eventKey]

    if redis.call("EXISTS", KEYS[1]) == 0 then
        return {err = "hold expired"}
    end

    redis.call("EXPIRE", KEYS[1], ARGV[2])
    redis.call("EXPIRE", KEYS[2], ARGV[2])

    local seatIds = redis.call("SMEMBERS", KEYS[2])
    for _, seatId in ipairs(seatIds) do
        local lockKey = "seat_hold:" .. ARGV[3] .. ":" .. seatId
        if redis.call("GET", lockKey) == ARGV[1] then
            redis.call("EXPIRE", lockKey, ARGV[2])
        end
    end

    return ARGV[1]
`)

var releaseHoldScript = redis.NewScript(`
    -- KEYS = [holdKey, holdSeatsKey]
    -- ARGV = [token, eventKey]

    local seatIds = redis.call("SMEMBERS", KEYS[2])
    for _, seatId in ipairs(seatIds) do
        local lockKey = "seat_hold:" .. ARGV[2] .. ":" .. seatId
        if redis.call("GET", lockKey) == ARGV[1] then
            redis.call("DEL", lockKey)
        end
    end

    redis.call("DEL", KEYS[1], KEYS[2])

    return "OK"
`)

// RedisHoldService issues hold tokens for one event and pins seats to them
// with expiring redis keys.
type RedisHoldService struct {
	client   redis.UniversalClient
	eventKey string
	ttl      time.Duration
}

func NewRedisHoldService(client redis.UniversalClient, eventKey string, ttl time.Duration) (*RedisHoldService, error) {
	if eventKey == "" {
		return nil, domain.NewError(domain.ErrorKindConfig, "event key must not be empty", nil)
	}

	if ttl <= 0 {
		return nil, domain.NewError(domain.ErrorKindConfig, "hold TTL must be positive", ttl)
	}

	return &RedisHoldService{
		client:   client,
		eventKey: eventKey,
		ttl:      ttl,
	}, nil
}

func (s *RedisHoldService) GetHoldToken(ctx context.Context) (string, error) {
	token := uuid.NewString()

	ok, err := s.client.SetNX(ctx, holdKey(s.eventKey, token), time.Now().UTC().Format(time.RFC3339), s.ttl).Result()
	if err != nil {
		return "", fmt.Errorf("failed to create hold: %w", err)
	}

	if !ok {
		return "", fmt.Errorf("hold token %s already exists", token)
	}

	return token, nil
}

func (s *RedisHoldService) RefreshHoldToken(ctx context.Context, token string) (string, error) {
	keys := []string{holdKey(s.eventKey, token), holdSeatsKey(s.eventKey, token)}

	refreshed, err := refreshHoldScript.Run(ctx, s.client, keys, token, s.ttlSeconds(), s.eventKey).Text()
	if err != nil {
		if redis.HasErrorPrefix(err, "hold expired") {
			return "", domain.ErrHoldTokenExpired
		}

		return "", fmt.Errorf("failed to refresh hold: %w", err)
	}

	return refreshed, nil
}

func (s *RedisHoldService) LockSeats(ctx context.Context, token string, seatIDs []string) error {
	if len(seatIDs) == 0 {
		return nil
	}

	keys := make([]string, 0, len(seatIDs)+2)
	keys = append(keys, holdKey(s.eventKey, token), holdSeatsKey(s.eventKey, token))

	args := make([]interface{}, 0, len(seatIDs)+2)
	args = append(args, token, s.ttlSeconds())

	for _, seatID := range seatIDs {
		keys = append(keys, seatHoldKey(s.eventKey, seatID))
		args = append(args, seatID)
	}

	err := lockSeatsScript.Run(ctx, s.client, keys, args...).Err()
	if err != nil {
		switch {
		case redis.HasErrorPrefix(err, "seat already held"):
			return domain.ErrSeatAlreadyHeld
		case redis.HasErrorPrefix(err, "hold expired"):
			return domain.ErrHoldTokenExpired
		default:
			return fmt.Errorf("failed to lock seats: %w", err)
		}
	}

	return nil
}

func (s *RedisHoldService) ReleaseHold(ctx context.Context, token string) error {
	keys := []string{holdKey(s.eventKey, token), holdSeatsKey(s.eventKey, token)}

	err := releaseHoldScript.Run(ctx, s.client, keys, token, s.eventKey).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to release hold: %w", err)
	}

	return nil
}

// HeldBy returns the token currently holding seatID, or "" when it is free.
func (s *RedisHoldService) HeldBy(ctx context.Context, seatID string) (string, error) {
	token, err := s.client.Get(ctx, seatHoldKey(s.eventKey, seatID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}

		return "", err
	}

	return token, nil
}

func (s *RedisHoldService) ttlSeconds() int {
	return int(s.ttl.Seconds())
}

func holdKey(eventKey, token string) string {
	return fmt.Sprintf("hold:%s:%s", eventKey, token)
}

func holdSeatsKey(eventKey, token string) string {
	return fmt.Sprintf("hold_seats:%s:%s", eventKey, token)
}

func seatHoldKey(eventKey, seatID string) string {
	return fmt.Sprintf("seat_hold:%s:%s", eventKey, seatID)
}
