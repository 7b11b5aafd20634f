package stores

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/GoncharovAlexandr/onshp/apperr"
	"github.com/GoncharovAlexandr/onshp/auth"
)

const (
	sessionPrefix = "session:"
	popularKey    = "popular_products"
)

type redisSessions struct {
	rdb *redis.Client
}

func (s *redisSessions) Get(ctx context.Context, token string) (auth.Session, error) {
	data, err := s.rdb.Get(ctx, sessionPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return auth.Session{}, apperr.ErrUnauthorized
	}
	if err != nil {
		return auth.Session{}, err
	}
	sess, err := auth.ParsePayload(token, data)
	if err != nil {
		// Undecodable payloads count as invalid sessions, not server faults.
		return auth.Session{}, apperr.ErrUnauthorized
	}
	return sess, nil
}

func (s *redisSessions) Put(ctx context.Context, sess auth.Session) error {
	payload, err := sess.MarshalPayload()
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, sessionPrefix+sess.Token, payload, auth.SessionTTL).Err()
}

func (s *redisSessions) FindByAccount(ctx context.Context, role auth.Role, accountID uint) (auth.Session, bool, error) {
	iter := s.rdb.Scan(ctx, 0, sessionPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		data, err := s.rdb.Get(ctx, key).Bytes()
		if err != nil {
			continue // expired between SCAN and GET
		}
		sess, err := auth.ParsePayload(strings.TrimPrefix(key, sessionPrefix), data)
		if err != nil {
			continue
		}
		if sess.Role == role && sess.AccountID == accountID {
			return sess, true, nil
		}
	}
	if err := iter.Err(); err != nil {
		return auth.Session{}, false, err
	}
	return auth.Session{}, false, nil
}

func (s *redisSessions) Delete(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, sessionPrefix+token).Err()
}

type redisPopularity struct {
	rdb *redis.Client
}

func (p *redisPopularity) Bump(ctx context.Context, productID uint) error {
	return p.rdb.ZIncrBy(ctx, popularKey, 1, strconv.FormatUint(uint64(productID), 10)).Err()
}

func (p *redisPopularity) Top(ctx context.Context, n int64) ([]uint, error) {
	members, err := p.rdb.ZRevRange(ctx, popularKey, 0, n-1).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

type redisCache struct {
	rdb *redis.Client
}

func (c *redisCache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *redisCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, data, ttl).Err()
}
