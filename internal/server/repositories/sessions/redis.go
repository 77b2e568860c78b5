package sessions

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/ecnotes/internal/common"
	"github.com/dmitrijs2005/ecnotes/internal/server/models"
)

// RedisRepository keeps sessions in redis. The key TTL tracks the session
// expiry, so redis reclaims dead sessions on its own; the stored expires_at
// remains authoritative for the lazy-expiry check in the session manager.
type RedisRepository struct {
	rdb *redis.Client
}

func NewRedisRepository(rdb *redis.Client) *RedisRepository {
	return &RedisRepository{rdb: rdb}
}

const sessionKeyPrefix = "session:"

type sessionRecord struct {
	UserID    uint32    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

func sessionKey(token []byte) string {
	return sessionKeyPrefix + hex.EncodeToString(token)
}

func (r *RedisRepository) Create(ctx context.Context, session *models.Session) error {
	data, err := json.Marshal(sessionRecord{UserID: session.UserID, ExpiresAt: session.ExpiresAt})
	if err != nil {
		return fmt.Errorf("session store error: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Second
	}

	// SETNX: never overwrite a live token
	ok, err := r.rdb.SetNX(ctx, sessionKey(session.Token), data, ttl).Result()
	if err != nil {
		return fmt.Errorf("session store error: %w", err)
	}
	if !ok {
		return common.ErrorAlreadyExists
	}
	return nil
}

func (r *RedisRepository) Get(ctx context.Context, token []byte) (*models.Session, error) {
	data, err := r.rdb.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("session store error: %w", err)
	}

	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("session store error: %w", err)
	}

	return &models.Session{
		Token:     append([]byte{}, token...),
		UserID:    rec.UserID,
		ExpiresAt: rec.ExpiresAt,
	}, nil
}

func (r *RedisRepository) Delete(ctx context.Context, token []byte) error {
	if err := r.rdb.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("session store error: %w", err)
	}
	return nil
}
