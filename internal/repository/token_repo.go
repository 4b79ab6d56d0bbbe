package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// TokenRepository 登出后的JWT黑名单，key带过期时间，token本身过期后黑名单也就没用了
type TokenRepository interface {
	Revoke(jti string, ttl time.Duration) error
	IsRevoked(jti string) (bool, error)
}

type tokenRepository struct {
	rdb *redis.Client
}

func NewTokenRepository(rdb *redis.Client) TokenRepository {
	return &tokenRepository{rdb: rdb}
}

func (r *tokenRepository) keyRevoked(jti string) string {
	return fmt.Sprintf("auth:revoked:%s", jti)
}

func (r *tokenRepository) Revoke(jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // 已经过期的token不用再拉黑
	}
	return r.rdb.Set(context.Background(), r.keyRevoked(jti), 1, ttl).Err()
}

func (r *tokenRepository) IsRevoked(jti string) (bool, error) {
	n, err := r.rdb.Exists(context.Background(), r.keyRevoked(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
