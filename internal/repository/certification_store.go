package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNoCertification 该邮箱从未请求过验证码（或已过期）
var ErrNoCertification = errors.New("no certification number for email")

// CertificationStore 邮箱验证码存储；每个邮箱至多一条在用记录
type CertificationStore interface {
	// Save 覆盖旧验证码（新请求天然使旧码失效）
	Save(ctx context.Context, email, number string) error
	Find(ctx context.Context, email string) (string, error)
	Delete(ctx context.Context, email string) error
}

type certificationStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCertificationStore(rdb *redis.Client, ttl time.Duration) CertificationStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &certificationStore{rdb: rdb, ttl: ttl}
}

func certificationKey(email string) string { return "certification:" + email }

func (s *certificationStore) Save(ctx context.Context, email, number string) error {
	return s.rdb.Set(ctx, certificationKey(email), number, s.ttl).Err()
}

func (s *certificationStore) Find(ctx context.Context, email string) (string, error) {
	v, err := s.rdb.Get(ctx, certificationKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoCertification
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (s *certificationStore) Delete(ctx context.Context, email string) error {
	return s.rdb.Del(ctx, certificationKey(email)).Err()
}
