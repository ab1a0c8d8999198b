package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/d60-Lab/dodam/config"
	"github.com/d60-Lab/dodam/internal/model"
	"github.com/d60-Lab/dodam/internal/repository"
	"github.com/d60-Lab/dodam/pkg/response"
)

// TokenDto 一次签发的令牌对
type TokenDto struct {
	AccessToken          string `json:"accessToken"`
	RefreshToken         string `json:"refreshToken"`
	AccessTokenExpiresIn int64  `json:"accessTokenExpiresIn"` // unix milli
}

// 令牌类型，写入 typ 声明；访问令牌与刷新令牌不可互换使用
const (
	typeAccess  = "access"
	typeRefresh = "refresh"
)

// Claims 令牌负载
type Claims struct {
	Nickname  string `json:"nickname,omitempty"`
	TokenType string `json:"typ,omitempty"`
	jwt.RegisteredClaims
}

// Provider 签发/校验 JWT，并维护每用户单条刷新令牌
type Provider struct {
	secret      []byte
	accessTTL   time.Duration
	refreshTTL  time.Duration
	refreshRepo repository.RefreshTokenRepository
}

func NewProvider(cfg config.JWTConfig, refreshRepo repository.RefreshTokenRepository) *Provider {
	return &Provider{
		secret:      []byte(cfg.Secret),
		accessTTL:   cfg.AccessTokenTTL,
		refreshTTL:  cfg.RefreshTokenTTL,
		refreshRepo: refreshRepo,
	}
}

// GenerateTokenDto 签发新令牌对并持久化刷新令牌（替换该用户旧令牌）
func (p *Provider) GenerateTokenDto(ctx context.Context, user *model.User) (*TokenDto, error) {
	now := time.Now()
	accessExpires := now.Add(p.accessTTL)

	// jti 保证同一秒内连续签发的令牌值也互不相同
	accessToken, err := p.sign(&Claims{
		Nickname:  user.Nickname,
		TokenType: typeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(accessExpires),
		},
	})
	if err != nil {
		return nil, err
	}

	refreshToken, err := p.sign(&Claims{
		TokenType: typeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.refreshTTL)),
		},
	})
	if err != nil {
		return nil, err
	}

	if err := p.refreshRepo.Replace(ctx, user.ID, refreshToken); err != nil {
		return nil, err
	}

	return &TokenDto{
		AccessToken:          accessToken,
		RefreshToken:         refreshToken,
		AccessTokenExpiresIn: accessExpires.UnixMilli(),
	}, nil
}

func (p *Provider) sign(claims *Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}

// ValidateToken 签名与有效期校验；畸形输入一律返回 false，不报错
func (p *Provider) ValidateToken(tokenString string) bool {
	_, err := p.parse(tokenString)
	return err == nil
}

// ParseUserID 从访问令牌中取出用户 ID；刷新令牌不能充当访问令牌
func (p *Provider) ParseUserID(tokenString string) (string, error) {
	claims, err := p.parse(tokenString)
	if err != nil {
		return "", err
	}
	if claims.TokenType != typeAccess {
		return "", errors.New("not an access token")
	}
	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}

func (p *Provider) parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return p.secret, nil
	}, jwt.WithExpirationRequired(), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// DeleteRefreshToken 登出：无在库令牌视为业务失败
func (p *Provider) DeleteRefreshToken(ctx context.Context, userID string) error {
	deleted, err := p.refreshRepo.DeleteByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return response.ErrTokenNotFound
	}
	return nil
}
