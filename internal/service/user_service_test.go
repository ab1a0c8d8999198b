package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/dodam/config"
	"github.com/d60-Lab/dodam/internal/model"
	"github.com/d60-Lab/dodam/internal/repository"
	"github.com/d60-Lab/dodam/internal/token"
	"github.com/d60-Lab/dodam/pkg/response"
)

func newUserService(t *testing.T) (UserService, repository.UserRepository, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	userRepo := repository.NewUserRepository(db)
	refreshRepo := repository.NewRefreshTokenRepository(db)
	provider := token.NewProvider(config.JWTConfig{
		Secret:          "test-secret",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
	}, refreshRepo)
	return NewUserService(userRepo, refreshRepo, provider, &fakeUploader{}), userRepo, db
}

func signupReq(email, nickname, password string) SignupRequest {
	return SignupRequest{
		Email:           email,
		Nickname:        nickname,
		Password:        password,
		PasswordConfirm: password,
		Location:        "seoul",
	}
}

func TestSignup(t *testing.T) {
	svc, userRepo, _ := newUserService(t)
	ctx := context.Background()

	require.NoError(t, svc.Signup(ctx, signupReq("a@x.com", "n1", "password1")))

	// 明文密码绝不落库
	user, err := userRepo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NotEqual(t, "password1", user.Password)
	assert.NotEmpty(t, user.ProfileURL)

	// 邮箱重复，与昵称/密码无关
	err = svc.Signup(ctx, signupReq("a@x.com", "n2", "password2"))
	assert.ErrorIs(t, err, response.ErrDuplicatedEmail)

	// 昵称重复
	err = svc.Signup(ctx, signupReq("b@x.com", "n1", "password2"))
	assert.ErrorIs(t, err, response.ErrDuplicatedNickname)

	// 两次密码不一致
	req := signupReq("b@x.com", "n2", "password2")
	req.PasswordConfirm = "different"
	err = svc.Signup(ctx, req)
	assert.ErrorIs(t, err, response.ErrPasswordsNotMatched)

	// 失败路径不得留下半截数据
	user, err = userRepo.FindByEmail(ctx, "b@x.com")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestLogin(t *testing.T) {
	svc, _, db := newUserService(t)
	ctx := context.Background()
	require.NoError(t, svc.Signup(ctx, signupReq("a@x.com", "n1", "password1")))

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginRequest{Email: "no@x.com", Password: "password1"})
		assert.ErrorIs(t, err, response.ErrUserNotFound)
	})

	t.Run("wrong password issues no tokens", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginRequest{Email: "a@x.com", Password: "wrong"})
		assert.ErrorIs(t, err, response.ErrInvalidUser)

		// 失败登录后库里不应有任何刷新令牌
		var count int64
		require.NoError(t, db.Model(&model.RefreshToken{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("success", func(t *testing.T) {
		res, err := svc.Login(ctx, LoginRequest{Email: "a@x.com", Password: "password1"})
		require.NoError(t, err)
		assert.Equal(t, "n1", res.Nickname)
		require.NotNil(t, res.Token)
		assert.NotEmpty(t, res.Token.AccessToken)
		assert.NotEmpty(t, res.Token.RefreshToken)
		assert.Greater(t, res.Token.AccessTokenExpiresIn, time.Now().UnixMilli())
	})
}

func TestRefreshRotation(t *testing.T) {
	svc, _, _ := newUserService(t)
	ctx := context.Background()
	require.NoError(t, svc.Signup(ctx, signupReq("a@x.com", "n1", "password1")))
	res, err := svc.Login(ctx, LoginRequest{Email: "a@x.com", Password: "password1"})
	require.NoError(t, err)

	original := res.Token.RefreshToken

	// 第一次刷新成功并轮换
	dto, err := svc.Refresh(ctx, original)
	require.NoError(t, err)
	assert.NotEqual(t, original, dto.RefreshToken)

	// 旧值复用失败
	_, err = svc.Refresh(ctx, original)
	assert.ErrorIs(t, err, response.ErrTokenNotFound)

	// 新值可用
	_, err = svc.Refresh(ctx, dto.RefreshToken)
	require.NoError(t, err)

	// 畸形令牌
	_, err = svc.Refresh(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, response.ErrInvalidToken)
}

func TestLogout(t *testing.T) {
	svc, _, _ := newUserService(t)
	ctx := context.Background()
	require.NoError(t, svc.Signup(ctx, signupReq("a@x.com", "n1", "password1")))
	res, err := svc.Login(ctx, LoginRequest{Email: "a@x.com", Password: "password1"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Logout(ctx, res.ID, "garbage"), response.ErrInvalidToken)

	require.NoError(t, svc.Logout(ctx, res.ID, res.Token.RefreshToken))

	// 再次登出：已无在库令牌
	assert.ErrorIs(t, svc.Logout(ctx, res.ID, res.Token.RefreshToken), response.ErrTokenNotFound)
}

func TestEditProfile(t *testing.T) {
	db := setupTestDB(t)
	userRepo := repository.NewUserRepository(db)
	refreshRepo := repository.NewRefreshTokenRepository(db)
	provider := token.NewProvider(config.JWTConfig{Secret: "s", AccessTokenTTL: time.Minute, RefreshTokenTTL: time.Hour}, refreshRepo)
	up := &fakeUploader{}
	svc := NewUserService(userRepo, refreshRepo, provider, up)
	ctx := context.Background()

	require.NoError(t, svc.Signup(ctx, signupReq("a@x.com", "n1", "password1")))
	require.NoError(t, svc.Signup(ctx, signupReq("b@x.com", "n2", "password2")))
	user, err := userRepo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)

	t.Run("keeps fields when nothing supplied", func(t *testing.T) {
		res, err := svc.EditProfile(ctx, user.ID, nil, "")
		require.NoError(t, err)
		assert.Equal(t, "n1", res.Nickname)
		assert.Equal(t, user.ProfileURL, res.ProfileURL)
		assert.Zero(t, up.uploads)
	})

	t.Run("duplicate nickname rejected", func(t *testing.T) {
		_, err := svc.EditProfile(ctx, user.ID, nil, "n2")
		assert.ErrorIs(t, err, response.ErrDuplicatedNickname)
	})

	t.Run("new image and nickname", func(t *testing.T) {
		res, err := svc.EditProfile(ctx, user.ID, makeFileHeader(t, "avatar.png"), "n1-new")
		require.NoError(t, err)
		assert.Equal(t, "n1-new", res.Nickname)
		assert.Contains(t, res.ProfileURL, "static/user")
		assert.Equal(t, 1, up.uploads)
	})
}

func TestEmailAndNicknameCheck(t *testing.T) {
	svc, _, _ := newUserService(t)
	ctx := context.Background()

	require.NoError(t, svc.EmailCheck(ctx, "a@x.com"))
	require.NoError(t, svc.NicknameCheck(ctx, "n1"))

	require.NoError(t, svc.Signup(ctx, signupReq("a@x.com", "n1", "password1")))

	assert.ErrorIs(t, svc.EmailCheck(ctx, "a@x.com"), response.ErrDuplicatedEmail)
	assert.ErrorIs(t, svc.NicknameCheck(ctx, "n1"), response.ErrDuplicatedNickname)
}
