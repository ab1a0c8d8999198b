package service

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/dodam/internal/model"
	"github.com/d60-Lab/dodam/internal/repository"
	"github.com/d60-Lab/dodam/internal/storage"
	"github.com/d60-Lab/dodam/internal/token"
	"github.com/d60-Lab/dodam/pkg/response"
)

// 新用户默认头像
const defaultProfileURL = "https://bondyu.s3.ap-northeast-2.amazonaws.com/static/user/default.png"

type SignupRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Nickname        string `json:"nickname" binding:"required,min=2,max=20,nickname"`
	Password        string `json:"password" binding:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required"`
	Location        string `json:"location"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	ID       string          `json:"id"`
	Nickname string          `json:"nickname"`
	Token    *token.TokenDto `json:"token"`
}

type ProfileResponse struct {
	ID         string `json:"id"`
	Nickname   string `json:"nickname"`
	ProfileURL string `json:"profileUrl"`
}

// UserService 账号域：注册 / 登录 / 登出 / 重复检查 / 资料修改 / 刷新
type UserService interface {
	Signup(ctx context.Context, req SignupRequest) error
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, userID, refreshTokenValue string) error
	EmailCheck(ctx context.Context, email string) error
	NicknameCheck(ctx context.Context, nickname string) error
	EditProfile(ctx context.Context, userID string, image *multipart.FileHeader, nickname string) (*ProfileResponse, error)
	Refresh(ctx context.Context, refreshTokenValue string) (*token.TokenDto, error)
}

type userService struct {
	userRepo    repository.UserRepository
	refreshRepo repository.RefreshTokenRepository
	provider    *token.Provider
	uploader    storage.Uploader
}

func NewUserService(
	userRepo repository.UserRepository,
	refreshRepo repository.RefreshTokenRepository,
	provider *token.Provider,
	uploader storage.Uploader,
) UserService {
	return &userService{userRepo: userRepo, refreshRepo: refreshRepo, provider: provider, uploader: uploader}
}

// Signup 逐项校验，任一失败即短路，不落任何数据
func (s *userService) Signup(ctx context.Context, req SignupRequest) error {
	if existing, err := s.userRepo.FindByEmail(ctx, req.Email); err != nil {
		return err
	} else if existing != nil {
		return response.ErrDuplicatedEmail
	}

	if existing, err := s.userRepo.FindByNickname(ctx, req.Nickname); err != nil {
		return err
	} else if existing != nil {
		return response.ErrDuplicatedNickname
	}

	if req.Password != req.PasswordConfirm {
		return response.ErrPasswordsNotMatched
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.userRepo.Create(ctx, &model.User{
		ID:         uuid.New().String(),
		Email:      req.Email,
		Nickname:   req.Nickname,
		Password:   string(hash),
		Location:   req.Location,
		ProfileURL: defaultProfileURL,
	})
}

func (s *userService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, response.ErrUserNotFound
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, response.ErrInvalidUser
	}

	dto, err := s.provider.GenerateTokenDto(ctx, user)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{ID: user.ID, Nickname: user.Nickname, Token: dto}, nil
}

func (s *userService) Logout(ctx context.Context, userID, refreshTokenValue string) error {
	if !s.provider.ValidateToken(refreshTokenValue) {
		return response.ErrInvalidToken
	}
	if userID == "" {
		return response.ErrNotLoginState
	}
	return s.provider.DeleteRefreshToken(ctx, userID)
}

func (s *userService) EmailCheck(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user != nil {
		return response.ErrDuplicatedEmail
	}
	return nil
}

func (s *userService) NicknameCheck(ctx context.Context, nickname string) error {
	user, err := s.userRepo.FindByNickname(ctx, nickname)
	if err != nil {
		return err
	}
	if user != nil {
		return response.ErrDuplicatedNickname
	}
	return nil
}

// EditProfile 未提供的字段保持原值；新昵称按注册同样的唯一性校验
func (s *userService) EditProfile(ctx context.Context, userID string, image *multipart.FileHeader, nickname string) (*ProfileResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// 已认证用户查不到记录属于内部故障，交由边界层兜底
		return nil, fmt.Errorf("authenticated user %s not found", userID)
	}

	profileURL := user.ProfileURL
	if image != nil {
		profileURL, err = s.uploader.Upload(ctx, image, "static/user")
		if err != nil {
			return nil, err
		}
	}

	newNickname := user.Nickname
	if nickname != "" && nickname != user.Nickname {
		existing, err := s.userRepo.FindByNickname(ctx, nickname)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, response.ErrDuplicatedNickname
		}
		newNickname = nickname
	}

	user.ProfileURL = profileURL
	user.Nickname = newNickname
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return &ProfileResponse{ID: user.ID, Nickname: user.Nickname, ProfileURL: user.ProfileURL}, nil
}

// Refresh 轮换：在库令牌一次性使用，旧值刷新后立即失效
func (s *userService) Refresh(ctx context.Context, refreshTokenValue string) (*token.TokenDto, error) {
	if !s.provider.ValidateToken(refreshTokenValue) {
		return nil, response.ErrInvalidToken
	}

	stored, err := s.refreshRepo.FindByValue(ctx, refreshTokenValue)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, response.ErrTokenNotFound
	}

	user, err := s.userRepo.FindByID(ctx, stored.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("refresh token owner %s not found", stored.UserID)
	}

	// GenerateTokenDto 单事务替换在库令牌，完成轮换
	return s.provider.GenerateTokenDto(ctx, user)
}
