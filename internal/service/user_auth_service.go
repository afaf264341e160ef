package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/boutique-next/internal/cache"
	"github.com/boutique-next/internal/config"
	"github.com/boutique-next/internal/constants"
	"github.com/boutique-next/internal/models"
	"github.com/boutique-next/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// UserAuthService 用户认证服务
type UserAuthService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
}

// NewUserAuthService 创建用户认证服务
func NewUserAuthService(cfg *config.Config, userRepo repository.UserRepository) *UserAuthService {
	return &UserAuthService{
		cfg:      cfg,
		userRepo: userRepo,
	}
}

// UserJWTClaims 用户 JWT 声明
type UserJWTClaims struct {
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// GenerateUserJWT 生成用户 JWT Token
func (s *UserAuthService) GenerateUserJWT(user *models.User, expireHours int) (string, time.Time, error) {
	resolvedHours := expireHours
	if resolvedHours <= 0 {
		resolvedHours = s.cfg.Session.ExpireHours
	}
	if resolvedHours <= 0 {
		resolvedHours = 24
	}
	expiresAt := time.Now().Add(time.Duration(resolvedHours) * time.Hour)
	claims := UserJWTClaims{
		UserID:       user.ID,
		Email:        user.Email,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.Session.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseUserJWT 解析用户 JWT Token
func (s *UserAuthService) ParseUserJWT(tokenString string) (*UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Session.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*UserJWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// RegisterInput 注册输入
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Locale    string
}

// Register 用户注册，返回用户与已签发的登录令牌
func (s *UserAuthService) Register(input RegisterInput) (*models.User, string, time.Time, error) {
	normalized, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if err := s.validatePassword(input.Password); err != nil {
		return nil, "", time.Time{}, err
	}

	count, err := s.userRepo.CountByEmail(normalized, nil)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if count > 0 {
		return nil, "", time.Time{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user := &models.User{
		Email:        normalized,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Role:         constants.RoleUser,
		IsActive:     true,
		Locale:       input.Locale,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, "", time.Time{}, err
	}

	token, expiresAt, err := s.GenerateUserJWT(user, 0)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, expiresAt, nil
}

// Login 用户登录
func (s *UserAuthService) Login(ctx context.Context, email, password string) (*models.User, string, time.Time, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, "", time.Time{}, ErrInvalidCredentials
		}
		return nil, "", time.Time{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, "", time.Time{}, ErrAccountDisabled
	}

	token, expiresAt, err := s.GenerateUserJWT(user, 0)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	if err := s.userRepo.UpdateLastLogin(user.ID, now); err != nil {
		return nil, "", time.Time{}, err
	}
	user.LastLoginAt = &now
	_ = cache.SetUserAuthState(ctx, cache.BuildUserAuthState(user))
	return user, token, expiresAt, nil
}

// ResolveAuthState 解析用户鉴权快照，缓存未命中时回源数据库
func (s *UserAuthService) ResolveAuthState(ctx context.Context, userID uint) (*cache.UserAuthState, error) {
	state, hit, err := cache.GetUserAuthState(ctx, userID)
	if err == nil && hit {
		return state, nil
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	state = cache.BuildUserAuthState(user)
	_ = cache.SetUserAuthState(ctx, state)
	return state, nil
}

// GetByID 按主键查询用户
func (s *UserAuthService) GetByID(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ProfileUpdateInput 个人资料更新输入
type ProfileUpdateInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Photo     *string
	Locale    *string
	Password  *string
}

// UpdateProfile 更新个人资料。邮箱或密码变更后旧令牌整体失效。
func (s *UserAuthService) UpdateProfile(ctx context.Context, userID uint, input ProfileUpdateInput) (*models.User, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Photo != nil && *input.Photo != "" {
		user.Photo = *input.Photo
	}
	if input.Locale != nil && *input.Locale != "" {
		user.Locale = *input.Locale
	}
	tokensRevoked := false
	if input.Email != nil && strings.TrimSpace(*input.Email) != "" {
		normalized, err := normalizeEmail(*input.Email)
		if err != nil {
			return nil, err
		}
		if normalized != user.Email {
			count, err := s.userRepo.CountByEmail(normalized, &user.ID)
			if err != nil {
				return nil, err
			}
			if count > 0 {
				return nil, ErrEmailTaken
			}
			user.Email = normalized
			// 令牌携带邮箱声明，换绑后旧令牌作废
			user.TokenVersion++
			tokensRevoked = true
		}
	}
	if input.Password != nil && *input.Password != "" {
		if err := s.validatePassword(*input.Password); err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
		user.TokenVersion++
		tokensRevoked = true
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	if tokensRevoked {
		_ = cache.DelUserAuthState(ctx, user.ID)
	}
	return user, nil
}

// ListUsers 后台用户列表
func (s *UserAuthService) ListUsers(filter repository.UserListFilter) ([]models.User, int64, error) {
	return s.userRepo.List(filter)
}

// SetRole 设置用户角色（后台），同时失效鉴权快照
func (s *UserAuthService) SetRole(ctx context.Context, userID uint, role string) (*models.User, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	if role != constants.RoleUser && role != constants.RoleAdmin {
		return nil, ErrInvalidRole
	}
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}
	user.Role = role
	user.TokenVersion++
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	_ = cache.DelUserAuthState(ctx, user.ID)
	return user, nil
}

// SetActive 启用/禁用用户（后台），禁用后鉴权快照立即失效
func (s *UserAuthService) SetActive(ctx context.Context, userID uint, active bool) (*models.User, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}
	user.IsActive = active
	if !active {
		user.TokenVersion++
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	_ = cache.DelUserAuthState(ctx, user.ID)
	return user, nil
}

// DeleteUser 删除用户（后台），禁止删除自己
func (s *UserAuthService) DeleteUser(ctx context.Context, userID, operatorID uint) error {
	if userID == operatorID {
		return ErrSelfDelete
	}
	if _, err := s.GetByID(userID); err != nil {
		return err
	}
	if err := s.userRepo.Delete(userID); err != nil {
		return err
	}
	_ = cache.DelUserAuthState(ctx, userID)
	return nil
}

// CountUsers 用户总数（后台仪表盘）
func (s *UserAuthService) CountUsers() (int64, error) {
	return s.userRepo.Count()
}

func (s *UserAuthService) validatePassword(password string) error {
	minLen := s.cfg.Security.MinPasswordLength
	if minLen <= 0 {
		minLen = 6
	}
	if len(password) < minLen {
		return ErrPasswordTooShort
	}
	return nil
}

func normalizeEmail(email string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(email))
	if trimmed == "" {
		return "", ErrValidation
	}
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return "", ErrValidation
	}
	return trimmed, nil
}
