package biz

import (
	"context"
	"crypto/rand"
	"fmt"
	"regexp"
	"strings"
	"time"

	"product-catalog-go/internal/biz/model"
	conf "product-catalog-go/internal/conf/v1"
	"product-catalog-go/internal/data"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	// MsgInvalidCredentials 用户不存在与密码错误必须返回同一条消息，避免账号枚举
	MsgInvalidCredentials = "invalid username or password"
	MsgLoginSuccess       = "login successful"
)

// 登录表单校验消息
const (
	ErrUsernameEmpty      = "username must not be empty"
	ErrUsernameLength     = "username must be between 3 and 50 characters"
	ErrUsernameCharset    = "username may only contain letters and digits"
	ErrPasswordEmpty      = "password must not be empty"
	ErrPasswordLength     = "password must be between 6 and 100 characters"
	ErrPasswordComplexity = "password must contain at least one letter and one digit"
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	letterPattern   = regexp.MustCompile(`[A-Za-z]`)
	digitPattern    = regexp.MustCompile(`[0-9]`)
)

// loginRule 校验规则：按序检查，第一条不满足即返回其消息
type loginRule struct {
	ok      func(username, password string) bool
	message string
}

var loginRules = []loginRule{
	{func(u, _ string) bool { return strings.TrimSpace(u) != "" }, ErrUsernameEmpty},
	{func(u, _ string) bool { return len(u) >= 3 && len(u) <= 50 }, ErrUsernameLength},
	{func(u, _ string) bool { return usernamePattern.MatchString(u) }, ErrUsernameCharset},
	{func(_, p string) bool { return strings.TrimSpace(p) != "" }, ErrPasswordEmpty},
	{func(_, p string) bool { return len(p) >= 6 && len(p) <= 100 }, ErrPasswordLength},
	{func(_, p string) bool { return letterPattern.MatchString(p) && digitPattern.MatchString(p) }, ErrPasswordComplexity},
}

// ValidateLogin 校验登录表单，全部通过返回空串
// 纯函数，无副作用
func ValidateLogin(username, password string) string {
	for _, rule := range loginRules {
		if !rule.ok(username, password) {
			return rule.message
		}
	}
	return ""
}

type AuthUseCase struct {
	repo   data.UserRepo
	cfg    *conf.Auth
	secret []byte
}

func NewAuthUseCase(repo data.UserRepo, cfg *conf.Bootstrap, logger *zap.Logger) (model.AuthUseCase, error) {
	var secret []byte
	if cfg.Auth.JwtSecret != "" {
		secret = []byte(cfg.Auth.JwtSecret)
	} else {
		// 生成默认密钥
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate jwt secret failed: %v", err)
		}
		logger.Warn("WARNING: Using auto-generated JWT secret, set auth.jwt_secret in config for production")
	}

	return &AuthUseCase{
		repo:   repo,
		cfg:    cfg.Auth,
		secret: secret,
	}, nil
}

// Login 验证凭证并签发令牌
// 表单不合法返回 KindValidation 错误；凭证错误返回 Success=false 的结果；
// 存储故障原样上抛为系统错误
func (uc *AuthUseCase) Login(ctx context.Context, username, password string) (*model.LoginResult, error) {
	if msg := ValidateLogin(username, password); msg != "" {
		return nil, model.NewError(model.KindValidation, msg)
	}

	user, err := uc.repo.GetUserByName(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return &model.LoginResult{Success: false, Message: MsgInvalidCredentials}, nil
	}

	// 校验密码摘要
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return &model.LoginResult{Success: false, Message: MsgInvalidCredentials}, nil
	}

	token, err := uc.generateToken(username)
	if err != nil {
		return nil, fmt.Errorf("generate token failed: %v", err)
	}

	return &model.LoginResult{
		Success: true,
		Message: MsgLoginSuccess,
		Token:   token,
	}, nil
}

func (uc *AuthUseCase) generateToken(username string) (string, error) {
	expireHours := uc.cfg.JwtExpireHours
	if expireHours == 0 {
		expireHours = 24 // 默认24小时
	}

	claims := jwt.MapClaims{
		"sub": username,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Duration(expireHours) * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(uc.secret)
}
