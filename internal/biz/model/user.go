package model

import "context"

// User 业务层用户模型
// 用户只由启动期的种子数据创建，对核心逻辑而言是只读的
type User struct {
	ID           int64
	Username     string
	PasswordHash string
}

// LoginResult 登录结果
// 用户不存在与密码错误必须返回完全相同的 Message，避免账号枚举
type LoginResult struct {
	Success bool
	Message string
	Token   string
}

// AuthUseCase 认证用例接口
type AuthUseCase interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
}
