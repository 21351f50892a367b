package data

import (
	"context"
	"errors"
	"fmt"

	"product-catalog-go/internal/biz/model"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// UserRepo 用户数据访问接口
type UserRepo interface {
	// GetUserByName 按用户名精确查找，用户不存在时返回 (nil, nil)
	// 只有存储故障才返回 error
	GetUserByName(ctx context.Context, username string) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) (int64, error)
}

type userRepo struct {
	data *Data
	l    *zap.Logger
}

func NewUserRepo(data *Data, logger *zap.Logger) UserRepo {
	return &userRepo{
		data: data,
		l:    logger,
	}
}

func (r *userRepo) GetUserByName(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.data.db.QueryRow(ctx,
		`SELECT id, username, password_hash FROM users WHERE username = $1`,
		username,
	).Scan(&user.ID, &user.Username, &user.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by name failed: %w", err)
	}

	return &user, nil
}

func (r *userRepo) CreateUser(ctx context.Context, user *model.User) (int64, error) {
	var id int64
	err := r.data.db.QueryRow(ctx,
		`INSERT INTO users (username, password_hash) VALUES ($1, $2) RETURNING id`,
		user.Username, user.PasswordHash,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert user failed: %w", err)
	}

	return id, nil
}
