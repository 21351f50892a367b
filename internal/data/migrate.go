package data

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// 表结构由服务自身维护：商品名的大小写不敏感唯一约束
// 通过 lower(name) 上的唯一索引实现
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            BIGSERIAL PRIMARY KEY,
	username      TEXT      NOT NULL UNIQUE,
	password_hash TEXT      NOT NULL
);

CREATE TABLE IF NOT EXISTS products (
	id          BIGSERIAL        PRIMARY KEY,
	name        TEXT             NOT NULL,
	price       DOUBLE PRECISION NOT NULL,
	quantity    INTEGER          NOT NULL,
	category    TEXT             NOT NULL,
	description TEXT             NOT NULL DEFAULT ''
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_products_name_lower ON products (lower(name));
`

// Migrate 初始化表结构并写入种子用户
func Migrate(pool *pgxpool.Pool, logger *zap.Logger) error {
	ctx := context.Background()

	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema failed: %w", err)
	}

	if err := seedUsers(ctx, pool, logger); err != nil {
		return fmt.Errorf("seed users failed: %w", err)
	}

	return nil
}

// seedUsers 确保默认用户存在（E2E 测试与本地开发用）
// 用户名/密码可通过 SEED_USER、SEED_USER_2、SEED_PASS 环境变量覆盖
func seedUsers(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	user1 := envOr("SEED_USER", "admin")
	user2 := envOr("SEED_USER_2", "user")
	password := envOr("SEED_PASS", "abc123")

	for _, username := range []string{user1, user2} {
		var exists bool
		err := pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username,
		).Scan(&exists)
		if err != nil {
			return err
		}
		if exists {
			logger.Info("Seed user already exists", zap.String("username", username))
			continue
		}

		digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		if _, err := pool.Exec(ctx,
			`INSERT INTO users (username, password_hash) VALUES ($1, $2)`,
			username, string(digest),
		); err != nil {
			return err
		}
		logger.Info("Created seed user", zap.String("username", username))
	}

	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
