package data

import (
	"context"

	"product-catalog-go/internal/biz/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type checkRepo struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
	l    *zap.Logger
}

type CheckRepo interface {
	Ready(context.Context, model.HealthCheckReq) (model.HealthCheckReply, error)
}

func NewCheckRepo(pool *pgxpool.Pool, rdb *redis.Client,
	l *zap.Logger,
) CheckRepo {
	return &checkRepo{
		pool: pool,
		rdb:  rdb,
		l:    l,
	}
}

func (c checkRepo) Ready(ctx context.Context, _ model.HealthCheckReq) (model.HealthCheckReply, error) {
	if err := c.pool.Ping(ctx); err != nil {
		return model.HealthCheckReply{
			Status: "Unhealthy",
			Details: map[string]string{
				"Components": "Database",
				"Message":    err.Error(),
			},
		}, model.NewError(model.KindInternal, "database unavailable")
	}
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return model.HealthCheckReply{
			Status: "Unhealthy",
			Details: map[string]string{
				"Components": "Redis",
				"Message":    err.Error(),
			},
		}, model.NewError(model.KindInternal, "redis unavailable")
	}
	return model.HealthCheckReply{
		Status:  "Ready",
		Details: nil,
	}, nil
}
