package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"product-catalog-go/internal/biz/model"
	conf "product-catalog-go/internal/conf/v1"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ProductRepo 商品数据访问接口
type ProductRepo interface {
	// GetByID 按主键查找，商品不存在时返回 (nil, nil)
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	// ExistsByName 大小写不敏感的名称存在性检查
	ExistsByName(ctx context.Context, name string) (bool, error)
	// ExistsByNameExcept 同上，但排除指定 id（更新时用）
	ExistsByNameExcept(ctx context.Context, name string, id int64) (bool, error)
	Create(ctx context.Context, p *model.Product) (int64, error)
	Update(ctx context.Context, p *model.Product) error
	// Delete 返回是否真的删除了记录
	Delete(ctx context.Context, id int64) (bool, error)
	// List 按条件分页查询，返回当前页与匹配总数
	// offset 用 int64 承载，页码与页大小的乘积可能超出 int32
	List(ctx context.Context, filter *model.ProductFilter, limit int32, offset int64) ([]*model.Product, int64, error)
}

type productRepo struct {
	data     *Data
	cacheTTL time.Duration
	l        *zap.Logger
}

func NewProductRepo(data *Data, cfg *conf.Bootstrap, logger *zap.Logger) ProductRepo {
	ttl := time.Duration(cfg.Data.Redis.CacheTtlSeconds) * time.Second
	if ttl == 0 {
		ttl = 5 * time.Minute // 默认5分钟
	}

	return &productRepo{
		data:     data,
		cacheTTL: ttl,
		l:        logger,
	}
}

const productColumns = `id, name, price, quantity, category, description`

func (r *productRepo) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	// 先查缓存，缓存故障降级到数据库
	if p := r.cacheGet(ctx, id); p != nil {
		return p, nil
	}

	var p model.Product
	err := r.data.db.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Price, &p.Quantity, &p.Category, &p.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query product by id failed: %w", err)
	}

	r.cachePut(ctx, &p)
	return &p, nil
}

func (r *productRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.data.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM products WHERE lower(name) = lower($1))`, name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check product name failed: %w", err)
	}
	return exists, nil
}

func (r *productRepo) ExistsByNameExcept(ctx context.Context, name string, id int64) (bool, error) {
	var exists bool
	err := r.data.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM products WHERE lower(name) = lower($1) AND id <> $2)`,
		name, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check product name failed: %w", err)
	}
	return exists, nil
}

func (r *productRepo) Create(ctx context.Context, p *model.Product) (int64, error) {
	var id int64
	err := r.data.db.QueryRow(ctx,
		`INSERT INTO products (name, price, quantity, category, description)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		p.Name, p.Price, p.Quantity, p.Category, p.Description,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert product failed: %w", err)
	}
	return id, nil
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	tag, err := r.data.db.Exec(ctx,
		`UPDATE products SET name = $1, price = $2, quantity = $3, category = $4, description = $5
		 WHERE id = $6`,
		p.Name, p.Price, p.Quantity, p.Category, p.Description, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update product %d affected no rows", p.ID)
	}

	r.cacheDrop(ctx, p.ID)
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.data.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete product failed: %w", err)
	}

	r.cacheDrop(ctx, id)
	return tag.RowsAffected() > 0, nil
}

func (r *productRepo) List(ctx context.Context, filter *model.ProductFilter, limit int32, offset int64) ([]*model.Product, int64, error) {
	where, args := buildFilterClause(filter)

	var total int64
	if err := r.data.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM products`+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products failed: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT `+productColumns+` FROM products%s ORDER BY id LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	rows, err := r.data.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query products failed: %w", err)
	}
	defer rows.Close()

	items := make([]*model.Product, 0, limit)
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Quantity, &p.Category, &p.Description); err != nil {
			return nil, 0, fmt.Errorf("scan product failed: %w", err)
		}
		items = append(items, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate products failed: %w", err)
	}

	return items, total, nil
}

// buildFilterClause 将查询条件翻译为 WHERE 子句与位置参数
// 所有子句用 AND 连接，缺失的条件不产生子句
func buildFilterClause(filter *model.ProductFilter) (string, []any) {
	if filter == nil {
		return "", nil
	}

	var clauses []string
	var args []any

	add := func(clause string, arg any) {
		args = append(args, arg)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.Search != "" {
		add(`name ILIKE $%d`, "%"+filter.Search+"%")
	}
	if filter.Category != nil {
		add(`category = $%d`, *filter.Category)
	}
	if filter.MinPrice != nil {
		add(`price >= $%d`, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		add(`price <= $%d`, *filter.MaxPrice)
	}
	if filter.MinQuantity != nil {
		add(`quantity >= $%d`, *filter.MinQuantity)
	}
	if filter.MaxQuantity != nil {
		add(`quantity <= $%d`, *filter.MaxQuantity)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// 商品缓存：尽力而为，缓存故障不影响请求结果

func cacheKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}

func (r *productRepo) cacheGet(ctx context.Context, id int64) *model.Product {
	raw, err := r.data.rdb.Get(ctx, cacheKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.l.Debug("product cache get failed", zap.Int64("id", id), zap.Error(err))
		}
		return nil
	}

	var p model.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		r.l.Debug("product cache decode failed", zap.Int64("id", id), zap.Error(err))
		return nil
	}
	return &p
}

func (r *productRepo) cachePut(ctx context.Context, p *model.Product) {
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := r.data.rdb.SetEx(ctx, cacheKey(p.ID), raw, r.cacheTTL).Err(); err != nil {
		r.l.Debug("product cache put failed", zap.Int64("id", p.ID), zap.Error(err))
	}
}

func (r *productRepo) cacheDrop(ctx context.Context, id int64) {
	if err := r.data.rdb.Del(ctx, cacheKey(id)).Err(); err != nil {
		r.l.Debug("product cache drop failed", zap.Int64("id", id), zap.Error(err))
	}
}
