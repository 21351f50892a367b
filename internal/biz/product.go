package biz

import (
	"context"
	"fmt"
	"strings"

	"product-catalog-go/internal/biz/model"
	"product-catalog-go/internal/data"

	"go.uber.org/zap"
)

// 商品字段约束
const (
	maxPrice       = 999_999_999
	maxQuantity    = 99_999
	maxDescription = 500

	// DefaultPageSize 未指定 size 时的每页条数
	DefaultPageSize = 10
	maxPageSize     = 100
)

const MsgProductNameExists = "Product name already exists!"

// 商品校验消息
const (
	ErrProductNameEmpty      = "product name must not be empty"
	ErrProductNameLength     = "product name must be between 3 and 100 characters"
	ErrPriceRequired         = "price is required"
	ErrPricePositive         = "price must be positive"
	ErrPriceMax              = "price must be at most 999999999"
	ErrQuantityRequired      = "quantity is required"
	ErrQuantityNegative      = "quantity must not be negative"
	ErrQuantityMax           = "quantity must be at most 99999"
	ErrCategoryRequired      = "category is required"
	ErrCategoryUnknown       = "category is not a known category"
	ErrDescriptionLength     = "description must be at most 500 characters"
	ErrMinPricePositive      = "minimum price must be positive"
	ErrMaxPriceNegative      = "maximum price must not be negative"
	ErrMaxPriceTooLarge      = "maximum price must be at most 999999999"
	ErrMinQuantityNegative   = "minimum quantity must not be negative"
	ErrMaxQuantityNegative   = "maximum quantity must not be negative"
	ErrMaxQuantityTooLarge   = "maximum quantity must be at most 99999"
	ErrPriceRangeInverted    = "minimum price cannot exceed maximum price"
	ErrQuantityRangeInverted = "minimum quantity cannot exceed maximum quantity"
)

// productRule 商品校验规则：按序检查，第一条不满足即返回其消息
type productRule struct {
	ok      func(req *model.ProductRequest) bool
	message string
}

var productRules = []productRule{
	{func(r *model.ProductRequest) bool { return strings.TrimSpace(r.Name) != "" }, ErrProductNameEmpty},
	{func(r *model.ProductRequest) bool {
		n := len(strings.TrimSpace(r.Name))
		return n >= 3 && n <= 100
	}, ErrProductNameLength},
	{func(r *model.ProductRequest) bool { return r.Price != nil }, ErrPriceRequired},
	{func(r *model.ProductRequest) bool { return *r.Price > 0 }, ErrPricePositive},
	{func(r *model.ProductRequest) bool { return *r.Price <= maxPrice }, ErrPriceMax},
	{func(r *model.ProductRequest) bool { return r.Quantity != nil }, ErrQuantityRequired},
	{func(r *model.ProductRequest) bool { return *r.Quantity >= 0 }, ErrQuantityNegative},
	{func(r *model.ProductRequest) bool { return *r.Quantity <= maxQuantity }, ErrQuantityMax},
	{func(r *model.ProductRequest) bool { return r.Category != "" }, ErrCategoryRequired},
	{func(r *model.ProductRequest) bool {
		_, ok := model.ParseCategory(r.Category)
		return ok
	}, ErrCategoryUnknown},
	{func(r *model.ProductRequest) bool { return len(r.Description) <= maxDescription }, ErrDescriptionLength},
}

// ValidateProduct 校验商品请求，全部通过返回空串
// 纯函数，无副作用
func ValidateProduct(req *model.ProductRequest) string {
	for _, rule := range productRules {
		if !rule.ok(req) {
			return rule.message
		}
	}
	return ""
}

// ValidateFilter 校验查询条件
// 下界/上界同时存在时要求 min <= max，违反视为校验失败而非服务错误
func ValidateFilter(filter *model.ProductFilter) string {
	if filter == nil {
		return ""
	}
	if filter.MinPrice != nil && *filter.MinPrice <= 0 {
		return ErrMinPricePositive
	}
	if filter.MaxPrice != nil && *filter.MaxPrice < 0 {
		return ErrMaxPriceNegative
	}
	if filter.MaxPrice != nil && *filter.MaxPrice > maxPrice {
		return ErrMaxPriceTooLarge
	}
	if filter.MinQuantity != nil && *filter.MinQuantity < 0 {
		return ErrMinQuantityNegative
	}
	if filter.MaxQuantity != nil && *filter.MaxQuantity < 0 {
		return ErrMaxQuantityNegative
	}
	if filter.MaxQuantity != nil && *filter.MaxQuantity > maxQuantity {
		return ErrMaxQuantityTooLarge
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return ErrPriceRangeInverted
	}
	if filter.MinQuantity != nil && filter.MaxQuantity != nil && *filter.MinQuantity > *filter.MaxQuantity {
		return ErrQuantityRangeInverted
	}
	return ""
}

// ProductUseCase 商品目录用例：负责唯一性与存在性约束，持久化交给仓储
type ProductUseCase struct {
	repo data.ProductRepo
	l    *zap.Logger
}

func NewProductUseCase(repo data.ProductRepo, logger *zap.Logger) model.ProductUseCase {
	return &ProductUseCase{
		repo: repo,
		l:    logger,
	}
}

func notFoundError(id int64) error {
	return model.NewError(model.KindNotFound, fmt.Sprintf("Product with id %d not found!", id))
}

func (uc *ProductUseCase) CreateProduct(ctx context.Context, req *model.ProductRequest) (*model.Product, error) {
	if msg := ValidateProduct(req); msg != "" {
		return nil, model.NewError(model.KindValidation, msg)
	}

	// 名称大小写不敏感唯一；真正的原子性由存储层唯一索引保证
	exists, err := uc.repo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, model.NewError(model.KindConflict, MsgProductNameExists)
	}

	product := productFromRequest(req)
	id, err := uc.repo.Create(ctx, product)
	if err != nil {
		return nil, err
	}
	product.ID = id

	uc.l.Info("Product created", zap.Int64("id", id), zap.String("name", product.Name))
	return product, nil
}

func (uc *ProductUseCase) UpdateProduct(ctx context.Context, id int64, req *model.ProductRequest) (*model.Product, error) {
	if msg := ValidateProduct(req); msg != "" {
		return nil, model.NewError(model.KindValidation, msg)
	}

	existing, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, notFoundError(id)
	}

	// 新名称不能与其他商品冲突（与自身同名允许）
	exists, err := uc.repo.ExistsByNameExcept(ctx, req.Name, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, model.NewError(model.KindConflict, MsgProductNameExists)
	}

	product := productFromRequest(req)
	product.ID = id
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	uc.l.Info("Product updated", zap.Int64("id", id))
	return product, nil
}

func (uc *ProductUseCase) DeleteProduct(ctx context.Context, id int64) error {
	deleted, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return notFoundError(id)
	}

	uc.l.Info("Product deleted", zap.Int64("id", id))
	return nil
}

func (uc *ProductUseCase) GetProductByID(ctx context.Context, id int64) (*model.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, notFoundError(id)
	}
	return product, nil
}

// ListProducts 按条件分页查询
// 页码从 0 开始；越界页返回空列表与正确的总数，不算错误
func (uc *ProductUseCase) ListProducts(ctx context.Context, filter *model.ProductFilter, page, size int32) (*model.PagedProducts, error) {
	if msg := ValidateFilter(filter); msg != "" {
		return nil, model.NewError(model.KindValidation, msg)
	}

	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	// 偏移量用 int64 计算，防止大页码在 int32 下溢出为负数
	items, total, err := uc.repo.List(ctx, filter, size, int64(page)*int64(size))
	if err != nil {
		return nil, err
	}

	var totalPages int32
	if total > 0 {
		totalPages = int32((total + int64(size) - 1) / int64(size))
	}

	return &model.PagedProducts{
		Items:         items,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
		HasNext:       page+1 < totalPages,
		HasPrevious:   page > 0,
	}, nil
}

// productFromRequest 请求到实体的显式映射，ID 留空由存储层分配
func productFromRequest(req *model.ProductRequest) *model.Product {
	category, _ := model.ParseCategory(req.Category)
	return &model.Product{
		Name:        req.Name,
		Price:       *req.Price,
		Quantity:    *req.Quantity,
		Category:    category,
		Description: req.Description,
	}
}
