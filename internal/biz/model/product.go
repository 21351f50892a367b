package model

import "context"

// Category 商品分类，固定枚举
type Category string

const (
	CategoryLaptop        Category = "LAPTOP"
	CategoryDesktop       Category = "DESKTOP"
	CategorySmartphone    Category = "SMARTPHONE"
	CategoryTablet        Category = "TABLET"
	CategoryWearable      Category = "WEARABLE"
	CategoryMonitor       Category = "MONITOR"
	CategoryPrinter       Category = "PRINTER"
	CategoryAccessory     Category = "ACCESSORY"
	CategoryNetworkDevice Category = "NETWORK_DEVICE"
)

// Categories 所有合法分类
var Categories = []Category{
	CategoryLaptop,
	CategoryDesktop,
	CategorySmartphone,
	CategoryTablet,
	CategoryWearable,
	CategoryMonitor,
	CategoryPrinter,
	CategoryAccessory,
	CategoryNetworkDevice,
}

// ParseCategory 将字符串解析为分类，返回是否合法
func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	for _, v := range Categories {
		if v == c {
			return c, true
		}
	}
	return "", false
}

// Product 业务层商品模型
// ID 由存储层在创建时分配，此后不可变
type Product struct {
	ID          int64
	Name        string
	Price       float64
	Quantity    int32
	Category    Category
	Description string
}

// ProductRequest 创建/更新商品的请求
// Price 和 Quantity 用指针区分「缺失」与「零值」
type ProductRequest struct {
	Name        string
	Price       *float64
	Quantity    *int32
	Category    string
	Description string
}

// ProductFilter 商品查询条件，全部字段可选
// 缺失的条件不产生查询子句
type ProductFilter struct {
	Search      string
	Category    *Category
	MinPrice    *float64
	MaxPrice    *float64
	MinQuantity *int32
	MaxQuantity *int32
}

// PagedProducts 分页查询结果，页码从 0 开始
type PagedProducts struct {
	Items         []*Product
	Page          int32
	Size          int32
	TotalElements int64
	TotalPages    int32
	HasNext       bool
	HasPrevious   bool
}

// ProductUseCase 商品目录用例接口
type ProductUseCase interface {
	CreateProduct(ctx context.Context, req *ProductRequest) (*Product, error)
	UpdateProduct(ctx context.Context, id int64, req *ProductRequest) (*Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	GetProductByID(ctx context.Context, id int64) (*Product, error)
	ListProducts(ctx context.Context, filter *ProductFilter, page, size int32) (*PagedProducts, error)
}
