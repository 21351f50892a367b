package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"product-catalog-go/internal/biz/model"
)

// ProductService 商品目录 REST 接口
type ProductService struct {
	productUseCase model.ProductUseCase
}

func NewProductService(productUseCase model.ProductUseCase) *ProductService {
	return &ProductService{
		productUseCase: productUseCase,
	}
}

// RegisterRoutes 注册商品路由
func (s *ProductService) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/products", s.Create)
	mux.HandleFunc("GET /api/products", s.List)
	mux.HandleFunc("GET /api/products/{id}", s.GetByID)
	mux.HandleFunc("PUT /api/products/{id}", s.Update)
	mux.HandleFunc("DELETE /api/products/{id}", s.Delete)
}

// productPayload 创建/更新商品请求体
// 数值字段用指针区分「缺失」与「零值」，缺失交给业务层校验
type productPayload struct {
	Name        string   `json:"name"`
	Price       *float64 `json:"price"`
	Quantity    *int32   `json:"quantity"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
}

type productDto struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Quantity    int32   `json:"quantity"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

type pagedResponse struct {
	Items         []productDto `json:"items"`
	Page          int32        `json:"page"`
	Size          int32        `json:"size"`
	TotalElements int64        `json:"totalElements"`
	TotalPages    int32        `json:"totalPages"`
	HasNext       bool         `json:"hasNext"`
	HasPrevious   bool         `json:"hasPrevious"`
}

func toProductDto(p *model.Product) productDto {
	return productDto{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Quantity:    p.Quantity,
		Category:    string(p.Category),
		Description: p.Description,
	}
}

func toProductRequest(payload *productPayload) *model.ProductRequest {
	return &model.ProductRequest{
		Name:        payload.Name,
		Price:       payload.Price,
		Quantity:    payload.Quantity,
		Category:    payload.Category,
		Description: payload.Description,
	}
}

func (s *ProductService) Create(w http.ResponseWriter, r *http.Request) {
	var payload productPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := s.productUseCase.CreateProduct(r.Context(), toProductRequest(&payload))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Product created successfully", toProductDto(product))
}

func (s *ProductService) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	product, err := s.productUseCase.GetProductByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK,
		fmt.Sprintf("Product with id %d retrieved successfully", id), toProductDto(product))
}

func (s *ProductService) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	var payload productPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := s.productUseCase.UpdateProduct(r.Context(), id, toProductRequest(&payload))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK,
		fmt.Sprintf("Product with id %d updated successfully", id), toProductDto(product))
}

func (s *ProductService) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	if err := s.productUseCase.DeleteProduct(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}

	// 删除成功不返回信封
	w.WriteHeader(http.StatusNoContent)
}

func (s *ProductService) List(w http.ResponseWriter, r *http.Request) {
	filter, page, size, err := parseListQuery(r)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.productUseCase.ListProducts(r.Context(), filter, page, size)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]productDto, 0, len(result.Items))
	for _, p := range result.Items {
		items = append(items, toProductDto(p))
	}

	writeSuccess(w, http.StatusOK, "Products retrieved successfully", pagedResponse{
		Items:         items,
		Page:          result.Page,
		Size:          result.Size,
		TotalElements: result.TotalElements,
		TotalPages:    result.TotalPages,
		HasNext:       result.HasNext,
		HasPrevious:   result.HasPrevious,
	})
}

// productID 解析路径中的商品 id，非法时直接写出 400
func productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid product id")
		return 0, false
	}
	return id, true
}

// parseListQuery 解析列表查询参数，缺失的条件不参与过滤
func parseListQuery(r *http.Request) (*model.ProductFilter, int32, int32, error) {
	q := r.URL.Query()
	filter := &model.ProductFilter{
		Search: q.Get("search"),
	}

	if raw := q.Get("category"); raw != "" {
		category, ok := model.ParseCategory(raw)
		if !ok {
			return nil, 0, 0, fmt.Errorf("category is not a known category")
		}
		filter.Category = &category
	}

	var err error
	if filter.MinPrice, err = floatParam(q.Get("minPrice"), "minPrice"); err != nil {
		return nil, 0, 0, err
	}
	if filter.MaxPrice, err = floatParam(q.Get("maxPrice"), "maxPrice"); err != nil {
		return nil, 0, 0, err
	}
	if filter.MinQuantity, err = intParam(q.Get("minQuantity"), "minQuantity"); err != nil {
		return nil, 0, 0, err
	}
	if filter.MaxQuantity, err = intParam(q.Get("maxQuantity"), "maxQuantity"); err != nil {
		return nil, 0, 0, err
	}

	var page, size int32
	if p, err := intParam(q.Get("page"), "page"); err != nil {
		return nil, 0, 0, err
	} else if p != nil {
		page = *p
	}
	if v, err := intParam(q.Get("size"), "size"); err != nil {
		return nil, 0, 0, err
	} else if v != nil {
		size = *v
	}

	return filter, page, size, nil
}

func floatParam(raw, name string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid query parameter: %s", name)
	}
	return &v, nil
}

func intParam(raw, name string) (*int32, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid query parameter: %s", name)
	}
	v32 := int32(v)
	return &v32, nil
}
