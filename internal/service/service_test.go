package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"product-catalog-go/internal/biz/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockAuthUseCase 是 AuthUseCase 的模拟实现
type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) Login(ctx context.Context, username, password string) (*model.LoginResult, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LoginResult), args.Error(1)
}

// MockProductUseCase 是 ProductUseCase 的模拟实现
type MockProductUseCase struct {
	mock.Mock
}

func (m *MockProductUseCase) CreateProduct(ctx context.Context, req *model.ProductRequest) (*model.Product, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductUseCase) UpdateProduct(ctx context.Context, id int64, req *model.ProductRequest) (*model.Product, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductUseCase) DeleteProduct(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductUseCase) GetProductByID(ctx context.Context, id int64) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductUseCase) ListProducts(ctx context.Context, filter *model.ProductFilter, page, size int32) (*model.PagedProducts, error) {
	args := m.Called(ctx, filter, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PagedProducts), args.Error(1)
}

// AuthServiceTestSuite 是 AuthService 的测试套件
type AuthServiceTestSuite struct {
	suite.Suite
	useCase *MockAuthUseCase
	mux     *http.ServeMux
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.useCase = new(MockAuthUseCase)
	suite.mux = http.NewServeMux()
	NewAuthService(suite.useCase).RegisterRoutes(suite.mux)
}

func (suite *AuthServiceTestSuite) doLogin(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	suite.mux.ServeHTTP(rec, req)
	return rec
}

func (suite *AuthServiceTestSuite) TestLogin_Success() {
	suite.useCase.On("Login", mock.Anything, "admin", "abc123").Return(&model.LoginResult{
		Success: true,
		Message: "login successful",
		Token:   "tok123",
	}, nil)

	rec := suite.doLogin(`{"username":"admin","password":"abc123"}`)

	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	var resp loginResponse
	assert.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(suite.T(), resp.Success)
	assert.Equal(suite.T(), "login successful", resp.Message)
	assert.Equal(suite.T(), "tok123", resp.Token)
}

func (suite *AuthServiceTestSuite) TestLogin_BadCredentials() {
	suite.useCase.On("Login", mock.Anything, "admin", "wrong99").Return(&model.LoginResult{
		Success: false,
		Message: "invalid username or password",
	}, nil)

	rec := suite.doLogin(`{"username":"admin","password":"wrong99"}`)

	assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code)

	var resp loginResponse
	assert.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(suite.T(), resp.Success)
	assert.Equal(suite.T(), "invalid username or password", resp.Message)
	assert.Empty(suite.T(), resp.Token)
}

func (suite *AuthServiceTestSuite) TestLogin_ValidationError() {
	suite.useCase.On("Login", mock.Anything, "ab", "abc123").
		Return(nil, model.NewError(model.KindValidation, "username must be between 3 and 50 characters"))

	rec := suite.doLogin(`{"username":"ab","password":"abc123"}`)

	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)

	var resp loginResponse
	assert.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(suite.T(), resp.Success)
	assert.Equal(suite.T(), "username must be between 3 and 50 characters", resp.Message)
}

func (suite *AuthServiceTestSuite) TestLogin_SystemError() {
	suite.useCase.On("Login", mock.Anything, "admin", "abc123").
		Return(nil, errors.New("connection refused"))

	rec := suite.doLogin(`{"username":"admin","password":"abc123"}`)

	assert.Equal(suite.T(), http.StatusInternalServerError, rec.Code)
}

func (suite *AuthServiceTestSuite) TestLogin_MalformedBody() {
	rec := suite.doLogin(`{"username":`)

	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	suite.useCase.AssertNotCalled(suite.T(), "Login", mock.Anything, mock.Anything, mock.Anything)
}

// ProductServiceTestSuite 是 ProductService 的测试套件
type ProductServiceTestSuite struct {
	suite.Suite
	useCase *MockProductUseCase
	mux     *http.ServeMux
}

func (suite *ProductServiceTestSuite) SetupTest() {
	suite.useCase = new(MockProductUseCase)
	suite.mux = http.NewServeMux()
	NewProductService(suite.useCase).RegisterRoutes(suite.mux)
}

func (suite *ProductServiceTestSuite) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	suite.mux.ServeHTTP(rec, req)
	return rec
}

func (suite *ProductServiceTestSuite) decodeEnvelope(rec *httptest.ResponseRecorder) apiResponse {
	var resp apiResponse
	assert.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func (suite *ProductServiceTestSuite) TestCreate_Created() {
	suite.useCase.On("CreateProduct", mock.Anything, mock.MatchedBy(func(r *model.ProductRequest) bool {
		return r.Name == "ProdAlpha" && *r.Price == 19999.0 && *r.Quantity == 5 && r.Category == "LAPTOP"
	})).Return(&model.Product{
		ID:       42,
		Name:     "ProdAlpha",
		Price:    19999.0,
		Quantity: 5,
		Category: model.CategoryLaptop,
	}, nil)

	rec := suite.do(http.MethodPost, "/api/products",
		`{"name":"ProdAlpha","price":19999.0,"quantity":5,"category":"LAPTOP"}`)

	assert.Equal(suite.T(), http.StatusCreated, rec.Code)

	resp := suite.decodeEnvelope(rec)
	assert.True(suite.T(), resp.Success)
	assert.NotEmpty(suite.T(), resp.Timestamp)

	data := resp.Data.(map[string]any)
	assert.Equal(suite.T(), float64(42), data["id"])
	assert.Equal(suite.T(), "ProdAlpha", data["name"])
}

func (suite *ProductServiceTestSuite) TestCreate_Conflict() {
	suite.useCase.On("CreateProduct", mock.Anything, mock.Anything).
		Return(nil, model.NewError(model.KindConflict, "Product name already exists!"))

	rec := suite.do(http.MethodPost, "/api/products",
		`{"name":"ProdAlpha","price":1.0,"quantity":1,"category":"LAPTOP"}`)

	// 冲突按本系统约定返回 400 而非 409
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)

	resp := suite.decodeEnvelope(rec)
	assert.False(suite.T(), resp.Success)
	assert.Equal(suite.T(), "Product name already exists!", resp.Message)
	assert.Nil(suite.T(), resp.Data)
}

func (suite *ProductServiceTestSuite) TestGetByID_NotFound() {
	suite.useCase.On("GetProductByID", mock.Anything, int64(99)).
		Return(nil, model.NewError(model.KindNotFound, "Product with id 99 not found!"))

	rec := suite.do(http.MethodGet, "/api/products/99", "")

	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)

	resp := suite.decodeEnvelope(rec)
	assert.False(suite.T(), resp.Success)
	assert.Equal(suite.T(), "Product with id 99 not found!", resp.Message)
}

func (suite *ProductServiceTestSuite) TestGetByID_InvalidID() {
	rec := suite.do(http.MethodGet, "/api/products/abc", "")

	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	suite.useCase.AssertNotCalled(suite.T(), "GetProductByID", mock.Anything, mock.Anything)
}

func (suite *ProductServiceTestSuite) TestUpdate_OK() {
	suite.useCase.On("UpdateProduct", mock.Anything, int64(7), mock.Anything).Return(&model.Product{
		ID:       7,
		Name:     "ProdBeta",
		Price:    5.0,
		Quantity: 1,
		Category: model.CategoryTablet,
	}, nil)

	rec := suite.do(http.MethodPut, "/api/products/7",
		`{"name":"ProdBeta","price":5.0,"quantity":1,"category":"TABLET"}`)

	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	resp := suite.decodeEnvelope(rec)
	assert.True(suite.T(), resp.Success)
	data := resp.Data.(map[string]any)
	assert.Equal(suite.T(), "ProdBeta", data["name"])
}

func (suite *ProductServiceTestSuite) TestDelete_NoContent() {
	suite.useCase.On("DeleteProduct", mock.Anything, int64(7)).Return(nil)

	rec := suite.do(http.MethodDelete, "/api/products/7", "")

	// 删除成功无响应体
	assert.Equal(suite.T(), http.StatusNoContent, rec.Code)
	assert.Empty(suite.T(), rec.Body.Bytes())
}

func (suite *ProductServiceTestSuite) TestDelete_NotFound() {
	suite.useCase.On("DeleteProduct", mock.Anything, int64(7)).
		Return(model.NewError(model.KindNotFound, "Product with id 7 not found!"))

	rec := suite.do(http.MethodDelete, "/api/products/7", "")

	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
}

func (suite *ProductServiceTestSuite) TestList_QueryParsing() {
	suite.useCase.On("ListProducts", mock.Anything, mock.MatchedBy(func(f *model.ProductFilter) bool {
		return f.Search == "pro" &&
			f.Category != nil && *f.Category == model.CategoryLaptop &&
			f.MinPrice != nil && *f.MinPrice == 10.5 &&
			f.MaxQuantity != nil && *f.MaxQuantity == 50
	}), int32(2), int32(5)).Return(&model.PagedProducts{
		Items:         []*model.Product{},
		Page:          2,
		Size:          5,
		TotalElements: 0,
		TotalPages:    0,
	}, nil)

	rec := suite.do(http.MethodGet,
		"/api/products?search=pro&category=LAPTOP&minPrice=10.5&maxQuantity=50&page=2&size=5", "")

	assert.Equal(suite.T(), http.StatusOK, rec.Code)
}

func (suite *ProductServiceTestSuite) TestList_MalformedNumber() {
	rec := suite.do(http.MethodGet, "/api/products?minPrice=abc", "")

	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	suite.useCase.AssertNotCalled(suite.T(), "ListProducts", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ProductServiceTestSuite) TestList_UnknownCategory() {
	rec := suite.do(http.MethodGet, "/api/products?category=FRIDGE", "")

	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
}

func (suite *ProductServiceTestSuite) TestList_Envelope() {
	suite.useCase.On("ListProducts", mock.Anything, mock.Anything, int32(0), int32(0)).
		Return(&model.PagedProducts{
			Items: []*model.Product{
				{ID: 1, Name: "A1", Category: model.CategoryLaptop},
			},
			Page:          0,
			Size:          10,
			TotalElements: 1,
			TotalPages:    1,
			HasNext:       false,
			HasPrevious:   false,
		}, nil)

	rec := suite.do(http.MethodGet, "/api/products", "")

	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	resp := suite.decodeEnvelope(rec)
	assert.True(suite.T(), resp.Success)

	data := resp.Data.(map[string]any)
	assert.Equal(suite.T(), float64(1), data["totalElements"])
	assert.Equal(suite.T(), float64(1), data["totalPages"])
	assert.Equal(suite.T(), false, data["hasNext"])
	items := data["items"].([]any)
	assert.Len(suite.T(), items, 1)
}

// 运行测试套件
func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func TestProductServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProductServiceTestSuite))
}

// MockCheckUseCase 是 CheckUseCase 的模拟实现
type MockCheckUseCase struct {
	mock.Mock
}

func (m *MockCheckUseCase) Ready(ctx context.Context, req model.HealthCheckReq) (model.HealthCheckReply, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(model.HealthCheckReply), args.Error(1)
}

func TestCheckService_Ready(t *testing.T) {
	useCase := new(MockCheckUseCase)
	useCase.On("Ready", mock.Anything, model.HealthCheckReq{}).
		Return(model.HealthCheckReply{Status: "Ready"}, nil)

	mux := http.NewServeMux()
	NewCheckService(useCase).RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp healthResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Ready", resp.Status)
}

func TestCheckService_Unavailable(t *testing.T) {
	useCase := new(MockCheckUseCase)
	useCase.On("Ready", mock.Anything, model.HealthCheckReq{}).
		Return(model.HealthCheckReply{
			Status:  "Unhealthy",
			Details: map[string]string{"Components": "Database"},
		}, model.NewError(model.KindInternal, "database unavailable"))

	mux := http.NewServeMux()
	NewCheckService(useCase).RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp healthResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Unhealthy", resp.Status)
	assert.Equal(t, "Database", resp.Details["Components"])
}
