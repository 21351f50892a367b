package service

import (
	"encoding/json"
	"net/http"

	"product-catalog-go/internal/biz/model"
)

// AuthService 认证 REST 接口
type AuthService struct {
	authUseCase model.AuthUseCase
}

func NewAuthService(authUseCase model.AuthUseCase) *AuthService {
	return &AuthService{
		authUseCase: authUseCase,
	}
}

// RegisterRoutes 注册认证路由
func (s *AuthService) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/login", s.Login)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginResponse 登录响应（不使用统一信封，与前端约定一致）
type loginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

func (s *AuthService) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, loginResponse{Success: false, Message: "invalid request body"})
		return
	}

	result, err := s.authUseCase.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		// 表单校验失败返回 400，系统错误返回 500
		writeJSON(w, statusOf(err), loginResponse{Success: false, Message: err.Error()})
		return
	}

	if !result.Success {
		// 凭证错误统一返回 401，消息不区分用户不存在与密码错误
		writeJSON(w, http.StatusUnauthorized, loginResponse{Success: false, Message: result.Message})
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Success: true,
		Message: result.Message,
		Token:   result.Token,
	})
}
