package service

import (
	"net/http"

	"product-catalog-go/internal/biz/model"
)

// CheckService 健康检查 REST 接口
type CheckService struct {
	uc model.CheckUseCase
}

func NewCheckService(uc model.CheckUseCase) *CheckService {
	return &CheckService{
		uc: uc,
	}
}

// RegisterRoutes 注册健康检查路由
func (c *CheckService) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", c.Ready)
}

type healthResponse struct {
	Status  string            `json:"status"`
	Details map[string]string `json:"details,omitempty"`
}

func (c *CheckService) Ready(w http.ResponseWriter, r *http.Request) {
	reply, err := c.uc.Ready(r.Context(), model.HealthCheckReq{})
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{
			Status:  reply.Status,
			Details: reply.Details,
		})
		return
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:  reply.Status,
		Details: reply.Details,
	})
}
