package service

import (
	"encoding/json"
	"net/http"
	"time"

	"product-catalog-go/internal/biz/model"
)

// 时间戳格式与前端约定一致（无时区后缀的 ISO-8601）
const timestampLayout = "2006-01-02T15:04:05"

// apiResponse 统一响应信封（删除接口除外）
type apiResponse struct {
	Message   string `json:"message"`
	Success   bool   `json:"success"`
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, apiResponse{
		Message:   message,
		Success:   true,
		Data:      data,
		Timestamp: time.Now().Format(timestampLayout),
	})
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, apiResponse{
		Message:   message,
		Success:   false,
		Data:      nil,
		Timestamp: time.Now().Format(timestampLayout),
	})
}

// writeDomainError 将业务错误分类映射为 HTTP 状态码
// 冲突按本系统约定返回 400 而非 409；未分类错误原样透出为 500
func writeDomainError(w http.ResponseWriter, err error) {
	writeFailure(w, statusOf(err), err.Error())
}

func statusOf(err error) int {
	switch model.KindOf(err) {
	case model.KindValidation, model.KindConflict:
		return http.StatusBadRequest
	case model.KindNotFound:
		return http.StatusNotFound
	case model.KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
