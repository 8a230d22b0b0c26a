package common

import (
	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// ErrorStatus 取得錯誤對應的 HTTP 狀態碼與回應內容
func ErrorStatus(err error, debug bool) (int, ErrorResponse) {
	ce, ok := AsCustomError(err)
	if !ok {
		ce = ErrInternalError
	}
	resp := ErrorResponse{Code: ce.Code, Message: ce.Message}
	if debug && err != nil {
		resp.Details = err.Error()
	}
	return ce.Status, resp
}
