package common

import (
	"errors"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Code    string `json:"code"`              // 錯誤代碼
	Message string `json:"message"`           // 錯誤信息
	Details string `json:"details,omitempty"` // 詳細信息（僅在開發模式顯示）
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap 取得原始錯誤
func (e *CustomError) Unwrap() error {
	return e.Err
}

// Is 以錯誤代碼比對，讓 errors.Is(err, ErrLoadFailure) 對包裝後的錯誤成立
func (e *CustomError) Is(target error) bool {
	t, ok := target.(*CustomError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// Wrap 以預定義錯誤為樣板包裝原始錯誤
func Wrap(base *CustomError, err error) *CustomError {
	return NewError(base.Code, base.Message, base.Status, err)
}

// AsCustomError 取出錯誤鏈中的 CustomError
func AsCustomError(err error) (*CustomError, bool) {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// 預定義錯誤代碼
const (
	// 客戶端錯誤 (4xx)
	ErrCodeInvalidRequest  = "INVALID_REQUEST"   // 400
	ErrCodeNotFound        = "NOT_FOUND"         // 404
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS" // 429

	// 服務器錯誤 (5xx)
	ErrCodeInternalError  = "INTERNAL_ERROR"  // 500
	ErrCodeGatewayTimeout = "GATEWAY_TIMEOUT" // 504

	// 業務錯誤
	ErrCodeLoadFailure       = "LOAD_FAILURE"
	ErrCodeMissingData       = "MISSING_DATA"
	ErrCodeExportTarget      = "EXPORT_TARGET_ERROR"
	ErrCodeImportSource      = "IMPORT_SOURCE_ERROR"
	ErrCodeInvalidSortMode   = "INVALID_SORT_MODE"
	ErrCodeNothingToExport   = "NOTHING_TO_EXPORT"
	ErrCodeCacheFull         = "CACHE_FULL"
	ErrCodeUnknownIngredient = "UNKNOWN_INGREDIENT"
)

// 預定義錯誤
var (
	// 客戶端錯誤
	ErrInvalidRequest  = NewError(ErrCodeInvalidRequest, "無效的請求", http.StatusBadRequest, nil)
	ErrNotFound        = NewError(ErrCodeNotFound, "資源不存在", http.StatusNotFound, nil)
	ErrTooManyRequests = NewError(ErrCodeTooManyRequests, "請求過於頻繁", http.StatusTooManyRequests, nil)

	// 服務器錯誤
	ErrInternalError  = NewError(ErrCodeInternalError, "服務器內部錯誤", http.StatusInternalServerError, nil)
	ErrGatewayTimeout = NewError(ErrCodeGatewayTimeout, "網關超時", http.StatusGatewayTimeout, nil)

	// 業務錯誤
	ErrLoadFailure       = NewError(ErrCodeLoadFailure, "配方檔案載入失敗", http.StatusUnprocessableEntity, nil)
	ErrMissingData       = NewError(ErrCodeMissingData, "尚未載入配方資料", http.StatusServiceUnavailable, nil)
	ErrExportTarget      = NewError(ErrCodeExportTarget, "匯出檔案寫入失敗", http.StatusInternalServerError, nil)
	ErrImportSource      = NewError(ErrCodeImportSource, "匯入檔案讀取失敗", http.StatusBadRequest, nil)
	ErrInvalidSortMode   = NewError(ErrCodeInvalidSortMode, "不支持的排序方式", http.StatusBadRequest, nil)
	ErrNothingToExport   = NewError(ErrCodeNothingToExport, "沒有可匯出的結果", http.StatusConflict, nil)
	ErrCacheFull         = NewError(ErrCodeCacheFull, "緩存已滿", http.StatusServiceUnavailable, nil)
	ErrUnknownIngredient = NewError(ErrCodeUnknownIngredient, "未知的材料", http.StatusNotFound, nil)
)
