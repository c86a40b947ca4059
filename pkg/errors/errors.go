package errors

import (
	"errors"
	"net/http"
	"time"

	"github.com/haierkeys/locket-service/internal/middleware"
	"github.com/haierkeys/locket-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// AppError 统一应用错误结构体
// 包含错误码、消息、字段错误、追踪ID和时间戳
type AppError struct {
	// Code 错误码
	Code int `json:"code"`
	// Status 始终为 false
	Status bool `json:"status"`
	// Message 错误消息
	Message string `json:"message"`
	// Details 错误详情（可选）
	Details []string `json:"details,omitempty"`
	// Data field-keyed validation messages
	Data map[string]string `json:"data,omitempty"`
	// TraceID 请求追踪ID
	TraceID string `json:"traceId,omitempty"`
	// Cause 原始错误（不序列化到JSON）
	Cause error `json:"-"`
	// Timestamp 错误发生时间
	Timestamp time.Time `json:"timestamp"`

	httpStatus int
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// HTTPStatus 返回响应使用的 http 状态码
func (e *AppError) HTTPStatus() int {
	if e.httpStatus == 0 {
		return http.StatusInternalServerError
	}
	return e.httpStatus
}

// NewAppError 从 Code 对象创建 AppError
func NewAppError(c *code.Code, cause error) *AppError {
	return &AppError{
		Code:       c.Code(),
		Message:    c.Msg(),
		Details:    c.Details(),
		Data:       c.Fields(),
		Cause:      cause,
		Timestamp:  time.Now(),
		httpStatus: c.StatusCode(),
	}
}

// WithTraceID 设置 TraceID 并返回自身（链式调用）
func (e *AppError) WithTraceID(traceID string) *AppError {
	e.TraceID = traceID
	return e
}

// FromError converts any error into an AppError.
// Validation errors keep their field messages; not-found and authorization errors
// keep only the generic message; unknown errors become an internal error.
func FromError(err error, language string) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var codeErr *code.Code
	if errors.As(err, &codeErr) {
		e := &AppError{
			Code:       codeErr.Code(),
			Message:    codeErr.MsgIn(language),
			Cause:      err,
			Timestamp:  time.Now(),
			httpStatus: codeErr.StatusCode(),
		}
		switch codeErr.Kind() {
		case code.KindValidation:
			e.Details = codeErr.Details()
			e.Data = codeErr.Fields()
		case code.KindNotFound, code.KindAuthorization, code.KindUnauthenticated, code.KindTooManyRequests:
		default:
			// internal detail stays in the server log
		}
		return e
	}

	return &AppError{
		Code:       code.ErrorServerInternal.Code(),
		Message:    code.ErrorServerInternal.MsgIn(language),
		Cause:      err,
		Timestamp:  time.Now(),
		httpStatus: http.StatusInternalServerError,
	}
}

// ErrorResponse 统一错误响应处理
// 从 gin.Context 获取 TraceID 和语言，将错误转换为 AppError 并返回 JSON 响应
func ErrorResponse(c *gin.Context, err error) {
	appErr := FromError(err, c.GetString("lang"))
	appErr.TraceID = middleware.GetTraceIDFromGin(c)

	c.Set("status_code", appErr.HTTPStatus())
	c.JSON(appErr.HTTPStatus(), appErr)
}

// IsAppError 检查错误是否为 AppError 类型
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// IsKind reports whether err is a result code of the given kind.
func IsKind(err error, kind code.Kind) bool {
	var codeErr *code.Code
	if errors.As(err, &codeErr) {
		return codeErr.Kind() == kind
	}
	return false
}
