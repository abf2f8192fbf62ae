// Package errors provides the unified JSON error body returned by the API.
package errors

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/haierkeys/fast-note-pdf-link-service/pkg/code"
)

// TraceIDKey 追踪中间件写入 gin.Context 的键
const TraceIDKey = "trace_id"

// langKey 语言中间件写入 gin.Context 的键
const langKey = "lang"

// AppError 统一应用错误结构体
// 包含错误码、消息、详情、追踪ID和时间戳
type AppError struct {
	// Code 错误码
	Code int `json:"code"`
	// Message 错误消息
	Message string `json:"message"`
	// Details 错误详情（可选）
	Details []string `json:"details,omitempty"`
	// Context 出错对象，例如 link id（可选）
	Context string `json:"context,omitempty"`
	// Data 附加数据，例如版本冲突时的当前笔记（可选）
	Data interface{} `json:"data,omitempty"`
	// TraceID 请求追踪ID
	TraceID string `json:"traceId,omitempty"`
	// Cause 原始错误（不序列化到JSON）
	Cause error `json:"-"`
	// Timestamp 错误发生时间
	Timestamp time.Time `json:"timestamp"`

	httpStatus int
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap 支持 errors.Is / errors.As 沿错误链查找
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError 从 Code 对象创建 AppError
func NewAppError(c *code.Code, cause error) *AppError {
	return &AppError{
		Code:       c.Code(),
		Message:    c.Msg(),
		Details:    c.Details(),
		Context:    c.Context(),
		Data:       c.Data(),
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

// WithDetails 设置详情并返回自身（链式调用）
func (e *AppError) WithDetails(details ...string) *AppError {
	e.Details = details
	return e
}

// StatusCode HTTP 状态码
func (e *AppError) StatusCode() int {
	if e.httpStatus == 0 {
		return http.StatusOK
	}
	return e.httpStatus
}

// ErrorResponse writes err as an AppError JSON body. Errors that carry neither
// an AppError nor a code.Code are reported as an internal error without
// leaking their message.
// ErrorResponse 统一错误响应处理
func ErrorResponse(c *gin.Context, err error) {
	traceID := c.GetString(TraceIDKey)

	var appErr *AppError
	if errors.As(err, &appErr) {
		appErr.TraceID = traceID
		c.JSON(appErr.StatusCode(), appErr)
		return
	}

	var codeErr *code.Code
	if errors.As(err, &codeErr) {
		resp := NewAppError(codeErr, err).WithTraceID(traceID)
		if l := c.GetString(langKey); l != "" {
			resp.Message = codeErr.Lang.In(l)
		}
		c.JSON(resp.StatusCode(), resp)
		return
	}

	c.JSON(http.StatusInternalServerError, &AppError{
		Code:      code.ErrorServerInternal.Code(),
		Message:   code.ErrorServerInternal.Msg(),
		TraceID:   traceID,
		Timestamp: time.Now(),
	})
}
