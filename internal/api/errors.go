package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error 非 2xx 响应
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// newError 优先取响应体里的 mensaje / message / error 字段
func newError(status int, body []byte) *Error {
	var payload struct {
		Mensaje string `json:"mensaje"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	msg := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, m := range []string{payload.Mensaje, payload.Message, payload.Error} {
			if strings.TrimSpace(m) != "" {
				msg = m
				break
			}
		}
	}
	if msg == "" {
		msg = fallbackMessage(status)
	}
	return &Error{Status: status, Message: msg}
}

func fallbackMessage(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return "会话已过期，请重新登录"
	case http.StatusForbidden:
		return "没有权限执行该操作"
	case http.StatusNotFound:
		return "资源不存在"
	default:
		return "请求失败，请稍后重试"
	}
}

// StatusOf 返回错误对应的 HTTP 状态码，非 *Error 返回 0
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsUnauthorized 401，调用方应跳转登录
func IsUnauthorized(err error) bool {
	return StatusOf(err) == http.StatusUnauthorized
}

// IsNotFound 404
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

// MessageOf 面向用户的错误提示
func MessageOf(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
