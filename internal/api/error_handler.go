package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tiorionjames/dewlist/internal/lifecycle"
)

// APIError API 错误
type APIError struct {
	Code    int
	Message string
	Detail  string
}

func (e *APIError) Error() string {
	return e.Message
}

// ErrorHandlerMiddleware 错误处理中间件
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()

			var apiErr *APIError
			if errors.As(err, &apiErr) {
				Error(c, apiErr.Code, apiErr.Message, apiErr.Detail)
			} else {
				Error(c, http.StatusInternalServerError, "internal server error", err.Error())
			}
		}
	}
}

// ServiceError 把核心错误分类映射为 HTTP 错误响应
// NotFound→404, Forbidden→403, Conflict→409, Validation→400, Persistence→500(可重试)
func ServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, lifecycle.ErrNotFound):
		Error(c, http.StatusNotFound, "not found", err.Error())
	case errors.Is(err, lifecycle.ErrForbidden):
		Error(c, http.StatusForbidden, "not authorized", err.Error())
	case errors.Is(err, lifecycle.ErrConflict):
		Error(c, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, lifecycle.ErrValidation):
		Error(c, http.StatusBadRequest, "validation failed", err.Error())
	case errors.Is(err, lifecycle.ErrPersistence):
		Error(c, http.StatusInternalServerError, "temporary failure, retry later", err.Error())
	default:
		Error(c, http.StatusInternalServerError, "internal server error", err.Error())
	}
}
