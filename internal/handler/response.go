package handler

import (
	"errors"
	"net/http"

	"github.com/blues/cfc/internal/logic"
	"github.com/gin-gonic/gin"
)

// Response 通用响应结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse 错误响应
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Data:    nil,
	})
}

// LogicErrorResponse 按业务错误类别返回对应状态码
func LogicErrorResponse(c *gin.Context, err error) {
	ErrorResponse(c, statusFromError(err), err.Error())
}

// statusFromError 业务错误到HTTP状态码的映射
func statusFromError(err error) int {
	switch {
	case errors.Is(err, logic.ErrCampaignNotFound):
		return http.StatusNotFound
	case errors.Is(err, logic.ErrInvalidDeadline),
		errors.Is(err, logic.ErrInvalidTarget),
		errors.Is(err, logic.ErrInvalidAmount),
		errors.Is(err, logic.ErrSelfDonation),
		errors.Is(err, logic.ErrDeadlinePassed),
		errors.Is(err, logic.ErrTargetReached):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
