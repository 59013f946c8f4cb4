// Package response provides the uniform JSON envelope used by every
// HTTP handler.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/filedrop/filedrop/internal/pkg/errors"
)

// Response is the envelope returned by all JSON endpoints.
type Response struct {
	Code    int         `json:"code"`              // business code, 0 on success
	Message string      `json:"message,omitempty"` // human-readable message
	Data    interface{} `json:"data"`              // payload, {} when empty
}

// Success writes a 200 response with the given payload.
func Success(c *gin.Context, data interface{}) {
	if data == nil {
		data = struct{}{}
	}
	c.JSON(http.StatusOK, Response{
		Code: apperrors.Success,
		Data: data,
	})
}

// Created writes a 201 response with the given payload.
func Created(c *gin.Context, data interface{}) {
	if data == nil {
		data = struct{}{}
	}
	c.JSON(http.StatusCreated, Response{
		Code: apperrors.Success,
		Data: data,
	})
}

// Error writes an error response with an explicit HTTP status.
func Error(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, Response{
		Code:    httpStatus,
		Message: message,
		Data:    struct{}{},
	})
}

// BadRequest writes a 400 response.
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// NotFound writes a 404 response.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// InternalError writes a 500 response.
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

// HandleError maps an AppError (or any error) onto the envelope. Server
// failures keep their cause out of the body; the handler is expected to
// have logged it already.
func HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	code := apperrors.ExtractCode(err)
	httpStatus := apperrors.GetHTTPStatus(code)

	message := apperrors.GetMessage(code)
	if apperrors.IsClientError(code) {
		message = apperrors.FormatError(code, apperrors.GetDetails(err))
	}

	c.JSON(httpStatus, Response{
		Code:    code,
		Message: message,
		Data:    struct{}{},
	})
}
