package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope codes shared with the rest of the wiki services.
const (
	CodeSuccess       = 100
	CodeInvalidParams = 1
	CodeBackendError  = 0
	CodeConflict      = 40900
)

type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func JSON(c *gin.Context, status, code int, message string, data any) {
	c.JSON(status, Response{Code: code, Message: message, Data: data})
}

func JSON200(c *gin.Context, data any) {
	JSON(c, http.StatusOK, CodeSuccess, "", data)
}

func JSON400(c *gin.Context, message string) {
	JSON(c, http.StatusBadRequest, CodeInvalidParams, message, nil)
}

func JSON401(c *gin.Context, message string) {
	JSON(c, http.StatusUnauthorized, http.StatusUnauthorized, message, nil)
}

func JSON403(c *gin.Context, message string) {
	JSON(c, http.StatusForbidden, http.StatusForbidden, message, nil)
}

func JSON404(c *gin.Context, message string) {
	JSON(c, http.StatusNotFound, http.StatusNotFound, message, nil)
}

func JSON409(c *gin.Context, message string, data any) {
	JSON(c, http.StatusConflict, CodeConflict, message, data)
}

func JSON500(c *gin.Context, message string) {
	JSON(c, http.StatusInternalServerError, CodeBackendError, message, nil)
}

func JSON502(c *gin.Context, message string) {
	JSON(c, http.StatusBadGateway, CodeBackendError, message, nil)
}

func JSON503(c *gin.Context, message string) {
	JSON(c, http.StatusServiceUnavailable, CodeBackendError, message, nil)
}

// AbortJSON writes an error envelope and stops the handler chain.
func AbortJSON(c *gin.Context, status int, message string) {
	code := status
	if status == http.StatusBadRequest {
		code = CodeInvalidParams
	}
	c.AbortWithStatusJSON(status, Response{Code: code, Message: message})
}
