package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/minbar/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/minbar/internal/model"
)

// APIError is the error half of every handler result; Code is the HTTP status.
// Data, when set, is sent next to the message as "result".
type APIError struct {
	Code    int
	Message string
	Data    any
}

func (e *APIError) Error() string { return e.Message }

type HandlerFuncWithAuth func(ctx *gin.Context, user *model.User) (any, *APIError)
type HandlerFunc func(ctx *gin.Context) (any, *APIError)

func ResolveEndpointWithAuth(h HandlerFuncWithAuth) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := middleware.GetCurrentUser(ctx)
		if !ok {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		result, apiErr := h(ctx, user)
		if apiErr != nil {
			writeError(ctx, apiErr)
			return
		}

		ctx.JSON(http.StatusOK, result)
	}
}

func ResolveEndpoint(h HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, apiErr := h(ctx)
		if apiErr != nil {
			writeError(ctx, apiErr)
			return
		}

		ctx.JSON(http.StatusOK, result)
	}
}

func writeError(ctx *gin.Context, apiErr *APIError) {
	body := gin.H{"error": apiErr.Message}
	if apiErr.Data != nil {
		body["result"] = apiErr.Data
	}
	ctx.JSON(apiErr.Code, body)
}
