package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Every endpoint answers with the same envelope:
// { success, message, <entity-or-list>?, error?, details? }

func respond(ctx *gin.Context, status int, success bool, message string, extra gin.H) {
	body := gin.H{
		"success": success,
		"message": message,
	}

	for k, v := range extra {
		body[k] = v
	}

	ctx.JSON(status, body)
}

func RespondOK(ctx *gin.Context, message string, extra gin.H) {
	respond(ctx, http.StatusOK, true, message, extra)
}

func RespondCreated(ctx *gin.Context, message string, extra gin.H) {
	respond(ctx, http.StatusCreated, true, message, extra)
}

func RespondBadRequest(ctx *gin.Context, message string, details interface{}) {
	extra := gin.H{}

	if details != nil {
		extra["details"] = details
	}

	respond(ctx, http.StatusBadRequest, false, message, extra)
}

func RespondUnAuthorized(ctx *gin.Context, message string) {
	respond(ctx, http.StatusUnauthorized, false, message, nil)
}

func RespondNotFound(ctx *gin.Context, message string) {
	respond(ctx, http.StatusNotFound, false, message, nil)
}

func RespondConflict(ctx *gin.Context, message string) {
	respond(ctx, http.StatusConflict, false, message, nil)
}

// RespondInternal echoes the error detail in the body, matching the admin
// console contract for unexpected failures.
func RespondInternal(ctx *gin.Context, message string, err error) {
	extra := gin.H{}

	if err != nil {
		extra["error"] = err.Error()
	}

	respond(ctx, http.StatusInternalServerError, false, message, extra)
}
