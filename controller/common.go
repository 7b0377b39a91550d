package controller

import (
	"net/http"

	"github.com/TaisyaFreelanse/twelvesteps/model"
	"github.com/gin-gonic/gin"
)

// writeError 业务错误码映射到 HTTP 状态码
func writeError(ctx *gin.Context, err *model.Error) {
	status := http.StatusInternalServerError
	switch err.Code {
	case model.ErrorParams, model.ErrorEmptyId, model.ErrorValidation:
		status = http.StatusBadRequest
	case model.ErrorUserNotExist:
		status = http.StatusNotFound
	case model.ErrorClassification, model.ErrorEmbedding:
		status = http.StatusBadGateway
	}

	ctx.JSON(status, gin.H{"code": err.Code, "error": err.Message})
}
