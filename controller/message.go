package controller

import (
	"net/http"

	"github.com/TaisyaFreelanse/twelvesteps/model"
	"github.com/TaisyaFreelanse/twelvesteps/service/factory"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// ProcessMessage 处理一轮用户消息
func ProcessMessage(ctx *gin.Context) {
	var req model.TurnRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := factory.GetServiceFactory().NewTurnService().ProcessMessage(ctx, &req)
	if err != nil {
		log.Errorf("ProcessMessage error: %v", err)
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, res)
}
