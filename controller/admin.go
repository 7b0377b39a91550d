package controller

import (
	"net/http"

	"github.com/TaisyaFreelanse/twelvesteps/model"
	"github.com/TaisyaFreelanse/twelvesteps/service/factory"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// ResetUser 管理员重置：事务内清空用户的全部追踪数据，幂等
func ResetUser(ctx *gin.Context) {
	var req model.ResetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := factory.GetServiceFactory().NewUserService().Reset(ctx, req.UserID)
	if err != nil {
		log.Errorf("ResetUser error: %v", err)
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user_id": req.UserID, "deleted": summary})
}
