package controller

import (
	"net/http"

	"github.com/TaisyaFreelanse/twelvesteps/model"
	"github.com/TaisyaFreelanse/twelvesteps/service/factory"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// GetContext 取用户当前的检索上下文
func GetContext(ctx *gin.Context) {
	userID := ctx.Query("user_id")
	query := ctx.Query("query")

	res, err := factory.GetServiceFactory().NewTurnService().GetContext(ctx, userID, query)
	if err != nil {
		log.Errorf("GetContext error: %v", err)
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, res)
}

// GetTracking 查询用户的帧追踪状态
func GetTracking(ctx *gin.Context) {
	userID := ctx.Query("user_id")
	if userID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	rows, total, err := factory.GetServiceFactory().NewTrackingService().List(ctx, &model.GetFrameTrackingCondition{
		UserID: &userID,
	})
	if err != nil {
		log.Errorf("GetTracking error: %v", err)
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"total": total, "trackings": rows})
}

// GetSession 查询用户的会话状态，活跃块经过窗口过滤
func GetSession(ctx *gin.Context) {
	userID := ctx.Query("user_id")
	if userID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	state, err := factory.GetServiceFactory().NewSessionService().GetState(ctx, userID)
	if err != nil {
		log.Errorf("GetSession error: %v", err)
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, state)
}

// GetProfile 查询用户画像
func GetProfile(ctx *gin.Context) {
	userID := ctx.Query("user_id")
	if userID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	rows, err := factory.GetServiceFactory().NewProfileService().Get(ctx, userID)
	if err != nil {
		log.Errorf("GetProfile error: %v", err)
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"profiles": rows})
}
