package controller

import (
	"study_core_backend/internal/service"
	"study_core_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ActivityController struct {
	ActivityService *service.ActivityService
}

func NewActivityController(activityService *service.ActivityService) *ActivityController {
	return &ActivityController{ActivityService: activityService}
}

type LogActivityRequest struct {
	ItemsCount int `json:"itemsCount"`
}

// LogActivity godoc
// @Summary 记录学习量
// @Tags 学习记录
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body LogActivityRequest true "本次学习的题目数"
// @Success 200 {object} util.Response{data=service.ActivityResult}
// @Failure 400 {object} util.Response
// @Router /activity [post]
func (c *ActivityController) LogActivity(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req LogActivityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ActivityService.LogStudyActivity(ctx.Request.Context(), user.UserID, req.ItemsCount)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// GetStreak godoc
// @Summary 获取连续学习天数
// @Tags 学习记录
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /activity/streak [get]
func (c *ActivityController) GetStreak(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	streak, err := c.ActivityService.GetStreak(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"streak": streak})
}
