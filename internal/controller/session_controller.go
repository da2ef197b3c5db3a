package controller

import (
	"study_core_backend/internal/model"
	"study_core_backend/internal/service"
	"study_core_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SessionController struct {
	SchedulingService *service.SchedulingService
}

func NewSessionController(schedulingService *service.SchedulingService) *SessionController {
	return &SessionController{SchedulingService: schedulingService}
}

type SessionResponse struct {
	Questions []model.Question `json:"questions"`
	Count     int              `json:"count"`
}

type ExtendSessionRequest struct {
	service.FetchRequest
	DeliveredIDs []uint `json:"deliveredIds"`
}

// FetchSession godoc
// @Summary 开始学习会话
// @Description 按学习模式选题：先取到期题目，不足时用未学过的题目补齐
// @Tags 学习会话
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.FetchRequest true "选题条件"
// @Success 200 {object} util.Response{data=SessionResponse}
// @Failure 400 {object} util.Response
// @Router /study/sessions [post]
func (c *SessionController) FetchSession(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.FetchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	req.UserID = user.UserID

	questions, err := c.SchedulingService.FetchQuestions(ctx.Request.Context(), req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, SessionResponse{Questions: questions, Count: len(questions)})
}

// ExtendSession godoc
// @Summary 继续学习会话
// @Description 排除本次会话已下发的题目后继续选题
// @Tags 学习会话
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body ExtendSessionRequest true "选题条件和已下发题目"
// @Success 200 {object} util.Response{data=SessionResponse}
// @Failure 400 {object} util.Response
// @Router /study/sessions/extend [post]
func (c *SessionController) ExtendSession(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ExtendSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	req.UserID = user.UserID

	questions, err := c.SchedulingService.ExtendSession(ctx.Request.Context(), req.FetchRequest, req.DeliveredIDs)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, SessionResponse{Questions: questions, Count: len(questions)})
}
