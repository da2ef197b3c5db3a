package controller

import (
	"study_core_backend/internal/service"
	"study_core_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UnitController struct {
	QuestionService *service.QuestionService
}

func NewUnitController(questionService *service.QuestionService) *UnitController {
	return &UnitController{QuestionService: questionService}
}

// GetUnit godoc
// @Summary 获取学习单元
// @Tags 单元
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "单元ID"
// @Success 200 {object} util.Response{data=model.Unit}
// @Failure 404 {object} util.Response
// @Router /units/{id} [get]
func (c *UnitController) GetUnit(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid unit id")
		return
	}

	unit, err := c.QuestionService.GetUnit(ctx.Request.Context(), user.UserID, id)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, unit)
}
