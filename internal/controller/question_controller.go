package controller

import (
	"study_core_backend/internal/service"
	"study_core_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	QuestionService *service.QuestionService
	ReviewService   *service.ReviewService
}

func NewQuestionController(questionService *service.QuestionService, reviewService *service.ReviewService) *QuestionController {
	return &QuestionController{QuestionService: questionService, ReviewService: reviewService}
}

type BatchQuestionsRequest struct {
	Questions []service.QuestionInput `json:"questions"`
}

type DeleteQuestionsRequest struct {
	IDs []uint `json:"ids"`
}

type ReviewRequest struct {
	// 0-5，3 及以上算答对
	Quality *int `json:"quality" binding:"required"`
}

// GetQuestion godoc
// @Summary 获取题目详情
// @Tags 题目
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response{data=model.Question}
// @Failure 404 {object} util.Response
// @Router /questions/{id} [get]
func (c *QuestionController) GetQuestion(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid question id")
		return
	}

	q, err := c.QuestionService.GetQuestion(ctx.Request.Context(), user.UserID, id)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// CreateQuestions godoc
// @Summary 批量创建题目
// @Tags 题目
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body BatchQuestionsRequest true "题目列表"
// @Success 201 {object} util.Response{data=[]model.Question}
// @Failure 400 {object} util.Response
// @Router /questions/batch [post]
func (c *QuestionController) CreateQuestions(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req BatchQuestionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	questions, err := c.QuestionService.CreateQuestions(ctx.Request.Context(), user.UserID, req.Questions)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, questions)
}

// UpdateQuestions godoc
// @Summary 批量修改题目
// @Description 只修改题型、内容、科目、单元和知识点，不影响复习进度
// @Tags 题目
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body BatchQuestionsRequest true "题目列表，id 必填"
// @Success 200 {object} util.Response{data=[]model.Question}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /questions/batch [put]
func (c *QuestionController) UpdateQuestions(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req BatchQuestionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	questions, err := c.QuestionService.UpdateQuestions(ctx.Request.Context(), user.UserID, req.Questions)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// DeleteQuestions godoc
// @Summary 批量删除题目
// @Description id 可以放在请求体中，也可以用 ids=1,2,3 查询参数
// @Tags 题目
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param ids query string false "逗号分隔的题目ID"
// @Param body body DeleteQuestionsRequest false "题目ID列表"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /questions/batch [delete]
func (c *QuestionController) DeleteQuestions(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	ids, err := util.ParseUintList(ctx.Query("ids"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	if len(ids) == 0 && ctx.Request.ContentLength != 0 {
		var req DeleteQuestionsRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
		ids = req.IDs
	}

	deleted, err := c.QuestionService.DeleteQuestions(ctx.Request.Context(), user.UserID, ids)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": deleted})
}

// ReviewQuestion godoc
// @Summary 提交复习评分
// @Description 按 SM-2 算法更新下次复习时间，并记入当天学习量
// @Tags 题目
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Param body body ReviewRequest true "评分"
// @Success 200 {object} util.Response{data=service.ReviewResult}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /questions/{id}/review [post]
func (c *QuestionController) ReviewQuestion(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid question id")
		return
	}

	var req ReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ReviewService.RecordReview(ctx.Request.Context(), user.UserID, id, *req.Quality)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
