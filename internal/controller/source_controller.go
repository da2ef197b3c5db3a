package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"study_core_backend/internal/service"
	"study_core_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// maxSourceSize 上传文件大小上限
const maxSourceSize = 20 << 20

type SourceController struct {
	IngestionService *service.IngestionService
	RetrievalService *service.RetrievalService
}

func NewSourceController(ingestionService *service.IngestionService, retrievalService *service.RetrievalService) *SourceController {
	return &SourceController{IngestionService: ingestionService, RetrievalService: retrievalService}
}

// UploadSource godoc
// @Summary 上传来源文档
// @Description 保存原文件并切片向量化。txt/md 按换页符分页；pdf 需要在 pages 字段中提供逐页文本（JSON 数组）
// @Tags 来源文档
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "来源文档"
// @Param title formData string true "标题"
// @Param pages formData string false "逐页文本 JSON 数组"
// @Success 201 {object} util.Response{data=model.Source}
// @Failure 400 {object} util.Response
// @Failure 502 {object} util.Response
// @Router /sources [post]
func (c *SourceController) UploadSource(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	if file.Size > maxSourceSize {
		util.Error(ctx, http.StatusRequestEntityTooLarge, "file too large")
		return
	}

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxSourceSize))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	pages, err := extractPages(ext, data, ctx.PostForm("pages"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	source, err := c.IngestionService.IngestSource(ctx.Request.Context(), service.IngestRequest{
		UserID:      user.UserID,
		Title:       ctx.PostForm("title"),
		FileName:    file.Filename,
		ContentType: sourceContentType(ext, file.Header.Get("Content-Type")),
		Data:        data,
		Pages:       pages,
	})
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, source)
}

// FindRelated godoc
// @Summary 检索相关片段
// @Description 在指定来源文档中检索与查询语义相近的片段，按相似度降序
// @Tags 来源文档
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "来源文档ID"
// @Param q query string true "查询文本"
// @Param limit query int false "返回数量，默认 5，最多 50"
// @Success 200 {object} util.Response{data=[]model.ChunkMatch}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 502 {object} util.Response
// @Router /sources/{id}/related [get]
func (c *SourceController) FindRelated(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	sourceID := ctx.Param("id")
	if _, err := c.IngestionService.GetSource(ctx.Request.Context(), user.UserID, sourceID); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	limit := int(util.MustParseUint(ctx.DefaultQuery("limit", "0")))
	matches, err := c.RetrievalService.FindRelatedChunks(ctx.Request.Context(), ctx.Query("q"), limit, sourceID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, matches)
}

// extractPages 文本文件按换页符分页，pdf 使用客户端提取的逐页文本
func extractPages(ext string, data []byte, pagesField string) ([]string, error) {
	if pagesField != "" {
		var pages []string
		if err := json.Unmarshal([]byte(pagesField), &pages); err != nil {
			return nil, util.NewValidationError("pages", "must be a JSON array of strings", err)
		}
		return pages, nil
	}
	if ext == ".pdf" {
		return nil, util.NewValidationError("pages", "is required for pdf sources", nil)
	}
	return strings.Split(string(data), "\f"), nil
}

func sourceContentType(ext, declared string) string {
	switch ext {
	case ".pdf":
		return util.MimePDF
	case ".md":
		return util.MimeMarkdown
	case ".txt":
		return util.MimeText
	}
	if declared != "" {
		return declared
	}
	return util.MimeOctetStream
}
