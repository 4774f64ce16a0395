package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ticney/archi-planning/internal/service"
	"github.com/ticney/archi-planning/internal/utils"
)

// RequestController 治理请求控制器
type RequestController struct {
	requestService service.RequestService
	queryService   service.QueryService
}

// NewRequestController 创建治理请求控制器
func NewRequestController(requestService service.RequestService, queryService service.QueryService) *RequestController {
	return &RequestController{
		requestService: requestService,
		queryService:   queryService,
	}
}

// validateRequestID 验证请求 ID 并返回错误响应（如果无效）
func (c *RequestController) validateRequestID(ctx *gin.Context, id string) bool {
	if err := utils.ValidateRequestID(id); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request ID", err.Error())
		return false
	}
	return true
}

// Create 创建治理请求
// @Summary      创建治理请求
// @Description  以 draft 状态创建新的治理请求
// @Tags         治理请求
// @Accept       json
// @Produce      json
// @Param        request body service.CreateRequestInput true "请求信息"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /requests [post]
// @Security     BearerAuth
func (c *RequestController) Create(ctx *gin.Context) {
	var input service.CreateRequestInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	input.RequesterID = ctx.GetString("user_id")

	req, err := c.requestService.Create(ctx.Request.Context(), &input)
	if handleServiceError(ctx, err) {
		return
	}

	Success(ctx, req)
}

// Get 获取治理请求
// @Summary      获取治理请求详情
// @Description  根据 ID 获取治理请求详情
// @Tags         治理请求
// @Accept       json
// @Produce      json
// @Param        id path string true "请求 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /requests/{id} [get]
// @Security     BearerAuth
func (c *RequestController) Get(ctx *gin.Context) {
	id := ctx.Param("id")
	if !c.validateRequestID(ctx, id) {
		return
	}

	req, err := c.requestService.Get(ctx.Request.Context(), id)
	if handleServiceError(ctx, err) {
		return
	}

	Success(ctx, req)
}

// setTopicInput 设置议题的请求体
type setTopicInput struct {
	Topic string `json:"topic" example:"standard" binding:"required"`
}

// SetTopic 设置治理请求的议题
// @Summary      设置议题
// @Description  为 draft 状态的治理请求设置议题,同时刷新需求快照与预计时长
// @Tags         治理请求
// @Accept       json
// @Produce      json
// @Param        id path string true "请求 ID"
// @Param        request body setTopicInput true "议题"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /requests/{id}/topic [put]
// @Security     BearerAuth
func (c *RequestController) SetTopic(ctx *gin.Context) {
	id := ctx.Param("id")
	if !c.validateRequestID(ctx, id) {
		return
	}

	var input setTopicInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	if err := utils.ValidateTopic(input.Topic); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid topic", err.Error())
		return
	}

	req, err := c.requestService.SetTopic(ctx.Request.Context(), id, input.Topic)
	if handleServiceError(ctx, err) {
		return
	}

	Success(ctx, req)
}

// RecordAttachment 登记证明文件
// @Summary      登记证明文件
// @Description  为 draft 状态的治理请求登记一份已上传的证明文件
// @Tags         治理请求
// @Accept       json
// @Produce      json
// @Param        id path string true "请求 ID"
// @Param        request body service.RecordAttachmentInput true "附件信息"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /requests/{id}/attachments [post]
// @Security     BearerAuth
func (c *RequestController) RecordAttachment(ctx *gin.Context) {
	id := ctx.Param("id")
	if !c.validateRequestID(ctx, id) {
		return
	}

	var input service.RecordAttachmentInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	input.RequestID = id
	input.UploaderID = ctx.GetString("user_id")

	attachment, err := c.requestService.RecordAttachment(ctx.Request.Context(), &input)
	if handleServiceError(ctx, err) {
		return
	}

	Success(ctx, attachment)
}

// DeleteAttachment 删除证明文件登记
// @Summary      删除证明文件登记
// @Tags         治理请求
// @Accept       json
// @Produce      json
// @Param        id path string true "请求 ID"
// @Param        attachment_id path string true "附件 ID"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /requests/{id}/attachments/{attachment_id} [delete]
// @Security     BearerAuth
func (c *RequestController) DeleteAttachment(ctx *gin.Context) {
	attachmentID := ctx.Param("attachment_id")
	if err := utils.ValidateAttachmentID(attachmentID); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid attachment ID", err.Error())
		return
	}

	if handleServiceError(ctx, c.requestService.DeleteAttachment(ctx.Request.Context(), attachmentID)) {
		return
	}

	Success(ctx, nil)
}

// Attachments 列出证明文件
// @Summary      列出治理请求的证明文件
// @Tags         治理请求
// @Accept       json
// @Produce      json
// @Param        id path string true "请求 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /requests/{id}/attachments [get]
// @Security     BearerAuth
func (c *RequestController) Attachments(ctx *gin.Context) {
	id := ctx.Param("id")
	if !c.validateRequestID(ctx, id) {
		return
	}

	attachments, err := c.requestService.Attachments(ctx.Request.Context(), id)
	if handleServiceError(ctx, err) {
		return
	}

	Success(ctx, attachments)
}

// MissingProofs 查询缺失的证明文件
// @Summary      查询缺失的证明文件
// @Description  返回提交该请求尚缺的证明类型,已满足时为空列表
// @Tags         治理请求
// @Accept       json
// @Produce      json
// @Param        id path string true "请求 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Router       /requests/{id}/missing-proofs [get]
// @Security     BearerAuth
func (c *RequestController) MissingProofs(ctx *gin.Context) {
	id := ctx.Param("id")
	if !c.validateRequestID(ctx, id) {
		return
	}

	missing, err := c.requestService.MissingProofs(ctx.Request.Context(), id)
	if handleServiceError(ctx, err) {
		return
	}

	Success(ctx, gin.H{"missing_kinds": missing})
}

// Submit 提交治理请求评审
// @Summary      提交治理请求
// @Description  证明文件齐全时将请求从 draft 推进到 pending_review
// @Tags         治理请求
// @Accept       json
// @Produce      json
// @Param        id path string true "请求 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /requests/{id}/submit [post]
// @Security     BearerAuth
func (c *RequestController) Submit(ctx *gin.Context) {
	id := ctx.Param("id")
	if !c.validateRequestID(ctx, id) {
		return
	}

	if handleServiceError(ctx, c.requestService.Submit(ctx.Request.Context(), id)) {
		return
	}

	Success(ctx, nil)
}

// Validate 评审通过治理请求
// @Summary      评审通过
// @Description  评审人将 pending_review 状态的请求推进到 validated
// @Tags         评审
// @Accept       json
// @Produce      json
// @Param        id path string true "请求 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /requests/{id}/validate [post]
// @Security     BearerAuth
func (c *RequestController) Validate(ctx *gin.Context) {
	id := ctx.Param("id")
	if !c.validateRequestID(ctx, id) {
		return
	}

	reviewerID := ctx.GetString("user_id")
	if handleServiceError(ctx, c.requestService.Validate(ctx.Request.Context(), id, reviewerID)) {
		return
	}

	Success(ctx, nil)
}

// rejectInput 驳回的请求体
type rejectInput struct {
	Reason string `json:"reason" example:"DAT sheet is outdated, please refresh section 3" binding:"required"`
}

// Reject 驳回治理请求
// @Summary      驳回请求
// @Description  评审人驳回请求,请求退回 draft,驳回理由不少于 10 个字符
// @Tags         评审
// @Accept       json
// @Produce      json
// @Param        id path string true "请求 ID"
// @Param        request body rejectInput true "驳回理由"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /requests/{id}/reject [post]
// @Security     BearerAuth
func (c *RequestController) Reject(ctx *gin.Context) {
	id := ctx.Param("id")
	if !c.validateRequestID(ctx, id) {
		return
	}

	var input rejectInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	reviewerID := ctx.GetString("user_id")
	if handleServiceError(ctx, c.requestService.Reject(ctx.Request.Context(), id, reviewerID, input.Reason)) {
		return
	}

	Success(ctx, nil)
}

// PendingReview 评审工作台列表
// @Summary      待评审请求列表
// @Description  返回所有 pending_review 的请求及各自的成熟度评分
// @Tags         评审
// @Accept       json
// @Produce      json
// @Success      200  {object}  Response
// @Failure      500  {object}  ErrorResponse
// @Router       /requests/pending-review [get]
// @Security     BearerAuth
func (c *RequestController) PendingReview(ctx *gin.Context) {
	items, err := c.queryService.PendingReview(ctx.Request.Context())
	if handleServiceError(ctx, err) {
		return
	}

	Success(ctx, items)
}

// MyRequests 我发起的请求列表
// @Summary      我发起的请求
// @Tags         治理请求
// @Accept       json
// @Produce      json
// @Success      200  {object}  Response
// @Failure      500  {object}  ErrorResponse
// @Router       /requests/mine [get]
// @Security     BearerAuth
func (c *RequestController) MyRequests(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	items, err := c.queryService.MyRequests(ctx.Request.Context(), userID)
	if handleServiceError(ctx, err) {
		return
	}

	Success(ctx, items)
}
