package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ticney/archi-planning/internal/service"
	"github.com/ticney/archi-planning/internal/utils"
)

// AdminController 管理控制器
// 议题清单配置与角色管理
type AdminController struct {
	catalogService service.CatalogService
	adminService   service.AdminService
}

// NewAdminController 创建管理控制器
func NewAdminController(catalogService service.CatalogService, adminService service.AdminService) *AdminController {
	return &AdminController{
		catalogService: catalogService,
		adminService:   adminService,
	}
}

// Topics 列出已配置的议题
// @Summary      列出议题
// @Tags         清单配置
// @Accept       json
// @Produce      json
// @Success      200  {object}  Response
// @Router       /admin/topics [get]
// @Security     BearerAuth
func (c *AdminController) Topics(ctx *gin.Context) {
	Success(ctx, c.catalogService.Topics())
}

// TopicRequirements 查询议题的证明清单
// @Summary      查询议题的证明清单
// @Tags         清单配置
// @Accept       json
// @Produce      json
// @Param        topic path string true "议题标识"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Router       /admin/topics/{topic}/requirements [get]
// @Security     BearerAuth
func (c *AdminController) TopicRequirements(ctx *gin.Context) {
	topic := ctx.Param("topic")
	if err := utils.ValidateTopic(topic); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid topic", err.Error())
		return
	}

	kinds, duration, err := c.catalogService.RequirementsForTopic(topic)
	if handleServiceError(ctx, err) {
		return
	}

	Success(ctx, gin.H{
		"topic":              topic,
		"proof_kinds":        kinds,
		"estimated_duration": duration,
	})
}

// requirementInput 清单变更的请求体
type requirementInput struct {
	ProofKind string `json:"proof_kind" example:"security_signoff" binding:"required"`
}

// AddRequirement 为议题追加必交证明
// @Summary      追加必交证明
// @Description  为议题追加一种必交证明,重复追加幂等
// @Tags         清单配置
// @Accept       json
// @Produce      json
// @Param        topic path string true "议题标识"
// @Param        request body requirementInput true "证明类型"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Router       /admin/topics/{topic}/requirements [post]
// @Security     BearerAuth
func (c *AdminController) AddRequirement(ctx *gin.Context) {
	topic := ctx.Param("topic")
	if err := utils.ValidateTopic(topic); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid topic", err.Error())
		return
	}

	var input requirementInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	if handleServiceError(ctx, c.catalogService.AddRequirement(topic, input.ProofKind)) {
		return
	}

	Success(ctx, nil)
}

// RemoveRequirement 移除议题的必交证明
// @Summary      移除必交证明
// @Description  移除议题的一种必交证明,移除不存在的项幂等
// @Tags         清单配置
// @Accept       json
// @Produce      json
// @Param        topic path string true "议题标识"
// @Param        proof_kind path string true "证明类型"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Router       /admin/topics/{topic}/requirements/{proof_kind} [delete]
// @Security     BearerAuth
func (c *AdminController) RemoveRequirement(ctx *gin.Context) {
	topic := ctx.Param("topic")
	if err := utils.ValidateTopic(topic); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid topic", err.Error())
		return
	}

	if handleServiceError(ctx, c.catalogService.RemoveRequirement(topic, ctx.Param("proof_kind"))) {
		return
	}

	Success(ctx, nil)
}

// ListRoles 列出所有角色分配
// @Summary      列出角色分配
// @Tags         角色管理
// @Accept       json
// @Produce      json
// @Success      200  {object}  Response
// @Router       /admin/roles [get]
// @Security     BearerAuth
func (c *AdminController) ListRoles(ctx *gin.Context) {
	roles, err := c.adminService.ListRoles(ctx.Request.Context())
	if handleServiceError(ctx, err) {
		return
	}

	Success(ctx, roles)
}

// updateRoleInput 角色变更的请求体
type updateRoleInput struct {
	Role string `json:"role" example:"reviewer" binding:"required"`
}

// UpdateRole 变更用户角色
// @Summary      变更用户角色
// @Description  管理员为用户分配角色,管理员不能摘除自己的 admin 角色
// @Tags         角色管理
// @Accept       json
// @Produce      json
// @Param        user_id path string true "用户 ID"
// @Param        request body updateRoleInput true "目标角色"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Router       /admin/roles/{user_id} [put]
// @Security     BearerAuth
func (c *AdminController) UpdateRole(ctx *gin.Context) {
	userID := ctx.Param("user_id")
	if userID == "" {
		Error(ctx, http.StatusBadRequest, "invalid user ID", "user ID is required")
		return
	}

	var input updateRoleInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	actorID := ctx.GetString("user_id")
	if handleServiceError(ctx, c.adminService.UpdateRole(ctx.Request.Context(), actorID, userID, input.Role)) {
		return
	}

	Success(ctx, nil)
}
