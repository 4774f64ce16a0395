package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ticney/archi-planning/internal/service"
	"github.com/ticney/archi-planning/internal/utils"
)

// SchedulingController 评审预订控制器
type SchedulingController struct {
	bookingService service.BookingService
	agendaService  service.AgendaService
}

// NewSchedulingController 创建评审预订控制器
func NewSchedulingController(bookingService service.BookingService, agendaService service.AgendaService) *SchedulingController {
	return &SchedulingController{
		bookingService: bookingService,
		agendaService:  agendaService,
	}
}

// parseDay 解析 day 查询参数(YYYY-MM-DD),缺省为今天
func parseDay(ctx *gin.Context) (time.Time, bool) {
	raw := ctx.Query("day")
	if raw == "" {
		return time.Now(), true
	}

	day, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		Error(ctx, http.StatusBadRequest, "invalid day", "expected format YYYY-MM-DD")
		return time.Time{}, false
	}
	return day, true
}

// Slots 查询某天的可用时段
// @Summary      查询可用时段
// @Description  返回评审日的 30 分钟时段网格及占用情况,非评审日返回空列表
// @Tags         评审预订
// @Accept       json
// @Produce      json
// @Param        day query string false "日期(YYYY-MM-DD),缺省为今天"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Router       /scheduling/slots [get]
// @Security     BearerAuth
func (c *SchedulingController) Slots(ctx *gin.Context) {
	day, ok := parseDay(ctx)
	if !ok {
		return
	}

	slots, err := c.bookingService.AvailableSlots(ctx.Request.Context(), day)
	if handleServiceError(ctx, err) {
		return
	}

	Success(ctx, slots)
}

// bookInput 预订时段的请求体
type bookInput struct {
	Start time.Time `json:"start" example:"2026-01-09T14:00:00Z" binding:"required"` // 时段开始时间(RFC3339)
}

// Book 为已通过评审的请求预订时段
// @Summary      预订评审时段
// @Description  为 validated 状态的请求预订时段,成功后请求进入 tentative
// @Tags         评审预订
// @Accept       json
// @Produce      json
// @Param        id path string true "请求 ID"
// @Param        request body bookInput true "时段开始时间"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /scheduling/requests/{id}/book [post]
// @Security     BearerAuth
func (c *SchedulingController) Book(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := utils.ValidateRequestID(id); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request ID", err.Error())
		return
	}

	var input bookInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	if handleServiceError(ctx, c.bookingService.Book(ctx.Request.Context(), id, input.Start)) {
		return
	}

	Success(ctx, nil)
}

// Confirm 确认预订
// @Summary      确认预订
// @Description  组织者确认 tentative 的预订,请求进入 confirmed 并通知相关人
// @Tags         评审预订
// @Accept       json
// @Produce      json
// @Param        id path string true "请求 ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /scheduling/requests/{id}/confirm [post]
// @Security     BearerAuth
func (c *SchedulingController) Confirm(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := utils.ValidateRequestID(id); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request ID", err.Error())
		return
	}

	actorID := ctx.GetString("user_id")
	if handleServiceError(ctx, c.bookingService.Confirm(ctx.Request.Context(), id, actorID)) {
		return
	}

	Success(ctx, nil)
}

// Schedule 总排期视图
// @Summary      查询总排期
// @Description  返回指定区间内所有已排期的请求(tentative 和 confirmed)
// @Tags         评审预订
// @Accept       json
// @Produce      json
// @Param        from query string true "起始日期(YYYY-MM-DD)"
// @Param        to query string true "结束日期(YYYY-MM-DD)"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Router       /scheduling/schedule [get]
// @Security     BearerAuth
func (c *SchedulingController) Schedule(ctx *gin.Context) {
	from, err := time.ParseInLocation("2006-01-02", ctx.Query("from"), time.Local)
	if err != nil {
		Error(ctx, http.StatusBadRequest, "invalid from", "expected format YYYY-MM-DD")
		return
	}
	to, err := time.ParseInLocation("2006-01-02", ctx.Query("to"), time.Local)
	if err != nil {
		Error(ctx, http.StatusBadRequest, "invalid to", "expected format YYYY-MM-DD")
		return
	}
	// to 取日末,使区间对两端日期都闭合
	to = to.Add(24*time.Hour - time.Nanosecond)

	scheduled, err := c.bookingService.AllScheduled(ctx.Request.Context(), from, to)
	if handleServiceError(ctx, err) {
		return
	}

	Success(ctx, scheduled)
}

// Agenda 导出某天的议程
// @Summary      导出议程(CSV)
// @Description  导出某天已确认预订的议程,CSV 格式,表头 Time,Project,Leader,Topic
// @Tags         评审预订
// @Accept       json
// @Produce      text/csv
// @Param        day query string false "日期(YYYY-MM-DD),缺省为今天"
// @Success      200  {string}  string
// @Failure      400  {object}  ErrorResponse
// @Router       /scheduling/agenda [get]
// @Security     BearerAuth
func (c *SchedulingController) Agenda(ctx *gin.Context) {
	day, ok := parseDay(ctx)
	if !ok {
		return
	}

	csvText, err := c.agendaService.DailyAgenda(ctx.Request.Context(), day)
	if handleServiceError(ctx, err) {
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="agenda-`+day.Format("2006-01-02")+`.csv"`)
	ctx.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csvText))
}
