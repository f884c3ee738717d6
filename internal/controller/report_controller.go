package controller

import (
	"ativflow_backend/internal/service"
	"ativflow_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	ReportService *service.ReportService
}

func NewReportController(reportService *service.ReportService) *ReportController {
	return &ReportController{ReportService: reportService}
}

// @Summary Class performance report
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param class query string true "class"
// @Success 200 {object} util.Response
// @Router /api/reports/performance [get]
func (c *ReportController) ClassPerformance(ctx *gin.Context) {
	class := ctx.Query("class")
	if class == "" {
		util.BadRequest(ctx, "class is required")
		return
	}
	report, err := c.ReportService.ClassPerformance(class)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, report)
}

// @Summary Delivery summary for one activity
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param id path int true "activity id"
// @Success 200 {object} util.Response
// @Router /api/reports/activities/{id} [get]
func (c *ReportController) ActivitySummary(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid activity id")
		return
	}
	report, err := c.ReportService.ActivitySummary(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, report)
}
