// internal/handlers/report/report_handler.go
package report

import (
	"net/http"

	"leadflow-service/internal/pkg/response"
	service "leadflow-service/internal/service/report"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService *service.ReportService
}

func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Get returns one agent's rollup for the requested bucket. Bucket keys come
// as query params: ?day=2025-11-03, ?week=2025-W45 or ?month=2025-11.
func (h *ReportHandler) Get(c *gin.Context) {
	rep, err := h.reportService.GetReport(
		c.Request.Context(),
		c.Param("agentId"),
		c.Query("day"),
		c.Query("week"),
		c.Query("month"),
	)
	if err != nil {
		response.FromError(c, "failed to get work report", err)
		return
	}
	response.Success(c, http.StatusOK, "work report retrieved", rep)
}

// List returns all report rows recorded for the agent.
func (h *ReportHandler) List(c *gin.Context) {
	reports, err := h.reportService.ListReports(c.Request.Context(), c.Param("agentId"))
	if err != nil {
		response.FromError(c, "failed to list work reports", err)
		return
	}
	response.Success(c, http.StatusOK, "work reports retrieved", reports)
}
