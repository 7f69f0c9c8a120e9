// internal/handlers/lead/lead_handler.go
package lead

import (
	"net/http"

	"leadflow-service/internal/domain/lead"
	"leadflow-service/internal/pkg/response"
	service "leadflow-service/internal/service/lead"

	"github.com/gin-gonic/gin"
)

type LeadHandler struct {
	leadService *service.LeadService
}

func NewLeadHandler(leadService *service.LeadService) *LeadHandler {
	return &LeadHandler{leadService: leadService}
}

// Upload ingests a batch of spreadsheet rows and returns the validation
// manifest. Partial success is a 200; the manifest says what happened to
// every row.
func (h *LeadHandler) Upload(c *gin.Context) {
	var rows []lead.UploadRow
	if err := c.ShouldBindJSON(&rows); err != nil {
		response.ValidationError(c, "invalid upload payload", err)
		return
	}

	result, err := h.leadService.Upload(c.Request.Context(), rows)
	if err != nil {
		response.FromError(c, "failed to ingest leads", err)
		return
	}

	response.Success(c, http.StatusOK, "leads ingested", result)
}

// List returns the whole active pool.
func (h *LeadHandler) List(c *gin.Context) {
	leads, err := h.leadService.List(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to list leads", err)
		return
	}
	response.Success(c, http.StatusOK, "leads retrieved", leads)
}

// Get returns one lead.
func (h *LeadHandler) Get(c *gin.Context) {
	l, err := h.leadService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, "lead not found", err)
		return
	}
	response.Success(c, http.StatusOK, "lead retrieved", l)
}

// Update edits a lead's identity fields.
func (h *LeadHandler) Update(c *gin.Context) {
	var req lead.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	l, err := h.leadService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.FromError(c, "failed to update lead", err)
		return
	}
	response.Success(c, http.StatusOK, "lead updated", l)
}

// Delete removes one lead.
func (h *LeadHandler) Delete(c *gin.Context) {
	if err := h.leadService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.FromError(c, "failed to delete lead", err)
		return
	}
	response.Success(c, http.StatusOK, "lead deleted", nil)
}

// DeleteMany removes a batch of leads.
func (h *LeadHandler) DeleteMany(c *gin.Context) {
	var req struct {
		IDs []string `json:"ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	count, err := h.leadService.DeleteMany(c.Request.Context(), req.IDs)
	if err != nil {
		response.FromError(c, "failed to delete leads", err)
		return
	}
	response.Success(c, http.StatusOK, "leads deleted", gin.H{"deletedCount": count})
}

// Overview returns the dashboard pool counts.
func (h *LeadHandler) Overview(c *gin.Context) {
	o, err := h.leadService.Overview(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to get leads overview", err)
		return
	}
	response.Success(c, http.StatusOK, "overview retrieved", o)
}
