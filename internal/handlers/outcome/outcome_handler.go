// internal/handlers/outcome/outcome_handler.go
package outcome

import (
	"net/http"

	"leadflow-service/internal/domain/lead"
	"leadflow-service/internal/pkg/response"
	service "leadflow-service/internal/service/outcome"

	"github.com/gin-gonic/gin"
)

type OutcomeHandler struct {
	outcomeService *service.OutcomeService
}

func NewOutcomeHandler(outcomeService *service.OutcomeService) *OutcomeHandler {
	return &OutcomeHandler{outcomeService: outcomeService}
}

// SetOutcome records a call outcome on a lead. Verified leads reject the
// write with a 403.
func (h *OutcomeHandler) SetOutcome(c *gin.Context) {
	var req lead.OutcomeUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid outcome payload", err)
		return
	}

	l, err := h.outcomeService.SetOutcome(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.FromError(c, "failed to save call outcome", err)
		return
	}
	response.Success(c, http.StatusOK, "call outcome saved", l)
}

// Verify locks one lead's outcome.
func (h *OutcomeHandler) Verify(c *gin.Context) {
	l, err := h.outcomeService.Verify(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, "failed to verify call info", err)
		return
	}
	response.Success(c, http.StatusOK, "call info verified", l)
}

// BulkVerify locks a batch of leads and reports how many flipped.
func (h *OutcomeHandler) BulkVerify(c *gin.Context) {
	var req struct {
		IDs []string `json:"ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	count, err := h.outcomeService.BulkVerify(c.Request.Context(), req.IDs)
	if err != nil {
		response.FromError(c, "failed to verify call info", err)
		return
	}
	response.Success(c, http.StatusOK, "call info verified", gin.H{"verifiedCount": count})
}
