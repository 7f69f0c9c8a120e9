// internal/handlers/followup/followup_handler.go
package followup

import (
	"net/http"

	"leadflow-service/internal/domain/followup"
	"leadflow-service/internal/pkg/response"
	service "leadflow-service/internal/service/followup"

	"github.com/gin-gonic/gin"
)

type FollowupHandler struct {
	followupService *service.FollowupService
}

func NewFollowupHandler(followupService *service.FollowupService) *FollowupHandler {
	return &FollowupHandler{followupService: followupService}
}

// modeFrom maps the route segment to a terminal-store mode; the service
// rejects anything else.
func modeFrom(c *gin.Context) string {
	return c.Param("mode")
}

// Move copies leads into a terminal store and removes them from the pool.
func (h *FollowupHandler) Move(c *gin.Context) {
	var req followup.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	moved, err := h.followupService.Move(c.Request.Context(), modeFrom(c), req.LeadIDs)
	if err != nil {
		response.FromError(c, "failed to move leads", err)
		return
	}
	response.Success(c, http.StatusOK, "leads moved", gin.H{"movedCount": moved})
}

// List searches a terminal store with pagination.
func (h *FollowupHandler) List(c *gin.Context) {
	var filters followup.ListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid filters", err)
		return
	}

	result, err := h.followupService.List(c.Request.Context(), modeFrom(c), filters)
	if err != nil {
		response.FromError(c, "failed to list records", err)
		return
	}
	response.Success(c, http.StatusOK, "records retrieved", result)
}

// Delete removes one terminal-store record.
func (h *FollowupHandler) Delete(c *gin.Context) {
	if err := h.followupService.Delete(c.Request.Context(), modeFrom(c), c.Param("id")); err != nil {
		response.FromError(c, "failed to delete record", err)
		return
	}
	response.Success(c, http.StatusOK, "record deleted", nil)
}
