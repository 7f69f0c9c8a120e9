// internal/handlers/assignment/assignment_handler.go
package assignment

import (
	"net/http"

	"leadflow-service/internal/domain/assignment"
	"leadflow-service/internal/pkg/response"
	service "leadflow-service/internal/service/assignment"

	"github.com/gin-gonic/gin"
)

type AssignmentHandler struct {
	assignmentService *service.AssignmentService
}

func NewAssignmentHandler(assignmentService *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: assignmentService}
}

// Assign hands a batch of leads to an agent.
func (h *AssignmentHandler) Assign(c *gin.Context) {
	var req assignment.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.assignmentService.Assign(c.Request.Context(), req.LeadIDs, req.AgentID)
	if err != nil {
		response.FromError(c, "failed to assign leads", err)
		return
	}
	response.Success(c, http.StatusOK, "leads assigned", result)
}

// ListActive returns every assigned lead with its ownership history plus
// per-agent aggregates.
func (h *AssignmentHandler) ListActive(c *gin.Context) {
	result, err := h.assignmentService.ListActive(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to list assignments", err)
		return
	}
	response.Success(c, http.StatusOK, "assignments retrieved", result)
}
