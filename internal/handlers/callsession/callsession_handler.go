// internal/handlers/callsession/callsession_handler.go
package callsession

import (
	"errors"
	"io"
	"net/http"

	"leadflow-service/internal/domain/callsession"
	"leadflow-service/internal/middleware"
	"leadflow-service/internal/pkg/response"
	service "leadflow-service/internal/service/callsession"

	"github.com/gin-gonic/gin"
)

type CallSessionHandler struct {
	sessionService *service.CallSessionService
}

func NewCallSessionHandler(sessionService *service.CallSessionService) *CallSessionHandler {
	return &CallSessionHandler{sessionService: sessionService}
}

// Start opens a timing session against a lead for the authenticated agent.
func (h *CallSessionHandler) Start(c *gin.Context) {
	var req callsession.StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.sessionService.Start(c.Request.Context(), middleware.AgentID(c), req)
	if err != nil {
		response.FromError(c, "failed to start call session", err)
		return
	}

	status := http.StatusCreated
	if result.AlreadyActive {
		status = http.StatusOK
	}
	response.Success(c, status, "call session started", result)
}

// Stop closes a session and folds the submitted outcome into the lead.
// The outcome is optional, so a bodyless request stops the timer as-is.
func (h *CallSessionHandler) Stop(c *gin.Context) {
	var req callsession.StopRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.sessionService.Stop(c.Request.Context(), middleware.AgentID(c), c.Param("id"), req)
	if err != nil {
		response.FromError(c, "failed to stop call session", err)
		return
	}
	response.Success(c, http.StatusOK, "call session stopped", result)
}
