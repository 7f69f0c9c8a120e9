// internal/handlers/agent/agent_handler.go
package agent

import (
	"net/http"

	"leadflow-service/internal/pkg/response"
	service "leadflow-service/internal/service/agent"

	"github.com/gin-gonic/gin"
)

type AgentHandler struct {
	agentService *service.AgentService
}

func NewAgentHandler(agentService *service.AgentService) *AgentHandler {
	return &AgentHandler{agentService: agentService}
}

// Directory lists the verified agents leads can be assigned to.
func (h *AgentHandler) Directory(c *gin.Context) {
	agents, err := h.agentService.Directory(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to list agents", err)
		return
	}
	response.Success(c, http.StatusOK, "agents retrieved", agents)
}

// Get returns one agent.
func (h *AgentHandler) Get(c *gin.Context) {
	ag, err := h.agentService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, "agent not found", err)
		return
	}
	response.Success(c, http.StatusOK, "agent retrieved", ag)
}

// Overview returns the admin dashboard agent counts.
func (h *AgentHandler) Overview(c *gin.Context) {
	o, err := h.agentService.Overview(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to get agents overview", err)
		return
	}
	response.Success(c, http.StatusOK, "overview retrieved", o)
}
