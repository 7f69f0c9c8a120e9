// internal/app/router.go
package app

import (
	agentHandler "leadflow-service/internal/handlers/agent"
	assignmentHandler "leadflow-service/internal/handlers/assignment"
	callsessionHandler "leadflow-service/internal/handlers/callsession"
	followupHandler "leadflow-service/internal/handlers/followup"
	leadHandler "leadflow-service/internal/handlers/lead"
	outcomeHandler "leadflow-service/internal/handlers/outcome"
	reportHandler "leadflow-service/internal/handlers/report"
	wsHandler "leadflow-service/internal/handlers/ws"
	"leadflow-service/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	LeadHandler        *leadHandler.LeadHandler
	OutcomeHandler     *outcomeHandler.OutcomeHandler
	AssignmentHandler  *assignmentHandler.AssignmentHandler
	CallSessionHandler *callsessionHandler.CallSessionHandler
	ReportHandler      *reportHandler.ReportHandler
	FollowupHandler    *followupHandler.FollowupHandler
	AgentHandler       *agentHandler.AgentHandler
	WSHandler          *wsHandler.WSHandler
	AuthMiddleware     *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ==================== WebSocket ====================
	r.GET("/ws", h.AuthMiddleware.Auth(), h.WSHandler.Connect)

	// ==================== Leads ====================
	leads := api.Group("/students")
	leads.Use(h.AuthMiddleware.Auth())
	{
		leads.GET("", h.LeadHandler.List)
		leads.GET("/:id", h.LeadHandler.Get)
		leads.PATCH("/:id/outcome", h.OutcomeHandler.SetOutcome)

		admin := leads.Group("")
		admin.Use(h.AuthMiddleware.AdminOnly())
		{
			admin.POST("/upload", h.LeadHandler.Upload)
			admin.PUT("/:id", h.LeadHandler.Update)
			admin.DELETE("/:id", h.LeadHandler.Delete)
			admin.POST("/delete-many", h.LeadHandler.DeleteMany)
			admin.GET("/overview", h.LeadHandler.Overview)
			admin.PUT("/:id/verify", h.OutcomeHandler.Verify)
			admin.POST("/verify", h.OutcomeHandler.BulkVerify)
		}
	}

	// ==================== Assignments ====================
	assignments := api.Group("/assignments")
	assignments.Use(h.AuthMiddleware.Auth())
	{
		assignments.GET("", h.AssignmentHandler.ListActive)

		admin := assignments.Group("")
		admin.Use(h.AuthMiddleware.AdminOnly())
		{
			admin.POST("", h.AssignmentHandler.Assign)
		}
	}

	// ==================== Call Sessions ====================
	sessions := api.Group("/call-sessions")
	sessions.Use(h.AuthMiddleware.Auth())
	{
		sessions.POST("/start", h.CallSessionHandler.Start)
		sessions.POST("/:id/stop", h.CallSessionHandler.Stop)
	}

	// ==================== Work Reports ====================
	reports := api.Group("/work-reports")
	reports.Use(h.AuthMiddleware.Auth())
	{
		reports.GET("/:agentId", h.ReportHandler.Get)
		reports.GET("/:agentId/all", h.ReportHandler.List)
	}

	// ==================== Followups ====================
	followups := api.Group("/followups")
	followups.Use(h.AuthMiddleware.Auth())
	{
		followups.GET("/:mode", h.FollowupHandler.List)

		admin := followups.Group("")
		admin.Use(h.AuthMiddleware.AdminOnly())
		{
			admin.POST("/:mode/move", h.FollowupHandler.Move)
			admin.DELETE("/:mode/:id", h.FollowupHandler.Delete)
		}
	}

	// ==================== Agents ====================
	agents := api.Group("/agents")
	agents.Use(h.AuthMiddleware.Auth())
	{
		agents.GET("", h.AgentHandler.Directory)
		agents.GET("/:id", h.AgentHandler.Get)

		admin := agents.Group("")
		admin.Use(h.AuthMiddleware.AdminOnly())
		{
			admin.GET("/overview", h.AgentHandler.Overview)
		}
	}
}
