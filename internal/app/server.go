// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"log"

	"leadflow-service/internal/config"
	"leadflow-service/internal/db"
	agentHandler "leadflow-service/internal/handlers/agent"
	assignmentHandler "leadflow-service/internal/handlers/assignment"
	callsessionHandler "leadflow-service/internal/handlers/callsession"
	followupHandler "leadflow-service/internal/handlers/followup"
	leadHandler "leadflow-service/internal/handlers/lead"
	outcomeHandler "leadflow-service/internal/handlers/outcome"
	reportHandler "leadflow-service/internal/handlers/report"
	wsHandler "leadflow-service/internal/handlers/ws"
	"leadflow-service/internal/middleware"
	"leadflow-service/internal/repository/postgres"
	agentUsecase "leadflow-service/internal/service/agent"
	assignmentUsecase "leadflow-service/internal/service/assignment"
	callsessionUsecase "leadflow-service/internal/service/callsession"
	followupUsecase "leadflow-service/internal/service/followup"
	leadUsecase "leadflow-service/internal/service/lead"
	outcomeUsecase "leadflow-service/internal/service/outcome"
	reportUsecase "leadflow-service/internal/service/report"
	"leadflow-service/internal/ws"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- Logger -----
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()
	s.logger = logger

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	if err := postgres.Migrate(ctx, pool); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       0,
		PoolSize: 10,
	})
	if err != nil {
		// The report cache is an optimization; run without it.
		logger.Warn("redis unavailable, work report cache disabled", zap.Error(err))
		redisClient = nil
	}

	// ----- Repositories -----
	leadRepo := postgres.NewLeadRepository(pool)
	agentRepo := postgres.NewAgentRepository(pool)
	assignmentRepo := postgres.NewAssignmentRepository(pool)
	sessionRepo := postgres.NewCallSessionRepository(pool)
	reportRepo := postgres.NewWorkReportRepository(pool)
	followupRepo := postgres.NewFollowupRepository(pool)

	// ----- WebSocket Hub -----
	hub := ws.NewHub(logger)
	go hub.Run(ctx)

	// ----- Services -----
	reportService := reportUsecase.NewReportService(reportRepo, leadRepo, agentRepo, redisClient, hub, logger)
	assignmentService := assignmentUsecase.NewAssignmentService(leadRepo, assignmentRepo, reportService, logger)
	sessionService := callsessionUsecase.NewCallSessionService(sessionRepo, leadRepo, reportService, logger)
	outcomeService := outcomeUsecase.NewOutcomeService(leadRepo, reportService, logger)
	followupService := followupUsecase.NewFollowupService(followupRepo, leadRepo, agentRepo, logger)
	leadService := leadUsecase.NewLeadService(leadRepo, logger)
	agentService := agentUsecase.NewAgentService(agentRepo, logger)

	// ----- Handlers -----
	handlers := &Handlers{
		LeadHandler:        leadHandler.NewLeadHandler(leadService),
		OutcomeHandler:     outcomeHandler.NewOutcomeHandler(outcomeService),
		AssignmentHandler:  assignmentHandler.NewAssignmentHandler(assignmentService),
		CallSessionHandler: callsessionHandler.NewCallSessionHandler(sessionService),
		ReportHandler:      reportHandler.NewReportHandler(reportService),
		FollowupHandler:    followupHandler.NewFollowupHandler(followupService),
		AgentHandler:       agentHandler.NewAgentHandler(agentService),
		WSHandler:          wsHandler.NewWSHandler(hub, logger),
		AuthMiddleware:     middleware.NewAuthMiddleware(s.cfg.JWTSecret),
	}

	// ----- Middlewares -----
	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(s.cfg.AllowedOrigins),
	)

	SetupRouter(s.engine, handlers)

	log.Printf("server running on %s", s.cfg.HTTPAddr)
	return s.engine.Run(s.cfg.HTTPAddr)
}
