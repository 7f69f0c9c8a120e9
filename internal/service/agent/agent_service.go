// internal/service/agent/agent_service.go
package agent

import (
	"context"

	"leadflow-service/internal/domain/agent"
	"leadflow-service/internal/repository/postgres"

	"go.uber.org/zap"
)

// AgentService exposes the read-side agent directory used by the assignment
// UI and the admin dashboard.
type AgentService struct {
	agentRepo *postgres.AgentRepository
	logger    *zap.Logger
}

func NewAgentService(agentRepo *postgres.AgentRepository, logger *zap.Logger) *AgentService {
	return &AgentService{agentRepo: agentRepo, logger: logger}
}

// Get returns one agent.
func (s *AgentService) Get(ctx context.Context, agentID string) (*agent.Agent, error) {
	return s.agentRepo.FindByID(ctx, agentID)
}

// Directory lists the verified agents leads can be assigned to.
func (s *AgentService) Directory(ctx context.Context) ([]agent.Agent, error) {
	return s.agentRepo.ListVerified(ctx)
}

// Overview returns the admin dashboard agent counts.
func (s *AgentService) Overview(ctx context.Context) (*agent.Overview, error) {
	return s.agentRepo.Overview(ctx)
}
