// internal/service/assignment/assignment_service.go
package assignment

import (
	"context"
	"fmt"
	"time"

	"leadflow-service/internal/domain/assignment"
	xerrors "leadflow-service/internal/pkg/errors"
	"leadflow-service/internal/pkg/id"
	"leadflow-service/internal/repository/postgres"
	"leadflow-service/internal/service/report"

	"go.uber.org/zap"
)

// AssignmentService owns the append-only ownership ledger. It keeps the
// invariant that a lead has at most one open ledger record, matching the
// lead's assigned_to pointer, by closing the previous span and opening the
// new one inside the same per-lead step.
type AssignmentService struct {
	leadRepo       *postgres.LeadRepository
	assignmentRepo *postgres.AssignmentRepository
	reportService  *report.ReportService
	logger         *zap.Logger
}

func NewAssignmentService(
	leadRepo *postgres.LeadRepository,
	assignmentRepo *postgres.AssignmentRepository,
	reportService *report.ReportService,
	logger *zap.Logger,
) *AssignmentService {
	return &AssignmentService{
		leadRepo:       leadRepo,
		assignmentRepo: assignmentRepo,
		reportService:  reportService,
		logger:         logger,
	}
}

// Assign hands the given leads to an agent, one lead at a time. Unknown lead
// ids are skipped with a warning and reported in the manifest; any other
// failure aborts the batch, leaving the already-processed leads committed
// (the loop is deliberately not wrapped in a transaction, and the
// partial-commit behavior is part of the contract).
func (s *AssignmentService) Assign(ctx context.Context, leadIDs []string, agentID string) (*assignment.AssignResult, error) {
	if len(leadIDs) == 0 || agentID == "" {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "studentIds and userId required")
	}

	result := &assignment.AssignResult{Assigned: []string{}, Skipped: []string{}}

	for _, leadID := range leadIDs {
		l, err := s.leadRepo.FindByID(ctx, leadID)
		if err != nil {
			if xerrors.Is(err, xerrors.ErrNotFound) {
				s.logger.Warn("skipping unknown lead in assign batch", zap.String("lead_id", leadID))
				result.Skipped = append(result.Skipped, leadID)
				continue
			}
			return result, fmt.Errorf("assign batch failed at lead %s: %w", leadID, err)
		}

		now := time.Now()

		if l.AssignedTo.Valid {
			if _, err := s.assignmentRepo.CloseActive(ctx, leadID, now); err != nil {
				return result, fmt.Errorf("assign batch failed at lead %s: %w", leadID, err)
			}
		}

		rec := &assignment.Record{
			ID:         id.New(),
			LeadID:     leadID,
			AgentID:    agentID,
			AssignedAt: now,
		}
		if err := s.assignmentRepo.Create(ctx, rec); err != nil {
			return result, fmt.Errorf("assign batch failed at lead %s: %w", leadID, err)
		}

		if err := s.leadRepo.SetAssignment(ctx, leadID, agentID, now); err != nil {
			return result, fmt.Errorf("assign batch failed at lead %s: %w", leadID, err)
		}

		// Post-commit side effects, invoked explicitly per lead save.
		if err := s.reportService.Recompute(ctx, agentID, now); err != nil {
			return result, fmt.Errorf("work report recompute failed for agent %s: %w", agentID, err)
		}
		if err := s.reportService.RefreshCompletion(ctx, agentID); err != nil {
			return result, fmt.Errorf("completion refresh failed for agent %s: %w", agentID, err)
		}

		result.Assigned = append(result.Assigned, leadID)
	}

	s.logger.Info("leads assigned",
		zap.String("agent_id", agentID),
		zap.Int("assigned", len(result.Assigned)),
		zap.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}

// ListActive returns every currently-assigned lead with its full ownership
// history (oldest first) plus per-agent aggregates.
func (s *AssignmentService) ListActive(ctx context.Context) (*assignment.ActiveAssignments, error) {
	leads, err := s.leadRepo.ListAssigned(ctx)
	if err != nil {
		return nil, err
	}

	out := &assignment.ActiveAssignments{Leads: []assignment.AssignedLead{}}
	for _, l := range leads {
		history, err := s.assignmentRepo.HistoryByLead(ctx, l.ID)
		if err != nil {
			return nil, err
		}
		out.Leads = append(out.Leads, assignment.AssignedLead{Lead: l, History: history})
	}

	stats, err := s.assignmentRepo.AgentStats(ctx)
	if err != nil {
		return nil, err
	}
	out.AgentStats = stats
	return out, nil
}
