// internal/service/followup/followup_service.go
package followup

import (
	"context"
	"time"

	"leadflow-service/internal/domain/followup"
	xerrors "leadflow-service/internal/pkg/errors"
	"leadflow-service/internal/pkg/id"
	"leadflow-service/internal/repository/postgres"

	"go.uber.org/zap"
)

const snapshotNA = "N/A"

// FollowupService moves closed-out leads into the admission and contact-later
// terminal stores. Plan type and assignee name are captured at move time,
// since the source lead row is gone once the move commits.
type FollowupService struct {
	followupRepo *postgres.FollowupRepository
	leadRepo     *postgres.LeadRepository
	agentRepo    *postgres.AgentRepository
	logger       *zap.Logger
}

func NewFollowupService(
	followupRepo *postgres.FollowupRepository,
	leadRepo *postgres.LeadRepository,
	agentRepo *postgres.AgentRepository,
	logger *zap.Logger,
) *FollowupService {
	return &FollowupService{
		followupRepo: followupRepo,
		leadRepo:     leadRepo,
		agentRepo:    agentRepo,
		logger:       logger,
	}
}

// Move copies the resolvable leads into the terminal store for mode and
// deletes them from the active pool in one transaction. Unknown ids are
// ignored; if none resolve the move fails with not found.
func (s *FollowupService) Move(ctx context.Context, mode string, leadIDs []string) (int, error) {
	if mode != followup.ModeAdmission && mode != followup.ModeContactLater {
		return 0, xerrors.Wrap(xerrors.ErrInvalidInput, "unknown followup mode")
	}
	if len(leadIDs) == 0 {
		return 0, xerrors.Wrap(xerrors.ErrInvalidInput, "ids required")
	}

	leads, err := s.leadRepo.FindByIDs(ctx, leadIDs)
	if err != nil {
		return 0, err
	}
	if len(leads) == 0 {
		return 0, xerrors.Wrap(xerrors.ErrNotFound, "no matching leads found")
	}

	// Assignee usernames are resolved once per distinct agent.
	names := map[string]string{}
	now := time.Now()

	records := make([]followup.Record, 0, len(leads))
	for _, l := range leads {
		rec := followup.Record{
			ID:             id.New(),
			Name:           l.Name,
			Email:          l.Email,
			Phone:          l.Phone,
			Course:         l.Course,
			Place:          l.Place,
			MovedAt:        now,
			OriginalLeadID: l.ID,
			PlanType:       snapshotNA,
			AssigneeName:   snapshotNA,
		}
		if l.CallInfo.PlanType.Valid {
			rec.PlanType = l.CallInfo.PlanType.String
		}
		if l.AssignedTo.Valid {
			name, ok := names[l.AssignedTo.String]
			if !ok {
				ag, err := s.agentRepo.FindByID(ctx, l.AssignedTo.String)
				if err == nil {
					name = ag.Username
				} else if !xerrors.Is(err, xerrors.ErrNotFound) {
					return 0, err
				}
				names[l.AssignedTo.String] = name
			}
			if name != "" {
				rec.AssigneeName = name
			}
		}
		records = append(records, rec)
	}

	if err := s.followupRepo.MoveLeads(ctx, mode, records); err != nil {
		return 0, err
	}

	s.logger.Info("leads moved to terminal store",
		zap.String("mode", mode),
		zap.Int("moved", len(records)),
	)
	return len(records), nil
}

// List searches a terminal store.
func (s *FollowupService) List(ctx context.Context, mode string, filters followup.ListFilters) (*followup.ListResult, error) {
	if mode != followup.ModeAdmission && mode != followup.ModeContactLater {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "unknown followup mode")
	}
	return s.followupRepo.List(ctx, mode, filters)
}

// Delete removes one terminal-store record.
func (s *FollowupService) Delete(ctx context.Context, mode, recordID string) error {
	if mode != followup.ModeAdmission && mode != followup.ModeContactLater {
		return xerrors.Wrap(xerrors.ErrInvalidInput, "unknown followup mode")
	}
	return s.followupRepo.Delete(ctx, mode, recordID)
}
