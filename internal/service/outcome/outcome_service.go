// internal/service/outcome/outcome_service.go
package outcome

import (
	"context"
	"time"

	"leadflow-service/internal/domain/lead"
	xerrors "leadflow-service/internal/pkg/errors"
	"leadflow-service/internal/repository/postgres"
	"leadflow-service/internal/service/report"

	"go.uber.org/zap"
)

// OutcomeService records call outcomes on leads and owns the one-way
// verification lock: once an admin verifies a lead, its outcome can no
// longer be edited.
type OutcomeService struct {
	leadRepo      *postgres.LeadRepository
	reportService *report.ReportService
	logger        *zap.Logger
}

func NewOutcomeService(
	leadRepo *postgres.LeadRepository,
	reportService *report.ReportService,
	logger *zap.Logger,
) *OutcomeService {
	return &OutcomeService{
		leadRepo:      leadRepo,
		reportService: reportService,
		logger:        logger,
	}
}

// SetOutcome rewrites a lead's outcome from the submitted fields. The write
// is rejected with a verification error when the lead is already locked.
func (s *OutcomeService) SetOutcome(ctx context.Context, leadID string, upd lead.OutcomeUpdate) (*lead.Lead, error) {
	l, err := s.leadRepo.FindByID(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if l.CallInfo.Verified {
		return nil, xerrors.Wrap(xerrors.ErrVerified, "call info already verified")
	}

	now := time.Now()
	lead.ApplyOutcome(&l.CallInfo, upd, now)

	if err := s.leadRepo.UpdateCallInfo(ctx, leadID, l.CallInfo); err != nil {
		return nil, err
	}

	if err := s.refreshOwnerReport(ctx, l); err != nil {
		return nil, err
	}

	s.logger.Info("call outcome saved",
		zap.String("lead_id", leadID),
		zap.String("call_status", l.CallInfo.CallStatus.String),
	)
	return l, nil
}

// Verify locks a single lead's outcome. Verifying an already-verified lead
// is a no-op success.
func (s *OutcomeService) Verify(ctx context.Context, leadID string) (*lead.Lead, error) {
	l, err := s.leadRepo.FindByID(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if l.CallInfo.Verified {
		return l, nil
	}

	if err := s.leadRepo.SetVerified(ctx, leadID); err != nil {
		return nil, err
	}
	l.CallInfo.Verified = true

	if err := s.refreshOwnerReport(ctx, l); err != nil {
		return nil, err
	}

	s.logger.Info("call info verified", zap.String("lead_id", leadID))
	return l, nil
}

// BulkVerify locks every given lead that is not yet verified and returns how
// many rows actually flipped.
func (s *OutcomeService) BulkVerify(ctx context.Context, leadIDs []string) (int64, error) {
	if len(leadIDs) == 0 {
		return 0, xerrors.Wrap(xerrors.ErrInvalidInput, "ids required")
	}

	leads, err := s.leadRepo.FindByIDs(ctx, leadIDs)
	if err != nil {
		return 0, err
	}

	count, err := s.leadRepo.BulkVerify(ctx, leadIDs)
	if err != nil {
		return 0, err
	}

	seen := make(map[string]bool)
	for i := range leads {
		l := &leads[i]
		if !l.AssignedTo.Valid || seen[l.AssignedTo.String] {
			continue
		}
		seen[l.AssignedTo.String] = true
		if err := s.refreshOwnerReport(ctx, l); err != nil {
			return count, err
		}
	}

	s.logger.Info("call info bulk verified",
		zap.Int("requested", len(leadIDs)),
		zap.Int64("verified", count),
	)
	return count, nil
}

// refreshOwnerReport recomputes the owning agent's report bucket after a
// lead write. Buckets are keyed by when the lead was assigned, not by when
// the write happened; unowned leads have no bucket to refresh.
func (s *OutcomeService) refreshOwnerReport(ctx context.Context, l *lead.Lead) error {
	if !l.AssignedTo.Valid {
		return nil
	}
	ref := l.CreatedAt
	if l.AssignedAt.Valid {
		ref = l.AssignedAt.Time
	}
	if err := s.reportService.Recompute(ctx, l.AssignedTo.String, ref); err != nil {
		return err
	}
	return s.reportService.RefreshCompletion(ctx, l.AssignedTo.String)
}
