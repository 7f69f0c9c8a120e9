// internal/service/lead/lead_service.go
package lead

import (
	"context"
	"regexp"
	"strings"

	"leadflow-service/internal/domain/lead"
	xerrors "leadflow-service/internal/pkg/errors"
	"leadflow-service/internal/pkg/id"
	"leadflow-service/internal/repository/postgres"

	"go.uber.org/zap"
)

var (
	nameRe   = regexp.MustCompile(`^[A-Za-z\s'-]{2,50}$`)
	emailRe  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe  = regexp.MustCompile(`^\d{10}$`)
	courseRe = regexp.MustCompile(`^[A-Za-z\s]{2,100}$`)
	placeRe  = regexp.MustCompile(`^[A-Za-z\s]{2,100}$`)
)

// LeadService owns the active lead pool: bulk sheet ingestion with a
// validation manifest, plus single-lead CRUD and the dashboard overview.
type LeadService struct {
	leadRepo *postgres.LeadRepository
	logger   *zap.Logger
}

func NewLeadService(leadRepo *postgres.LeadRepository, logger *zap.Logger) *LeadService {
	return &LeadService{leadRepo: leadRepo, logger: logger}
}

// Upload ingests a batch of spreadsheet rows. Every row is validated
// independently; bad rows land in the manifest with per-field errors and
// never block the rest. Rows matching an existing lead by email or phone
// update that lead's attributes instead of inserting a duplicate.
func (s *LeadService) Upload(ctx context.Context, rows []lead.UploadRow) (*lead.UploadResult, error) {
	if len(rows) == 0 {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "no rows supplied")
	}

	result := &lead.UploadResult{
		InvalidRows:     []lead.InvalidRow{},
		AlreadyExisting: []lead.ExistingRow{},
	}

	type validRow struct {
		index                             int
		name, email, phone, course, place string
	}
	valid := []validRow{}
	emails := []string{}
	phones := []string{}

	for i, raw := range rows {
		rec := normalizeRow(raw)
		errs := validateRow(rec)
		if len(errs) > 0 {
			result.InvalidRows = append(result.InvalidRows, lead.InvalidRow{
				RowIndex: i,
				Errors:   errs,
				Rec:      rec,
			})
			continue
		}
		valid = append(valid, validRow{
			index:  i,
			name:   rec["name"],
			email:  rec["email"],
			phone:  rec["phone"],
			course: rec["course"],
			place:  rec["place"],
		})
		emails = append(emails, rec["email"])
		phones = append(phones, rec["phone"])
	}
	result.InvalidCount = len(result.InvalidRows)

	existing := map[string]bool{}
	if len(valid) > 0 {
		found, err := s.leadRepo.FindByContact(ctx, emails, phones)
		if err != nil {
			return nil, err
		}
		for _, l := range found {
			existing[strings.ToLower(l.Email)] = true
			existing[l.Phone] = true
		}
	}

	for _, row := range valid {
		if existing[strings.ToLower(row.email)] || existing[row.phone] {
			n, err := s.leadRepo.UpdateByContact(ctx, row.name, row.email, row.phone, row.course, row.place)
			if err != nil {
				return nil, err
			}
			result.ModifiedCount += int(n)
			result.AlreadyExisting = append(result.AlreadyExisting, lead.ExistingRow{
				RowIndex: row.index,
				Rec: map[string]string{
					"name": row.name, "email": row.email, "phone": row.phone,
					"course": row.course, "place": row.place,
				},
			})
			continue
		}

		l := &lead.Lead{
			ID:     id.New(),
			Name:   row.name,
			Email:  row.email,
			Phone:  row.phone,
			Course: row.course,
			Place:  row.place,
		}
		if err := s.leadRepo.Create(ctx, l); err != nil {
			if xerrors.Is(err, xerrors.ErrConflict) {
				// Raced with another upload; treat as existing.
				result.AlreadyExisting = append(result.AlreadyExisting, lead.ExistingRow{
					RowIndex: row.index,
					Rec: map[string]string{
						"name": row.name, "email": row.email, "phone": row.phone,
						"course": row.course, "place": row.place,
					},
				})
				continue
			}
			return nil, err
		}
		// Later duplicates inside the same sheet update this row.
		existing[strings.ToLower(row.email)] = true
		existing[row.phone] = true
		result.InsertedCount++
	}

	s.logger.Info("lead sheet ingested",
		zap.Int("inserted", result.InsertedCount),
		zap.Int("modified", result.ModifiedCount),
		zap.Int("invalid", result.InvalidCount),
	)
	return result, nil
}

// Get returns a single lead.
func (s *LeadService) Get(ctx context.Context, leadID string) (*lead.Lead, error) {
	return s.leadRepo.FindByID(ctx, leadID)
}

// List returns the whole active pool.
func (s *LeadService) List(ctx context.Context) ([]lead.Lead, error) {
	return s.leadRepo.List(ctx)
}

// Update edits a lead's identity fields. Nil pointers keep the stored value.
func (s *LeadService) Update(ctx context.Context, leadID string, req lead.UpdateLeadRequest) (*lead.Lead, error) {
	l, err := s.leadRepo.FindByID(ctx, leadID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		l.Name = *req.Name
	}
	if req.Email != nil {
		l.Email = *req.Email
	}
	if req.Phone != nil {
		l.Phone = *req.Phone
	}
	if req.Course != nil {
		l.Course = *req.Course
	}
	if req.Place != nil {
		l.Place = *req.Place
	}

	if errs := validateRow(map[string]string{
		"name": l.Name, "email": l.Email, "phone": l.Phone,
		"course": l.Course, "place": l.Place,
	}); len(errs) > 0 {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, strings.Join(errs, "; "))
	}

	if err := s.leadRepo.UpdateIdentity(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// Delete removes a single lead.
func (s *LeadService) Delete(ctx context.Context, leadID string) error {
	return s.leadRepo.Delete(ctx, leadID)
}

// DeleteMany removes a batch of leads and reports how many existed.
func (s *LeadService) DeleteMany(ctx context.Context, leadIDs []string) (int64, error) {
	if len(leadIDs) == 0 {
		return 0, xerrors.Wrap(xerrors.ErrInvalidInput, "ids required")
	}
	return s.leadRepo.DeleteMany(ctx, leadIDs)
}

// Overview returns the dashboard pool counts.
func (s *LeadService) Overview(ctx context.Context) (*lead.Overview, error) {
	return s.leadRepo.Overview(ctx)
}

// normalizeRow lowercases keys and trims values so sheet headers like
// "Email " and "EMAIL" both land on the expected columns.
func normalizeRow(raw lead.UploadRow) map[string]string {
	rec := map[string]string{}
	for k, v := range raw {
		rec[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}
	return rec
}

func validateRow(rec map[string]string) []string {
	errs := []string{}
	if rec["name"] == "" {
		errs = append(errs, "name missing")
	} else if !nameRe.MatchString(rec["name"]) {
		errs = append(errs, "name invalid")
	}
	if rec["email"] == "" {
		errs = append(errs, "email missing")
	} else if !emailRe.MatchString(rec["email"]) {
		errs = append(errs, "email invalid")
	}
	if rec["phone"] == "" {
		errs = append(errs, "phone missing")
	} else if !phoneRe.MatchString(rec["phone"]) {
		errs = append(errs, "phone invalid")
	}
	if rec["course"] == "" {
		errs = append(errs, "course missing")
	} else if !courseRe.MatchString(rec["course"]) {
		errs = append(errs, "course invalid")
	}
	if rec["place"] == "" {
		errs = append(errs, "place missing")
	} else if !placeRe.MatchString(rec["place"]) {
		errs = append(errs, "place invalid")
	}
	return errs
}
