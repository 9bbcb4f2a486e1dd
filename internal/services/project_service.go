package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/startrack/intake-backend/internal/config"
	"github.com/startrack/intake-backend/internal/models"
	"gorm.io/gorm"
)

type ProjectService struct {
	db     *gorm.DB
	config *config.Config
	email  *EmailService
	now    func() time.Time
}

// NewProjectService builds the project service. email may be nil, in which
// case status changes are not announced.
func NewProjectService(db *gorm.DB, cfg *config.Config, email *EmailService) *ProjectService {
	return &ProjectService{db: db, config: cfg, email: email, now: time.Now}
}

func byID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

// AllProjects returns every submission, oldest id first.
func (s *ProjectService) AllProjects(ctx context.Context) ([]models.ProjectDataResponse, error) {
	projects, err := s.findProjects(ctx, "")
	if err != nil {
		return nil, err
	}
	return models.ToDataResponses(projects), nil
}

// LatestProjects returns the newest submission of each project name.
func (s *ProjectService) LatestProjects(ctx context.Context) ([]models.ProjectDataResponse, error) {
	projects, err := s.findProjects(ctx, "")
	if err != nil {
		return nil, err
	}
	latest, _ := models.PartitionLatest(projects)
	return models.ToDataResponses(latest), nil
}

// ProjectHistory returns the superseded submissions of one project name.
func (s *ProjectService) ProjectHistory(ctx context.Context, name string) ([]models.ProjectDataResponse, error) {
	projects, err := s.findProjects(ctx, name)
	if err != nil {
		return nil, err
	}
	_, history := models.PartitionLatest(projects)
	return models.ToDataResponses(history), nil
}

func (s *ProjectService) findProjects(ctx context.Context, name string) ([]models.Project, error) {
	query := s.db.WithContext(ctx).Preload("FundingOverviewRows", byID)
	if name != "" {
		query = query.Where("project_name = ?", name)
	}

	var projects []models.Project
	if err := query.Order("id ASC").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// GetAggregate loads one project with all of its child rows.
func (s *ProjectService) GetAggregate(ctx context.Context, id uint64) (*models.Project, error) {
	var project models.Project
	err := s.db.WithContext(ctx).
		Preload("GroupMemberRows", byID).
		Preload("OutputRows", byID).
		Preload("CollaborationRows", byID).
		Preload("ExternalAdvisorsRows", byID).
		Preload("SubContractorsRows", byID).
		Preload("PpiRows", byID).
		Preload("OtrRows", byID).
		Preload("FundingRows", byID).
		Preload("FundingOverviewRows", byID).
		First(&project, id).Error
	if err != nil {
		return nil, lookupError("project", id, err)
	}
	return &project, nil
}

// CreateProject stores a new submission and its child rows in one
// transaction. The status always starts as SUBMITTED.
func (s *ProjectService) CreateProject(ctx context.Context, email string, req *models.ProjectCreateRequest) (*models.ProjectDataResponse, error) {
	project := s.assemble(email, req)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(project).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create project %q: %w", req.ProjectName, err)
	}

	slog.Info("project submitted", "id", project.ID, "name", project.ProjectName, "by", email)
	resp := project.ToDataResponse()
	return &resp, nil
}

func (s *ProjectService) assemble(email string, req *models.ProjectCreateRequest) *models.Project {
	return &models.Project{
		ProjectName:          req.ProjectName,
		CreatedDate:          s.now(),
		ApplyUser:            email,
		LastNamePI:           req.LastNamePI,
		FirstNamePI:          req.FirstNamePI,
		EmailPI:              req.EmailPI,
		DepartmentPI:         req.DepartmentPI,
		CrsidPI:              req.CrsidPI,
		OtherInforPI:         req.OtherInforPI,
		TTOContractName:      req.TTOContractName,
		TTOContractEmail:     req.TTOContractEmail,
		TTOContractOtherInfo: req.TTOContractOtherInfo,
		Modality:             s.formatMultiSelect(req.Modality),
		ModalityOther:        req.ModalityOther,
		AreaOfExpertise:      s.formatMultiSelect(req.AreaOfExpertise),
		AreaOfExpertiseOther: req.AreaOfExpertiseOther,
		Readiness:            req.Readiness,
		ProjectBackground:    req.ProjectBackground,
		BriefDescription:     req.BriefDescription,
		ApplyValue:           models.StatusSubmitted,

		GroupMemberRows:      uniqueRows(req.GroupMemberRows),
		OutputRows:           uniqueRows(req.OutputRows),
		CollaborationRows:    uniqueRows(req.CollaborationRows),
		ExternalAdvisorsRows: uniqueRows(req.ExternalAdvisorsRows),
		SubContractorsRows:   uniqueRows(req.SubContractorsRows),
		PpiRows:              uniqueRows(req.PpiRows),
		OtrRows:              uniqueRows(req.OtrRows),
		FundingRows:          uniqueRows(s.fundingRows(req.FundingRows)),
		FundingOverviewRows:  uniqueRows(s.fundingOverviewRows(req.FundingOverviewRows)),
	}
}

func (s *ProjectService) fundingRows(in []models.FundingRowRequest) []models.FundingRow {
	out := make([]models.FundingRow, 0, len(in))
	for _, r := range in {
		out = append(out, models.FundingRow{
			Funding:                   s.formatMultiSelect(r.Funding),
			FundingOther:              r.FundingOther,
			FundingNIHR:               r.FundingNIHR,
			FundingNIHROther:          r.FundingNIHROther,
			FundingUKRIMRC:            r.FundingUKRIMRC,
			FundingUKRIMRCOther:       r.FundingUKRIMRCOther,
			FundingWellcomeTrust:      r.FundingWellcomeTrust,
			FundingWellcomeTrustOther: r.FundingWellcomeTrustOther,
			Scheme:                    r.Scheme,
			SchemeOther:               r.SchemeOther,
			Value:                     r.Value,
			FundingStartDate:          r.FundingStartDate,
			FundingEndDate:            r.FundingEndDate,
			Aims:                      r.Aims,
			GrantNumber:               r.GrantNumber,
			WorktribeNumber:           r.WorktribeNumber,
		})
	}
	return out
}

func (s *ProjectService) fundingOverviewRows(in []models.FundingOverviewRowRequest) []models.FundingOverviewRow {
	out := make([]models.FundingOverviewRow, 0, len(in))
	for _, r := range in {
		out = append(out, models.FundingOverviewRow{
			FundingOverview:                   s.formatMultiSelect(r.FundingOverview),
			FundingOverviewOther:              r.FundingOverviewOther,
			FundingOverviewNIHR:               r.FundingOverviewNIHR,
			FundingOverviewNIHROther:          r.FundingOverviewNIHROther,
			FundingOverviewUKRIMRC:            r.FundingOverviewUKRIMRC,
			FundingOverviewUKRIMRCOther:       r.FundingOverviewUKRIMRCOther,
			FundingOverviewWellcomeTrust:      r.FundingOverviewWellcomeTrust,
			FundingOverviewWellcomeTrustOther: r.FundingOverviewWellcomeTrustOther,
			SchemeOverview:                    r.SchemeOverview,
			SchemeOverviewOther:               r.SchemeOverviewOther,
			ValueOverview:                     r.ValueOverview,
			FundingOverviewStartDate:          r.FundingOverviewStartDate,
			FundingOverviewEndDate:            r.FundingOverviewEndDate,
			AimsOverview:                      r.AimsOverview,
			GrantNumberOverview:               r.GrantNumberOverview,
			WorktribeNumberOverview:           r.WorktribeNumberOverview,
		})
	}
	return out
}

// formatMultiSelect renders a multi-select form value for storage. The
// legacy format matches what existing rows hold: "[a, b]", "[]" for an
// empty selection and "null" when the field was absent.
func (s *ProjectService) formatMultiSelect(values []string) string {
	if s.config.MultiSelectFormat == config.MultiSelectJoined {
		return strings.Join(values, ", ")
	}
	if values == nil {
		return "null"
	}
	return "[" + strings.Join(values, ", ") + "]"
}

type childRow[T any] interface {
	*T
	DedupKey() string
	Detach()
}

// uniqueRows drops rows equal in value to an earlier row and clears the
// identity of the rows it keeps.
func uniqueRows[T any, P childRow[T]](rows []T) []T {
	seen := make(map[string]struct{}, len(rows))
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		p := P(&row)
		key := p.DedupKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		p.Detach()
		out = append(out, row)
	}
	return out
}

// DeleteProject removes a submission and every child row it owns.
func (s *ProjectService) DeleteProject(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.First(&project, id).Error; err != nil {
			return lookupError("project", id, err)
		}

		children := []any{
			&models.GroupMemberRow{}, &models.OutputRow{}, &models.CollaborationRow{},
			&models.ExternalAdvisorRow{}, &models.SubContractorRow{}, &models.PpiRow{},
			&models.OtrRow{}, &models.FundingRow{}, &models.FundingOverviewRow{},
		}
		for _, child := range children {
			if err := tx.Where("project_id = ?", id).Delete(child).Error; err != nil {
				return fmt.Errorf("delete children of project %d: %w", id, err)
			}
		}
		if err := tx.Delete(&project).Error; err != nil {
			return fmt.Errorf("delete project %d: %w", id, err)
		}
		slog.Info("project deleted", "id", id, "name", project.ProjectName)
		return nil
	})
}

// UpdateStatus sets the application status of one submission. modifier is
// recorded as the modifying user when not empty.
func (s *ProjectService) UpdateStatus(ctx context.Context, id uint64, applyValue, modifier string) (*models.Project, error) {
	status, ok := models.ParseApplicationStatus(applyValue)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, applyValue)
	}

	var project models.Project
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&project, id).Error; err != nil {
			return lookupError("project", id, err)
		}
		project.ApplyValue = status
		if modifier != "" {
			project.ModifyUser = modifier
		}
		return tx.Save(&project).Error
	})
	if err != nil {
		return nil, err
	}

	if s.email != nil && project.EmailPI != "" {
		p := project
		go func() {
			if err := s.email.SendProjectStatusNotification(&p); err != nil {
				slog.Warn("status notification failed", "project", p.ID, "error", err)
			}
		}()
	}
	return &project, nil
}

func (s *ProjectService) ensureProject(ctx context.Context, id uint64) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("look up project %d: %w", id, err)
	}
	if count == 0 {
		return fmt.Errorf("project %d: %w", id, ErrNotFound)
	}
	return nil
}

// ListChildRows returns every row of one child kind owned by a project.
func ListChildRows[T models.ChildRow](ctx context.Context, s *ProjectService, projectID uint64) ([]T, error) {
	if err := s.ensureProject(ctx, projectID); err != nil {
		return nil, err
	}

	rows := make([]T, 0)
	err := s.db.WithContext(ctx).Where("project_id = ?", projectID).Order("id ASC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list rows of project %d: %w", projectID, err)
	}
	return rows, nil
}

// lookupError turns a missing row into ErrNotFound and wraps anything else.
func lookupError(kind string, key any, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %v: %w", kind, key, ErrNotFound)
	}
	return fmt.Errorf("look up %s %v: %w", kind, key, err)
}
