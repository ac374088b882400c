package service

import (
	"context"
	"strings"

	"github.com/vibecoding/devlog/internal/logger"
	"github.com/vibecoding/devlog/internal/model"
)

const (
	maxProjectNameLen        = 100
	maxProjectDescriptionLen = 500
)

// ProjectStore is the persistence surface the project service depends on
type ProjectStore interface {
	FindAll(ctx context.Context) ([]model.Project, error)
	FindByID(ctx context.Context, id int64) (*model.Project, error)
	SearchByName(ctx context.Context, keyword string) ([]model.Project, error)
	FindByStatus(ctx context.Context, status string) ([]model.Project, error)
	Insert(ctx context.Context, p *model.Project) error
	Update(ctx context.Context, p *model.Project) error
	UpdateProgress(ctx context.Context, id int64, progress int) error
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status string) (int, error)
}

// ProjectInput carries client-supplied project fields
type ProjectInput struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Status      string      `json:"status"`
	StartDate   *model.Date `json:"startDate"`
	EndDate     *model.Date `json:"endDate"`
	Progress    *int        `json:"progress"`
}

// ProjectService handles project business logic
type ProjectService struct {
	store ProjectStore
	log   logger.Logger
}

// NewProjectService creates a project service
func NewProjectService(store ProjectStore) *ProjectService {
	return &ProjectService{store: store, log: logger.Service()}
}

// FindAll returns every project
func (s *ProjectService) FindAll(ctx context.Context) ([]model.Project, error) {
	return s.store.FindAll(ctx)
}

// FindByID returns a project or a not-found error
func (s *ProjectService) FindByID(ctx context.Context, id int64) (*model.Project, error) {
	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, NotFoundf("FindProject", "project not found with id: %d", id)
	}
	return p, nil
}

// Search returns projects whose name matches the keyword
func (s *ProjectService) Search(ctx context.Context, keyword string) ([]model.Project, error) {
	return s.store.SearchByName(ctx, keyword)
}

// FindByStatus returns projects in the given status
func (s *ProjectService) FindByStatus(ctx context.Context, status string) ([]model.Project, error) {
	return s.store.FindByStatus(ctx, status)
}

// Create validates the input, applies defaults, and persists a new project
func (s *ProjectService) Create(ctx context.Context, in ProjectInput) (*model.Project, error) {
	s.log.Debug("creating project: %s", in.Name)

	if err := validateProject(in); err != nil {
		return nil, err
	}

	p := projectFromInput(in)
	if p.Status == "" {
		p.Status = model.StatusActive
	}

	if err := s.store.Insert(ctx, p); err != nil {
		return nil, err
	}

	s.log.Info("project created: id=%d name=%s", p.ID, p.Name)
	return p, nil
}

// Update validates the input and replaces an existing project
func (s *ProjectService) Update(ctx context.Context, id int64, in ProjectInput) (*model.Project, error) {
	s.log.Debug("updating project: id=%d", id)

	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, NotFoundf("UpdateProject", "project not found with id: %d", id)
	}

	if err := validateProject(in); err != nil {
		return nil, err
	}

	p := projectFromInput(in)
	p.ID = id
	if p.Status == "" {
		p.Status = existing.Status
	}

	if err := s.store.Update(ctx, p); err != nil {
		return nil, err
	}

	s.log.Info("project updated: id=%d name=%s", id, p.Name)
	return s.store.FindByID(ctx, id)
}

// Delete removes a project
func (s *ProjectService) Delete(ctx context.Context, id int64) error {
	s.log.Debug("deleting project: id=%d", id)

	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return NotFoundf("DeleteProject", "project not found with id: %d", id)
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("project deleted: id=%d name=%s", id, existing.Name)
	return nil
}

// UpdateProgress sets a project's progress, validating the range first
func (s *ProjectService) UpdateProgress(ctx context.Context, id int64, progress int) (*model.Project, error) {
	s.log.Debug("updating project progress: id=%d progress=%d", id, progress)

	if progress < 0 || progress > 100 {
		return nil, Validationf("UpdateProgress", "progress must be between 0 and 100")
	}

	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, NotFoundf("UpdateProgress", "project not found with id: %d", id)
	}

	if err := s.store.UpdateProgress(ctx, id, progress); err != nil {
		return nil, err
	}

	s.log.Info("project progress updated: id=%d progress=%d", id, progress)
	return s.store.FindByID(ctx, id)
}

// UpdateStatus changes a project's lifecycle status
func (s *ProjectService) UpdateStatus(ctx context.Context, id int64, status string) (*model.Project, error) {
	s.log.Debug("updating project status: id=%d status=%s", id, status)

	if !model.ValidStatus(status) {
		return nil, Validationf("UpdateStatus",
			"invalid project status: must be one of ACTIVE, COMPLETED, ON_HOLD, ARCHIVED")
	}

	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, NotFoundf("UpdateStatus", "project not found with id: %d", id)
	}

	if err := s.store.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	s.log.Info("project status updated: id=%d status=%s", id, status)
	return s.store.FindByID(ctx, id)
}

// Count returns the total number of projects
func (s *ProjectService) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

// ProjectSummary is the per-status project count report
type ProjectSummary struct {
	TotalProjects     int `json:"totalProjects"`
	ActiveProjects    int `json:"activeProjects"`
	CompletedProjects int `json:"completedProjects"`
	OnHoldProjects    int `json:"onHoldProjects"`
	ArchivedProjects  int `json:"archivedProjects"`
}

// Summary counts projects overall and per status
func (s *ProjectService) Summary(ctx context.Context) (*ProjectSummary, error) {
	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, err
	}

	sum := &ProjectSummary{TotalProjects: total}
	for _, pair := range []struct {
		status string
		dest   *int
	}{
		{model.StatusActive, &sum.ActiveProjects},
		{model.StatusCompleted, &sum.CompletedProjects},
		{model.StatusOnHold, &sum.OnHoldProjects},
		{model.StatusArchived, &sum.ArchivedProjects},
	} {
		n, err := s.store.CountByStatus(ctx, pair.status)
		if err != nil {
			return nil, err
		}
		*pair.dest = n
	}
	return sum, nil
}

// CountByStatus returns the number of projects in the given status
func (s *ProjectService) CountByStatus(ctx context.Context, status string) (int, error) {
	return s.store.CountByStatus(ctx, status)
}

func projectFromInput(in ProjectInput) *model.Project {
	p := &model.Project{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Status:      in.Status,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
	}
	if in.Progress != nil {
		p.Progress = *in.Progress
	}
	return p
}

func validateProject(in ProjectInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Validationf("ValidateProject", "project name is required")
	}
	if len(name) > maxProjectNameLen {
		return Validationf("ValidateProject", "project name cannot exceed %d characters", maxProjectNameLen)
	}
	if len(in.Description) > maxProjectDescriptionLen {
		return Validationf("ValidateProject", "project description cannot exceed %d characters", maxProjectDescriptionLen)
	}
	if in.Status != "" && !model.ValidStatus(in.Status) {
		return Validationf("ValidateProject",
			"invalid project status: must be one of ACTIVE, COMPLETED, ON_HOLD, ARCHIVED")
	}
	if in.Progress != nil && (*in.Progress < 0 || *in.Progress > 100) {
		return Validationf("ValidateProject", "progress must be between 0 and 100")
	}
	return nil
}
