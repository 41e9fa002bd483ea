package directory

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fieldline/portal/internal/models"
	cfgpkg "github.com/fieldline/portal/pkg/config"
	"github.com/fieldline/portal/pkg/tool"
	"github.com/fieldline/portal/pkg/types"
)

// ErrNotFound is returned when an entity does not exist in the workspace.
var ErrNotFound = errors.New("not found")

type Service struct {
	cfg *cfgpkg.Config
	log *zap.SugaredLogger
	db  *gorm.DB
}

func NewService(cfg *cfgpkg.Config, log *zap.SugaredLogger, db *gorm.DB) *Service {
	return &Service{cfg: cfg, log: log, db: db}
}

// filtersAnd combines multiple CommonFilter into a single clause.Expression.
type filtersAnd struct{ filters []*types.CommonFilter }

func (w filtersAnd) Build(builder clause.Builder) {
	if len(w.filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	exprs := make([]clause.Expression, 0, len(w.filters))
	for _, f := range w.filters {
		exprs = append(exprs, f)
	}
	clause.And(exprs...).Build(builder)
}

// ScanRequest is the shared paginated listing request. All scans are
// workspace-scoped; callers never filter across accounts.
type ScanRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ScanResponse[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}

func scan[T any](ctx context.Context, db *gorm.DB, accountID string, req *ScanRequest) (*ScanResponse[T], error) {
	if req == nil {
		req = &ScanRequest{}
	}
	if req.Size <= 0 {
		req.Size = 10
	}
	if req.From < 0 {
		req.From = 0
	}

	var model T
	tx := db.WithContext(ctx).Model(&model).Where("account_id = ?", accountID)
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{filtersAnd{filters: req.Filters}}})
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count rows: %w", err)
	}

	q := tx.Limit(req.Size)
	if req.From > 0 {
		q = q.Offset(req.From)
	}
	if req.SortBy != "" {
		q = q.Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: req.SortBy}, Desc: req.SortOrder != "asc"}}})
	}

	var rows []T
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list rows: %w", err)
	}
	return &ScanResponse[T]{Items: rows, Total: total}, nil
}

func (s *Service) getScoped(ctx context.Context, accountID, id string, out any) error {
	err := s.db.WithContext(ctx).Where("id = ? AND account_id = ?", id, accountID).First(out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Clients

func (s *Service) CreateClient(ctx context.Context, accountID string, c *models.Client) (*models.Client, error) {
	if accountID == "" || c == nil || c.Name == "" {
		return nil, fmt.Errorf("accountID and client name are required")
	}
	c.ID = tool.GenerateUUIDV7()
	c.AccountID = accountID
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return c, nil
}

func (s *Service) UpdateClient(ctx context.Context, accountID string, c *models.Client) (*models.Client, error) {
	var existing models.Client
	if err := s.getScoped(ctx, accountID, c.ID, &existing); err != nil {
		return nil, err
	}
	existing.Name = c.Name
	existing.Website = c.Website
	existing.Notes = c.Notes
	if err := s.db.WithContext(ctx).Save(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to update client %s: %w", c.ID, err)
	}
	return &existing, nil
}

func (s *Service) GetClient(ctx context.Context, accountID, id string) (*models.Client, error) {
	var c models.Client
	if err := s.getScoped(ctx, accountID, id, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Service) ScanClients(ctx context.Context, accountID string, req *ScanRequest) (*ScanResponse[*models.Client], error) {
	return scan[*models.Client](ctx, s.db, accountID, req)
}

// Projects

func (s *Service) CreateProject(ctx context.Context, accountID string, p *models.Project) (*models.Project, error) {
	if accountID == "" || p == nil || p.Name == "" {
		return nil, fmt.Errorf("accountID and project name are required")
	}
	if p.ClientID != nil {
		var c models.Client
		if err := s.getScoped(ctx, accountID, *p.ClientID, &c); err != nil {
			return nil, fmt.Errorf("client %s: %w", *p.ClientID, err)
		}
	}
	p.ID = tool.GenerateUUIDV7()
	p.AccountID = accountID
	if p.Status == "" {
		p.Status = models.ProjectStatusDraft
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return p, nil
}

func (s *Service) UpdateProject(ctx context.Context, accountID string, p *models.Project) (*models.Project, error) {
	var existing models.Project
	if err := s.getScoped(ctx, accountID, p.ID, &existing); err != nil {
		return nil, err
	}
	existing.Name = p.Name
	existing.Status = p.Status
	existing.Summary = p.Summary
	existing.ClientID = p.ClientID
	existing.StartAt = p.StartAt
	existing.DueAt = p.DueAt
	if err := s.db.WithContext(ctx).Save(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to update project %s: %w", p.ID, err)
	}
	return &existing, nil
}

func (s *Service) GetProject(ctx context.Context, accountID, id string) (*models.Project, error) {
	var p models.Project
	if err := s.getScoped(ctx, accountID, id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) ScanProjects(ctx context.Context, accountID string, req *ScanRequest) (*ScanResponse[*models.Project], error) {
	return scan[*models.Project](ctx, s.db, accountID, req)
}

// Contacts

func (s *Service) CreateContact(ctx context.Context, accountID string, c *models.Contact) (*models.Contact, error) {
	if accountID == "" || c == nil || c.Name == "" {
		return nil, fmt.Errorf("accountID and contact name are required")
	}
	c.ID = tool.GenerateUUIDV7()
	c.AccountID = accountID
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}
	return c, nil
}

func (s *Service) UpdateContact(ctx context.Context, accountID string, c *models.Contact) (*models.Contact, error) {
	var existing models.Contact
	if err := s.getScoped(ctx, accountID, c.ID, &existing); err != nil {
		return nil, err
	}
	existing.Name = c.Name
	existing.Email = c.Email
	existing.Phone = c.Phone
	existing.Title = c.Title
	existing.ClientID = c.ClientID
	if err := s.db.WithContext(ctx).Save(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to update contact %s: %w", c.ID, err)
	}
	return &existing, nil
}

func (s *Service) GetContact(ctx context.Context, accountID, id string) (*models.Contact, error) {
	var c models.Contact
	if err := s.getScoped(ctx, accountID, id, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Service) ScanContacts(ctx context.Context, accountID string, req *ScanRequest) (*ScanResponse[*models.Contact], error) {
	return scan[*models.Contact](ctx, s.db, accountID, req)
}
