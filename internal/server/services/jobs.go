package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/dbx"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
	"github.com/dmitrijs2005/jobboard/internal/server/repositories/repomanager"
)

// JobInput is the full set of editable job fields. Update replaces all of
// them, so a nil Location clears the stored one.
type JobInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Location    *string `json:"location"`
}

func (in JobInput) normalize() (JobInput, error) {
	v := common.NewValidationError()

	in.Title = strings.TrimSpace(in.Title)
	if n := utf8.RuneCountInString(in.Title); n < 1 || n > 100 {
		v.Add("title must be 1-100 characters long")
	}

	in.Description = strings.TrimSpace(in.Description)
	if n := utf8.RuneCountInString(in.Description); n < 20 || n > 2000 {
		v.Add("description must be 20-2000 characters long")
	}

	if in.Location != nil {
		loc := strings.TrimSpace(*in.Location)
		if loc == "" {
			in.Location = nil
		} else {
			in.Location = &loc
		}
	}

	return in, v.OrNil()
}

// JobService owns job postings.
type JobService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewJobService(db *sql.DB, m repomanager.RepositoryManager) *JobService {
	return &JobService{db: db, repomanager: m}
}

// Create stores a posting owned by company.
func (s *JobService) Create(ctx context.Context, company *models.Identity, in JobInput) (*models.Job, error) {
	if err := Authorize(company, models.RoleCompany); err != nil {
		return nil, err
	}
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	job, err := s.repomanager.Jobs(s.db).Create(ctx, &models.Job{
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		CreatedBy:   company.ID,
	})
	if err != nil {
		return nil, mapContextErr(ctx, err)
	}
	return job, nil
}

// Update replaces every field of a job owned by company. A missing job and a
// job owned by someone else both yield common.ErrUnauthorized.
func (s *JobService) Update(ctx context.Context, company *models.Identity, jobID string, in JobInput) (*models.Job, error) {
	if err := Authorize(company, models.RoleCompany); err != nil {
		return nil, err
	}
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	var updated *models.Job
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Jobs(tx)
		if err := s.lockOwned(ctx, repo.GetForUpdate, company, jobID); err != nil {
			return err
		}

		var err error
		updated, err = repo.Update(ctx, &models.Job{
			ID:          jobID,
			Title:       in.Title,
			Description: in.Description,
			Location:    in.Location,
		})
		return err
	})
	if err != nil {
		return nil, s.txErr(ctx, err)
	}
	return updated, nil
}

// Delete removes a job owned by company together with its applications.
func (s *JobService) Delete(ctx context.Context, company *models.Identity, jobID string) error {
	if err := Authorize(company, models.RoleCompany); err != nil {
		return err
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Jobs(tx)
		if err := s.lockOwned(ctx, repo.GetForUpdate, company, jobID); err != nil {
			return err
		}
		return repo.Delete(ctx, jobID)
	})
	if err != nil {
		return s.txErr(ctx, err)
	}
	return nil
}

func (s *JobService) lockOwned(ctx context.Context, get func(context.Context, string) (*models.Job, error),
	company *models.Identity, jobID string) error {
	job, err := get(ctx, jobID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrUnauthorized
		}
		return err
	}
	return AuthorizeOwner(company, job.CreatedBy)
}

func (s *JobService) txErr(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrUnauthorized):
		return common.ErrUnauthorized
	case errors.Is(err, common.ErrNotFound):
		// Deleted between the lock and the write.
		return common.ErrUnauthorized
	}
	return mapContextErr(ctx, err)
}

// Browse returns one page of the catalog for an applicant.
func (s *JobService) Browse(ctx context.Context, applicant *models.Identity, filter models.JobFilter) (*models.Page[*models.JobListing], error) {
	if err := Authorize(applicant, models.RoleApplicant); err != nil {
		return nil, err
	}
	if err := validatePage(filter.Page); err != nil {
		return nil, err
	}

	items, total, err := s.repomanager.Jobs(s.db).Browse(ctx, filter)
	if err != nil {
		return nil, mapContextErr(ctx, err)
	}
	return newPage(items, filter.Page, total), nil
}

func validatePage(p models.PageRequest) error {
	v := common.NewValidationError()
	if p.Number < 1 {
		v.Add("page must be >= 1")
	}
	if p.Size < 1 || p.Size > models.MaxPageSize {
		v.Add(fmt.Sprintf("size must be between 1 and %d", models.MaxPageSize))
	}
	if !p.OffsetFits() {
		v.Add("page is too large")
	}
	return v.OrNil()
}

func newPage[T any](items []T, req models.PageRequest, total int) *models.Page[T] {
	if items == nil {
		items = []T{}
	}
	return &models.Page[T]{Items: items, Number: req.Number, Size: req.Size, Total: total}
}
