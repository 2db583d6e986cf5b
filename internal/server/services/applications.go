package services

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"mime"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/dbx"
	"github.com/dmitrijs2005/jobboard/internal/logging"
	"github.com/dmitrijs2005/jobboard/internal/server/config"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
	"github.com/dmitrijs2005/jobboard/internal/server/repositories/repomanager"
)

const (
	// MaxCoverLetterLen is the longest accepted cover letter, in characters.
	MaxCoverLetterLen = 200
	pdfMediaType      = "application/pdf"
)

var pdfMagic = []byte("%PDF-")

// ResumeStore persists resume files and returns a durable link. filename is
// the client's name for the file and may be empty.
type ResumeStore interface {
	PutResume(ctx context.Context, filename string, data []byte) (string, error)
}

// Resume is an uploaded file as received from the client.
type Resume struct {
	// Filename is kept as the download name of the stored object.
	Filename    string
	ContentType string
	Data        []byte
}

// ApplicationService runs the application workflow.
type ApplicationService struct {
	db             *sql.DB
	repomanager    repomanager.RepositoryManager
	store          ResumeStore
	logger         logging.Logger
	uploadTimeout  time.Duration
	maxResumeBytes int64
}

func NewApplicationService(db *sql.DB, m repomanager.RepositoryManager, store ResumeStore, logger logging.Logger, cfg *config.Config) *ApplicationService {
	return &ApplicationService{
		db:             db,
		repomanager:    m,
		store:          store,
		logger:         logger,
		uploadTimeout:  cfg.UploadTimeout,
		maxResumeBytes: cfg.MaxResumeBytes,
	}
}

// Apply submits an application with status Applied. A second application for
// the same job yields common.ErrAlreadyApplied.
func (s *ApplicationService) Apply(ctx context.Context, applicant *models.Identity, jobID string, resume Resume, coverLetter *string) (*models.Application, error) {
	if err := Authorize(applicant, models.RoleApplicant); err != nil {
		return nil, err
	}

	coverLetter, err := normalizeCoverLetter(coverLetter)
	if err != nil {
		return nil, err
	}
	if err := s.checkResume(resume); err != nil {
		return nil, err
	}

	// Nothing is uploaded for a job that is gone; the foreign key still
	// catches a job deleted after this check.
	jobExists, err := s.repomanager.Jobs(s.db).Exists(ctx, jobID)
	if err != nil {
		return nil, mapContextErr(ctx, err)
	}
	if !jobExists {
		return nil, common.ErrNotFound
	}

	repo := s.repomanager.Applications(s.db)

	exists, err := repo.Exists(ctx, applicant.ID, jobID)
	if err != nil {
		return nil, mapContextErr(ctx, err)
	}
	if exists {
		return nil, common.ErrAlreadyApplied
	}

	link, err := s.upload(ctx, resume)
	if err != nil {
		return nil, err
	}

	app, err := repo.Create(ctx, &models.Application{
		ApplicantID: applicant.ID,
		JobID:       jobID,
		ResumeLink:  link,
		CoverLetter: coverLetter,
		Status:      models.StatusApplied,
	})
	if err != nil {
		s.logger.Warn(ctx, "resume stored but application not created", "resume_link", link, "error", err)
		switch {
		case errors.Is(err, common.ErrConflict):
			return nil, common.ErrAlreadyApplied
		case errors.Is(err, common.ErrNotFound):
			return nil, common.ErrNotFound
		}
		return nil, mapContextErr(ctx, err)
	}

	s.logger.Info(ctx, "application submitted", "application_id", app.ID, "job_id", jobID, "applicant_id", applicant.ID)
	return app, nil
}

func (s *ApplicationService) upload(ctx context.Context, resume Resume) (string, error) {
	if s.uploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.uploadTimeout)
		defer cancel()
	}

	link, err := s.store.PutResume(ctx, resume.Filename, resume.Data)
	if err != nil {
		if errors.Is(err, common.ErrTimeout) {
			return "", common.ErrTimeout
		}
		return "", mapContextErr(ctx, err)
	}
	return link, nil
}

func (s *ApplicationService) checkResume(r Resume) error {
	if len(r.Data) == 0 {
		return common.NewValidationError("resume file is empty")
	}
	if s.maxResumeBytes > 0 && int64(len(r.Data)) > s.maxResumeBytes {
		return common.NewValidationError(fmt.Sprintf("resume must not exceed %d bytes", s.maxResumeBytes))
	}
	mediaType, _, err := mime.ParseMediaType(r.ContentType)
	if err != nil || mediaType != pdfMediaType {
		return common.ErrInvalidResumeFormat
	}
	if !bytes.HasPrefix(r.Data, pdfMagic) {
		return common.ErrInvalidResumeFormat
	}
	return nil
}

func normalizeCoverLetter(c *string) (*string, error) {
	if c == nil {
		return nil, nil
	}
	text := strings.TrimSpace(*c)
	if text == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(text) > MaxCoverLetterLen {
		return nil, common.NewValidationError(fmt.Sprintf("cover letter must be at most %d characters", MaxCoverLetterLen))
	}
	return &text, nil
}

// ListMine returns the applicant's own applications, newest first.
func (s *ApplicationService) ListMine(ctx context.Context, applicant *models.Identity, page models.PageRequest) (*models.Page[*models.ApplicationListing], error) {
	if err := Authorize(applicant, models.RoleApplicant); err != nil {
		return nil, err
	}
	if err := validatePage(page); err != nil {
		return nil, err
	}

	items, total, err := s.repomanager.Applications(s.db).ListByApplicant(ctx, applicant.ID, page)
	if err != nil {
		return nil, mapContextErr(ctx, err)
	}
	return newPage(items, page, total), nil
}

// UpdateStatus sets the status of an application to a job owned by company.
// Any status may follow any other.
func (s *ApplicationService) UpdateStatus(ctx context.Context, company *models.Identity, applicationID, status string) (*models.Application, error) {
	if err := Authorize(company, models.RoleCompany); err != nil {
		return nil, err
	}
	newStatus, err := models.ParseApplicationStatus(strings.TrimSpace(status))
	if err != nil {
		return nil, common.NewValidationError("status must be one of Applied, Reviewed, Interview, Rejected, Hired")
	}

	var updated *models.Application
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Applications(tx)

		current, err := repo.GetWithOwnerForUpdate(ctx, applicationID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return common.ErrUnauthorized
			}
			return err
		}
		if err := AuthorizeOwner(company, current.JobOwnerID); err != nil {
			return err
		}

		updated, err = repo.UpdateStatus(ctx, applicationID, newStatus)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) || errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, mapContextErr(ctx, err)
	}

	s.logger.Info(ctx, "application status updated", "application_id", applicationID, "status", string(newStatus))
	return updated, nil
}
