// Package applications declares the job application repository and its
// PostgreSQL implementation.
package applications

import (
	"context"

	"github.com/dmitrijs2005/jobboard/internal/server/models"
)

type Repository interface {
	// Create inserts the application with status Applied. A second row for
	// the same (applicant, job) pair yields common.ErrConflict; a job id
	// that does not exist yields common.ErrNotFound.
	Create(ctx context.Context, app *models.Application) (*models.Application, error)
	Exists(ctx context.Context, applicantID, jobID string) (bool, error)
	ListByApplicant(ctx context.Context, applicantID string, page models.PageRequest) ([]*models.ApplicationListing, int, error)
	// GetWithOwnerForUpdate loads an application with the owner of its job
	// and locks the application row.
	GetWithOwnerForUpdate(ctx context.Context, id string) (*models.ApplicationOwner, error)
	UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) (*models.Application, error)
}
