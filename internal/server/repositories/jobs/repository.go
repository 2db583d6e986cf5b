// Package jobs declares the job posting repository and its PostgreSQL
// implementation.
package jobs

import (
	"context"

	"github.com/dmitrijs2005/jobboard/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, job *models.Job) (*models.Job, error)
	// GetForUpdate loads a job and locks its row until the surrounding
	// transaction ends. Outside a transaction it behaves as a plain read.
	GetForUpdate(ctx context.Context, id string) (*models.Job, error)
	// Exists reports whether a job with id is stored. A malformed id is
	// reported as absent.
	Exists(ctx context.Context, id string) (bool, error)
	// Update replaces title, description and location.
	Update(ctx context.Context, job *models.Job) (*models.Job, error)
	Delete(ctx context.Context, id string) error
	// Browse returns one page of jobs matching the filter, newest first,
	// and the size of the whole filtered set.
	Browse(ctx context.Context, filter models.JobFilter) ([]*models.JobListing, int, error)
}
