package applications

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/dbx"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, app *models.Application) (*models.Application, error) {
	query := `
		INSERT INTO applications (applicant_id, job_id, resume_link, cover_letter, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, applied_at
	`
	err := r.db.QueryRowContext(ctx, query, app.ApplicantID, app.JobID, app.ResumeLink, app.CoverLetter, string(app.Status)).
		Scan(&app.ID, &app.AppliedAt)
	if err != nil {
		switch {
		case dbx.IsUniqueViolation(err):
			return nil, common.ErrConflict
		case dbx.IsForeignKeyViolation(err), dbx.IsInvalidTextRepresentation(err):
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return app, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, applicantID, jobID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM applications WHERE applicant_id = $1 AND job_id = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, applicantID, jobID).Scan(&exists); err != nil {
		if dbx.IsInvalidTextRepresentation(err) {
			return false, nil
		}
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) ListByApplicant(ctx context.Context, applicantID string, page models.PageRequest) ([]*models.ApplicationListing, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM applications WHERE applicant_id = $1`, applicantID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	query := `
		SELECT a.id, a.applicant_id, a.job_id, a.resume_link, a.cover_letter, a.status, a.applied_at, j.title, u.name
		FROM applications a
		JOIN jobs j ON j.id = a.job_id
		JOIN users u ON u.id = j.created_by
		WHERE a.applicant_id = $1
		ORDER BY a.applied_at DESC, a.id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, applicantID, page.Size, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.ApplicationListing, 0, page.Size)
	for rows.Next() {
		item := &models.ApplicationListing{}
		var status string
		if err := rows.Scan(&item.ID, &item.ApplicantID, &item.JobID, &item.ResumeLink, &item.CoverLetter,
			&status, &item.AppliedAt, &item.JobTitle, &item.CompanyName); err != nil {
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		item.Status = models.ApplicationStatus(status)
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	return result, total, nil
}

func (r *PostgresRepository) GetWithOwnerForUpdate(ctx context.Context, id string) (*models.ApplicationOwner, error) {
	query := `
		SELECT a.id, a.applicant_id, a.job_id, a.resume_link, a.cover_letter, a.status, a.applied_at, j.created_by
		FROM applications a
		JOIN jobs j ON j.id = a.job_id
		WHERE a.id = $1
		FOR UPDATE OF a
	`
	item := &models.ApplicationOwner{}
	var status string
	err := r.db.QueryRowContext(ctx, query, id).Scan(&item.ID, &item.ApplicantID, &item.JobID, &item.ResumeLink,
		&item.CoverLetter, &status, &item.AppliedAt, &item.JobOwnerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidTextRepresentation(err) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	item.Status = models.ApplicationStatus(status)
	return item, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) (*models.Application, error) {
	query := `
		UPDATE applications SET status = $2
		WHERE id = $1
		RETURNING id, applicant_id, job_id, resume_link, cover_letter, status, applied_at
	`
	app := &models.Application{}
	var stored string
	err := r.db.QueryRowContext(ctx, query, id, string(status)).
		Scan(&app.ID, &app.ApplicantID, &app.JobID, &app.ResumeLink, &app.CoverLetter, &stored, &app.AppliedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	app.Status = models.ApplicationStatus(stored)
	return app, nil
}
