package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

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

func (r *PostgresRepository) Create(ctx context.Context, job *models.Job) (*models.Job, error) {
	query := `
		INSERT INTO jobs (title, description, location, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, job.Title, job.Description, job.Location, job.CreatedBy).
		Scan(&job.ID, &job.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return job, nil
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string) (*models.Job, error) {
	query := `
		SELECT id, title, description, location, created_by, created_at
		FROM jobs
		WHERE id = $1
		FOR UPDATE
	`
	job := &models.Job{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&job.ID, &job.Title, &job.Description, &job.Location, &job.CreatedBy, &job.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidTextRepresentation(err) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return job, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM jobs WHERE id = $1)`, id).Scan(&exists); err != nil {
		if dbx.IsInvalidTextRepresentation(err) {
			return false, nil
		}
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) Update(ctx context.Context, job *models.Job) (*models.Job, error) {
	query := `
		UPDATE jobs SET title = $2, description = $3, location = $4
		WHERE id = $1
		RETURNING created_by, created_at
	`
	err := r.db.QueryRowContext(ctx, query, job.ID, job.Title, job.Description, job.Location).
		Scan(&job.CreatedBy, &job.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return job, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// browseWhere is shared by the page and count queries. An empty pattern
// argument disables its condition.
const browseWhere = `
		WHERE ($1 = '' OR j.title ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR j.location ILIKE '%' || $2 || '%')
		  AND ($3 = '' OR u.name ILIKE '%' || $3 || '%')
`

func (r *PostgresRepository) Browse(ctx context.Context, filter models.JobFilter) ([]*models.JobListing, int, error) {
	title := escapeLike(filter.Title)
	location := escapeLike(filter.Location)
	company := escapeLike(filter.CompanyName)

	countQuery := `
		SELECT count(*)
		FROM jobs j
		JOIN users u ON u.id = j.created_by
	` + browseWhere

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, title, location, company).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	pageQuery := `
		SELECT j.id, j.title, j.description, j.location, j.created_by, j.created_at, u.name
		FROM jobs j
		JOIN users u ON u.id = j.created_by
	` + browseWhere + `
		ORDER BY j.created_at DESC, j.id DESC
		LIMIT $4 OFFSET $5
	`
	rows, err := r.db.QueryContext(ctx, pageQuery, title, location, company, filter.Page.Size, filter.Page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.JobListing, 0, filter.Page.Size)
	for rows.Next() {
		item := &models.JobListing{}
		if err := rows.Scan(&item.ID, &item.Title, &item.Description, &item.Location, &item.CreatedBy, &item.CreatedAt, &item.CompanyName); err != nil {
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	return result, total, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(strings.TrimSpace(s))
}
