package applications

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

const insertQ = `(?s)^\s*INSERT\s+INTO\s+applications\s*\(applicant_id,\s*job_id,\s*resume_link,\s*cover_letter,\s*status\).*RETURNING\s+id,\s*applied_at\s*$`

func newApp() *models.Application {
	return &models.Application{
		ApplicantID: "a-1",
		JobID:       "j-1",
		ResumeLink:  "http://minio/resumes/r.pdf",
		Status:      models.StatusApplied,
	}
}

func TestCreate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		now := time.Now()
		mock.ExpectQuery(insertQ).
			WithArgs("a-1", "j-1", "http://minio/resumes/r.pdf", nil, "Applied").
			WillReturnRows(sqlmock.NewRows([]string{"id", "applied_at"}).AddRow("app-1", now))

		got, err := repo.Create(context.Background(), newApp())
		require.NoError(t, err)
		assert.Equal(t, "app-1", got.ID)
		assert.True(t, got.AppliedAt.Equal(now))
	})

	t.Run("unique violation is conflict", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(insertQ).WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "applications_applicant_job_key"})

		_, err := repo.Create(context.Background(), newApp())
		assert.ErrorIs(t, err, common.ErrConflict)
	})

	t.Run("missing job is not found", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(insertQ).WillReturnError(&pgconn.PgError{Code: "23503"})

		_, err := repo.Create(context.Background(), newApp())
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("other errors are wrapped", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(insertQ).WillReturnError(errors.New("db down"))

		_, err := repo.Create(context.Background(), newApp())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db error: db down")
	})
}

func TestExists(t *testing.T) {
	q := `^SELECT\s+EXISTS\s*\(SELECT\s+1\s+FROM\s+applications\s+WHERE\s+applicant_id\s*=\s*\$1\s+AND\s+job_id\s*=\s*\$2\)$`

	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(q).WithArgs("a-1", "j-1").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	ok, err := repo.Exists(context.Background(), "a-1", "j-1")
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectQuery(q).WithArgs("a-1", "bad").WillReturnError(&pgconn.PgError{Code: "22P02"})
	ok, err = repo.Exists(context.Background(), "a-1", "bad")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListByApplicant(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`^SELECT\s+count\(\*\)\s+FROM\s+applications\s+WHERE\s+applicant_id\s*=\s*\$1$`).
		WithArgs("a-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	cols := []string{"id", "applicant_id", "job_id", "resume_link", "cover_letter", "status", "applied_at", "title", "name"}
	mock.ExpectQuery(`(?s)FROM\s+applications\s+a\s+JOIN\s+jobs\s+j.*JOIN\s+users\s+u.*WHERE\s+a\.applicant_id\s*=\s*\$1\s+ORDER\s+BY\s+a\.applied_at\s+DESC,\s*a\.id\s+DESC\s+LIMIT\s+\$2\s+OFFSET\s+\$3`).
		WithArgs("a-1", 10, 0).
		WillReturnRows(sqlmock.NewRows(cols).AddRow("app-1", "a-1", "j-1", "http://r", "hello", "Applied", time.Now(), "Go Engineer", "Acme"))

	items, total, err := repo.ListByApplicant(context.Background(), "a-1", models.PageRequest{Number: 1, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, models.StatusApplied, items[0].Status)
	assert.Equal(t, "Go Engineer", items[0].JobTitle)
	assert.Equal(t, "Acme", items[0].CompanyName)
	require.NotNil(t, items[0].CoverLetter)
	assert.Equal(t, "hello", *items[0].CoverLetter)
}

func TestGetWithOwnerForUpdate(t *testing.T) {
	q := `(?s)SELECT\s+a\.id,.*j\.created_by\s+FROM\s+applications\s+a\s+JOIN\s+jobs\s+j\s+ON\s+j\.id\s*=\s*a\.job_id\s+WHERE\s+a\.id\s*=\s*\$1\s+FOR\s+UPDATE\s+OF\s+a`
	cols := []string{"id", "applicant_id", "job_id", "resume_link", "cover_letter", "status", "applied_at", "created_by"}

	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(q).WithArgs("app-1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("app-1", "a-1", "j-1", "http://r", nil, "Reviewed", time.Now(), "c-1"))

	got, err := repo.GetWithOwnerForUpdate(context.Background(), "app-1")
	require.NoError(t, err)
	assert.Equal(t, "c-1", got.JobOwnerID)
	assert.Equal(t, models.StatusReviewed, got.Status)
	assert.Nil(t, got.CoverLetter)

	mock.ExpectQuery(q).WithArgs("app-2").WillReturnError(sql.ErrNoRows)
	_, err = repo.GetWithOwnerForUpdate(context.Background(), "app-2")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdateStatus(t *testing.T) {
	q := `(?s)UPDATE\s+applications\s+SET\s+status\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$1\s+RETURNING`
	cols := []string{"id", "applicant_id", "job_id", "resume_link", "cover_letter", "status", "applied_at"}

	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(q).WithArgs("app-1", "Hired").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("app-1", "a-1", "j-1", "http://r", nil, "Hired", time.Now()))

	got, err := repo.UpdateStatus(context.Background(), "app-1", models.StatusHired)
	require.NoError(t, err)
	assert.Equal(t, models.StatusHired, got.Status)

	mock.ExpectQuery(q).WithArgs("app-2", "Hired").WillReturnError(sql.ErrNoRows)
	_, err = repo.UpdateStatus(context.Background(), "app-2", models.StatusHired)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
