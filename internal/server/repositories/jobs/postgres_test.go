package jobs

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

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock, db
}

func strPtr(s string) *string { return &s }

var jobCols = []string{"id", "title", "description", "location", "created_by", "created_at"}

func TestCreate_Success(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	now := time.Now()
	mock.ExpectQuery(`(?s)^\s*INSERT\s+INTO\s+jobs\s*\(title,\s*description,\s*location,\s*created_by\).*RETURNING\s+id,\s*created_at\s*$`).
		WithArgs("Go Engineer", "Build services in Go for a job board", strPtr("Remote"), "c-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("j-1", now))

	job, err := repo.Create(context.Background(), &models.Job{
		Title:       "Go Engineer",
		Description: "Build services in Go for a job board",
		Location:    strPtr("Remote"),
		CreatedBy:   "c-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "j-1", job.ID)
	assert.True(t, job.CreatedAt.Equal(now))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetForUpdate(t *testing.T) {
	q := `(?s)^\s*SELECT\s+id,.*FROM\s+jobs\s+WHERE\s+id\s*=\s*\$1\s+FOR\s+UPDATE\s*$`

	t.Run("found with null location", func(t *testing.T) {
		repo, mock, _ := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs("j-1").
			WillReturnRows(sqlmock.NewRows(jobCols).AddRow("j-1", "T", "D", nil, "c-1", time.Now()))

		job, err := repo.GetForUpdate(context.Background(), "j-1")
		require.NoError(t, err)
		assert.Equal(t, "c-1", job.CreatedBy)
		assert.Nil(t, job.Location)
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock, _ := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs("j-404").WillReturnError(sql.ErrNoRows)

		_, err := repo.GetForUpdate(context.Background(), "j-404")
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock, _ := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs("j-1").WillReturnError(errors.New("conn reset"))

		_, err := repo.GetForUpdate(context.Background(), "j-1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, common.ErrNotFound)
		assert.Contains(t, err.Error(), "db error")
	})
}

func TestUpdate_ReplacesAllFields(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	created := time.Now().Add(-time.Hour)
	mock.ExpectQuery(`(?s)^\s*UPDATE\s+jobs\s+SET\s+title\s*=\s*\$2,\s*description\s*=\s*\$3,\s*location\s*=\s*\$4\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("j-1", "New title", "A brand new description text", nil).
		WillReturnRows(sqlmock.NewRows([]string{"created_by", "created_at"}).AddRow("c-1", created))

	job, err := repo.Update(context.Background(), &models.Job{ID: "j-1", Title: "New title", Description: "A brand new description text"})
	require.NoError(t, err)
	assert.Equal(t, "c-1", job.CreatedBy)
	assert.Nil(t, job.Location)
}

func TestExists(t *testing.T) {
	q := `^SELECT\s+EXISTS\s*\(SELECT\s+1\s+FROM\s+jobs\s+WHERE\s+id\s*=\s*\$1\)$`

	repo, mock, _ := newRepoWithMock(t)
	mock.ExpectQuery(q).WithArgs("j-1").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	ok, err := repo.Exists(context.Background(), "j-1")
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectQuery(q).WithArgs("not-a-uuid").WillReturnError(&pgconn.PgError{Code: "22P02"})
	ok, err = repo.Exists(context.Background(), "not-a-uuid")
	require.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectQuery(q).WithArgs("j-2").WillReturnError(errors.New("boom"))
	_, err = repo.Exists(context.Background(), "j-2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	q := `^DELETE\s+FROM\s+jobs\s+WHERE\s+id\s*=\s*\$1$`

	repo, mock, _ := newRepoWithMock(t)
	mock.ExpectExec(q).WithArgs("j-1").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "j-1"))

	mock.ExpectExec(q).WithArgs("j-2").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), "j-2"), common.ErrNotFound)

	mock.ExpectExec(q).WithArgs("j-3").WillReturnError(errors.New("boom"))
	err := repo.Delete(context.Background(), "j-3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestBrowse_PagesAndCounts(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^\s*SELECT\s+count\(\*\)\s+FROM\s+jobs\s+j\s+JOIN\s+users\s+u\s+ON\s+u\.id\s*=\s*j\.created_by.*ILIKE`).
		WithArgs("engineer", "", "acme").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))

	now := time.Now()
	rows := sqlmock.NewRows(append(jobCols, "name"))
	for i := 0; i < 10; i++ {
		rows.AddRow("j", "Engineer", "Description long enough", nil, "c-1", now.Add(-time.Duration(i)*time.Minute), "Acme")
	}
	mock.ExpectQuery(`(?s)^\s*SELECT\s+j\.id,.*u\.name\s+FROM\s+jobs\s+j.*ORDER\s+BY\s+j\.created_at\s+DESC,\s*j\.id\s+DESC\s+LIMIT\s+\$4\s+OFFSET\s+\$5\s*$`).
		WithArgs("engineer", "", "acme", 10, 10).
		WillReturnRows(rows)

	items, total, err := repo.Browse(context.Background(), models.JobFilter{
		Title:       " engineer ",
		CompanyName: "acme",
		Page:        models.PageRequest{Number: 2, Size: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	assert.Len(t, items, 10)
	assert.Equal(t, "Acme", items[0].CompanyName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBrowse_EmptyPageBeyondEnd(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)SELECT\s+count`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`(?s)SELECT\s+j\.id`).WithArgs("", "", "", 10, 40).
		WillReturnRows(sqlmock.NewRows(append(jobCols, "name")))

	items, total, err := repo.Browse(context.Background(), models.JobFilter{Page: models.PageRequest{Number: 5, Size: 10}})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestBrowse_CountError(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	mock.ExpectQuery(`(?s)SELECT\s+count`).WillReturnError(errors.New("boom"))

	_, _, err := repo.Browse(context.Background(), models.JobFilter{Page: models.PageRequest{Number: 1, Size: 10}})
	require.Error(t, err)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `snake\_case`, escapeLike(" snake_case "))
	assert.Equal(t, `back\\slash`, escapeLike(`back\slash`))
	assert.Equal(t, "", escapeLike("   "))
}
