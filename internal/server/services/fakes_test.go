package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/dbx"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
	"github.com/dmitrijs2005/jobboard/internal/server/repositories/applications"
	"github.com/dmitrijs2005/jobboard/internal/server/repositories/jobs"
	"github.com/dmitrijs2005/jobboard/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func applicant(id string) *models.Identity {
	return &models.Identity{ID: id, Role: models.RoleApplicant, Name: "Ann"}
}

func company(id string) *models.Identity {
	return &models.Identity{ID: id, Role: models.RoleCompany, Name: "Acme"}
}

type fakeRepoManager struct {
	u users.Repository
	j jobs.Repository
	a applications.Repository
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error  { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository               { return m.u }
func (m *fakeRepoManager) Jobs(dbx.DBTX) jobs.Repository                 { return m.j }
func (m *fakeRepoManager) Applications(dbx.DBTX) applications.Repository { return m.a }

// fakeUsersRepo keeps accounts in memory and enforces email uniqueness the
// way the database index does.
type fakeUsersRepo struct {
	mu      sync.Mutex
	byID    map[string]*models.User
	seq     int
	getErr  error
	skipGet bool // GetByEmail reports not found even when the row exists
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return nil, common.ErrConflict
		}
	}
	f.seq++
	cp := *u
	cp.ID = fmt.Sprintf("u-%d", f.seq)
	cp.CreatedAt = time.Now()
	f.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.skipGet {
		return nil, common.ErrNotFound
	}
	for _, u := range f.byID {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	out := *u
	return &out, nil
}

type fakeJobsRepo struct {
	jobs.Repository

	byID      map[string]*models.Job
	seq       int
	deleted   []string
	updateErr error
	existsErr error

	browseFilter models.JobFilter
	browseOut    []*models.JobListing
	browseTotal  int
	browseErr    error
}

func newFakeJobsRepo(seed ...*models.Job) *fakeJobsRepo {
	f := &fakeJobsRepo{byID: map[string]*models.Job{}}
	for _, j := range seed {
		f.byID[j.ID] = j
	}
	return f
}

func (f *fakeJobsRepo) Create(ctx context.Context, j *models.Job) (*models.Job, error) {
	f.seq++
	cp := *j
	cp.ID = fmt.Sprintf("j-%d", f.seq)
	cp.CreatedAt = time.Now()
	f.byID[cp.ID] = &cp
	return &cp, nil
}

func (f *fakeJobsRepo) GetForUpdate(ctx context.Context, id string) (*models.Job, error) {
	j, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (f *fakeJobsRepo) Exists(ctx context.Context, id string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.byID[id]
	return ok, nil
}

func (f *fakeJobsRepo) Update(ctx context.Context, j *models.Job) (*models.Job, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	cur, ok := f.byID[j.ID]
	if !ok {
		return nil, common.ErrNotFound
	}
	cur.Title, cur.Description, cur.Location = j.Title, j.Description, j.Location
	cp := *cur
	return &cp, nil
}

func (f *fakeJobsRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeJobsRepo) Browse(ctx context.Context, filter models.JobFilter) ([]*models.JobListing, int, error) {
	f.browseFilter = filter
	return f.browseOut, f.browseTotal, f.browseErr
}

// fakeApplicationsRepo stores applications in memory with the
// (applicant_id, job_id) uniqueness rule.
type fakeApplicationsRepo struct {
	mu       sync.Mutex
	rows     map[string]*models.Application
	jobOwner map[string]string // job id -> company id
	seq      int

	existsErr  error
	skipExists bool // Exists always reports false, as in a lost race

	listOut   []*models.ApplicationListing
	listTotal int
	listArgs  struct {
		applicantID string
		page        models.PageRequest
	}
}

func newFakeApplicationsRepo(jobOwner map[string]string) *fakeApplicationsRepo {
	return &fakeApplicationsRepo{rows: map[string]*models.Application{}, jobOwner: jobOwner}
}

func (f *fakeApplicationsRepo) Create(ctx context.Context, a *models.Application) (*models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.jobOwner[a.JobID]; !ok {
		return nil, common.ErrNotFound
	}
	for _, r := range f.rows {
		if r.ApplicantID == a.ApplicantID && r.JobID == a.JobID {
			return nil, common.ErrConflict
		}
	}
	f.seq++
	cp := *a
	cp.ID = fmt.Sprintf("app-%d", f.seq)
	cp.AppliedAt = time.Now()
	f.rows[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeApplicationsRepo) Exists(ctx context.Context, applicantID, jobID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	if f.skipExists {
		return false, nil
	}
	for _, r := range f.rows {
		if r.ApplicantID == applicantID && r.JobID == jobID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeApplicationsRepo) ListByApplicant(ctx context.Context, applicantID string, page models.PageRequest) ([]*models.ApplicationListing, int, error) {
	f.listArgs.applicantID = applicantID
	f.listArgs.page = page
	return f.listOut, f.listTotal, nil
}

func (f *fakeApplicationsRepo) GetWithOwnerForUpdate(ctx context.Context, id string) (*models.ApplicationOwner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &models.ApplicationOwner{Application: *r, JobOwnerID: f.jobOwner[r.JobID]}, nil
}

func (f *fakeApplicationsRepo) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) (*models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	r.Status = status
	out := *r
	return &out, nil
}

func (f *fakeApplicationsRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

type fakeResumeStore struct {
	calls    int
	got      []byte
	filename string
	link     string
	err      error
	// wait blocks until the context is done, to exercise the upload timeout.
	wait bool
}

func (f *fakeResumeStore) PutResume(ctx context.Context, filename string, data []byte) (string, error) {
	f.calls++
	f.got = data
	f.filename = filename
	if f.wait {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if f.err != nil {
		return "", f.err
	}
	if f.link != "" {
		return f.link, nil
	}
	return "http://minio/resumes/r.pdf", nil
}
