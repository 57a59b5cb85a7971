package handlers_test

import (
	"context"
	"sync"
	"time"

	"sadhna-backend/internal/models"
	"sadhna-backend/internal/repositories"
)

type memUsers struct {
	mu    sync.Mutex
	users map[int]*models.User
	next  int
}

func newMemUsers(users ...*models.User) *memUsers {
	m := &memUsers{users: map[int]*models.User{}}
	for _, u := range users {
		m.Create(context.Background(), u)
	}
	return m
}

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return repositories.ErrDuplicate
		}
	}
	m.next++
	u.ID = m.next
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUsers) Get(_ context.Context, id int) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memUsers) List(context.Context) ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.User{}
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *memUsers) UpdateRole(_ context.Context, id int, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.Role = role
	return nil
}

func (m *memUsers) SetTOTPSecret(_ context.Context, id int, secret string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[id].TOTPSecret = secret
	return nil
}

func (m *memUsers) EnableTOTP(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[id].TOTPEnabled = true
	return nil
}

func (m *memUsers) DisableTOTP(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[id].TOTPEnabled = false
	return nil
}

type noAttempts struct{}

func (noAttempts) Record(context.Context, *models.TwoFactorAttempt) error { return nil }
func (noAttempts) FailuresSince(context.Context, int, time.Time) (int, error) {
	return 0, nil
}

type memEmployees struct {
	mu   sync.Mutex
	emps map[int]*models.Employee
	next int
}

func newMemEmployees() *memEmployees {
	return &memEmployees{emps: map[int]*models.Employee{}}
}

func (m *memEmployees) Create(_ context.Context, e *models.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	e.ID = m.next
	cp := *e
	m.emps[e.ID] = &cp
	return nil
}

func (m *memEmployees) Get(_ context.Context, id int) (*models.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.emps[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *memEmployees) GetByUserID(_ context.Context, userID int) (*models.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.emps {
		if e.UserID != nil && *e.UserID == userID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memEmployees) List(context.Context) ([]*models.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Employee{}
	for _, e := range m.emps {
		out = append(out, e)
	}
	return out, nil
}

func (m *memEmployees) Update(_ context.Context, e *models.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.emps[e.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *e
	m.emps[e.ID] = &cp
	return nil
}

func (m *memEmployees) Delete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.emps[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.emps, id)
	return nil
}

type memAttendance struct {
	mu   sync.Mutex
	rows []*models.Attendance
}

func (m *memAttendance) Create(_ context.Context, a *models.Attendance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = len(m.rows) + 1
	cp := *a
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *memAttendance) List(context.Context) ([]*models.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*models.Attendance{}, m.rows...), nil
}

func (m *memAttendance) ListByEmployee(_ context.Context, employeeID int) ([]*models.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Attendance{}
	for _, a := range m.rows {
		if a.EmployeeID == employeeID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memAttendance) ListBetween(_ context.Context, from, to time.Time) ([]*models.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Attendance{}
	for _, a := range m.rows {
		if !a.Date.Before(from) && !a.Date.After(to) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memAttendance) CountBetween(_ context.Context, employeeID int, from, to time.Time) (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	present, total := 0, 0
	for _, a := range m.rows {
		if a.EmployeeID != employeeID || a.Date.Before(from) || a.Date.After(to) {
			continue
		}
		total++
		if a.Status == models.AttendancePresent {
			present++
		}
	}
	return present, total, nil
}

type memLeaves struct {
	mu     sync.Mutex
	leaves map[int]*models.Leave
}

func newMemLeaves() *memLeaves {
	return &memLeaves{leaves: map[int]*models.Leave{}}
}

func (m *memLeaves) Create(_ context.Context, l *models.Leave) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.ID = len(m.leaves) + 1
	cp := *l
	m.leaves[l.ID] = &cp
	return nil
}

func (m *memLeaves) Get(_ context.Context, id int) (*models.Leave, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.leaves[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (m *memLeaves) ListByUser(_ context.Context, userID int) ([]*models.Leave, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Leave{}
	for _, l := range m.leaves {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memLeaves) ListAll(context.Context) ([]*models.Leave, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Leave{}
	for _, l := range m.leaves {
		out = append(out, l)
	}
	return out, nil
}

func (m *memLeaves) UpdateStatus(_ context.Context, id int, from, to string) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.leaves[id]
	if !ok || l.Status != from {
		return time.Time{}, repositories.ErrStale
	}
	l.Status = to
	l.UpdatedAt = time.Now()
	return l.UpdatedAt, nil
}

// memApplications keeps only what the intake endpoints touch.
type memApplications struct {
	mu   sync.Mutex
	apps map[int]*models.Application
}

func newMemApplications() *memApplications {
	return &memApplications{apps: map[int]*models.Application{}}
}

func (m *memApplications) Create(_ context.Context, a *models.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = len(m.apps) + 1
	cp := *a
	m.apps[a.ID] = &cp
	return nil
}

func (m *memApplications) Get(_ context.Context, id int) (*models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.apps[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memApplications) List(context.Context, string) ([]*models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Application{}
	for _, a := range m.apps {
		out = append(out, a)
	}
	return out, nil
}

func (m *memApplications) UsernameTaken(_ context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.apps {
		if a.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *memApplications) UpdateStatus(_ context.Context, id int, from, to string, _ int, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.apps[id]
	if !ok || a.Status != from {
		return repositories.ErrStale
	}
	a.Status = to
	return nil
}

func (m *memApplications) Hire(context.Context, int, *models.User, *models.Employee, int, string) error {
	return repositories.ErrStale
}

type pingOK struct{}

func (pingOK) Ping(context.Context) error { return nil }

type memReports struct {
	mu          sync.Mutex
	reports     map[int]*models.SiteReport
	next        int
	nextPhotoID int
}

func newMemReports() *memReports {
	return &memReports{reports: map[int]*models.SiteReport{}}
}

func (m *memReports) Create(_ context.Context, r *models.SiteReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	r.ID = m.next
	for i := range r.Photos {
		m.nextPhotoID++
		r.Photos[i].ID = m.nextPhotoID
	}
	cp := *r
	cp.Photos = append([]models.SitePhoto(nil), r.Photos...)
	m.reports[r.ID] = &cp
	return nil
}

func (m *memReports) Get(_ context.Context, id int) (*models.SiteReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reports[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *r
	cp.Photos = append([]models.SitePhoto(nil), r.Photos...)
	cp.Comments = append([]models.SiteComment(nil), r.Comments...)
	return &cp, nil
}

func (m *memReports) List(context.Context) ([]*models.SiteReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.SiteReport{}
	for _, r := range m.reports {
		out = append(out, r)
	}
	return out, nil
}

func (m *memReports) Update(_ context.Context, r *models.SiteReport, removeIDs []int, add []models.SitePhoto) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.reports[r.ID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	drop := map[int]bool{}
	for _, id := range removeIDs {
		drop[id] = true
	}
	var removed []string
	kept := []models.SitePhoto{}
	for _, p := range stored.Photos {
		if drop[p.ID] {
			removed = append(removed, p.Key)
			continue
		}
		kept = append(kept, p)
	}
	for i := range add {
		m.nextPhotoID++
		add[i].ID = m.nextPhotoID
	}
	cp := *r
	cp.Photos = append(kept, add...)
	cp.Comments = stored.Comments
	m.reports[r.ID] = &cp
	return removed, nil
}

func (m *memReports) AddComment(_ context.Context, reportID int, c *models.SiteComment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reports[reportID]
	if !ok {
		return repositories.ErrNotFound
	}
	c.ID = len(r.Comments) + 1
	c.CreatedAt = time.Now()
	r.Comments = append(r.Comments, *c)
	return nil
}

func (m *memReports) Delete(_ context.Context, id int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reports[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	keys := []string{}
	for _, p := range r.Photos {
		keys = append(keys, p.Key)
	}
	delete(m.reports, id)
	return keys, nil
}
