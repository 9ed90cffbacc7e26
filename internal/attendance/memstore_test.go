package attendance

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tws-events/checkin/internal/models"
	"github.com/tws-events/checkin/pkg/database"
)

type memStore struct {
	mu    sync.Mutex
	rows  []models.Attendance
	clock time.Time

	// hideNext makes the next lookup miss, simulating a concurrent insert
	// landing between the check and the insert.
	hideNext bool
	listErr  error
}

func newMemStore() *memStore {
	return &memStore{clock: time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)}
}

func (m *memStore) Create(_ context.Context, a *models.Attendance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.RegistrationID == a.RegistrationID {
			return &database.ConstraintError{Constraint: ConstraintRegistrationID, Err: errors.New("duplicate key")}
		}
	}
	m.clock = m.clock.Add(time.Minute)
	a.ID = uuid.New()
	a.CheckedInAt = m.clock
	m.rows = append(m.rows, *a)
	return nil
}

func (m *memStore) GetByRegistrationID(_ context.Context, id string) (*models.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hideNext {
		m.hideNext = false
		return nil, database.ErrNotFound
	}
	for _, r := range m.rows {
		if r.RegistrationID == id {
			r := r
			return &r, nil
		}
	}
	return nil, database.ErrNotFound
}

func (m *memStore) List(context.Context) ([]models.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := append([]models.Attendance(nil), m.rows...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CheckedInAt.After(out[j].CheckedInAt) })
	return out, nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}
