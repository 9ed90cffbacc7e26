package registrations

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

// memStore enforces the same unique indexes as the Postgres schema.
type memStore struct {
	mu    sync.Mutex
	rows  []models.Registration
	clock time.Time

	// beforeCreate runs under the lock and may inject a failure.
	beforeCreate func(reg *models.Registration) error
	lookups      int
}

func newMemStore() *memStore {
	return &memStore{clock: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (m *memStore) Create(_ context.Context, reg *models.Registration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.beforeCreate != nil {
		if err := m.beforeCreate(reg); err != nil {
			return err
		}
	}
	for _, r := range m.rows {
		if r.Email == reg.Email {
			return &database.ConstraintError{Constraint: ConstraintEmail, Err: errors.New("duplicate key")}
		}
		if r.RegistrationID == reg.RegistrationID {
			return &database.ConstraintError{Constraint: ConstraintRegistrationID, Err: errors.New("duplicate key")}
		}
	}
	m.clock = m.clock.Add(time.Second)
	reg.ID = uuid.New()
	reg.RegisteredAt = m.clock
	m.rows = append(m.rows, *reg)
	return nil
}

func (m *memStore) GetByEmail(_ context.Context, email string) (*models.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.Email == email {
			r := r
			return &r, nil
		}
	}
	return nil, database.ErrNotFound
}

func (m *memStore) GetByRegistrationID(_ context.Context, id string) (*models.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	for _, r := range m.rows {
		if r.RegistrationID == id {
			r := r
			return &r, nil
		}
	}
	return nil, database.ErrNotFound
}

func (m *memStore) RegistrationIDExists(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.RegistrationID == id {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) List(context.Context) ([]models.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]models.Registration(nil), m.rows...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].RegisteredAt.After(out[j].RegisteredAt) })
	return out, nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

type recordingNotifier struct {
	mu     sync.Mutex
	issued []string
	err    error
}

func (n *recordingNotifier) PassIssued(_ context.Context, reg *models.Registration) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.issued = append(n.issued, reg.RegistrationID)
	return n.err
}
