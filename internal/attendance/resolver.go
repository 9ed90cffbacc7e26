package attendance

import (
	"context"
	"errors"

	"github.com/tws-events/checkin/internal/models"
	"github.com/tws-events/checkin/pkg/database"
)

// LookupFunc finds a registration by pass id, returning database.ErrNotFound when absent.
type LookupFunc func(ctx context.Context, registrationID string) (*models.Registration, error)

// Attendee is a check-in joined with its registration, if one exists.
type Attendee struct {
	models.Attendance
	Registration *models.Registration
}

// Registered reports whether the check-in's pass resolves to a registration.
func (a Attendee) Registered() bool {
	return a.Registration != nil
}

// Resolver follows the soft reference from a check-in to its registration.
type Resolver struct {
	lookup LookupFunc
}

// NewResolver creates a resolver backed by lookup.
func NewResolver(lookup LookupFunc) *Resolver {
	return &Resolver{lookup: lookup}
}

// Resolve returns the registration for a check-in. A dangling pass id yields
// (nil, false, nil).
func (r *Resolver) Resolve(ctx context.Context, a models.Attendance) (*models.Registration, bool, error) {
	reg, err := r.lookup(ctx, a.RegistrationID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return reg, true, nil
}

// ResolveAll resolves every check-in, keeping the input order.
func (r *Resolver) ResolveAll(ctx context.Context, list []models.Attendance) ([]Attendee, error) {
	out := make([]Attendee, 0, len(list))
	for _, a := range list {
		reg, _, err := r.Resolve(ctx, a)
		if err != nil {
			return nil, err
		}
		out = append(out, Attendee{Attendance: a, Registration: reg})
	}
	return out, nil
}
