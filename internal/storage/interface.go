package storage

import (
	"context"

	"github.com/julianstephens/slotbook/internal/models"
)

// Provider persists saved bookings.
type Provider interface {
	// Lifecycle
	Init(ctx context.Context) error
	Close() error

	// Bookings
	SaveBookings(ctx context.Context, batchID string, bookings []models.Booking) error
	ListBookings(ctx context.Context, filter Filter) ([]models.Booking, error)

	// Utils
	Describe() string
}

// Filter restricts ListBookings to an inclusive date range. Empty bounds are
// open.
type Filter struct {
	From string
	To   string
}
