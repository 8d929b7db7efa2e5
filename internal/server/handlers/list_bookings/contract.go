package list_bookings

import (
	"context"

	"github.com/julianstephens/slotbook/internal/models"
	"github.com/julianstephens/slotbook/internal/storage"
)

type BookingStore interface {
	ListBookings(ctx context.Context, filter storage.Filter) ([]models.Booking, error)
}
