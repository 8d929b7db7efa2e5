package save_bookings

import (
	"context"

	"github.com/julianstephens/slotbook/internal/models"
)

type BookingStore interface {
	SaveBookings(ctx context.Context, batchID string, bookings []models.Booking) error
}

type SaveRecorder interface {
	ObserveSave(result string, bookings int)
}
