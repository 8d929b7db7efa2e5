package save_bookings

import (
	"github.com/julianstephens/slotbook/internal/models"
	"github.com/julianstephens/slotbook/internal/submit"
)

// SaveResponse is the only shape the booking widget accepts back.
type SaveResponse struct {
	Success bool `json:"success"`
}

func toBookings(batchID string, entries []submit.Entry) []models.Booking {
	bookings := make([]models.Booking, 0, len(entries))
	for _, e := range entries {
		bookings = append(bookings, models.Booking{
			BatchID:  batchID,
			Date:     e.Date,
			StartMin: e.StartMin,
			EndMin:   e.EndMin,
		})
	}
	return bookings
}
