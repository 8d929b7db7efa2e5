package storage

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/julianstephens/slotbook/internal/models"
)

var bookingColumns = []string{"id", "batch_id", "date", "start_min", "end_min", "created_at"}

// SaveBookings inserts bookings under batchID in a single transaction.
// Either every booking is stored or none is.
func (s *Store) SaveBookings(ctx context.Context, batchID string, bookings []models.Booking) error {
	if s.db == nil {
		return ErrNotInitialized
	}
	if len(bookings) == 0 {
		return nil
	}

	now := time.Now().Unix()
	insert := s.builder.Insert("bookings").Columns("batch_id", "date", "start_min", "end_min", "created_at")
	for _, b := range bookings {
		insert = insert.Values(batchID, b.Date, b.StartMin, b.EndMin, now)
	}
	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: SaveBookings - build insert query: %v", ErrBuildQuery, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: SaveBookings - begin: %v", ErrTransaction, err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%w: SaveBookings - execute insert: %v", ErrExecQuery, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: SaveBookings - commit: %v", ErrTransaction, err)
	}
	return nil
}

// ListBookings returns stored bookings ordered by date and start.
func (s *Store) ListBookings(ctx context.Context, filter Filter) ([]models.Booking, error) {
	if s.db == nil {
		return nil, ErrNotInitialized
	}

	selectBuilder := s.builder.Select(bookingColumns...).From("bookings")
	if filter.From != "" {
		selectBuilder = selectBuilder.Where(sq.GtOrEq{"date": filter.From})
	}
	if filter.To != "" {
		selectBuilder = selectBuilder.Where(sq.LtOrEq{"date": filter.To})
	}
	selectBuilder = selectBuilder.OrderBy("date ASC", "start_min ASC", "id ASC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBookings - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBookings - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]models.Booking, 0)
	for rows.Next() {
		var b models.Booking
		var createdAt int64
		if err := rows.Scan(&b.ID, &b.BatchID, &b.Date, &b.StartMin, &b.EndMin, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: ListBookings - scan booking: %v", ErrScanRow, err)
		}
		b.CreatedAt = time.Unix(createdAt, 0)
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBookings - rows error: %v", ErrScanRow, err)
	}
	return bookings, nil
}
