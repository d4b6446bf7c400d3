package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/community_scheduler/internal/model"
	"github.com/Freeeeeet/community_scheduler/internal/repository/base"
)

type BookingRepository struct {
	*base.Repository
}

func NewBookingRepository(db *base.Repository) *BookingRepository {
	return &BookingRepository{Repository: db}
}

// Create создаёт новую запись на блок
func (r *BookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (block_id, user_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.QueryRow(ctx, query, booking.BlockID, booking.UserID).
		Scan(&booking.ID, &booking.CreatedAt)

	if err != nil {
		if base.IsConstraint(err, base.CodeUniqueViolation) {
			return model.ErrBlockNotAvailable
		}
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

// GetByID получает запись по ID
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	query := `
		SELECT id, block_id, user_id, created_at
		FROM bookings
		WHERE id = $1
	`

	var booking model.Booking
	err := r.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.BlockID,
		&booking.UserID,
		&booking.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	return &booking, nil
}

// GetByBlockID получает активную запись на блок
func (r *BookingRepository) GetByBlockID(ctx context.Context, blockID int64) (*model.Booking, error) {
	query := `
		SELECT id, block_id, user_id, created_at
		FROM bookings
		WHERE block_id = $1
		LIMIT 1
	`

	var booking model.Booking
	err := r.QueryRow(ctx, query, blockID).Scan(
		&booking.ID,
		&booking.BlockID,
		&booking.UserID,
		&booking.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by block: %w", err)
	}

	return &booking, nil
}

// GetByUserID получает все записи пользователя вместе с блоками
func (r *BookingRepository) GetByUserID(ctx context.Context, userID string) ([]*model.Booking, error) {
	query := `
		SELECT bk.id, bk.block_id, bk.user_id, bk.created_at,
		       ` + prefixed("b", blockColumns) + `
		FROM bookings bk
		JOIN blocks b ON b.id = bk.block_id
		WHERE bk.user_id = $1
		ORDER BY b.block_date, b.start_min
	`

	rows, err := r.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get bookings by user: %w", err)
	}
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		var (
			booking model.Booking
			row     blockRow
		)
		err := rows.Scan(append([]any{
			&booking.ID,
			&booking.BlockID,
			&booking.UserID,
			&booking.CreatedAt,
		}, row.targets()...)...)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		booking.Block = row.block()
		bookings = append(bookings, &booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}

	return bookings, nil
}

// Delete удаляет запись. Возвращает false если записи уже нет.
func (r *BookingRepository) Delete(ctx context.Context, id int64) (bool, error) {
	query := `DELETE FROM bookings WHERE id = $1`

	affected, err := r.ExecAffected(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete booking: %w", err)
	}

	return affected > 0, nil
}
