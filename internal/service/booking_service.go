package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/community_scheduler/internal/model"
	"go.uber.org/zap"
)

// BlockAvailability операции над блоками, которые нужны для записи
type BlockAvailability interface {
	GetBlock(ctx context.Context, blockID int64) (*model.Block, error)
	Reserve(ctx context.Context, blockID int64) (bool, error)
	SetAvailability(ctx context.Context, blockID int64, available bool) error
}

// BookingService записывает пользователей на блоки и отменяет записи
type BookingService struct {
	tx          Transactor
	blocks      BlockAvailability
	bookingRepo BookingStore
	notifier    Notifier
	logger      *zap.Logger
}

func NewBookingService(
	tx Transactor,
	blocks BlockAvailability,
	bookingRepo BookingStore,
	notifier Notifier,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		tx:          tx,
		blocks:      blocks,
		bookingRepo: bookingRepo,
		notifier:    notifier,
		logger:      logger,
	}
}

// Book записывает пользователя на свободный блок.
// Из конкурирующих вызовов на один блок успешен ровно один: блок занимается
// условной записью, и только при её успехе создаётся запись.
func (s *BookingService) Book(ctx context.Context, blockID int64, userID string) (*model.Booking, error) {
	if userID == "" {
		return nil, model.ErrMissingUser
	}

	var (
		booking *model.Booking
		block   *model.Block
	)

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		block, err = s.blocks.GetBlock(ctx, blockID)
		if err != nil {
			if errors.Is(err, model.ErrBlockNotFound) {
				// Удалённый блок недоступен для записи
				return model.ErrBlockNotAvailable
			}
			return err
		}

		existing, err := s.bookingRepo.GetByBlockID(ctx, blockID)
		if err != nil {
			return fmt.Errorf("get booking by block: %w", err)
		}

		if existing != nil && existing.UserID == userID {
			return model.ErrDuplicateBooking
		}

		if !block.IsAvailable {
			return model.ErrBlockNotAvailable
		}

		reserved, err := s.blocks.Reserve(ctx, blockID)
		if err != nil {
			return err
		}

		if !reserved {
			return model.ErrBlockNotAvailable
		}

		booking = &model.Booking{
			BlockID: blockID,
			UserID:  userID,
		}

		if err := s.bookingRepo.Create(ctx, booking); err != nil {
			if errors.Is(err, model.ErrBlockNotAvailable) {
				return err
			}
			return fmt.Errorf("create booking: %w", err)
		}

		return nil
	})

	if err != nil {
		s.logger.Info("Booking rejected",
			zap.Int64("block_id", blockID),
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil, err
	}

	block.IsAvailable = false
	booking.Block = block

	s.logger.Info("Block booked",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("block_id", blockID),
		zap.Int64("service_id", block.ServiceID),
		zap.String("user_id", userID),
	)

	event := model.NewEvent(model.EventBookingCreated,
		fmt.Sprintf("Block %d on %s %s-%s booked", blockID, block.Date, block.StartTime, block.EndTime))
	event.BookingID = booking.ID
	event.BlockID = blockID
	event.ServiceID = block.ServiceID
	event.UserID = userID
	s.notifier.Notify(ctx, event)

	return booking, nil
}

// Cancel удаляет запись и освобождает блок
func (s *BookingService) Cancel(ctx context.Context, bookingID int64) error {
	var booking *model.Booking

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		booking, err = s.bookingRepo.GetByID(ctx, bookingID)
		if err != nil {
			return fmt.Errorf("get booking: %w", err)
		}

		if booking == nil {
			return model.ErrBookingNotFound
		}

		deleted, err := s.bookingRepo.Delete(ctx, bookingID)
		if err != nil {
			return fmt.Errorf("delete booking: %w", err)
		}

		// Запись удалили параллельной отменой
		if !deleted {
			return model.ErrBookingNotFound
		}

		return s.blocks.SetAvailability(ctx, booking.BlockID, true)
	})

	if err != nil {
		return err
	}

	s.logger.Info("Booking canceled",
		zap.Int64("booking_id", bookingID),
		zap.Int64("block_id", booking.BlockID),
		zap.String("user_id", booking.UserID),
	)

	event := model.NewEvent(model.EventBookingCancelled,
		fmt.Sprintf("Booking %d for block %d canceled", bookingID, booking.BlockID))
	event.BookingID = bookingID
	event.BlockID = booking.BlockID
	event.UserID = booking.UserID
	s.notifier.Notify(ctx, event)

	return nil
}

// GetByID получает запись по ID
func (s *BookingService) GetByID(ctx context.Context, bookingID int64) (*model.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, model.ErrBookingNotFound
	}
	return booking, nil
}

// ListUserBookings получает все записи пользователя
func (s *BookingService) ListUserBookings(ctx context.Context, userID string) ([]*model.Booking, error) {
	return s.bookingRepo.GetByUserID(ctx, userID)
}
