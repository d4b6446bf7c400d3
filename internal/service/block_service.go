package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/community_scheduler/internal/model"
	"go.uber.org/zap"
)

// BlockService управляет блоками доступности услуг
type BlockService struct {
	tx          Transactor
	blockRepo   BlockStore
	serviceRepo ServiceStore
	notifier    Notifier
	logger      *zap.Logger
}

func NewBlockService(
	tx Transactor,
	blockRepo BlockStore,
	serviceRepo ServiceStore,
	notifier Notifier,
	logger *zap.Logger,
) *BlockService {
	return &BlockService{
		tx:          tx,
		blockRepo:   blockRepo,
		serviceRepo: serviceRepo,
		notifier:    notifier,
		logger:      logger,
	}
}

func validateRange(start, end model.TimeOfDay) error {
	if !start.Valid() || end <= 0 || end > model.EndOfDay {
		return fmt.Errorf("%w: %s-%s is outside of the day", model.ErrInvalidRange, start, end)
	}
	if start >= end {
		return fmt.Errorf("%w: got %s-%s", model.ErrInvalidRange, start, end)
	}
	return nil
}

// checkOverlap ищет пересечение с другими блоками услуги в тот же день
func (s *BlockService) checkOverlap(ctx context.Context, candidate *model.Block) error {
	existing, err := s.blockRepo.GetByServiceAndDate(ctx, candidate.ServiceID, candidate.Date)
	if err != nil {
		return fmt.Errorf("get blocks of day: %w", err)
	}

	for _, other := range existing {
		if other.ID == candidate.ID {
			continue
		}
		if candidate.Overlaps(other) {
			return fmt.Errorf("%w: %s %s-%s intersects block %d (%s-%s)",
				model.ErrOverlapConflict, candidate.Date, candidate.StartTime, candidate.EndTime,
				other.ID, other.StartTime, other.EndTime)
		}
	}

	return nil
}

// CreateBlock создаёт свободный блок для услуги
func (s *BlockService) CreateBlock(ctx context.Context, serviceID int64, date model.Date, start, end model.TimeOfDay) (*model.Block, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}

	svc, err := s.serviceRepo.GetByID(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("get service: %w", err)
	}

	if svc == nil {
		return nil, model.ErrServiceNotFound
	}

	if !svc.IsActive {
		return nil, model.ErrServiceInactive
	}

	block := &model.Block{
		ServiceID:   serviceID,
		Date:        date,
		StartTime:   start,
		EndTime:     end,
		IsAvailable: true,
	}

	if err := s.checkOverlap(ctx, block); err != nil {
		return nil, err
	}

	// Параллельное создание пересекающегося блока отсекается ограничением в БД
	if err := s.blockRepo.Create(ctx, block); err != nil {
		if errors.Is(err, model.ErrOverlapConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("create block: %w", err)
	}

	s.logger.Info("Block created",
		zap.Int64("block_id", block.ID),
		zap.Int64("service_id", serviceID),
		zap.Stringer("date", date),
		zap.Stringer("start", start),
		zap.Stringer("end", end),
	)

	return block, nil
}

// UpdateBlock меняет дату и/или время свободного блока
func (s *BlockService) UpdateBlock(ctx context.Context, blockID int64, upd model.BlockUpdate) (*model.Block, error) {
	block, err := s.blockRepo.GetByID(ctx, blockID)
	if err != nil {
		return nil, fmt.Errorf("get block: %w", err)
	}

	if block == nil {
		return nil, model.ErrBlockNotFound
	}

	// Время занятого блока не меняем: записавшийся пользователь рассчитывает на него
	if !block.IsAvailable {
		return nil, model.ErrBlockOccupied
	}

	updated := *block
	if upd.Date != nil {
		updated.Date = *upd.Date
	}
	if upd.StartTime != nil {
		updated.StartTime = *upd.StartTime
	}
	if upd.EndTime != nil {
		updated.EndTime = *upd.EndTime
	}

	if err := validateRange(updated.StartTime, updated.EndTime); err != nil {
		return nil, err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.checkOverlap(ctx, &updated); err != nil {
			return err
		}

		ok, err := s.blockRepo.UpdateIfAvailable(ctx, &updated)
		if err != nil {
			if errors.Is(err, model.ErrOverlapConflict) {
				return err
			}
			return fmt.Errorf("update block: %w", err)
		}

		// Блок заняли или удалили между чтением и записью
		if !ok {
			return s.explainMissedWrite(ctx, blockID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Block updated",
		zap.Int64("block_id", blockID),
		zap.Stringer("date", updated.Date),
		zap.Stringer("start", updated.StartTime),
		zap.Stringer("end", updated.EndTime),
	)

	return &updated, nil
}

// DeleteBlock удаляет свободный блок. Запись на занятый блок нужно сначала отменить.
func (s *BlockService) DeleteBlock(ctx context.Context, blockID int64) error {
	ok, err := s.blockRepo.DeleteIfAvailable(ctx, blockID)
	if err != nil {
		return fmt.Errorf("delete block: %w", err)
	}

	if !ok {
		return s.explainMissedWrite(ctx, blockID)
	}

	s.logger.Info("Block deleted", zap.Int64("block_id", blockID))

	event := model.NewEvent(model.EventBlockDeleted, fmt.Sprintf("Block %d deleted", blockID))
	event.BlockID = blockID
	s.notifier.Notify(ctx, event)

	return nil
}

// SetAvailability безусловно меняет флаг доступности. Используется только BookingService.
func (s *BlockService) SetAvailability(ctx context.Context, blockID int64, available bool) error {
	if err := s.blockRepo.SetAvailability(ctx, blockID, available); err != nil {
		return fmt.Errorf("set availability: %w", err)
	}

	s.logger.Debug("Block availability changed",
		zap.Int64("block_id", blockID),
		zap.Bool("is_available", available),
	)

	return nil
}

// Reserve условно переводит свободный блок в занятый.
// Возвращает false если блок уже занят или удалён.
func (s *BlockService) Reserve(ctx context.Context, blockID int64) (bool, error) {
	ok, err := s.blockRepo.CompareAndSetAvailability(ctx, blockID, true, false)
	if err != nil {
		return false, fmt.Errorf("reserve block: %w", err)
	}
	return ok, nil
}

// ListBlocks возвращает блоки услуги в диапазоне дат
func (s *BlockService) ListBlocks(ctx context.Context, serviceID int64, from, to model.Date) ([]*model.Block, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: %s is before %s", model.ErrInvalidRange, to, from)
	}
	return s.blockRepo.GetByService(ctx, serviceID, from, to)
}

// GetBlock получает блок по ID
func (s *BlockService) GetBlock(ctx context.Context, blockID int64) (*model.Block, error) {
	block, err := s.blockRepo.GetByID(ctx, blockID)
	if err != nil {
		return nil, fmt.Errorf("get block: %w", err)
	}
	if block == nil {
		return nil, model.ErrBlockNotFound
	}
	return block, nil
}

// explainMissedWrite определяет, почему условная запись не затронула строк
func (s *BlockService) explainMissedWrite(ctx context.Context, blockID int64) error {
	block, err := s.blockRepo.GetByID(ctx, blockID)
	if err != nil {
		return fmt.Errorf("get block: %w", err)
	}

	if block == nil {
		return model.ErrBlockNotFound
	}

	return model.ErrBlockOccupied
}
