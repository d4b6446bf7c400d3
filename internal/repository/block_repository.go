package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/community_scheduler/internal/model"
	"github.com/Freeeeeet/community_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

type BlockRepository struct {
	*base.Repository
}

func NewBlockRepository(db *base.Repository) *BlockRepository {
	return &BlockRepository{Repository: db}
}

const blockColumns = `id, service_id, block_date, start_min, end_min, is_available, created_at`

// blockRow промежуточные значения колонок blocks до преобразования в модель
type blockRow struct {
	id          int64
	serviceID   int64
	date        time.Time
	start, end  int
	isAvailable bool
	createdAt   time.Time
}

func (r *blockRow) targets() []any {
	return []any{&r.id, &r.serviceID, &r.date, &r.start, &r.end, &r.isAvailable, &r.createdAt}
}

func (r *blockRow) block() *model.Block {
	return &model.Block{
		ID:          r.id,
		ServiceID:   r.serviceID,
		Date:        model.DateOf(r.date),
		StartTime:   model.TimeOfDay(r.start),
		EndTime:     model.TimeOfDay(r.end),
		IsAvailable: r.isAvailable,
		CreatedAt:   r.createdAt,
	}
}

func scanBlock(row pgx.Row) (*model.Block, error) {
	var br blockRow
	if err := row.Scan(br.targets()...); err != nil {
		return nil, err
	}
	return br.block(), nil
}

// prefixed добавляет алиас таблицы к списку колонок
func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, p := range parts {
		parts[i] = alias + "." + p
	}
	return strings.Join(parts, ", ")
}

func collectBlocks(rows pgx.Rows) ([]*model.Block, error) {
	defer rows.Close()

	var blocks []*model.Block
	for rows.Next() {
		block, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan block: %w", err)
		}
		blocks = append(blocks, block)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blocks: %w", err)
	}
	return blocks, nil
}

// Create создаёт новый блок. Пересечение с другим блоком отсекается exclusion constraint.
func (r *BlockRepository) Create(ctx context.Context, block *model.Block) error {
	query := `
		INSERT INTO blocks (service_id, block_date, start_min, end_min, is_available)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		block.ServiceID,
		block.Date.Time(),
		int(block.StartTime),
		int(block.EndTime),
		block.IsAvailable,
	).Scan(&block.ID, &block.CreatedAt)

	if err != nil {
		if base.IsConstraint(err, base.CodeExclusionViolation) {
			return model.ErrOverlapConflict
		}
		return fmt.Errorf("create block: %w", err)
	}

	return nil
}

// GetByID получает блок по ID
func (r *BlockRepository) GetByID(ctx context.Context, id int64) (*model.Block, error) {
	query := `SELECT ` + blockColumns + ` FROM blocks WHERE id = $1`

	block, err := scanBlock(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get block by id: %w", err)
	}

	return block, nil
}

// GetByServiceAndDate получает все блоки услуги за день
func (r *BlockRepository) GetByServiceAndDate(ctx context.Context, serviceID int64, date model.Date) ([]*model.Block, error) {
	query := `
		SELECT ` + blockColumns + `
		FROM blocks
		WHERE service_id = $1 AND block_date = $2
		ORDER BY start_min
	`

	rows, err := r.Query(ctx, query, serviceID, date.Time())
	if err != nil {
		return nil, fmt.Errorf("get blocks by service and date: %w", err)
	}

	return collectBlocks(rows)
}

// GetByService получает блоки услуги в диапазоне дат включительно
func (r *BlockRepository) GetByService(ctx context.Context, serviceID int64, from, to model.Date) ([]*model.Block, error) {
	query := `
		SELECT ` + blockColumns + `
		FROM blocks
		WHERE service_id = $1
		  AND block_date >= $2
		  AND block_date <= $3
		ORDER BY block_date, start_min
	`

	rows, err := r.Query(ctx, query, serviceID, from.Time(), to.Time())
	if err != nil {
		return nil, fmt.Errorf("get blocks by service: %w", err)
	}

	return collectBlocks(rows)
}

// UpdateIfAvailable меняет дату и время блока только если он свободен.
// Возвращает false если блок занят или удалён.
func (r *BlockRepository) UpdateIfAvailable(ctx context.Context, block *model.Block) (bool, error) {
	query := `
		UPDATE blocks
		SET block_date = $1, start_min = $2, end_min = $3
		WHERE id = $4 AND is_available = TRUE
	`

	affected, err := r.ExecAffected(ctx, query, block.Date.Time(), int(block.StartTime), int(block.EndTime), block.ID)
	if err != nil {
		if base.IsConstraint(err, base.CodeExclusionViolation) {
			return false, model.ErrOverlapConflict
		}
		return false, fmt.Errorf("update block: %w", err)
	}

	return affected > 0, nil
}

// DeleteIfAvailable удаляет блок только если на него нет записи
func (r *BlockRepository) DeleteIfAvailable(ctx context.Context, id int64) (bool, error) {
	query := `DELETE FROM blocks WHERE id = $1 AND is_available = TRUE`

	affected, err := r.ExecAffected(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete block: %w", err)
	}

	return affected > 0, nil
}

// SetAvailability безусловно меняет флаг доступности
func (r *BlockRepository) SetAvailability(ctx context.Context, id int64, available bool) error {
	query := `UPDATE blocks SET is_available = $1 WHERE id = $2`

	affected, err := r.ExecAffected(ctx, query, available, id)
	if err != nil {
		return fmt.Errorf("set block availability: %w", err)
	}

	if affected == 0 {
		return model.ErrBlockNotFound
	}

	return nil
}

// CompareAndSetAvailability меняет флаг только если текущее значение равно expected.
// Ровно один из конкурирующих вызовов получит true.
func (r *BlockRepository) CompareAndSetAvailability(ctx context.Context, id int64, expected, available bool) (bool, error) {
	query := `
		UPDATE blocks
		SET is_available = $1
		WHERE id = $2 AND is_available = $3
	`

	affected, err := r.ExecAffected(ctx, query, available, id, expected)
	if err != nil {
		return false, fmt.Errorf("compare and set block availability: %w", err)
	}

	return affected > 0, nil
}
