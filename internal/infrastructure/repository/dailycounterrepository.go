package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ibis1225/pet-ai/internal/infrastructure/persistence/models"
	db "github.com/ibis1225/pet-ai/internal/shared/db"
)

// DailyCounterRepository issues per-day sequence numbers from the
// daily_counters table.
type DailyCounterRepository struct {
	db *gorm.DB
}

func NewDailyCounterRepository(db *gorm.DB) *DailyCounterRepository {
	return &DailyCounterRepository{db: db}
}

// Increment upserts the row for dateKey and reads the new value back in
// the same transaction. The upsert holds the row lock until commit, so
// concurrent callers observe distinct values.
func (r *DailyCounterRepository) Increment(ctx context.Context, dateKey string) (int64, error) {
	var counter int64
	now := time.Now().UnixMilli()

	err := db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		row := models.DailyCounterModel{DateKey: dateKey, Counter: 1, UpdatedAt: now}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "date_key"}},
			DoUpdates: clause.Assignments(map[string]any{
				"counter":    gorm.Expr("daily_counters.counter + 1"),
				"updated_at": now,
			}),
		}).Create(&row).Error
		if err != nil {
			return err
		}

		return tx.Model(&models.DailyCounterModel{}).
			Select("counter").
			Where("date_key = ?", dateKey).
			Scan(&counter).Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to increment counter %s: %w", dateKey, err)
	}
	return counter, nil
}
