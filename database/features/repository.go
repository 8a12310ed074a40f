// Package features implements the Feature Store writer. Feature rows are
// produced by the calculator from one instrument's trailing price history
// and written idempotently: first write for a (metal, date) key wins,
// re-running a feature pass never mutates rows already on disk.
package features

import (
	"time"

	"metal-risk-engine/database"
	models "metal-risk-engine/database/models_pkg"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository handles database operations for technical features
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new features repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// validate guards the invariants the calculator already promises, so a bug
// there cannot reach the table: RSI in [0,100], range/ratio/volume-SMA
// non-negative.
func validate(row *models.TechnicalFeature) error {
	if row.MetalID == 0 {
		return database.NewValidationError("metal_id", "must reference a registered metal")
	}
	if row.Date.IsZero() {
		return database.NewValidationError("date", "must be set")
	}
	if row.RSI14 != nil && (*row.RSI14 < 0 || *row.RSI14 > 100) {
		return database.NewValidationErrorWithValue("rsi_14", "must lie in [0,100]", *row.RSI14)
	}
	if row.HighLowRange != nil && *row.HighLowRange < 0 {
		return database.NewValidationErrorWithValue("high_low_range", "must be non-negative", *row.HighLowRange)
	}
	if row.HighLowRatio != nil && *row.HighLowRatio < 0 {
		return database.NewValidationErrorWithValue("high_low_ratio", "must be non-negative", *row.HighLowRatio)
	}
	if row.VolumeSMA20 != nil && *row.VolumeSMA20 < 0 {
		return database.NewValidationErrorWithValue("volume_sma_20", "must be non-negative", *row.VolumeSMA20)
	}
	return nil
}

// SaveBatch persists feature rows for one instrument, first write wins on
// the (metal, date) key. Returns the inserted count.
func (r *Repository) SaveBatch(rows []models.TechnicalFeature) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	for i := range rows {
		if err := validate(&rows[i]); err != nil {
			return 0, err
		}
	}

	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "metal_id"}, {Name: "date"}},
		DoNothing: true,
	}).CreateInBatches(rows, 200)
	if res.Error != nil {
		return 0, database.TranslateWriteError("SaveBatch", res.Error)
	}
	return res.RowsAffected, nil
}

// History returns one metal's feature rows ascending by date.
func (r *Repository) History(metalID uint) ([]models.TechnicalFeature, error) {
	var rows []models.TechnicalFeature
	err := r.db.Where("metal_id = ?", metalID).
		Order("date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, database.WrapDBError("History", err)
	}
	return rows, nil
}

// Range returns one metal's feature rows within [from, to] ascending by date.
func (r *Repository) Range(metalID uint, from, to time.Time) ([]models.TechnicalFeature, error) {
	var rows []models.TechnicalFeature
	err := r.db.Where("metal_id = ? AND date >= ? AND date <= ?", metalID, from, to).
		Order("date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, database.WrapDBError("Range", err)
	}
	return rows, nil
}

// CountForMetal returns the number of feature rows stored for a metal.
func (r *Repository) CountForMetal(metalID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.TechnicalFeature{}).
		Where("metal_id = ?", metalID).
		Count(&n).Error
	if err != nil {
		return 0, database.WrapDBError("CountForMetal", err)
	}
	return n, nil
}
