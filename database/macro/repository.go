// Package macro implements the Macro Store writer. Macro rows are global:
// the date alone is the unique key, no instrument is involved. The duplicate
// policy pairs with the price store: single appends reject, batch ingestion
// is first-write-wins.
package macro

import (
	"errors"
	"time"

	"metal-risk-engine/database"
	models "metal-risk-engine/database/models_pkg"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository handles database operations for macroeconomic indicators
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new macro repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Validate checks the per-field sign constraints on whatever indicators are
// present. All indicator columns are optional.
func Validate(row *models.MacroData) error {
	if row.Date.IsZero() {
		return database.NewValidationError("date", "must be set")
	}
	if row.USDIndex != nil && *row.USDIndex <= 0 {
		return database.NewValidationErrorWithValue("usd_index", "must be strictly positive", *row.USDIndex)
	}
	if row.VIX != nil && *row.VIX < 0 {
		return database.NewValidationErrorWithValue("vix", "must be non-negative", *row.VIX)
	}
	if row.TreasuryYield10Y != nil && *row.TreasuryYield10Y < 0 {
		return database.NewValidationErrorWithValue("treasury_yield_10y", "must be non-negative", *row.TreasuryYield10Y)
	}
	if row.SP500Close != nil && *row.SP500Close <= 0 {
		return database.NewValidationErrorWithValue("sp500_close", "must be strictly positive", *row.SP500Close)
	}
	return nil
}

// AppendMacro persists a single day of indicators. A duplicate date is
// rejected with a ConstraintError.
func (r *Repository) AppendMacro(row *models.MacroData) error {
	if err := Validate(row); err != nil {
		return err
	}
	if err := r.db.Create(row).Error; err != nil {
		return database.TranslateWriteError("AppendMacro", err)
	}
	return nil
}

// AppendBatch persists a batch of macro rows, first write wins on the date
// key. Validates everything up front; returns the inserted count.
func (r *Repository) AppendBatch(rows []models.MacroData) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	for i := range rows {
		if err := Validate(&rows[i]); err != nil {
			return 0, err
		}
	}

	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoNothing: true,
	}).CreateInBatches(rows, 500)
	if res.Error != nil {
		return 0, database.TranslateWriteError("AppendBatch", res.Error)
	}
	return res.RowsAffected, nil
}

// Range returns macro rows within [from, to] ascending by date.
func (r *Repository) Range(from, to time.Time) ([]models.MacroData, error) {
	var rows []models.MacroData
	err := r.db.Where("date >= ? AND date <= ?", from, to).
		Order("date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, database.WrapDBError("Range", err)
	}
	return rows, nil
}

// ByDate returns the indicators for one calendar date.
func (r *Repository) ByDate(date time.Time) (*models.MacroData, error) {
	var row models.MacroData
	err := r.db.Where("date = ?", date).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, database.NewNotFoundErrorWithID("macroeconomic_data", date.Format("2006-01-02"))
	}
	if err != nil {
		return nil, database.WrapDBError("ByDate", err)
	}
	return &row, nil
}
