// Package prices implements the Price Store writer and its read paths.
//
// Duplicate policy: AppendObservation REJECTS a second write for the same
// (metal, date) with a ConstraintError, the behavior the unique index gives
// by default. AppendBatch is the bulk-ingestion path and is idempotent with
// first-write-wins semantics (ON CONFLICT DO NOTHING), matching the original
// collection pipeline. Both policies are exercised by tests.
package prices

import (
	"errors"
	"time"

	"metal-risk-engine/database"
	models "metal-risk-engine/database/models_pkg"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository handles database operations for daily price observations
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new prices repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Validate checks the sign invariants of a single observation before it is
// allowed anywhere near the storage engine: all four prices strictly
// positive, volume non-negative when present.
func Validate(obs *models.PriceData) error {
	if obs.MetalID == 0 {
		return database.NewValidationError("metal_id", "must reference a registered metal")
	}
	if obs.Date.IsZero() {
		return database.NewValidationError("date", "must be set")
	}
	if obs.Open <= 0 {
		return database.NewValidationErrorWithValue("open", "must be strictly positive", obs.Open)
	}
	if obs.High <= 0 {
		return database.NewValidationErrorWithValue("high", "must be strictly positive", obs.High)
	}
	if obs.Low <= 0 {
		return database.NewValidationErrorWithValue("low", "must be strictly positive", obs.Low)
	}
	if obs.Close <= 0 {
		return database.NewValidationErrorWithValue("close", "must be strictly positive", obs.Close)
	}
	if obs.Volume != nil && *obs.Volume < 0 {
		return database.NewValidationErrorWithValue("volume", "must be non-negative", *obs.Volume)
	}
	if obs.AdjustedClose != nil && *obs.AdjustedClose <= 0 {
		return database.NewValidationErrorWithValue("adjusted_close", "must be strictly positive", *obs.AdjustedClose)
	}
	return nil
}

// AppendObservation persists a single observation. A duplicate (metal, date)
// key is rejected with a ConstraintError; nothing is persisted on any
// failure.
func (r *Repository) AppendObservation(obs *models.PriceData) error {
	if err := Validate(obs); err != nil {
		return err
	}
	if err := r.db.Create(obs).Error; err != nil {
		return database.TranslateWriteError("AppendObservation", err)
	}
	return nil
}

// AppendBatch persists a batch of observations with first-write-wins
// semantics on the (metal, date) key. The whole batch is validated up front;
// one malformed row rejects the batch before anything is written. Returns
// the number of rows actually inserted (duplicates are skipped silently).
func (r *Repository) AppendBatch(rows []models.PriceData) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	for i := range rows {
		if err := Validate(&rows[i]); err != nil {
			return 0, err
		}
	}

	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "metal_id"}, {Name: "date"}},
		DoNothing: true,
	}).CreateInBatches(rows, 500)
	if res.Error != nil {
		return 0, database.TranslateWriteError("AppendBatch", res.Error)
	}
	return res.RowsAffected, nil
}

// History returns the full price series for one metal ascending by date.
// Window calculations depend on this ordering.
func (r *Repository) History(metalID uint) ([]models.PriceData, error) {
	var series []models.PriceData
	err := r.db.Where("metal_id = ?", metalID).
		Order("date ASC").
		Find(&series).Error
	if err != nil {
		return nil, database.WrapDBError("History", err)
	}
	return series, nil
}

// Range returns one metal's observations within [from, to] ascending by
// date, backed by the (metal_id, date) index.
func (r *Repository) Range(metalID uint, from, to time.Time) ([]models.PriceData, error) {
	var series []models.PriceData
	err := r.db.Where("metal_id = ? AND date >= ? AND date <= ?", metalID, from, to).
		Order("date ASC").
		Find(&series).Error
	if err != nil {
		return nil, database.WrapDBError("Range", err)
	}
	return series, nil
}

// ByDate returns the observations of all metals for one calendar date,
// backed by the date index.
func (r *Repository) ByDate(date time.Time) ([]models.PriceData, error) {
	var rows []models.PriceData
	err := r.db.Where("date = ?", date).
		Order("metal_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, database.WrapDBError("ByDate", err)
	}
	return rows, nil
}

// LatestDate returns the most recent observation date for a metal, so the
// ingestion job can shrink its fetch window. NotFoundError when the metal
// has no observations yet.
func (r *Repository) LatestDate(metalID uint) (time.Time, error) {
	var obs models.PriceData
	err := r.db.Where("metal_id = ?", metalID).
		Order("date DESC").
		First(&obs).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, database.NewNotFoundErrorWithID("price_data", metalID)
	}
	if err != nil {
		return time.Time{}, database.WrapDBError("LatestDate", err)
	}
	return obs.Date, nil
}
