// Package riskevents implements the Risk Event Store writer.
package riskevents

import (
	"time"

	"metal-risk-engine/database"
	models "metal-risk-engine/database/models_pkg"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository handles database operations for risk-event labels
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new risk-events repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func validate(row *models.RiskEvent) error {
	if row.MetalID == 0 {
		return database.NewValidationError("metal_id", "must reference a registered metal")
	}
	if row.Date.IsZero() {
		return database.NewValidationError("date", "must be set")
	}
	if row.PreviousClose <= 0 {
		return database.NewValidationErrorWithValue("previous_close", "must be strictly positive", row.PreviousClose)
	}
	if row.CurrentClose <= 0 {
		return database.NewValidationErrorWithValue("current_close", "must be strictly positive", row.CurrentClose)
	}
	return nil
}

// SaveBatch persists risk-event labels, first write wins on the
// (metal, date) key. Returns the inserted count.
func (r *Repository) SaveBatch(rows []models.RiskEvent) (int64, error) {
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
	}).CreateInBatches(rows, 500)
	if res.Error != nil {
		return 0, database.TranslateWriteError("SaveBatch", res.Error)
	}
	return res.RowsAffected, nil
}

// ForMetal returns one metal's labels ascending by date, optionally only the
// rows flagged as risk events.
func (r *Repository) ForMetal(metalID uint, onlyEvents bool) ([]models.RiskEvent, error) {
	query := r.db.Where("metal_id = ?", metalID).Order("date ASC")
	if onlyEvents {
		query = query.Where("is_risk_event = ?", true)
	}

	var rows []models.RiskEvent
	if err := query.Find(&rows).Error; err != nil {
		return nil, database.WrapDBError("ForMetal", err)
	}
	return rows, nil
}

// Range returns one metal's labels within [from, to] ascending by date.
func (r *Repository) Range(metalID uint, from, to time.Time) ([]models.RiskEvent, error) {
	var rows []models.RiskEvent
	err := r.db.Where("metal_id = ? AND date >= ? AND date <= ?", metalID, from, to).
		Order("date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, database.WrapDBError("Range", err)
	}
	return rows, nil
}

// Counts returns total labeled days and how many are flagged risk events,
// backed by the is_risk_event index.
func (r *Repository) Counts() (total, flagged int64, err error) {
	if err = r.db.Model(&models.RiskEvent{}).Count(&total).Error; err != nil {
		return 0, 0, database.WrapDBError("Counts", err)
	}
	err = r.db.Model(&models.RiskEvent{}).
		Where("is_risk_event = ?", true).
		Count(&flagged).Error
	if err != nil {
		return 0, 0, database.WrapDBError("Counts", err)
	}
	return total, flagged, nil
}
