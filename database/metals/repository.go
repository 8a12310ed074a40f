package metals

import (
	"errors"
	"strings"

	"metal-risk-engine/database"
	models "metal-risk-engine/database/models_pkg"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository handles database operations for the instrument registry
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new metals repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Register inserts an instrument if the symbol is absent, otherwise leaves
// the existing row untouched (ON CONFLICT DO NOTHING). The instrument's
// identity is returned either way, so Register is safe to call repeatedly.
func (r *Repository) Register(symbol, name, ticker, marketType string) (*models.Metal, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, database.NewValidationError("symbol", "must not be empty")
	}
	if ticker == "" {
		return nil, database.NewValidationError("yfinance_ticker", "must not be empty")
	}

	metal := models.Metal{
		Symbol:         symbol,
		Name:           name,
		YFinanceTicker: ticker,
		MarketType:     marketType,
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}},
		DoNothing: true,
	}).Create(&metal).Error
	if err != nil {
		return nil, database.TranslateWriteError("Register", err)
	}

	// A conflict leaves the struct without a generated key, re-read to
	// return the row that actually owns the symbol.
	return r.Lookup(symbol)
}

// Lookup retrieves an instrument by symbol
func (r *Repository) Lookup(symbol string) (*models.Metal, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	var metal models.Metal
	err := r.db.Where("symbol = ?", symbol).First(&metal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, database.NewNotFoundErrorWithID("metal", symbol)
	}
	if err != nil {
		return nil, database.WrapDBError("Lookup", err)
	}
	return &metal, nil
}

// List returns all registered instruments ordered by id
func (r *Repository) List() ([]models.Metal, error) {
	var all []models.Metal
	if err := r.db.Order("metal_id ASC").Find(&all).Error; err != nil {
		return nil, database.WrapDBError("List", err)
	}
	return all, nil
}

// Delete removes an instrument by symbol. The foreign keys cascade, so every
// price, feature, and risk-event row owned by the instrument goes with it.
// Destructive and irreversible; callers confirm upstream.
func (r *Repository) Delete(symbol string) error {
	metal, err := r.Lookup(symbol)
	if err != nil {
		return err
	}
	if err := r.db.Delete(metal).Error; err != nil {
		return database.TranslateWriteError("Delete", err)
	}
	return nil
}
