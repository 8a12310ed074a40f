package database

import (
	"fmt"

	"gorm.io/gorm/clause"
)

// SchemaRepository handles schema migration and seed data
type SchemaRepository struct {
	db *Database
}

// NewSchemaRepository creates a new schema repository
func NewSchemaRepository(db *Database) *SchemaRepository {
	return &SchemaRepository{db: db}
}

// SeedSet returns the instrument registry seed rows. A fresh slice every
// call, GORM writes generated keys back into whatever it inserts.
func SeedSet() []Metal {
	return []Metal{
		{Symbol: "GOLD", Name: "Gold", YFinanceTicker: "GC=F", MarketType: "precious"},
		{Symbol: "SILVER", Name: "Silver", YFinanceTicker: "SI=F", MarketType: "precious"},
		{Symbol: "COPPER", Name: "Copper", YFinanceTicker: "HG=F", MarketType: "industrial"},
	}
}

// InitSchema performs auto-migration of all five tables and seeds the
// instrument registry. Unique indexes, secondary indexes, check constraints,
// and cascade foreign keys are all declared on the model tags, so
// AutoMigrate carries the whole schema.
func (r *SchemaRepository) InitSchema() error {
	fmt.Println("🔄 Starting database schema initialization...")

	err := r.db.db.AutoMigrate(
		&Metal{},
		&PriceData{},
		&MacroData{},
		&TechnicalFeature{},
		&RiskEvent{},
	)
	if err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}

	if err := r.SeedMetals(); err != nil {
		return err
	}

	fmt.Println("✅ Database schema initialization complete")
	return nil
}

// SeedMetals inserts the reference metals with ON CONFLICT (symbol) DO
// NOTHING semantics. Safe to run any number of times.
func (r *SchemaRepository) SeedMetals() error {
	seed := SeedSet()
	res := r.db.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}},
		DoNothing: true,
	}).Create(&seed)
	if res.Error != nil {
		return WrapDBError("SeedMetals", res.Error)
	}

	fmt.Printf("🌱 Metal registry seeded (%d new rows)\n", res.RowsAffected)
	return nil
}
