package database

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDatabase opens an in-memory store with foreign-key enforcement on,
// which the cascade behavior depends on.
func openTestDatabase(t *testing.T) *Database {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	return &Database{db: gdb}
}

func TestInitSchemaSeedIdempotent(t *testing.T) {
	db := openTestDatabase(t)
	repo := NewSchemaRepository(db)

	if err := repo.InitSchema(); err != nil {
		t.Fatalf("first init: %v", err)
	}
	if err := repo.InitSchema(); err != nil {
		t.Fatalf("second init: %v", err)
	}

	var n int64
	if err := db.DB().Model(&Metal{}).Count(&n).Error; err != nil {
		t.Fatalf("count metals: %v", err)
	}
	if n != 3 {
		t.Fatalf("registry has %d rows after double seeding, want exactly 3", n)
	}

	var gold Metal
	if err := db.DB().Where("symbol = ?", "GOLD").First(&gold).Error; err != nil {
		t.Fatalf("lookup GOLD: %v", err)
	}
	if gold.YFinanceTicker != "GC=F" {
		t.Errorf("GOLD ticker = %q, want GC=F", gold.YFinanceTicker)
	}
}

func TestDeleteMetalCascades(t *testing.T) {
	db := openTestDatabase(t)
	if err := NewSchemaRepository(db).InitSchema(); err != nil {
		t.Fatalf("init: %v", err)
	}

	var gold Metal
	if err := db.DB().Where("symbol = ?", "GOLD").First(&gold).Error; err != nil {
		t.Fatalf("lookup GOLD: %v", err)
	}

	date := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	rows := []interface{}{
		&PriceData{MetalID: gold.MetalID, Date: date, Open: 2050, High: 2061, Low: 2044, Close: 2058},
		&TechnicalFeature{MetalID: gold.MetalID, Date: date},
		&RiskEvent{MetalID: gold.MetalID, Date: date, PreviousClose: 2000, CurrentClose: 2058},
		&MacroData{Date: date},
	}
	for _, row := range rows {
		if err := db.DB().Create(row).Error; err != nil {
			t.Fatalf("create %T: %v", row, err)
		}
	}

	if err := db.DB().Delete(&gold).Error; err != nil {
		t.Fatalf("delete GOLD: %v", err)
	}

	// Every dependent row goes with the instrument.
	for _, model := range []interface{}{&PriceData{}, &TechnicalFeature{}, &RiskEvent{}} {
		var n int64
		if err := db.DB().Model(model).Where("metal_id = ?", gold.MetalID).Count(&n).Error; err != nil {
			t.Fatalf("count %T: %v", model, err)
		}
		if n != 0 {
			t.Errorf("%T: %d orphaned rows survived the cascade", model, n)
		}
	}

	// Macro rows are global and must not be touched.
	var macroCount int64
	if err := db.DB().Model(&MacroData{}).Count(&macroCount).Error; err != nil {
		t.Fatalf("count macro: %v", err)
	}
	if macroCount != 1 {
		t.Errorf("macro rows = %d after instrument delete, want 1", macroCount)
	}
}
