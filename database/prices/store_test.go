package prices

import (
	"errors"
	"testing"
	"time"

	"metal-risk-engine/database"
	models "metal-risk-engine/database/models_pkg"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.Metal{}, &models.PriceData{}); err != nil {
		t.Fatalf("migrate test schema: %v", err)
	}
	return db
}

func seedMetal(t *testing.T, db *gorm.DB) models.Metal {
	t.Helper()
	m := models.Metal{Symbol: "GOLD", Name: "Gold", YFinanceTicker: "GC=F", MarketType: "precious"}
	if err := db.Create(&m).Error; err != nil {
		t.Fatalf("seed metal: %v", err)
	}
	return m
}

func observation(metalID uint, date time.Time, close float64) models.PriceData {
	return models.PriceData{
		MetalID: metalID,
		Date:    date,
		Open:    close,
		High:    close * 1.01,
		Low:     close * 0.99,
		Close:   close,
	}
}

func TestAppendObservationRejectsDuplicate(t *testing.T) {
	db := openTestDB(t)
	metal := seedMetal(t, db)
	repo := NewRepository(db)

	date := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	first := observation(metal.MetalID, date, 2058.3)
	if err := repo.AppendObservation(&first); err != nil {
		t.Fatalf("first write: %v", err)
	}

	dup := observation(metal.MetalID, date, 9999)
	err := repo.AppendObservation(&dup)
	if err == nil {
		t.Fatal("second write for the same (metal, date) must be rejected")
	}
	var cerr *database.ConstraintError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *database.ConstraintError, got %T: %v", err, err)
	}
	if !database.IsDuplicateKey(err) {
		t.Errorf("duplicate write not classified as duplicate key: %v", err)
	}

	// The stored row keeps the first write's values.
	history, err := repo.History(metal.MetalID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 stored row, got %d", len(history))
	}
	if history[0].Close != 2058.3 {
		t.Errorf("stored close = %v, want the first write's 2058.3", history[0].Close)
	}
}

func TestAppendBatchFirstWriteWins(t *testing.T) {
	db := openTestDB(t)
	metal := seedMetal(t, db)
	repo := NewRepository(db)

	d := func(n int) time.Time {
		return time.Date(2024, 1, n, 0, 0, 0, 0, time.UTC)
	}

	inserted, err := repo.AppendBatch([]models.PriceData{
		observation(metal.MetalID, d(2), 100),
		observation(metal.MetalID, d(3), 101),
	})
	if err != nil {
		t.Fatalf("initial batch: %v", err)
	}
	if inserted != 2 {
		t.Fatalf("initial batch inserted %d rows, want 2", inserted)
	}

	// Re-run overlapping the second day with changed values plus one new day:
	// only the new day lands, the overlap is skipped silently.
	inserted, err = repo.AppendBatch([]models.PriceData{
		observation(metal.MetalID, d(3), 999),
		observation(metal.MetalID, d(4), 102),
	})
	if err != nil {
		t.Fatalf("overlapping batch: %v", err)
	}
	if inserted != 1 {
		t.Fatalf("overlapping batch inserted %d rows, want 1", inserted)
	}

	history, err := repo.History(metal.MetalID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 stored rows, got %d", len(history))
	}
	if history[1].Close != 101 {
		t.Errorf("overlapped row close = %v, the first write's 101 must survive a re-run", history[1].Close)
	}
}

func TestAppendBatchRejectsWholeBatchOnBadRow(t *testing.T) {
	db := openTestDB(t)
	metal := seedMetal(t, db)
	repo := NewRepository(db)

	bad := observation(metal.MetalID, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), 101)
	bad.Close = 0
	inserted, err := repo.AppendBatch([]models.PriceData{
		observation(metal.MetalID, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), 100),
		bad,
	})
	if err == nil {
		t.Fatal("batch with a malformed row must be rejected")
	}
	if inserted != 0 {
		t.Errorf("rejected batch reported %d inserted rows", inserted)
	}

	history, err := repo.History(metal.MetalID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("rejected batch persisted %d rows, want 0", len(history))
	}
}
