package repo

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-dairy-backend/internal/domain"
)

// newRepoDB opens a throwaway file-backed SQLite database with the full
// schema migrated. Shared by all repo tests in this package.
func newRepoDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("repo_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")

	// Ensure the file handle is released before TempDir cleanup (Windows needs this).
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// day is shorthand for a date-valued timestamp (midnight UTC).
func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// seedCattle inserts an active animal for ownerID and returns it.
func seedCattle(t *testing.T, db *gorm.DB, ownerID, name string) *domain.Cattle {
	t.Helper()
	c := &domain.Cattle{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        name,
		TagNumber:   "TAG-" + uuid.NewString()[:8],
		Breed:       "Holstein",
		DateOfBirth: day(2021, 3, 1),
		Gender:      "F",
		Weight:      dec("420.00"),
		Status:      domain.CattleStatusActive,
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("seed cattle %s: %v", name, err)
	}
	return c
}

// seedProduction inserts one production row.
func seedProduction(t *testing.T, db *gorm.DB, cattleID string, date time.Time, session, qty string) {
	t.Helper()
	p := &domain.MilkProduction{
		ID:         uuid.NewString(),
		CattleID:   cattleID,
		Date:       date,
		Session:    session,
		Quantity:   dec(qty),
		RecordedBy: "seed",
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed production %s %s: %v", date.Format("2006-01-02"), session, err)
	}
}

func TestOpenSQLite_MissingParentDir(t *testing.T) {
	if _, err := OpenSQLite(filepath.Join(t.TempDir(), "nope", "app.db")); err == nil {
		t.Fatalf("expected error for missing parent directory")
	}
}

func TestOpenSQLite_CreatesAndMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")
	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	if !db.Migrator().HasTable(&domain.Notification{}) {
		t.Fatalf("expected notifications table after migrate")
	}
	// Smoke write through the migrated schema.
	if _, err := CreateCattle(context.Background(), db, &domain.Cattle{
		OwnerID: "u1", Name: "Smoke", TagNumber: "SMOKE1", Breed: "Jersey",
		DateOfBirth: day(2022, 1, 1), Gender: "F", Weight: dec("300.00"),
	}); err != nil {
		t.Fatalf("create cattle on migrated schema: %v", err)
	}
}
