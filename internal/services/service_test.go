package services

import (
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
	"github.com/tbourn/go-dairy-backend/internal/repo"
)

// newServiceDB opens a throwaway file-backed SQLite database with the
// full schema migrated. Shared by all service tests in this package.
func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("svc_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

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
		t.Fatalf("seed production: %v", err)
	}
}
