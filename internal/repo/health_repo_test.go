package repo

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-dairy-backend/internal/domain"
)

func seedHealthRecord(t *testing.T, db *gorm.DB, cattleID string, next *time.Time) *domain.HealthRecord {
	t.Helper()
	h := &domain.HealthRecord{
		ID: uuid.NewString(), CattleID: cattleID, RecordType: domain.HealthCheckUp,
		Date: day(2024, 1, 1), Description: "routine", VetName: "Dr. V",
		Cost: dec("40.00"), NextCheckupDate: next, RecordedBy: "seed",
	}
	if err := db.Create(h).Error; err != nil {
		t.Fatalf("seed health record: %v", err)
	}
	return h
}

func TestListCheckupsDueOn_ExactDateOnly(t *testing.T) {
	db := newRepoDB(t)
	cow := seedCattle(t, db, "u1", "Bella")

	due := day(2024, 7, 2)
	today := day(2024, 7, 1)
	dayAfter := day(2024, 7, 3)

	hit := seedHealthRecord(t, db, cow.ID, &due)
	seedHealthRecord(t, db, cow.ID, &today)    // due today, not tomorrow
	seedHealthRecord(t, db, cow.ID, &dayAfter) // two days out
	seedHealthRecord(t, db, cow.ID, nil)       // no checkup scheduled

	got, err := ListCheckupsDueOn(context.Background(), db, due)
	if err != nil {
		t.Fatalf("ListCheckupsDueOn: %v", err)
	}
	if len(got) != 1 || got[0].ID != hit.ID {
		t.Fatalf("expected exactly the record due on %v, got %d rows", due, len(got))
	}
	// The owning animal rides along for the notifier.
	if got[0].Cattle.ID != cow.ID || got[0].Cattle.OwnerID != "u1" {
		t.Fatalf("expected preloaded cattle with owner, got %+v", got[0].Cattle)
	}
}

func TestListCheckupsDueOn_SkipsDeletedCattle(t *testing.T) {
	db := newRepoDB(t)
	cow := seedCattle(t, db, "u1", "Gone")
	due := day(2024, 8, 1)
	seedHealthRecord(t, db, cow.ID, &due)

	if err := DeleteCattle(context.Background(), db, cow.ID, "u1"); err != nil {
		t.Fatalf("delete cattle: %v", err)
	}
	got, err := ListCheckupsDueOn(context.Background(), db, due)
	if err != nil {
		t.Fatalf("ListCheckupsDueOn: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no due checkups for soft-deleted animals, got %d", len(got))
	}
}

func TestHealthRecords_OwnerScopedListAndFilter(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	mine := seedCattle(t, db, "u1", "Mine")
	theirs := seedCattle(t, db, "u2", "Theirs")

	seedHealthRecord(t, db, mine.ID, nil)
	vac := &domain.HealthRecord{
		ID: uuid.NewString(), CattleID: mine.ID, RecordType: domain.HealthVaccination,
		Date: day(2024, 2, 1), Description: "FMD", VetName: "Dr. V",
		Cost: dec("25.00"), RecordedBy: "seed",
	}
	if err := db.Create(vac).Error; err != nil {
		t.Fatalf("seed vaccination: %v", err)
	}
	seedHealthRecord(t, db, theirs.ID, nil)

	all, err := ListHealthRecordsPage(ctx, db, "u1", HealthFilter{}, 0, 10)
	if err != nil || len(all) != 2 {
		t.Fatalf("owner list: rows=%d err=%v; want 2", len(all), err)
	}
	vacs, err := ListHealthRecordsPage(ctx, db, "u1", HealthFilter{RecordType: domain.HealthVaccination}, 0, 10)
	if err != nil || len(vacs) != 1 || vacs[0].ID != vac.ID {
		t.Fatalf("type filter wrong: rows=%d err=%v", len(vacs), err)
	}
	n, err := CountHealthRecords(ctx, db, "u2", HealthFilter{})
	if err != nil || n != 1 {
		t.Fatalf("u2 count = %d, %v; want 1", n, err)
	}
}
