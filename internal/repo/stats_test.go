package repo

import (
	"context"
	"testing"

	"github.com/tbourn/go-dairy-backend/internal/domain"
)

func TestProductionSum_WindowAndScope(t *testing.T) {
	db := newRepoDB(t)
	cow := seedCattle(t, db, "u1", "Bella")
	other := seedCattle(t, db, "u2", "Foreign")

	seedProduction(t, db, cow.ID, day(2024, 1, 1), domain.SessionMorning, "12.50")
	seedProduction(t, db, cow.ID, day(2024, 1, 1), domain.SessionEvening, "7.50")
	seedProduction(t, db, cow.ID, day(2024, 1, 3), domain.SessionMorning, "10.00")
	seedProduction(t, db, other.ID, day(2024, 1, 1), domain.SessionMorning, "99.00")

	sum, n, err := ProductionSum(context.Background(), db, "u1", "", day(2024, 1, 1), day(2024, 1, 2))
	if err != nil {
		t.Fatalf("ProductionSum: %v", err)
	}
	if !sum.Equal(dec("20")) || n != 2 {
		t.Fatalf("got sum=%s n=%d; want 20, 2", sum, n)
	}

	// start == end covers exactly that single day.
	sum, n, err = ProductionSum(context.Background(), db, "u1", cow.ID, day(2024, 1, 3), day(2024, 1, 3))
	if err != nil {
		t.Fatalf("ProductionSum single day: %v", err)
	}
	if !sum.Equal(dec("10")) || n != 1 {
		t.Fatalf("single day: got sum=%s n=%d; want 10, 1", sum, n)
	}

	// Empty range is zeros, not an error.
	sum, n, err = ProductionSum(context.Background(), db, "u1", "", day(2023, 6, 1), day(2023, 6, 30))
	if err != nil {
		t.Fatalf("ProductionSum empty: %v", err)
	}
	if !sum.IsZero() || n != 0 {
		t.Fatalf("empty range: got sum=%s n=%d; want 0, 0", sum, n)
	}
}

func TestDailyBreakdown_SessionSplit(t *testing.T) {
	db := newRepoDB(t)
	cow := seedCattle(t, db, "u1", "Bella")

	seedProduction(t, db, cow.ID, day(2024, 2, 1), domain.SessionMorning, "8.00")
	seedProduction(t, db, cow.ID, day(2024, 2, 1), domain.SessionAfternoon, "5.00")
	seedProduction(t, db, cow.ID, day(2024, 2, 2), domain.SessionEvening, "6.00")

	rows, err := DailyBreakdown(context.Background(), db, "u1", day(2024, 2, 1), day(2024, 2, 28))
	if err != nil {
		t.Fatalf("DailyBreakdown: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 recorded days, got %d", len(rows))
	}
	d1 := rows[0]
	if !d1.Morning.Equal(dec("8")) || !d1.Afternoon.Equal(dec("5")) || !d1.Evening.IsZero() || !d1.Total.Equal(dec("13")) {
		t.Fatalf("day1 split wrong: %+v", d1)
	}
	d2 := rows[1]
	if !d2.Evening.Equal(dec("6")) || !d2.Total.Equal(dec("6")) {
		t.Fatalf("day2 split wrong: %+v", d2)
	}
}

func TestTopProducers_OrderAndLimit(t *testing.T) {
	db := newRepoDB(t)
	low := seedCattle(t, db, "u1", "Low")
	high := seedCattle(t, db, "u1", "High")
	mid := seedCattle(t, db, "u1", "Mid")

	seedProduction(t, db, low.ID, day(2024, 3, 1), domain.SessionMorning, "5.00")
	seedProduction(t, db, high.ID, day(2024, 3, 1), domain.SessionMorning, "20.00")
	seedProduction(t, db, mid.ID, day(2024, 3, 1), domain.SessionMorning, "10.00")

	top, err := TopProducers(context.Background(), db, "u1", day(2024, 3, 1), day(2024, 3, 31), 2)
	if err != nil {
		t.Fatalf("TopProducers: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected limit 2, got %d", len(top))
	}
	if top[0].CattleID != high.ID || top[1].CattleID != mid.ID {
		t.Fatalf("unexpected order: %+v", top)
	}
	if top[0].Name != "High" || top[0].TagNumber == "" {
		t.Fatalf("expected joined cattle fields, got %+v", top[0])
	}
}

func TestBaselineBefore_AndDayTotal(t *testing.T) {
	db := newRepoDB(t)
	cow := seedCattle(t, db, "u1", "Bella")

	// Ten prior days at 50 L/day, then a crash to 10 on day 11.
	for i := 1; i <= 10; i++ {
		seedProduction(t, db, cow.ID, day(2024, 4, i), domain.SessionMorning, "30.00")
		seedProduction(t, db, cow.ID, day(2024, 4, i), domain.SessionEvening, "20.00")
	}
	crash := day(2024, 4, 11)
	seedProduction(t, db, cow.ID, crash, domain.SessionMorning, "10.00")

	total, days, err := BaselineBefore(context.Background(), db, cow.ID, crash)
	if err != nil {
		t.Fatalf("BaselineBefore: %v", err)
	}
	if !total.Equal(dec("500")) || days != 10 {
		t.Fatalf("got total=%s days=%d; want 500, 10", total, days)
	}

	dt, err := DayTotal(context.Background(), db, cow.ID, crash)
	if err != nil {
		t.Fatalf("DayTotal: %v", err)
	}
	if !dt.Equal(dec("10")) {
		t.Fatalf("DayTotal = %s; want 10", dt)
	}

	// No history before the first record.
	total, days, err = BaselineBefore(context.Background(), db, cow.ID, day(2024, 4, 1))
	if err != nil {
		t.Fatalf("BaselineBefore empty: %v", err)
	}
	if !total.IsZero() || days != 0 {
		t.Fatalf("expected zero baseline before first record, got total=%s days=%d", total, days)
	}
}

func TestCattleProducedOn(t *testing.T) {
	db := newRepoDB(t)
	a := seedCattle(t, db, "u1", "A")
	b := seedCattle(t, db, "u1", "B")
	seedCattle(t, db, "u1", "Idle")

	target := day(2024, 5, 10)
	seedProduction(t, db, a.ID, target, domain.SessionMorning, "9.00")
	seedProduction(t, db, b.ID, target, domain.SessionMorning, "11.00")
	seedProduction(t, db, a.ID, day(2024, 5, 9), domain.SessionMorning, "9.00")

	got, err := CattleProducedOn(context.Background(), db, "", target)
	if err != nil {
		t.Fatalf("CattleProducedOn: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 producing animals, got %d", len(got))
	}
}
