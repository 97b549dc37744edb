package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tbourn/go-dairy-backend/internal/domain"
	"github.com/tbourn/go-dairy-backend/internal/repo"
)

func TestEmit_KindDerivesTypeAndPriority(t *testing.T) {
	db := newServiceDB(t)
	svc := &NotificationService{DB: db}

	n, err := svc.Emit(context.Background(), EmitInput{
		Kind:    KindCheckupDue,
		UserID:  "owner-1",
		Message: "checkup tomorrow",
	})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if n.Type != domain.NotificationHealthCheckup {
		t.Fatalf("type = %s, want %s", n.Type, domain.NotificationHealthCheckup)
	}
	if n.Priority != domain.PriorityHigh {
		t.Fatalf("priority = %s, want high", n.Priority)
	}
	if n.Title != "Checkup Due" {
		t.Fatalf("title = %q, want fallback from kind", n.Title)
	}
	if n.IsRead || n.ReadAt != nil {
		t.Fatal("new notification must start unread")
	}
}

func TestEmit_GeneralDefaultsMedium(t *testing.T) {
	db := newServiceDB(t)
	svc := &NotificationService{DB: db}

	n, err := svc.Emit(context.Background(), EmitInput{
		Kind:    KindGeneral,
		UserID:  "owner-1",
		Title:   "Hello",
		Message: "general note",
	})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if n.Priority != domain.PriorityMedium {
		t.Fatalf("priority = %s, want medium", n.Priority)
	}

	if _, err := svc.Emit(context.Background(), EmitInput{
		Kind:     KindGeneral,
		UserID:   "owner-1",
		Message:  "bad",
		Priority: "urgent",
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput for bad priority", err)
	}
}

func TestEmitOnce_SuppressesSameDayDuplicate(t *testing.T) {
	db := newServiceDB(t)
	svc := &NotificationService{DB: db}
	c := seedCattle(t, db, "owner-1", "Bella")
	cattleID := c.ID
	now := day(2026, 3, 15).Add(22 * time.Hour)

	in := EmitInput{
		Kind:     KindProductionAnomaly,
		UserID:   "owner-1",
		CattleID: &cattleID,
		Message:  "production drop",
	}
	first, err := svc.EmitOnce(context.Background(), in, now)
	if err != nil {
		t.Fatalf("EmitOnce: %v", err)
	}
	if first == nil {
		t.Fatal("first emit suppressed")
	}
	// The stored row carries the event clock, not the wall clock, so
	// suppression and the row agree on what day the alert belongs to.
	if !first.CreatedAt.Equal(now.UTC()) {
		t.Fatalf("created_at = %v, want %v", first.CreatedAt, now.UTC())
	}

	second, err := svc.EmitOnce(context.Background(), in, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("EmitOnce rerun: %v", err)
	}
	if second != nil {
		t.Fatal("same-day rerun created a duplicate")
	}

	count, err := repo.CountNotifications(context.Background(), db, "owner-1")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}

	// Next calendar day the condition alerts again.
	third, err := svc.EmitOnce(context.Background(), in, now.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("EmitOnce next day: %v", err)
	}
	if third == nil {
		t.Fatal("next-day emit suppressed")
	}
}

func TestMarkRead_Idempotent(t *testing.T) {
	db := newServiceDB(t)
	svc := &NotificationService{DB: db}

	n, err := svc.Emit(context.Background(), EmitInput{
		Kind: KindGeneral, UserID: "owner-1", Title: "note", Message: "m",
	})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}

	if err := svc.MarkRead(context.Background(), "owner-1", n.ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	got, err := repo.GetNotification(context.Background(), db, n.ID, "owner-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.IsRead || got.ReadAt == nil {
		t.Fatal("not marked read")
	}
	stamped := *got.ReadAt

	time.Sleep(10 * time.Millisecond)
	if err := svc.MarkRead(context.Background(), "owner-1", n.ID); err != nil {
		t.Fatalf("MarkRead rerun: %v", err)
	}
	again, err := repo.GetNotification(context.Background(), db, n.ID, "owner-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !again.ReadAt.Equal(stamped) {
		t.Fatalf("read timestamp moved: %v -> %v", stamped, *again.ReadAt)
	}
}

func TestMarkRead_ForeignLooksMissing(t *testing.T) {
	db := newServiceDB(t)
	svc := &NotificationService{DB: db}

	n, err := svc.Emit(context.Background(), EmitInput{
		Kind: KindGeneral, UserID: "owner-1", Title: "note", Message: "m",
	})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}

	err = svc.MarkRead(context.Background(), "owner-2", n.ID)
	if !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("err = %v, want ErrNotificationNotFound", err)
	}

	got, err := repo.GetNotification(context.Background(), db, n.ID, "owner-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.IsRead {
		t.Fatal("foreign mark mutated the row")
	}
}

func TestMarkAllRead(t *testing.T) {
	db := newServiceDB(t)
	svc := &NotificationService{DB: db}

	for i := 0; i < 3; i++ {
		if _, err := svc.Emit(context.Background(), EmitInput{
			Kind: KindGeneral, UserID: "owner-1", Title: "note", Message: "m",
		}); err != nil {
			t.Fatalf("Emit: %v", err)
		}
	}
	if _, err := svc.Emit(context.Background(), EmitInput{
		Kind: KindGeneral, UserID: "owner-2", Title: "other", Message: "m",
	}); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	marked, err := svc.MarkAllRead(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("MarkAllRead: %v", err)
	}
	if marked != 3 {
		t.Fatalf("marked = %d, want 3", marked)
	}

	unread, err := svc.UnreadCount(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("UnreadCount: %v", err)
	}
	if unread != 0 {
		t.Fatalf("unread = %d, want 0", unread)
	}

	// The other user's notification is untouched.
	other, err := svc.UnreadCount(context.Background(), "owner-2")
	if err != nil {
		t.Fatalf("UnreadCount: %v", err)
	}
	if other != 1 {
		t.Fatalf("other unread = %d, want 1", other)
	}

	// Re-running on an all-read set marks nothing.
	marked, err = svc.MarkAllRead(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("MarkAllRead rerun: %v", err)
	}
	if marked != 0 {
		t.Fatalf("rerun marked = %d, want 0", marked)
	}
}

func TestDeleteNotification(t *testing.T) {
	db := newServiceDB(t)
	svc := &NotificationService{DB: db}

	n, err := svc.Emit(context.Background(), EmitInput{
		Kind: KindGeneral, UserID: "owner-1", Title: "note", Message: "m",
	})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}

	if err := svc.Delete(context.Background(), "owner-2", n.ID); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("foreign delete err = %v, want ErrNotificationNotFound", err)
	}
	if err := svc.Delete(context.Background(), "owner-1", n.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(context.Background(), "owner-1", n.ID); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotificationNotFound", err)
	}
}
