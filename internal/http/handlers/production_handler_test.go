package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tbourn/go-dairy-backend/internal/domain"
)

func recordMilk(r *gin.Engine, user, cattleID, date, session, qty string) int {
	w := doJSON(r, http.MethodPost, "/production", user, gin.H{
		"cattle_id": cattleID,
		"date":      date,
		"session":   session,
		"quantity":  qty,
	})
	return w.Code
}

func TestCreateProduction_DuplicateTriple(t *testing.T) {
	r, _ := newTestRouter(t)
	id := createCattleVia(t, r, "u1", "NL-201")

	if code := recordMilk(r, "u1", id, "2026-03-15", "morning", "17.5"); code != http.StatusCreated {
		t.Fatalf("first record -> %d", code)
	}
	// same cattle, date and session again
	w := doJSON(r, http.MethodPost, "/production", "u1", gin.H{
		"cattle_id": id, "date": "2026-03-15", "session": "morning", "quantity": "18.0",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate -> %d; want 409", w.Code)
	}
	var er ErrorResponse
	decode(t, w, &er)
	if er.Code != ErrCodeDuplicateRecord {
		t.Fatalf("error code = %q; want %q", er.Code, ErrCodeDuplicateRecord)
	}

	// a different session on the same day is fine
	if code := recordMilk(r, "u1", id, "2026-03-15", "evening", "12.0"); code != http.StatusCreated {
		t.Fatalf("evening record -> %d", code)
	}
}

func TestCreateProduction_Validation(t *testing.T) {
	r, _ := newTestRouter(t)
	id := createCattleVia(t, r, "u1", "NL-202")

	t.Run("unknown session", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/production", "u1", gin.H{
			"cattle_id": id, "date": "2026-03-15", "session": "midnight", "quantity": "5",
		})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("bad session -> %d", w.Code)
		}
	})

	t.Run("negative quantity", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/production", "u1", gin.H{
			"cattle_id": id, "date": "2026-03-15", "session": "morning", "quantity": "-1",
		})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("negative quantity -> %d", w.Code)
		}
	})

	t.Run("malformed date", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/production", "u1", gin.H{
			"cattle_id": id, "date": "15/03/2026", "session": "morning", "quantity": "5",
		})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("bad date -> %d", w.Code)
		}
	})

	t.Run("foreign cattle", func(t *testing.T) {
		other := createCattleVia(t, r, "u2", "NL-203")
		w := doJSON(r, http.MethodPost, "/production", "u1", gin.H{
			"cattle_id": other, "date": "2026-03-15", "session": "morning", "quantity": "5",
		})
		if w.Code != http.StatusNotFound {
			t.Fatalf("foreign cattle -> %d; want 404", w.Code)
		}
	})

	t.Run("nonexistent cattle", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/production", "u1", gin.H{
			"cattle_id": uuid.NewString(), "date": "2026-03-15", "session": "morning", "quantity": "5",
		})
		if w.Code != http.StatusNotFound {
			t.Fatalf("nonexistent cattle -> %d; want 404", w.Code)
		}
	})
}

func TestProduction_UpdateAndDelete(t *testing.T) {
	r, _ := newTestRouter(t)
	id := createCattleVia(t, r, "u1", "NL-204")

	w := doJSON(r, http.MethodPost, "/production", "u1", gin.H{
		"cattle_id": id, "date": "2026-03-15", "session": "morning", "quantity": "17.5",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("record -> %d", w.Code)
	}
	var rec domain.MilkProduction
	decode(t, w, &rec)

	// correct the measurement
	w = doJSON(r, http.MethodPut, "/production/"+rec.ID, "u1", gin.H{
		"quantity": "16.0", "notes": "remeasured",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update -> %d body=%s", w.Code, w.Body.String())
	}
	var updated domain.MilkProduction
	decode(t, w, &updated)
	if updated.Quantity.String() != "16" || updated.Notes != "remeasured" {
		t.Fatalf("update unexpected: %+v", updated)
	}

	// remove frees the (cattle, date, session) triple
	if w = doJSON(r, http.MethodDelete, "/production/"+rec.ID, "u1", nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete -> %d", w.Code)
	}
	if code := recordMilk(r, "u1", id, "2026-03-15", "morning", "10"); code != http.StatusCreated {
		t.Fatalf("re-record after delete -> %d", code)
	}
}

func TestListProduction_DateWindow(t *testing.T) {
	r, _ := newTestRouter(t)
	id := createCattleVia(t, r, "u1", "NL-205")
	recordMilk(r, "u1", id, "2026-03-10", "morning", "10")
	recordMilk(r, "u1", id, "2026-03-15", "morning", "12")
	recordMilk(r, "u1", id, "2026-03-20", "morning", "14")

	w := doJSON(r, http.MethodGet, "/production?from=2026-03-12&to=2026-03-18", "u1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list -> %d", w.Code)
	}
	var resp ListProductionResponse
	decode(t, w, &resp)
	if resp.Pagination.Total != 1 {
		t.Fatalf("window should keep one record, got %d", resp.Pagination.Total)
	}

	if w = doJSON(r, http.MethodGet, "/production?from=bad-date", "u1", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("bad from -> %d", w.Code)
	}
}
