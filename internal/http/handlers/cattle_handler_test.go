package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tbourn/go-dairy-backend/internal/domain"
)

func TestCreateCattle_Validation(t *testing.T) {
	r, _ := newTestRouter(t)

	t.Run("bad json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/cattle", bytes.NewBufferString("{bad"))
		req.Header.Set("X-User-ID", "u1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("bad json -> %d", w.Code)
		}
	})

	t.Run("bad date of birth", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/cattle", "u1", gin.H{
			"name": "Bella", "tag_number": "NL-1", "breed": "Holstein",
			"date_of_birth": "01-03-2021", "gender": "F", "weight": "400",
		})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("bad dob -> %d body=%s", w.Code, w.Body.String())
		}
	})

	t.Run("bad gender", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/cattle", "u1", gin.H{
			"name": "Bella", "tag_number": "NL-2", "breed": "Holstein",
			"date_of_birth": "2021-03-01", "gender": "X", "weight": "400",
		})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("bad gender -> %d body=%s", w.Code, w.Body.String())
		}
	})
}

func TestCattle_CRUD_Lifecycle(t *testing.T) {
	r, _ := newTestRouter(t)
	id := createCattleVia(t, r, "u1", "NL-100")

	// detail
	w := doJSON(r, http.MethodGet, "/cattle/"+id, "u1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get -> %d", w.Code)
	}
	var animal domain.Cattle
	decode(t, w, &animal)
	if animal.TagNumber != "NL-100" || animal.Status != domain.CattleStatusActive {
		t.Fatalf("detail unexpected: %+v", animal)
	}

	// invalid id form
	if w = doJSON(r, http.MethodGet, "/cattle/not-a-uuid", "u1", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("non-uuid id -> %d", w.Code)
	}

	// someone else's herd reads as missing
	if w = doJSON(r, http.MethodGet, "/cattle/"+id, "u2", nil); w.Code != http.StatusNotFound {
		t.Fatalf("foreign get -> %d", w.Code)
	}

	// status moves to a terminal state
	w = doJSON(r, http.MethodPut, "/cattle/"+id, "u1", gin.H{
		"name": "Bella", "tag_number": "NL-100", "breed": "Holstein",
		"date_of_birth": "2021-03-01", "gender": "F", "weight": "420.5",
		"status": domain.CattleStatusSold,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update to sold -> %d body=%s", w.Code, w.Body.String())
	}

	// and cannot leave it
	w = doJSON(r, http.MethodPut, "/cattle/"+id, "u1", gin.H{
		"name": "Bella", "tag_number": "NL-100", "breed": "Holstein",
		"date_of_birth": "2021-03-01", "gender": "F", "weight": "420.5",
		"status": domain.CattleStatusActive,
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("sold->active -> %d; want 409", w.Code)
	}
	var er ErrorResponse
	decode(t, w, &er)
	if er.Code != ErrCodeTerminalStatus {
		t.Fatalf("error code = %q; want %q", er.Code, ErrCodeTerminalStatus)
	}

	// delete, then the detail is gone
	if w = doJSON(r, http.MethodDelete, "/cattle/"+id, "u1", nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete -> %d", w.Code)
	}
	if w = doJSON(r, http.MethodGet, "/cattle/"+id, "u1", nil); w.Code != http.StatusNotFound {
		t.Fatalf("get after delete -> %d", w.Code)
	}
}

func TestListCattle_PaginationAndSearch(t *testing.T) {
	r, _ := newTestRouter(t)
	for i := 0; i < 3; i++ {
		createCattleVia(t, r, "u1", "NL-"+uuid.NewString()[:8])
	}
	createCattleVia(t, r, "u2", "other-1")

	w := doJSON(r, http.MethodGet, "/cattle?page=1&page_size=2", "u1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list -> %d", w.Code)
	}
	var resp ListCattleResponse
	decode(t, w, &resp)
	if len(resp.Cattle) != 2 || resp.Pagination.Total != 3 || !resp.Pagination.HasNext {
		t.Fatalf("page unexpected: %d items, %+v", len(resp.Cattle), resp.Pagination)
	}

	// search misses
	w = doJSON(r, http.MethodGet, "/cattle?search=zebu", "u1", nil)
	decode(t, w, &resp)
	if len(resp.Cattle) != 0 || resp.Pagination.Total != 0 {
		t.Fatalf("search should be empty: %+v", resp.Pagination)
	}
}
