// Activity log HTTP handlers. The log is read-only over HTTP; entries are
// written by the services as part of each mutation.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-dairy-backend/internal/domain"
	"github.com/tbourn/go-dairy-backend/internal/repo"
	"github.com/tbourn/go-dairy-backend/internal/services"
)

// ListActivityResponse wraps a page of audit entries.
type ListActivityResponse struct {
	Activities []domain.ActivityLog `json:"activities"`
	Pagination Pagination           `json:"pagination"`
}

// ListActivities returns the caller's audit trail, newest first.
// Supports ?action= and a ?from=/?to= date window (to is inclusive of the
// whole day).
func (h *Handlers) ListActivities(c *gin.Context) {
	page, pageSize := clampPagination(c)
	from, to, okDates := dateRange(c)
	if !okDates {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "from/to must be YYYY-MM-DD")
		return
	}
	lo, hi := services.ActivityRange(from, to)

	f := repo.ActivityFilter{
		UserID: userID(c),
		Action: strings.TrimSpace(c.Query("action")),
		From:   lo,
		To:     hi,
	}
	items, total, err := h.audit.ListPage(c.Request.Context(), f, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list activities")
		return
	}
	ok(c, http.StatusOK, ListActivityResponse{
		Activities: items,
		Pagination: paginate(page, pageSize, total),
	})
}
