// Health record HTTP handlers.
//
//   - POST   /health        (add veterinary event)
//   - GET    /health        (list, paginated, cattle/type/date filters)
//   - GET    /health/:id    (detail)
//   - PUT    /health/:id    (update)
//   - DELETE /health/:id    (remove)
package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tbourn/go-dairy-backend/internal/domain"
	"github.com/tbourn/go-dairy-backend/internal/repo"
	"github.com/tbourn/go-dairy-backend/internal/services"
	"github.com/tbourn/go-dairy-backend/internal/utils"
)

// HealthRequest is the JSON payload for a veterinary event.
type HealthRequest struct {
	CattleID        string          `json:"cattle_id" binding:"required" format:"uuid"`
	RecordType      string          `json:"record_type" binding:"required" example:"vaccination"`
	Date            string          `json:"date" binding:"required" example:"2026-03-02"`
	Description     string          `json:"description" binding:"required"`
	Medicine        string          `json:"medicine,omitempty"`
	Dosage          string          `json:"dosage,omitempty"`
	VetName         string          `json:"vet_name" binding:"required"`
	Cost            decimal.Decimal `json:"cost"`
	NextCheckupDate string          `json:"next_checkup_date,omitempty" example:"2026-04-02"`
}

func (r HealthRequest) toInput() (services.HealthInput, bool) {
	date, okDate := utils.ParseDate(r.Date)
	if !okDate {
		return services.HealthInput{}, false
	}
	var next *time.Time
	if s := strings.TrimSpace(r.NextCheckupDate); s != "" {
		d, okNext := utils.ParseDate(s)
		if !okNext {
			return services.HealthInput{}, false
		}
		next = &d
	}
	return services.HealthInput{
		CattleID:        r.CattleID,
		RecordType:      r.RecordType,
		Date:            date,
		Description:     r.Description,
		Medicine:        r.Medicine,
		Dosage:          r.Dosage,
		VetName:         r.VetName,
		Cost:            r.Cost,
		NextCheckupDate: next,
	}, true
}

// ListHealthResponse wraps a page of health records and pagination info.
type ListHealthResponse struct {
	Records    []domain.HealthRecord `json:"records"`
	Pagination Pagination            `json:"pagination"`
}

// CreateHealthRecord adds one veterinary event.
func (h *Handlers) CreateHealthRecord(c *gin.Context) {
	var req HealthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	in, okDates := req.toInput()
	if !okDates {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "dates must be YYYY-MM-DD")
		return
	}

	rec, err := h.vet.Create(c.Request.Context(), userID(c), clientIP(c), in)
	if err != nil {
		failSvc(c, err)
		return
	}
	ok(c, http.StatusCreated, rec)
}

// ListHealthRecords returns a page of veterinary events, filterable by
// ?cattle_id=, ?record_type= and a ?from=/?to= window.
func (h *Handlers) ListHealthRecords(c *gin.Context) {
	page, pageSize := clampPagination(c)
	from, to, okDates := dateRange(c)
	if !okDates {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "from/to must be YYYY-MM-DD")
		return
	}
	f := repo.HealthFilter{
		CattleID:   strings.TrimSpace(c.Query("cattle_id")),
		RecordType: strings.TrimSpace(c.Query("record_type")),
		From:       from,
		To:         to,
	}

	items, total, err := h.vet.ListPage(c.Request.Context(), userID(c), f, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list health records")
		return
	}
	ok(c, http.StatusOK, ListHealthResponse{
		Records:    items,
		Pagination: paginate(page, pageSize, total),
	})
}

// GetHealthRecord returns one veterinary event by id.
func (h *Handlers) GetHealthRecord(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "record id must be a UUID")
		return
	}
	rec, err := h.vet.Get(c.Request.Context(), userID(c), id)
	if err != nil {
		failSvc(c, err)
		return
	}
	ok(c, http.StatusOK, rec)
}

// UpdateHealthRecord edits one veterinary event.
func (h *Handlers) UpdateHealthRecord(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "record id must be a UUID")
		return
	}
	var req HealthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	in, okDates := req.toInput()
	if !okDates {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "dates must be YYYY-MM-DD")
		return
	}

	rec, err := h.vet.Update(c.Request.Context(), userID(c), id, clientIP(c), in)
	if err != nil {
		failSvc(c, err)
		return
	}
	ok(c, http.StatusOK, rec)
}

// DeleteHealthRecord removes one veterinary event.
func (h *Handlers) DeleteHealthRecord(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "record id must be a UUID")
		return
	}
	if err := h.vet.Remove(c.Request.Context(), userID(c), id, clientIP(c)); err != nil {
		failSvc(c, err)
		return
	}
	noContent(c)
}
