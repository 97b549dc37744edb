// Breeding record HTTP handlers.
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

// BreedingRequest is the JSON payload for a breeding attempt.
type BreedingRequest struct {
	CattleID            string          `json:"cattle_id" binding:"required" format:"uuid"`
	BreedingType        string          `json:"breeding_type" binding:"required" example:"artificial"`
	Date                string          `json:"date" binding:"required" example:"2026-02-10"`
	SireDetails         string          `json:"sire_details" binding:"required"`
	Status              string          `json:"status,omitempty" example:"pending"`
	ExpectedCalvingDate string          `json:"expected_calving_date,omitempty"`
	ActualCalvingDate   string          `json:"actual_calving_date,omitempty"`
	Notes               string          `json:"notes,omitempty"`
	Cost                decimal.Decimal `json:"cost"`
}

func (r BreedingRequest) toInput() (services.BreedingInput, bool) {
	date, okDate := utils.ParseDate(r.Date)
	if !okDate {
		return services.BreedingInput{}, false
	}
	parseOpt := func(s string) (*time.Time, bool) {
		if strings.TrimSpace(s) == "" {
			return nil, true
		}
		d, okOpt := utils.ParseDate(s)
		if !okOpt {
			return nil, false
		}
		return &d, true
	}
	expected, okExp := parseOpt(r.ExpectedCalvingDate)
	actual, okAct := parseOpt(r.ActualCalvingDate)
	if !okExp || !okAct {
		return services.BreedingInput{}, false
	}
	return services.BreedingInput{
		CattleID:            r.CattleID,
		BreedingType:        r.BreedingType,
		Date:                date,
		SireDetails:         r.SireDetails,
		Status:              r.Status,
		ExpectedCalvingDate: expected,
		ActualCalvingDate:   actual,
		Notes:               r.Notes,
		Cost:                r.Cost,
	}, true
}

// ListBreedingResponse wraps a page of breeding records.
type ListBreedingResponse struct {
	Records    []domain.Breeding `json:"records"`
	Pagination Pagination        `json:"pagination"`
}

// CreateBreeding records one breeding attempt.
func (h *Handlers) CreateBreeding(c *gin.Context) {
	var req BreedingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	in, okDates := req.toInput()
	if !okDates {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "dates must be YYYY-MM-DD")
		return
	}

	rec, err := h.breeding.Create(c.Request.Context(), userID(c), clientIP(c), in)
	if err != nil {
		failSvc(c, err)
		return
	}
	ok(c, http.StatusCreated, rec)
}

// ListBreeding returns a page of breeding records, filterable by
// ?cattle_id= and ?status=.
func (h *Handlers) ListBreeding(c *gin.Context) {
	page, pageSize := clampPagination(c)
	f := repo.BreedingFilter{
		CattleID: strings.TrimSpace(c.Query("cattle_id")),
		Status:   strings.TrimSpace(c.Query("status")),
	}

	items, total, err := h.breeding.ListPage(c.Request.Context(), userID(c), f, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list breeding records")
		return
	}
	ok(c, http.StatusOK, ListBreedingResponse{
		Records:    items,
		Pagination: paginate(page, pageSize, total),
	})
}

// GetBreeding returns one breeding record by id.
func (h *Handlers) GetBreeding(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "record id must be a UUID")
		return
	}
	rec, err := h.breeding.Get(c.Request.Context(), userID(c), id)
	if err != nil {
		failSvc(c, err)
		return
	}
	ok(c, http.StatusOK, rec)
}

// UpdateBreeding edits one breeding record, including outcome resolution.
func (h *Handlers) UpdateBreeding(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "record id must be a UUID")
		return
	}
	var req BreedingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	in, okDates := req.toInput()
	if !okDates {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "dates must be YYYY-MM-DD")
		return
	}

	rec, err := h.breeding.Update(c.Request.Context(), userID(c), id, clientIP(c), in)
	if err != nil {
		failSvc(c, err)
		return
	}
	ok(c, http.StatusOK, rec)
}

// DeleteBreeding removes one breeding record.
func (h *Handlers) DeleteBreeding(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "record id must be a UUID")
		return
	}
	if err := h.breeding.Remove(c.Request.Context(), userID(c), id, clientIP(c)); err != nil {
		failSvc(c, err)
		return
	}
	noContent(c)
}
