// Milk production HTTP handlers.
//
//   - POST   /production        (record one milking session)
//   - GET    /production        (list, paginated, cattle + date filters)
//   - GET    /production/:id    (detail)
//   - PUT    /production/:id    (correct measurements)
//   - DELETE /production/:id    (remove)
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tbourn/go-dairy-backend/internal/domain"
	"github.com/tbourn/go-dairy-backend/internal/repo"
	"github.com/tbourn/go-dairy-backend/internal/services"
	"github.com/tbourn/go-dairy-backend/internal/utils"
)

// ProductionRequest is the JSON payload for recording a milking session.
type ProductionRequest struct {
	CattleID   string              `json:"cattle_id" binding:"required" format:"uuid"`
	Date       string              `json:"date" binding:"required" example:"2026-03-15"`
	Session    string              `json:"session" binding:"required" example:"morning"`
	Quantity   decimal.Decimal     `json:"quantity" example:"17.5"`
	FatContent decimal.NullDecimal `json:"fat_content,omitempty"`
	Notes      string              `json:"notes,omitempty"`
}

// ProductionUpdateRequest corrects an existing record. The identifying
// (cattle, date, session) triple stays fixed.
type ProductionUpdateRequest struct {
	Quantity   decimal.Decimal     `json:"quantity"`
	FatContent decimal.NullDecimal `json:"fat_content,omitempty"`
	Notes      string              `json:"notes,omitempty"`
}

// ListProductionResponse wraps a page of records and pagination info.
type ListProductionResponse struct {
	Records    []domain.MilkProduction `json:"records"`
	Pagination Pagination              `json:"pagination"`
}

// CreateProduction records one milking session.
func (h *Handlers) CreateProduction(c *gin.Context) {
	var req ProductionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	date, okDate := utils.ParseDate(req.Date)
	if !okDate {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "date must be YYYY-MM-DD")
		return
	}

	rec, err := h.milk.Record(c.Request.Context(), userID(c), clientIP(c), services.ProductionInput{
		CattleID:   req.CattleID,
		Date:       date,
		Session:    req.Session,
		Quantity:   req.Quantity,
		FatContent: req.FatContent,
		Notes:      req.Notes,
	})
	if err != nil {
		failSvc(c, err)
		return
	}
	ok(c, http.StatusCreated, rec)
}

// ListProduction returns a page of milk records, filterable by ?cattle_id=
// and a ?from=/?to= date window.
func (h *Handlers) ListProduction(c *gin.Context) {
	page, pageSize := clampPagination(c)
	from, to, okDates := dateRange(c)
	if !okDates {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "from/to must be YYYY-MM-DD")
		return
	}
	f := repo.ProductionFilter{
		CattleID: strings.TrimSpace(c.Query("cattle_id")),
		From:     from,
		To:       to,
	}

	items, total, err := h.milk.ListPage(c.Request.Context(), userID(c), f, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list production records")
		return
	}
	ok(c, http.StatusOK, ListProductionResponse{
		Records:    items,
		Pagination: paginate(page, pageSize, total),
	})
}

// GetProduction returns one milk record by id.
func (h *Handlers) GetProduction(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "record id must be a UUID")
		return
	}
	rec, err := h.milk.Get(c.Request.Context(), userID(c), id)
	if err != nil {
		failSvc(c, err)
		return
	}
	ok(c, http.StatusOK, rec)
}

// UpdateProduction corrects the measurements of one record.
func (h *Handlers) UpdateProduction(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "record id must be a UUID")
		return
	}
	var req ProductionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	rec, err := h.milk.Update(c.Request.Context(), userID(c), id, clientIP(c), req.Quantity, req.FatContent, req.Notes)
	if err != nil {
		failSvc(c, err)
		return
	}
	ok(c, http.StatusOK, rec)
}

// DeleteProduction removes one milk record.
func (h *Handlers) DeleteProduction(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "record id must be a UUID")
		return
	}
	if err := h.milk.Remove(c.Request.Context(), userID(c), id, clientIP(c)); err != nil {
		failSvc(c, err)
		return
	}
	noContent(c)
}
