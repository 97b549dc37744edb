// Feed inventory HTTP handlers.
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

// FeedRequest is the JSON payload for a feed lot.
type FeedRequest struct {
	Name         string          `json:"name" binding:"required" example:"Alfalfa bales"`
	FeedType     string          `json:"feed_type" binding:"required" example:"forage"`
	Quantity     decimal.Decimal `json:"quantity" example:"500"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit" example:"3.20"`
	PurchaseDate string          `json:"purchase_date" binding:"required" example:"2026-03-01"`
	ExpiryDate   string          `json:"expiry_date,omitempty"`
	Supplier     string          `json:"supplier" binding:"required"`
	Notes        string          `json:"notes,omitempty"`
}

func (r FeedRequest) toInput() (services.FeedInput, bool) {
	purchased, okDate := utils.ParseDate(r.PurchaseDate)
	if !okDate {
		return services.FeedInput{}, false
	}
	var expiry *time.Time
	if s := strings.TrimSpace(r.ExpiryDate); s != "" {
		d, okExp := utils.ParseDate(s)
		if !okExp {
			return services.FeedInput{}, false
		}
		expiry = &d
	}
	return services.FeedInput{
		Name:         r.Name,
		FeedType:     r.FeedType,
		Quantity:     r.Quantity,
		CostPerUnit:  r.CostPerUnit,
		PurchaseDate: purchased,
		ExpiryDate:   expiry,
		Supplier:     r.Supplier,
		Notes:        r.Notes,
	}, true
}

// ListFeedResponse wraps a page of feed lots.
type ListFeedResponse struct {
	Feeds      []domain.Feed `json:"feeds"`
	Pagination Pagination    `json:"pagination"`
}

// CreateFeed adds a purchased feed lot to the inventory.
func (h *Handlers) CreateFeed(c *gin.Context) {
	var req FeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	in, okDates := req.toInput()
	if !okDates {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "dates must be YYYY-MM-DD")
		return
	}

	lot, err := h.feed.Create(c.Request.Context(), userID(c), clientIP(c), in)
	if err != nil {
		failSvc(c, err)
		return
	}
	ok(c, http.StatusCreated, lot)
}

// ListFeeds returns a page of feed lots, filterable by ?feed_type= and
// ?expiring_by= (YYYY-MM-DD).
func (h *Handlers) ListFeeds(c *gin.Context) {
	page, pageSize := clampPagination(c)
	f := repo.FeedFilter{FeedType: strings.TrimSpace(c.Query("feed_type"))}
	if s := strings.TrimSpace(c.Query("expiring_by")); s != "" {
		d, okExp := utils.ParseDate(s)
		if !okExp {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "expiring_by must be YYYY-MM-DD")
			return
		}
		f.ExpiringBy = &d
	}

	items, total, err := h.feed.ListPage(c.Request.Context(), userID(c), f, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list feeds")
		return
	}
	ok(c, http.StatusOK, ListFeedResponse{
		Feeds:      items,
		Pagination: paginate(page, pageSize, total),
	})
}

// GetFeed returns one feed lot by id.
func (h *Handlers) GetFeed(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "feed id must be a UUID")
		return
	}
	lot, err := h.feed.Get(c.Request.Context(), userID(c), id)
	if err != nil {
		failSvc(c, err)
		return
	}
	ok(c, http.StatusOK, lot)
}

// UpdateFeed edits one feed lot.
func (h *Handlers) UpdateFeed(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "feed id must be a UUID")
		return
	}
	var req FeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	in, okDates := req.toInput()
	if !okDates {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "dates must be YYYY-MM-DD")
		return
	}

	lot, err := h.feed.Update(c.Request.Context(), userID(c), id, clientIP(c), in)
	if err != nil {
		failSvc(c, err)
		return
	}
	ok(c, http.StatusOK, lot)
}

// DeleteFeed removes one feed lot.
func (h *Handlers) DeleteFeed(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "feed id must be a UUID")
		return
	}
	if err := h.feed.Remove(c.Request.Context(), userID(c), id, clientIP(c)); err != nil {
		failSvc(c, err)
		return
	}
	noContent(c)
}
