// Analytics HTTP handlers.
//
//   - GET /analytics/summary       (windowed aggregate, ?start ?end ?cattle_id)
//   - GET /analytics/daily         (per-day per-session breakdown)
//   - GET /analytics/top           (highest-yielding animals)
//   - GET /analytics/anomaly/:id   (one animal's drop check for a day)
//   - GET /dashboard               (landing-page snapshot)
package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tbourn/go-dairy-backend/internal/utils"
)

// ProductionSummary returns the aggregate over [start, end] for the user's
// herd, optionally restricted to one animal with ?cattle_id=.
func (h *Handlers) ProductionSummary(c *gin.Context) {
	start, end, okWindow := requiredWindow(c)
	if !okWindow {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "start and end must be YYYY-MM-DD")
		return
	}
	cattleID := strings.TrimSpace(c.Query("cattle_id"))
	if cattleID != "" {
		// Resolve ownership up front so a foreign animal reads as missing.
		if _, err := h.herd.Get(c.Request.Context(), userID(c), cattleID); err != nil {
			failSvc(c, err)
			return
		}
	}

	res, err := h.reporting.Aggregate(c.Request.Context(), userID(c), cattleID, start, end)
	if err != nil {
		failSvc(c, err)
		return
	}
	ok(c, http.StatusOK, res)
}

// DailyBreakdown returns per-day session totals over [start, end].
func (h *Handlers) DailyBreakdown(c *gin.Context) {
	start, end, okWindow := requiredWindow(c)
	if !okWindow {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "start and end must be YYYY-MM-DD")
		return
	}
	rows, err := h.reporting.DailyBreakdown(c.Request.Context(), userID(c), start, end)
	if err != nil {
		failSvc(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"days": rows})
}

// TopProducers returns the user's highest-yielding animals over the window.
// Supports ?limit= (default 5).
func (h *Handlers) TopProducers(c *gin.Context) {
	start, end, okWindow := requiredWindow(c)
	if !okWindow {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "start and end must be YYYY-MM-DD")
		return
	}
	limit := utils.AtoiDefault(c.Query("limit"), 5)

	rows, err := h.reporting.TopProducers(c.Request.Context(), userID(c), start, end, limit)
	if err != nil {
		failSvc(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"producers": rows})
}

// AnomalyCheck evaluates one animal's production on ?date= (default today)
// against its trailing baseline.
func (h *Handlers) AnomalyCheck(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "cattle id must be a UUID")
		return
	}
	day := time.Now().UTC()
	if s := strings.TrimSpace(c.Query("date")); s != "" {
		d, okDay := utils.ParseDate(s)
		if !okDay {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "date must be YYYY-MM-DD")
			return
		}
		day = d
	}

	// The anomaly math is per-animal with no owner scoping, so check
	// ownership here.
	if _, err := h.herd.Get(c.Request.Context(), userID(c), id); err != nil {
		failSvc(c, err)
		return
	}
	res, err := h.reporting.DetectAnomaly(c.Request.Context(), id, day)
	if err != nil {
		failSvc(c, err)
		return
	}
	ok(c, http.StatusOK, res)
}

// Dashboard returns the landing-page snapshot for the user.
func (h *Handlers) Dashboard(c *gin.Context) {
	res, err := h.reporting.Dashboard(c.Request.Context(), userID(c), time.Now().UTC())
	if err != nil {
		failSvc(c, err)
		return
	}
	ok(c, http.StatusOK, res)
}
