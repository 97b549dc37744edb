// Package handlers provides HTTP handler implementations for the public API.
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results (including sentinel errors) into HTTP responses. Each
// resource lives in its own file; this file holds the shared wiring: the
// service contracts the handlers depend on, request identity helpers, and
// pagination plumbing.
package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/tbourn/go-dairy-backend/internal/domain"
	"github.com/tbourn/go-dairy-backend/internal/repo"
	"github.com/tbourn/go-dairy-backend/internal/services"
	"github.com/tbourn/go-dairy-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// HerdService defines cattle registry operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type HerdService interface {
	Register(ctx context.Context, ownerID, ip string, in services.CattleInput) (*domain.Cattle, error)
	Get(ctx context.Context, ownerID, id string) (*domain.Cattle, error)
	ListPage(ctx context.Context, ownerID string, f repo.CattleFilter, page, pageSize int) ([]domain.Cattle, int64, error)
	Update(ctx context.Context, ownerID, id, ip string, in services.CattleInput) (*domain.Cattle, error)
	Remove(ctx context.Context, ownerID, id, ip string) error
}

// MilkService defines milk production record operations.
type MilkService interface {
	Record(ctx context.Context, ownerID, ip string, in services.ProductionInput) (*domain.MilkProduction, error)
	Get(ctx context.Context, ownerID, id string) (*domain.MilkProduction, error)
	ListPage(ctx context.Context, ownerID string, f repo.ProductionFilter, page, pageSize int) ([]domain.MilkProduction, int64, error)
	Update(ctx context.Context, ownerID, id, ip string, quantity decimal.Decimal, fatContent decimal.NullDecimal, notes string) (*domain.MilkProduction, error)
	Remove(ctx context.Context, ownerID, id, ip string) error
}

// VetService defines health record operations.
type VetService interface {
	Create(ctx context.Context, ownerID, ip string, in services.HealthInput) (*domain.HealthRecord, error)
	Get(ctx context.Context, ownerID, id string) (*domain.HealthRecord, error)
	ListPage(ctx context.Context, ownerID string, f repo.HealthFilter, page, pageSize int) ([]domain.HealthRecord, int64, error)
	Update(ctx context.Context, ownerID, id, ip string, in services.HealthInput) (*domain.HealthRecord, error)
	Remove(ctx context.Context, ownerID, id, ip string) error
}

// BreedingRecordService defines breeding record operations.
type BreedingRecordService interface {
	Create(ctx context.Context, ownerID, ip string, in services.BreedingInput) (*domain.Breeding, error)
	Get(ctx context.Context, ownerID, id string) (*domain.Breeding, error)
	ListPage(ctx context.Context, ownerID string, f repo.BreedingFilter, page, pageSize int) ([]domain.Breeding, int64, error)
	Update(ctx context.Context, ownerID, id, ip string, in services.BreedingInput) (*domain.Breeding, error)
	Remove(ctx context.Context, ownerID, id, ip string) error
}

// FeedInventoryService defines feed lot operations.
type FeedInventoryService interface {
	Create(ctx context.Context, ownerID, ip string, in services.FeedInput) (*domain.Feed, error)
	Get(ctx context.Context, ownerID, id string) (*domain.Feed, error)
	ListPage(ctx context.Context, ownerID string, f repo.FeedFilter, page, pageSize int) ([]domain.Feed, int64, error)
	Update(ctx context.Context, ownerID, id, ip string, in services.FeedInput) (*domain.Feed, error)
	Remove(ctx context.Context, ownerID, id, ip string) error
}

// ReportingService defines the analytics reads.
type ReportingService interface {
	Aggregate(ctx context.Context, ownerID, cattleID string, start, end time.Time) (services.AggregateResult, error)
	DailyBreakdown(ctx context.Context, ownerID string, start, end time.Time) ([]repo.DailySessionTotals, error)
	TopProducers(ctx context.Context, ownerID string, start, end time.Time, limit int) ([]repo.ProducerTotal, error)
	DetectAnomaly(ctx context.Context, cattleID string, day time.Time) (services.AnomalyResult, error)
	Dashboard(ctx context.Context, ownerID string, today time.Time) (services.DashboardSummary, error)
}

// InboxService defines the notification lifecycle operations.
type InboxService interface {
	ListPage(ctx context.Context, userID string, unreadFirst bool, page, pageSize int) ([]domain.Notification, int64, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) (int, error)
	Delete(ctx context.Context, userID, id string) error
}

// AuditService defines the read side of the activity log.
type AuditService interface {
	ListPage(ctx context.Context, f repo.ActivityFilter, page, pageSize int) ([]domain.ActivityLog, int64, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for every resource. It depends on
// abstract service interfaces to keep transport concerns separate from
// business logic.
type Handlers struct {
	herd      HerdService
	milk      MilkService
	vet       VetService
	breeding  BreedingRecordService
	feed      FeedInventoryService
	reporting ReportingService
	inbox     InboxService
	audit     AuditService
}

// New constructs a Handlers instance bound to the given services.
func New(
	herd HerdService,
	milk MilkService,
	vet VetService,
	breeding BreedingRecordService,
	feed FeedInventoryService,
	reporting ReportingService,
	inbox InboxService,
	audit AuditService,
) *Handlers {
	return &Handlers{
		herd:      herd,
		milk:      milk,
		vet:       vet,
		breeding:  breeding,
		feed:      feed,
		reporting: reporting,
		inbox:     inbox,
		audit:     audit,
	}
}

// userID extracts the authenticated user id from the Gin context (set by the
// Identity middleware). It falls back to the X-User-ID header so handler
// tests can run without the middleware stack.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return ""
}

// clientIP returns the caller's address for the audit trail.
func clientIP(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return ""
	}
	return c.ClientIP()
}

//
// Pagination
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// paginate builds the metadata block for one page.
func paginate(page, pageSize int, total int64) Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

//
// Date query params
//

// dateRange reads the from/to query params (YYYY-MM-DD). Either may be
// absent. A malformed value reports !ok.
func dateRange(c *gin.Context) (from, to *time.Time, ok bool) {
	if s := strings.TrimSpace(c.Query("from")); s != "" {
		d, valid := utils.ParseDate(s)
		if !valid {
			return nil, nil, false
		}
		from = &d
	}
	if s := strings.TrimSpace(c.Query("to")); s != "" {
		d, valid := utils.ParseDate(s)
		if !valid {
			return nil, nil, false
		}
		to = &d
	}
	return from, to, true
}

// requiredWindow reads the start/end query params (YYYY-MM-DD), both
// mandatory for the analytics endpoints.
func requiredWindow(c *gin.Context) (start, end time.Time, ok bool) {
	s, okS := utils.ParseDate(strings.TrimSpace(c.Query("start")))
	e, okE := utils.ParseDate(strings.TrimSpace(c.Query("end")))
	if !okS || !okE {
		return time.Time{}, time.Time{}, false
	}
	return s, e, true
}
