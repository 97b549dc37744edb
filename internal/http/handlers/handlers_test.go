package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-dairy-backend/internal/repo"
	"github.com/tbourn/go-dairy-backend/internal/services"
)

// ---------- test DB + router fixture ----------

func newHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Unique DSN per call to avoid cross-test contamination
	dsn := fmt.Sprintf("file:handlers_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// newTestRouter mounts every endpoint on a bare engine, backed by real
// services over an in-memory database. No identity middleware: userID()
// falls back to the X-User-ID header.
func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := newHandlerDB(t)
	h := New(
		&services.CattleService{DB: db},
		&services.ProductionService{DB: db},
		&services.HealthService{DB: db},
		&services.BreedingService{DB: db},
		&services.FeedService{DB: db},
		&services.AnalyticsService{DB: db},
		&services.NotificationService{DB: db},
		&services.ActivityService{DB: db},
	)

	r := gin.New()
	r.POST("/cattle", h.CreateCattle)
	r.GET("/cattle", h.ListCattle)
	r.GET("/cattle/:id", h.GetCattle)
	r.PUT("/cattle/:id", h.UpdateCattle)
	r.DELETE("/cattle/:id", h.DeleteCattle)

	r.POST("/production", h.CreateProduction)
	r.GET("/production", h.ListProduction)
	r.GET("/production/:id", h.GetProduction)
	r.PUT("/production/:id", h.UpdateProduction)
	r.DELETE("/production/:id", h.DeleteProduction)

	r.GET("/analytics/summary", h.ProductionSummary)
	r.GET("/analytics/daily", h.DailyBreakdown)
	r.GET("/analytics/top", h.TopProducers)
	r.GET("/analytics/anomaly/:id", h.AnomalyCheck)
	r.GET("/dashboard", h.Dashboard)

	r.GET("/notifications", h.ListNotifications)
	r.GET("/notifications/unread-count", h.UnreadCount)
	r.POST("/notifications/:id/read", h.MarkNotificationRead)
	r.POST("/notifications/read-all", h.MarkAllNotificationsRead)
	r.DELETE("/notifications/:id", h.DeleteNotification)

	r.GET("/activities", h.ListActivities)
	return r, db
}

// doJSON performs one request as the given user and returns the recorder.
func doJSON(r *gin.Engine, method, path, user string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decode unmarshals a recorder body into out, failing the test on error.
func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

// createCattleVia registers an animal over HTTP and returns its id.
func createCattleVia(t *testing.T, r *gin.Engine, user, tag string) string {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/cattle", user, gin.H{
		"name":          "Bella",
		"tag_number":    tag,
		"breed":         "Holstein",
		"date_of_birth": "2021-03-01",
		"gender":        "F",
		"weight":        "420.5",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create cattle = %d body=%s", w.Code, w.Body.String())
	}
	var animal struct {
		ID string `json:"id"`
	}
	decode(t, w, &animal)
	if animal.ID == "" {
		t.Fatalf("create cattle returned no id")
	}
	return animal.ID
}

// ---------- helpers-only tests ----------

func Test_userID_and_clampPagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// ctx value wins
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)
	c.Set("userID", "u1")
	if got := userID(c); got != "u1" {
		t.Fatalf("ctx userID = %q", got)
	}

	// header fallback
	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-User-ID", "u-123")
	c.Request = req
	if got := userID(c); got != "u-123" {
		t.Fatalf("header fallback userID = %q", got)
	}

	// no identity at all
	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)
	if got := userID(c); got != "" {
		t.Fatalf("empty userID = %q", got)
	}

	// clampPagination bounds
	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?page=-5&page_size=9999", nil)
	p, ps := clampPagination(c)
	if p != 1 || ps != 100 {
		t.Fatalf("clamp bounds got p=%d ps=%d", p, ps)
	}
	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?page=&page_size=0", nil)
	p, ps = clampPagination(c)
	if p != 1 || ps != 1 {
		t.Fatalf("clamp lower bound got p=%d ps=%d", p, ps)
	}
	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)
	p, ps = clampPagination(c)
	if p != 1 || ps != 20 {
		t.Fatalf("clamp defaults got p=%d ps=%d", p, ps)
	}
}

func Test_paginate(t *testing.T) {
	pg := paginate(2, 10, 35)
	if pg.TotalPages != 4 || !pg.HasNext || pg.Total != 35 {
		t.Fatalf("paginate unexpected: %+v", pg)
	}
	pg = paginate(4, 10, 35)
	if pg.HasNext {
		t.Fatalf("last page should have no next: %+v", pg)
	}
	pg = paginate(1, 10, 0)
	if pg.TotalPages != 0 || pg.HasNext {
		t.Fatalf("empty set unexpected: %+v", pg)
	}
}

func Test_dateRange_and_requiredWindow(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?from=2026-03-01&to=2026-03-31", nil)
	from, to, okRange := dateRange(c)
	if !okRange || from == nil || to == nil {
		t.Fatalf("valid range rejected")
	}
	if from.Day() != 1 || to.Day() != 31 {
		t.Fatalf("range parsed wrong: %v..%v", from, to)
	}

	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?from=03/01/2026", nil)
	if _, _, okRange = dateRange(c); okRange {
		t.Fatalf("malformed from accepted")
	}

	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?start=2026-03-01", nil)
	if _, _, okWin := requiredWindow(c); okWin {
		t.Fatalf("missing end accepted")
	}

	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?start=2026-03-01&end=2026-03-10", nil)
	s, e, okWin := requiredWindow(c)
	if !okWin || s.After(e) {
		t.Fatalf("valid window rejected")
	}
}
