package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })
	log.Logger = zerolog.New(&buf)
	return &buf
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/cattle", func(c *gin.Context) {
		if v, ok := c.Get(requestIDKey); !ok || v == "" {
			t.Fatal("request id missing from context")
		}
		c.Status(http.StatusOK)
	})

	// No inbound header: one is minted.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cattle", nil))
	if w.Header().Get(requestIDHeader) == "" {
		t.Fatal("no request id generated")
	}

	// An inbound header is reused, whatever its casing.
	for _, name := range []string{requestIDHeader, strings.ToLower(requestIDHeader)} {
		w = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/cattle", nil)
		req.Header.Set(name, "barn-42")
		r.ServeHTTP(w, req)
		if got := w.Header().Get(requestIDHeader); got != "barn-42" {
			t.Fatalf("header %s: propagated id = %q, want barn-42", name, got)
		}
	}
}

type farmErr struct{}

func (farmErr) Error() string { return "gate stuck" }

func TestLogger_LevelsAndPathFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogs(t)

	r := gin.New()
	r.Use(RequestID(), Logger())
	r.GET("/cattle/:id", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/broken", func(c *gin.Context) {
		_ = c.Error(farmErr{})
		c.Status(http.StatusBadRequest)
	})

	// 200 logs info with the route pattern, not the raw URL.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cattle/c-1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	// Unmatched route logs warn with the raw path.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}

	// A collected gin error forces error level even on a 4xx.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/broken", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}

	logs := buf.String()
	if !strings.Contains(logs, `"level":"info"`) || !strings.Contains(logs, `"path":"/cattle/:id"`) {
		t.Fatalf("missing info line with route pattern:\n%s", logs)
	}
	if !strings.Contains(logs, `"level":"warn"`) || !strings.Contains(logs, `"path":"/nowhere"`) {
		t.Fatalf("missing warn line with raw path:\n%s", logs)
	}
	if !strings.Contains(logs, `"level":"error"`) {
		t.Fatalf("missing error line:\n%s", logs)
	}
}

func TestRecovery_JSON500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogs(t)

	r := gin.New()
	r.Use(RequestID(), Logger(), Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("loose wire") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("body not json: %v", err)
	}
	if body["code"] != "internal_error" || body["message"] != "internal server error" {
		t.Fatalf("body = %v", body)
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Fatalf("panic not logged:\n%s", buf.String())
	}
}

func TestRecovery_PanicAfterPartialWrite(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogs(t)

	r := gin.New()
	r.Use(RequestID(), Logger(), Recovery())
	r.GET("/late", func(c *gin.Context) {
		c.String(http.StatusOK, "partial")
		panic("after write")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/late", nil))

	// The body was already flushed, so no JSON error payload may follow it.
	if strings.Contains(w.Body.String(), "internal_error") {
		t.Fatalf("json error body written after partial response: %q", w.Body.String())
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Fatalf("panic not logged:\n%s", buf.String())
	}
}

func TestLoggerFrom(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// Without Logger() in the chain, the fallback has no request fields.
	buf := captureLogs(t)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/use", func(c *gin.Context) {
		LoggerFrom(c).Info().Msg("weigh-in")
		c.Status(http.StatusOK)
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/use", nil))
	if !strings.Contains(buf.String(), `"message":"weigh-in"`) {
		t.Fatal("fallback logger dropped the message")
	}
	if strings.Contains(buf.String(), `"request_id"`) {
		t.Fatal("fallback logger unexpectedly carries request_id")
	}

	// With Logger() installed, the scoped logger carries the request id.
	buf2 := captureLogs(t)
	r2 := gin.New()
	r2.Use(RequestID(), Logger())
	r2.GET("/use", func(c *gin.Context) {
		LoggerFrom(c).Info().Msg("weigh-in")
		c.Status(http.StatusOK)
	})
	w = httptest.NewRecorder()
	r2.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/use", nil))
	if !strings.Contains(buf2.String(), `"request_id"`) {
		t.Fatal("scoped logger missing request_id")
	}
}

func Test_asString_truncate(t *testing.T) {
	if asString("tag-7") != "tag-7" || asString(42) != "" {
		t.Fatal("asString")
	}
	if truncate("short", 10) != "short" {
		t.Fatal("truncate should pass short strings through")
	}
	if got := truncate("abcdefgh", 5); got != "abcde…" {
		t.Fatalf("truncate = %q", got)
	}
	if truncate("abc", 0) != "abc" {
		t.Fatal("max 0 should disable the cap")
	}
}
