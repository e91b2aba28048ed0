package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func TestKeyByUserOrIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = net.JoinHostPort("203.0.113.9", "12345")
	c.Request = req

	if key := KeyByUserOrIP()(c); !strings.HasPrefix(key, "ip:") || !strings.Contains(key, "203.0.113.9") {
		t.Fatalf("expected ip-based key; got %q", key)
	}
	c.Set(userIDKey, "u123")
	if key := KeyByUserOrIP()(c); key != "user:u123" {
		t.Fatalf("expected user-based key; got %q", key)
	}
}

func TestRateLimiter_ReuseAndGC(t *testing.T) {
	rl := NewRateLimiter(1, 0, nil)
	if rl.burst != 1 {
		t.Fatalf("burst coercion failed, got %d", rl.burst)
	}
	now := time.Now()
	lim := rl.limiterFor("k1", now)
	if rl.limiterFor("k1", now) != lim {
		t.Fatalf("expected limiter reuse")
	}

	rl.ttl = time.Minute
	rl.gcEvery = 2
	rl.mu.Lock()
	rl.visitors["old"] = &visitor{limiter: rate.NewLimiter(1, 1), lastSeen: now.Add(-time.Hour)}
	rl.lookups = 1
	rl.mu.Unlock()

	_ = rl.limiterFor("new", now)
	rl.mu.Lock()
	_, oldAlive := rl.visitors["old"]
	rl.mu.Unlock()
	if oldAlive {
		t.Fatalf("idle visitor not evicted")
	}
	if rl.size() != 2 { // k1 and new
		t.Fatalf("size = %d", rl.size())
	}
}

func TestRateLimiter_Handler_LimitsAndBypass(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(0.5, 1, KeyByUserOrIP())
	fixed := time.Now()
	rl.nowFn = func() time.Time { return fixed }

	r := gin.New()
	r.Use(RequestID(), Identity())
	r.Use(func(c *gin.Context) {
		if c.GetHeader("X-Replay") == "1" {
			c.Set(ctxKeyRateBypass, true)
		}
		c.Next()
	})
	r.Use(rl.Handler())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(user, replay string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(HeaderUserID, user)
		if replay != "" {
			req.Header.Set("X-Replay", replay)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	if w := do("U1", ""); w.Code != http.StatusOK {
		t.Fatalf("first request: %d", w.Code)
	}
	w := do("U1", "")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: %d", w.Code)
	}
	if ra := w.Header().Get("Retry-After"); ra != "2" {
		t.Fatalf("Retry-After = %q, want 2 at 0.5 rps", ra)
	}
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["code"] != "too_many_requests" || body["request_id"] == "" {
		t.Fatalf("unexpected body: %v", body)
	}

	if w := do("U1", "1"); w.Code != http.StatusOK {
		t.Fatalf("replay should bypass limiting: %d", w.Code)
	}
	if w := do("U2", ""); w.Code != http.StatusOK {
		t.Fatalf("other identity has its own bucket: %d", w.Code)
	}
}

func TestRetryAfterSeconds_ZeroRate(t *testing.T) {
	lim := rate.NewLimiter(0, 1)
	if got := retryAfterSeconds(lim, time.Now()); got != 1 {
		t.Fatalf("got %d", got)
	}
}
