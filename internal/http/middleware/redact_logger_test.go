package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRedact(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"email=jane.doe@example.com", "email=[REDACTED:email]"},
		{"id=123e4567-e89b-12d3-a456-426614174000", "id=[REDACTED:id]"},
		{"call 020 7946 0958 now", "call [REDACTED:phone] now"},
		{"plain text", "plain text"},
	}
	for _, tc := range cases {
		if got := redact(tc.in); got != tc.want {
			t.Errorf("redact(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestHeaderScrubber(t *testing.T) {
	hs := newHeaderScrubber([]string{" X-Api-Key ", ""})
	out := hs.scrub(http.Header{
		"Authorization":   {"Bearer abc"},
		"X-Shared-Secret": {"s3cret"},
		"X-Api-Key":       {"k"},
		"X-Contact":       {"bob@example.org"},
		"Accept":          {"application/json"},
	})

	for _, k := range []string{"Authorization", "X-Shared-Secret", "X-Api-Key"} {
		if out[k] != "[REDACTED]" {
			t.Errorf("%s = %q; want masked", k, out[k])
		}
	}
	if out["X-Contact"] != "[REDACTED:email]" {
		t.Errorf("X-Contact = %q", out["X-Contact"])
	}
	if out["Accept"] != "application/json" {
		t.Errorf("Accept = %q", out["Accept"])
	}
}

func TestRedactingLogger_LevelsAndScrubbing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RequestID(), RedactingLogger(RedactOptions{}))
	r.GET("/ok/:id", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(errTest("upstream said no for ops@example.com"))
		c.Status(http.StatusBadGateway)
	})

	req := httptest.NewRequest(http.MethodGet, "/ok/7?email=a@b.io", nil)
	req.Header.Set("X-Shared-Secret", "topsecret")
	r.ServeHTTP(httptest.NewRecorder(), req)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/bad", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing/path", nil))

	raw := buf.String()
	if strings.Contains(raw, "topsecret") || strings.Contains(raw, "a@b.io") || strings.Contains(raw, "ops@example.com") {
		t.Fatalf("secrets leaked into log: %s", raw)
	}

	ls := lines(t, buf)
	if len(ls) != 4 {
		t.Fatalf("got %d log lines; want 4", len(ls))
	}
	want := []struct{ level, path string }{
		{"info", "/ok/:id"},
		{"warn", "/bad"},
		{"error", "/fail"},
		{"warn", "/missing/path"},
	}
	for i, w := range want {
		if ls[i]["level"] != w.level || ls[i]["path"] != w.path {
			t.Errorf("line %d: level=%v path=%v; want %s %s", i, ls[i]["level"], ls[i]["path"], w.level, w.path)
		}
		if ls[i]["request_id"] == "" {
			t.Errorf("line %d: missing request_id", i)
		}
	}
}

type errTest string

func (e errTest) Error() string { return string(e) }
