package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newSupportUpstream(t *testing.T, status int, body string, seen *map[string]any, secret *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if secret != nil {
			*secret = r.Header.Get(SharedSecretHeader)
		}
		if seen != nil {
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, seen)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func sampleTicket() SupportTicket {
	return SupportTicket{
		Product:   "invoicer",
		Category:  "bug",
		Message:   "PDF is blank",
		UserEmail: "user@example.com",
		Metadata:  map[string]any{"page": "preview"},
	}
}

func TestSupport_Forward_Success(t *testing.T) {
	var seen map[string]any
	var secret string
	srv := newSupportUpstream(t, http.StatusCreated, `{"ok":true}`, &seen, &secret)

	svc := NewSupportService(srv.URL, "s3cret", time.Second)
	svc.newRef = func() string { return "ref-1" }

	res, err := svc.Forward(context.Background(), sampleTicket())
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}
	if res.Status != http.StatusCreated || string(res.Body) != `{"ok":true}` || res.Reference != "ref-1" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if secret != "s3cret" {
		t.Fatalf("shared secret header = %q", secret)
	}
	if seen["reference"] != "ref-1" || seen["user_email"] != "user@example.com" || seen["product"] != "invoicer" {
		t.Fatalf("forwarded payload = %v", seen)
	}
	if md, ok := seen["metadata"].(map[string]any); !ok || md["page"] != "preview" {
		t.Fatalf("metadata not forwarded: %v", seen["metadata"])
	}
}

func TestSupport_Forward_NonSuccessPassthrough(t *testing.T) {
	srv := newSupportUpstream(t, http.StatusUnprocessableEntity, `{"error":"bad email"}`, nil, nil)
	svc := NewSupportService(srv.URL, "", time.Second)

	_, err := svc.Forward(context.Background(), sampleTicket())
	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("want *UpstreamError, got %v", err)
	}
	if ue.Status != http.StatusUnprocessableEntity || string(ue.Body) != `{"error":"bad email"}` {
		t.Fatalf("unexpected upstream error: %+v", ue)
	}
	if !errors.Is(err, ErrUpstream) || errors.Is(err, ErrUpstreamRateLimited) {
		t.Fatalf("422 should be a plain upstream error")
	}
}

func TestSupport_Forward_RateLimited(t *testing.T) {
	srv := newSupportUpstream(t, http.StatusTooManyRequests, `slow down`, nil, nil)
	svc := NewSupportService(srv.URL, "", time.Second)

	_, err := svc.Forward(context.Background(), sampleTicket())
	if !errors.Is(err, ErrUpstreamRateLimited) {
		t.Fatalf("want ErrUpstreamRateLimited, got %v", err)
	}
}

func TestSupport_Forward_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewSupportService(url, "", time.Second).Forward(context.Background(), sampleTicket())
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("want ErrUpstreamUnavailable, got %v", err)
	}
	var ue *UpstreamError
	if errors.As(err, &ue) {
		t.Fatalf("transport failure must not carry an upstream status")
	}
}

func TestSupport_Disabled(t *testing.T) {
	svc := NewSupportService("  ", "x", time.Second)
	if svc.Enabled() {
		t.Fatalf("blank URL should disable forwarding")
	}
	if _, err := svc.Forward(context.Background(), sampleTicket()); !errors.Is(err, ErrSupportDisabled) {
		t.Fatalf("want ErrSupportDisabled, got %v", err)
	}
}

func TestStatusLabel(t *testing.T) {
	cases := map[int]string{200: "2xx", 201: "2xx", 404: "4xx", 429: "429", 503: "5xx"}
	for code, want := range cases {
		if got := statusLabel(code); got != want {
			t.Fatalf("statusLabel(%d) = %q; want %q", code, got, want)
		}
	}
}
