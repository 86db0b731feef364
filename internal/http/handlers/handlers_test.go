package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-invoice-backend/internal/domain"
	"github.com/tbourn/go-invoice-backend/internal/services"
)

// ---------- stubs ----------

type stubExtract struct {
	got [][]byte
	rec domain.InvoiceRecord
	err error
}

func (s *stubExtract) Extract(_ context.Context, images [][]byte) (domain.InvoiceRecord, error) {
	s.got = images
	if len(images) == 0 && s.err == nil {
		return domain.InvoiceRecord{}, services.ErrNoImages
	}
	return s.rec, s.err
}

type stubRender struct {
	format services.Format
	data   map[string]any
	doc    services.Document
	err    error
}

func (s *stubRender) Render(_ context.Context, f services.Format, data map[string]any) (services.Document, error) {
	s.format, s.data = f, data
	return s.doc, s.err
}

type stubSupport struct {
	got services.SupportTicket
	res services.SupportResult
	err error
}

func (s *stubSupport) Forward(_ context.Context, t services.SupportTicket) (services.SupportResult, error) {
	s.got = t
	return s.res, s.err
}

// ---------- plumbing ----------

func newRouter(h *Handlers) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("X-Request-ID", "rid-test")
		c.Next()
	})
	r.POST("/upload", h.Upload)
	r.POST("/generate-invoice", h.GenerateInvoice)
	r.POST("/generate-invoice/xlsx", h.GenerateInvoiceXLSX)
	r.POST("/invoice-preview", h.InvoicePreview)
	r.POST("/support", h.Support)
	return r
}

// multipartBody builds a form with one "images" part per file.
func multipartBody(t *testing.T, field string, files ...[]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for i, f := range files {
		fw, err := mw.CreateFormFile(field, "shot"+string(rune('a'+i))+".png")
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := fw.Write(f); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var er ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return er
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
