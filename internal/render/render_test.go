package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/language"

	"github.com/tbourn/go-invoice-backend/internal/domain"
	"github.com/tbourn/go-invoice-backend/internal/extract"
)

func sampleView(t *testing.T) View {
	t.Helper()
	var data map[string]any
	body := `{
	  "companyName": "Acme Studio",
	  "address": "12 Main St",
	  "Client Name": "Bob",
	  "date": "2024-05-01",
	  "totalAmount": "3200",
	  "items": [
	    {"description": "Logo design", "quantity": 2, "rate": 1500},
	    {"description": "Revisions", "rate": 200}
	  ]
	}`
	if err := json.Unmarshal([]byte(body), &data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	v, err := NewView(data)
	if err != nil {
		t.Fatalf("NewView: %v", err)
	}
	return v
}

func TestNewView_ComputesLinesAndKeepsPlaceholders(t *testing.T) {
	v := sampleView(t)

	if len(v.Lines) != 2 {
		t.Fatalf("lines = %d", len(v.Lines))
	}
	if v.Lines[0].Amount != 3000 || v.Lines[1].Quantity != 1 || v.Lines[1].Amount != 200 {
		t.Fatalf("unexpected lines: %+v", v.Lines)
	}
	if v.Subtotal != 3200 {
		t.Fatalf("subtotal = %v", v.Subtotal)
	}
	if v.Field("clientName") != "Bob" {
		t.Fatalf("alias not applied: %q", v.Field("clientName"))
	}
	if v.StatedTotal() != "3200" {
		t.Fatalf("stated total = %q", v.StatedTotal())
	}
	if keys := v.ExtraKeys(); len(keys) != 2 || keys[0] != "Client Name" || keys[1] != "totalAmount" {
		t.Fatalf("extra keys = %v", keys)
	}
}

func TestNewView_MalformedItemsFail(t *testing.T) {
	_, err := NewView(map[string]any{"items": []any{map[string]any{"quantity": "lots"}}})
	if !errors.Is(err, extract.ErrMalformedResponse) {
		t.Fatalf("want ErrMalformedResponse, got %v", err)
	}
}

func TestFromRecord(t *testing.T) {
	rec := domain.NewInvoiceRecord(
		map[domain.Field]string{domain.FieldCompanyName: "Acme"},
		[]domain.Item{{Description: "a", Quantity: 3, Rate: 2.5}},
	)
	v := FromRecord(rec)
	if v.Field("companyName") != "Acme" || v.Subtotal != 7.5 || v.Lines[0].Amount != 7.5 {
		t.Fatalf("unexpected view: %+v", v)
	}
	if v.Field("nope") != "" {
		t.Fatalf("unknown field should be empty")
	}
}

func TestFormatter(t *testing.T) {
	f := NewFormatter(language.Und)
	if got := f.Money(12.5); got != "12.50" {
		t.Fatalf("Money = %q", got)
	}
	if got := f.Quantity(7); got != "7" {
		t.Fatalf("Quantity = %q", got)
	}
}

func TestHTMLRenderer(t *testing.T) {
	r, err := NewHTMLRenderer(NewFormatter(language.English))
	if err != nil {
		t.Fatalf("NewHTMLRenderer: %v", err)
	}
	var buf bytes.Buffer
	if err := r.Render(&buf, sampleView(t)); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Acme Studio", "Logo design", "Revisions", "Bob", "2024-05-01", "200.00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q", want)
		}
	}
	if !strings.HasPrefix(r.ContentType(), "text/html") {
		t.Fatalf("content type = %q", r.ContentType())
	}
}

func TestHTMLRenderer_EscapesContent(t *testing.T) {
	r, err := NewHTMLRenderer(NewFormatter(language.English))
	if err != nil {
		t.Fatalf("NewHTMLRenderer: %v", err)
	}
	v, err := NewView(map[string]any{"companyName": "<script>x</script>"})
	if err != nil {
		t.Fatalf("NewView: %v", err)
	}
	var buf bytes.Buffer
	if err := r.Render(&buf, v); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(buf.String(), "<script>x</script>") {
		t.Fatalf("value was not escaped")
	}
	if !strings.Contains(buf.String(), "No items") {
		t.Fatalf("empty items row missing")
	}
}

func TestPDFRenderer(t *testing.T) {
	r := NewPDFRenderer(NewFormatter(language.English))
	var buf bytes.Buffer
	if err := r.Render(&buf, sampleView(t)); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
	n, err := api.PageCount(bytes.NewReader(buf.Bytes()), nil)
	if err != nil {
		t.Fatalf("PageCount: %v", err)
	}
	if n != 1 {
		t.Fatalf("pages = %d; want 1", n)
	}
}

func TestPDFRenderer_LayoutPaginates(t *testing.T) {
	items := make([]domain.Item, 80)
	for i := range items {
		items[i] = domain.Item{Description: "line", Quantity: 1, Rate: 1}
	}
	v := FromRecord(domain.NewInvoiceRecord(nil, items))
	doc := NewPDFRenderer(NewFormatter(language.English)).layout(v)
	if len(doc.Pages) < 2 {
		t.Fatalf("80 lines should span several pages, got %d", len(doc.Pages))
	}
	for k, pg := range doc.Pages {
		for _, tx := range pg.Content.Text {
			if tx.Pos[1] < marginBottom {
				t.Fatalf("page %s: text below bottom margin at y=%v", k, tx.Pos[1])
			}
		}
	}
}

func TestXLSXRenderer(t *testing.T) {
	r := NewXLSXRenderer()
	var buf bytes.Buffer
	if err := r.Render(&buf, sampleView(t)); err != nil {
		t.Fatalf("Render: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	if got, _ := f.GetCellValue(sheetName, "B1"); got != "Acme Studio" {
		t.Fatalf("B1 = %q", got)
	}
	// Header block is 8 rows, a blank row, then the table header on row 10.
	if got, _ := f.GetCellValue(sheetName, "A10"); got != "Description" {
		t.Fatalf("A10 = %q", got)
	}
	if got, _ := f.GetCellValue(sheetName, "A11"); got != "Logo design" {
		t.Fatalf("A11 = %q", got)
	}
	if got, _ := f.GetCellValue(sheetName, "D13"); got != "3200" {
		t.Fatalf("D13 = %q", got)
	}
}

func TestClip(t *testing.T) {
	if clip("short", 10) != "short" {
		t.Fatalf("short strings are kept")
	}
	if got := clip("abcdefghij", 5); got != "abcd..." {
		t.Fatalf("clip = %q", got)
	}
}
