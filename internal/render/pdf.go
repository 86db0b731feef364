package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// A4 portrait in points, origin lower left.
const (
	pageHeight   = 842.0
	marginLeft   = 50.0
	marginTop    = 60.0
	marginBottom = 60.0
	lineHeight   = 18.0

	colQty    = 330.0
	colRate   = 400.0
	colAmount = 480.0

	fontRegular = "Helvetica"
	fontBold    = "Helvetica-Bold"

	maxDescriptionRunes = 48
)

var disableConfigDir sync.Once

// PDFRenderer lays the invoice out as pdfcpu page content and builds the PDF
// with api.Create. Core fonts only; no external assets.
type PDFRenderer struct {
	f Formatter
}

// NewPDFRenderer returns a PDFRenderer. pdfcpu's on-disk config directory is
// disabled process-wide; the built-in defaults are used.
func NewPDFRenderer(f Formatter) *PDFRenderer {
	disableConfigDir.Do(api.DisableConfigDir)
	return &PDFRenderer{f: f}
}

// ContentType implements Renderer.
func (r *PDFRenderer) ContentType() string { return "application/pdf" }

// Render writes a PDF of v to w.
func (r *PDFRenderer) Render(w io.Writer, v View) error {
	desc, err := json.Marshal(r.layout(v))
	if err != nil {
		return fmt.Errorf("%w: pdf layout: %v", ErrRender, err)
	}

	var buf bytes.Buffer
	if err := api.Create(nil, bytes.NewReader(desc), &buf, model.NewDefaultConfiguration()); err != nil {
		return fmt.Errorf("%w: pdf: %v", ErrRender, err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("%w: pdf write: %v", ErrRender, err)
	}
	return nil
}

// pdfcpu create descriptor (subset).
type pdfDoc struct {
	Paper string             `json:"paper"`
	Pages map[string]pdfPage `json:"pages"`
}

type pdfPage struct {
	Content pdfContent `json:"content"`
}

type pdfContent struct {
	Text []pdfText `json:"text"`
}

type pdfText struct {
	Value string     `json:"value"`
	Pos   [2]float64 `json:"pos"`
	Font  pdfFont    `json:"font"`
}

type pdfFont struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

// pager accumulates text runs, opening a new page when the cursor reaches the
// bottom margin.
type pager struct {
	pages []pdfPage
	y     float64
}

func newPager() *pager {
	p := &pager{}
	p.newPage()
	return p
}

func (p *pager) newPage() {
	p.pages = append(p.pages, pdfPage{})
	p.y = pageHeight - marginTop
}

func (p *pager) text(x float64, s, font string, size int) {
	if s == "" {
		return
	}
	pg := &p.pages[len(p.pages)-1]
	pg.Content.Text = append(pg.Content.Text, pdfText{
		Value: s,
		Pos:   [2]float64{x, p.y},
		Font:  pdfFont{Name: font, Size: size},
	})
}

func (p *pager) advance(lines float64) {
	p.y -= lines * lineHeight
	if p.y < marginBottom {
		p.newPage()
	}
}

func (r *PDFRenderer) layout(v View) pdfDoc {
	p := newPager()

	p.text(marginLeft, orDefault(v.Field("companyName"), "Invoice"), fontBold, 20)
	p.advance(1.5)
	for _, line := range []string{
		v.Field("address"),
		prefixed("GSTIN: ", v.Field("gst")),
		prefixed("Date: ", v.Field("date")),
		prefixed("Payment mode: ", v.Field("paymentMode")),
		prefixed("Status: ", v.Field("paymentStatus")),
	} {
		if line == "" {
			continue
		}
		p.text(marginLeft, line, fontRegular, 10)
		p.advance(1)
	}

	p.advance(1)
	p.text(marginLeft, "Bill to", fontBold, 11)
	p.advance(1)
	p.text(marginLeft, orDefault(v.Field("clientName"), "-"), fontRegular, 11)
	p.advance(1)
	if addr := v.Field("clientAddress"); addr != "" {
		p.text(marginLeft, addr, fontRegular, 10)
		p.advance(1)
	}

	p.advance(1)
	r.tableHeader(p)
	for i, l := range v.Lines {
		p.text(marginLeft, strconv.Itoa(i+1)+". "+clip(l.Description, maxDescriptionRunes), fontRegular, 10)
		p.text(colQty, r.f.Quantity(l.Quantity), fontRegular, 10)
		p.text(colRate, r.f.Money(l.Rate), fontRegular, 10)
		p.text(colAmount, r.f.Money(l.Amount), fontRegular, 10)
		p.advance(1)
	}

	p.advance(0.5)
	p.text(colRate, "Subtotal", fontBold, 11)
	p.text(colAmount, r.f.Money(v.Subtotal), fontBold, 11)
	if total := v.StatedTotal(); total != "" {
		p.advance(1)
		p.text(colRate, "Total", fontBold, 11)
		p.text(colAmount, total, fontBold, 11)
	}

	doc := pdfDoc{Paper: "A4P", Pages: make(map[string]pdfPage, len(p.pages))}
	for i, pg := range p.pages {
		doc.Pages[strconv.Itoa(i+1)] = pg
	}
	return doc
}

func (r *PDFRenderer) tableHeader(p *pager) {
	p.text(marginLeft, "Description", fontBold, 10)
	p.text(colQty, "Qty", fontBold, 10)
	p.text(colRate, "Rate", fontBold, 10)
	p.text(colAmount, "Amount", fontBold, 10)
	p.advance(1)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func prefixed(prefix, s string) string {
	if s == "" {
		return ""
	}
	return prefix + s
}

func clip(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n-1]) + "..."
}
