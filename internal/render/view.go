// Package render turns invoice data into documents: an HTML preview, a PDF and
// an XLSX workbook. All renderers consume the same View, built either from a
// validated InvoiceRecord or from the loose key-value mapping a client posts
// back for rendering.
package render

import (
	"encoding/json"
	"errors"
	"io"
	"sort"
	"strconv"

	"github.com/tbourn/go-invoice-backend/internal/domain"
	"github.com/tbourn/go-invoice-backend/internal/extract"
)

// ErrRender wraps template, PDF and spreadsheet generation failures.
var ErrRender = errors.New("render failed")

// totalKey is the placeholder the extraction prompt uses for a stated total.
const totalKey = "totalAmount"

// Renderer writes a View in one document format.
type Renderer interface {
	Render(w io.Writer, v View) error
	ContentType() string
}

// Line is an invoice line with its computed amount.
type Line struct {
	Description string
	Quantity    int
	Rate        float64
	Amount      float64
}

// View is the render input shared by every format.
type View struct {
	Record domain.InvoiceRecord
	// Extra holds scalar placeholders outside the record (e.g. totalAmount).
	Extra    map[string]string
	Lines    []Line
	Subtotal float64
}

// FromRecord builds a View for a validated record.
func FromRecord(rec domain.InvoiceRecord) View {
	items := rec.Items()
	v := View{
		Record: rec,
		Extra:  map[string]string{},
		Lines:  make([]Line, 0, len(items)),
	}
	for _, it := range items {
		v.Lines = append(v.Lines, Line{
			Description: it.Description,
			Quantity:    it.Quantity,
			Rate:        it.Rate,
			Amount:      it.Amount(),
		})
	}
	v.Subtotal = rec.Subtotal()
	return v
}

// NewView builds a View from a decoded key-value mapping. Items go through the
// same normalization as extraction output; unrecognized scalar keys are kept
// as Extra placeholders.
func NewView(data map[string]any) (View, error) {
	doc, err := extract.NormalizeMapping(data)
	if err != nil {
		return View{}, err
	}
	v := FromRecord(extract.Validate(doc))
	for k, raw := range doc.Fields {
		if isRecordField(k) {
			continue
		}
		if s, ok := scalarText(raw); ok {
			v.Extra[k] = s
		}
	}
	return v, nil
}

// Field returns a record field or an extra placeholder by name, "" if absent.
func (v View) Field(name string) string {
	if s, ok := v.Record.Get(domain.Field(name)); ok {
		return s
	}
	return v.Extra[name]
}

// StatedTotal returns the total written on the source document, "" if none.
func (v View) StatedTotal() string {
	return v.Extra[totalKey]
}

// ExtraKeys returns the Extra placeholder names in sorted order.
func (v View) ExtraKeys() []string {
	keys := make([]string, 0, len(v.Extra))
	for k := range v.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func isRecordField(k string) bool {
	for _, f := range domain.Fields {
		if string(f) == k {
			return true
		}
	}
	return false
}

func scalarText(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}
