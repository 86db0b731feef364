package render

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Invoice"

// XLSXRenderer writes the invoice as a single-sheet workbook: a header block
// of key/value rows followed by the line-item table and a subtotal.
type XLSXRenderer struct{}

// NewXLSXRenderer returns an XLSXRenderer.
func NewXLSXRenderer() *XLSXRenderer { return &XLSXRenderer{} }

// ContentType implements Renderer.
func (r *XLSXRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Render writes a workbook of v to w.
func (r *XLSXRenderer) Render(w io.Writer, v View) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: xlsx close: %v", ErrRender, cerr)
		}
	}()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("%w: xlsx: %v", ErrRender, err)
	}

	row := 1
	set := func(col int, val any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheetName, cell, val)
	}

	for _, kv := range [][2]string{
		{"Company", v.Field("companyName")},
		{"Address", v.Field("address")},
		{"GSTIN", v.Field("gst")},
		{"Date", v.Field("date")},
		{"Client", v.Field("clientName")},
		{"Client address", v.Field("clientAddress")},
		{"Payment mode", v.Field("paymentMode")},
		{"Payment status", v.Field("paymentStatus")},
	} {
		set(1, kv[0])
		set(2, kv[1])
		row++
	}

	row++
	for i, h := range []string{"Description", "Quantity", "Rate", "Amount"} {
		set(i+1, h)
	}
	row++
	for _, l := range v.Lines {
		set(1, l.Description)
		set(2, l.Quantity)
		set(3, l.Rate)
		set(4, l.Amount)
		row++
	}
	set(3, "Subtotal")
	set(4, v.Subtotal)
	if total := v.StatedTotal(); total != "" {
		row++
		set(3, "Total")
		set(4, total)
	}

	_ = f.SetColWidth(sheetName, "A", "A", 40)
	_ = f.SetColWidth(sheetName, "B", "D", 14)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("%w: xlsx write: %v", ErrRender, err)
	}
	return nil
}
