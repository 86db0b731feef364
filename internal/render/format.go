package render

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter prints amounts and quantities for a locale.
type Formatter struct {
	p *message.Printer
}

// NewFormatter returns a Formatter for tag; language.Und means English.
func NewFormatter(tag language.Tag) Formatter {
	if tag == language.Und {
		tag = language.English
	}
	return Formatter{p: message.NewPrinter(tag)}
}

// Money formats v with two decimals and locale grouping.
func (f Formatter) Money(v float64) string {
	return f.p.Sprintf("%.2f", v)
}

// Quantity formats n with locale grouping.
func (f Formatter) Quantity(n int) string {
	return f.p.Sprintf("%d", n)
}
