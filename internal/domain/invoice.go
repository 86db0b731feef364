// Package domain defines the invoice types that flow between the extraction
// pipeline, the renderers, and the HTTP layer. All values are request-scoped;
// nothing here is persisted.
package domain

import "encoding/json"

// Item is a single invoice line.
//
// Fields:
//   - Description: free text (empty when the source omitted it).
//   - Quantity: whole units (1 when the source omitted it).
//   - Rate: unit price (0 when the source omitted it).
type Item struct {
	Description string  `json:"description" example:"Logo design"`
	Quantity    int     `json:"quantity"    example:"2"`
	Rate        float64 `json:"rate"        example:"1500"`
}

// Amount returns Quantity × Rate.
func (i Item) Amount() float64 { return float64(i.Quantity) * i.Rate }

// Field names a recognized scalar field of an InvoiceRecord.
type Field string

// Recognized scalar fields, in output order.
const (
	FieldCompanyName   Field = "companyName"
	FieldAddress       Field = "address"
	FieldClientName    Field = "clientName"
	FieldClientAddress Field = "clientAddress"
	FieldDate          Field = "date"
	FieldGST           Field = "gst"
	FieldPaymentMode   Field = "paymentMode"
	FieldPaymentStatus Field = "paymentStatus"
)

// Fields lists every recognized scalar field.
var Fields = []Field{
	FieldCompanyName,
	FieldAddress,
	FieldClientName,
	FieldClientAddress,
	FieldDate,
	FieldGST,
	FieldPaymentMode,
	FieldPaymentStatus,
}

// InvoiceRecord is the validated invoice. It is immutable once built: scalar
// fields are read through Get and Items returns a copy.
//
// Absent scalars serialize as null; Items always serializes as a list.
type InvoiceRecord struct {
	values map[Field]string
	items  []Item
}

// NewInvoiceRecord builds a record from known scalar values and items.
// Keys outside Fields are dropped. The inputs are copied.
func NewInvoiceRecord(values map[Field]string, items []Item) InvoiceRecord {
	r := InvoiceRecord{values: make(map[Field]string, len(values))}
	for _, f := range Fields {
		if v, ok := values[f]; ok {
			r.values[f] = v
		}
	}
	r.items = make([]Item, len(items))
	copy(r.items, items)
	return r
}

// Get returns the value of f and whether it is present.
func (r InvoiceRecord) Get(f Field) (string, bool) {
	v, ok := r.values[f]
	return v, ok
}

// Value returns the value of f, or "" when absent.
func (r InvoiceRecord) Value(f Field) string { return r.values[f] }

// Items returns a copy of the line items. Never nil.
func (r InvoiceRecord) Items() []Item {
	out := make([]Item, len(r.items))
	copy(out, r.items)
	return out
}

// Subtotal sums the line amounts.
func (r InvoiceRecord) Subtotal() float64 {
	var sum float64
	for _, it := range r.items {
		sum += it.Amount()
	}
	return sum
}

// recordJSON fixes the wire shape and key order of an InvoiceRecord.
type recordJSON struct {
	CompanyName   *string `json:"companyName"`
	Address       *string `json:"address"`
	ClientName    *string `json:"clientName"`
	ClientAddress *string `json:"clientAddress"`
	Date          *string `json:"date"`
	Items         []Item  `json:"items"`
	GST           *string `json:"gst"`
	PaymentMode   *string `json:"paymentMode"`
	PaymentStatus *string `json:"paymentStatus"`
}

// MarshalJSON implements json.Marshaler.
func (r InvoiceRecord) MarshalJSON() ([]byte, error) {
	ptr := func(f Field) *string {
		if v, ok := r.values[f]; ok {
			return &v
		}
		return nil
	}
	return json.Marshal(recordJSON{
		CompanyName:   ptr(FieldCompanyName),
		Address:       ptr(FieldAddress),
		ClientName:    ptr(FieldClientName),
		ClientAddress: ptr(FieldClientAddress),
		Date:          ptr(FieldDate),
		Items:         r.Items(),
		GST:           ptr(FieldGST),
		PaymentMode:   ptr(FieldPaymentMode),
		PaymentStatus: ptr(FieldPaymentStatus),
	})
}
