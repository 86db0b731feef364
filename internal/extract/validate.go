package extract

import "github.com/tbourn/go-invoice-backend/internal/domain"

// aliases maps the labels the extraction prompt asks for onto record fields.
// A canonical key carrying a value wins over its alias.
var aliases = map[domain.Field]string{
	domain.FieldGST:           "GSTIN No.",
	domain.FieldClientName:    "Client Name",
	domain.FieldClientAddress: "Client Address",
}

// Validate maps a normalized document onto an InvoiceRecord.
//
// Policy for recognized scalar fields:
//   - missing or null: absent
//   - string: kept verbatim
//   - number or boolean: canonical string form
//
// Objects and arrays never reach Validate from Normalize or NormalizeMapping;
// the document schema rejects them with ErrInvalidRecord. Unrecognized keys
// are ignored.
func Validate(doc Document) domain.InvoiceRecord {
	raw := make(map[string]any, len(domain.Fields))
	for _, f := range domain.Fields {
		if v, ok := doc.Fields[string(f)]; ok && v != nil {
			raw[string(f)] = v
			continue
		}
		if alias, ok := aliases[f]; ok {
			if v, ok := doc.Fields[alias]; ok && v != nil {
				raw[string(f)] = v
			}
		}
	}

	values := make(map[domain.Field]string, len(raw))
	for k, v := range raw {
		values[domain.Field(k)] = toText(v)
	}
	return domain.NewInvoiceRecord(values, doc.Items)
}

// Parse runs Normalize then Validate over raw model output.
func Parse(raw string) (domain.InvoiceRecord, error) {
	doc, err := Normalize(raw)
	if err != nil {
		return domain.InvoiceRecord{}, err
	}
	return Validate(doc), nil
}
