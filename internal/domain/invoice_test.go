package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestInvoiceRecord_MarshalJSON_EmptyRecord(t *testing.T) {
	r := NewInvoiceRecord(nil, nil)

	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(b)
	want := `{"companyName":null,"address":null,"clientName":null,"clientAddress":null,"date":null,"items":[],"gst":null,"paymentMode":null,"paymentStatus":null}`
	if got != want {
		t.Fatalf("json mismatch\n got: %s\nwant: %s", got, want)
	}
}

func TestInvoiceRecord_MarshalJSON_Populated(t *testing.T) {
	r := NewInvoiceRecord(map[Field]string{
		FieldCompanyName: "Acme",
		FieldGST:         "29ABCDE1234F1Z5",
		Field("extra"):   "dropped",
	}, []Item{{Description: "Widget", Quantity: 2, Rate: 9.5}})

	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["companyName"] != "Acme" || m["gst"] != "29ABCDE1234F1Z5" {
		t.Fatalf("scalars not serialized: %v", m)
	}
	if m["address"] != nil {
		t.Fatalf("absent field should be null, got %v", m["address"])
	}
	if _, ok := m["extra"]; ok {
		t.Fatalf("unrecognized field leaked into output: %v", m)
	}
	items, _ := m["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("items = %v", m["items"])
	}
	if !strings.Contains(string(b), `"description":"Widget","quantity":2,"rate":9.5`) {
		t.Fatalf("item shape unexpected: %s", b)
	}
}

func TestInvoiceRecord_IsImmutable(t *testing.T) {
	values := map[Field]string{FieldDate: "2024-01-01"}
	items := []Item{{Description: "a", Quantity: 1}}
	r := NewInvoiceRecord(values, items)

	values[FieldDate] = "mutated"
	items[0].Description = "mutated"
	if got := r.Value(FieldDate); got != "2024-01-01" {
		t.Fatalf("record shares caller map: %q", got)
	}
	if got := r.Items()[0].Description; got != "a" {
		t.Fatalf("record shares caller slice: %q", got)
	}

	out := r.Items()
	out[0].Description = "changed"
	if r.Items()[0].Description != "a" {
		t.Fatalf("Items() must return a copy")
	}
}

func TestInvoiceRecord_GetAndSubtotal(t *testing.T) {
	r := NewInvoiceRecord(map[Field]string{FieldPaymentMode: ""}, []Item{
		{Quantity: 2, Rate: 10},
		{Quantity: 3, Rate: 0.5},
	})
	if v, ok := r.Get(FieldPaymentMode); !ok || v != "" {
		t.Fatalf("present empty string should be reported present")
	}
	if _, ok := r.Get(FieldAddress); ok {
		t.Fatalf("absent field reported present")
	}
	if got := r.Subtotal(); got != 21.5 {
		t.Fatalf("Subtotal = %v; want 21.5", got)
	}
}
