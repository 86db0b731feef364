package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/tbourn/go-invoice-backend/internal/domain"
)

const (
	fenceOpen  = "```json"
	fenceClose = "```"
	itemsKey   = "items"
)

// Document is a normalized extraction result: every top-level key of the
// parsed object except "items", plus the typed line items.
//
// Numbers inside Fields are json.Number when the document came from
// Normalize or DecodeObject.
type Document struct {
	Fields map[string]any
	Items  []domain.Item
}

// StripFences trims surrounding whitespace and removes a leading ```json
// marker and a trailing ``` marker. Interior content is untouched.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, fenceOpen)
	s = strings.TrimSuffix(s, fenceClose)
	return strings.TrimSpace(s)
}

// Normalize parses raw model output and normalizes its items.
func Normalize(raw string) (Document, error) {
	obj, err := DecodeObject(strings.NewReader(StripFences(raw)))
	if err != nil {
		return Document{}, err
	}
	return NormalizeMapping(obj)
}

// DecodeObject strictly decodes a single JSON object from r. Numbers are kept
// as json.Number so integer and decimal values survive unchanged.
func DecodeObject(r io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after JSON value", ErrMalformedResponse)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected a JSON object, got %s", ErrMalformedResponse, jsonKind(v))
	}
	return obj, nil
}

// NormalizeMapping checks an already decoded object against the document
// schema and normalizes its "items" field. The input map is not modified.
func NormalizeMapping(obj map[string]any) (Document, error) {
	if err := checkDocument(obj); err != nil {
		return Document{}, err
	}
	items, err := classifyItems(obj[itemsKey]).normalize()
	if err != nil {
		return Document{}, err
	}

	fields := make(map[string]any, len(obj))
	for k, v := range obj {
		if k != itemsKey {
			fields[k] = v
		}
	}
	return Document{Fields: fields, Items: items}, nil
}

// itemsShape is the closed set of accepted representations of "items".
type itemsShape interface {
	normalize() ([]domain.Item, error)
}

type (
	itemsAbsent struct{}       // missing, null, number or boolean
	itemsText   string         // one free-text item
	itemsObject map[string]any // one structured item
	itemsList   []any          // structured items; non-objects are skipped
)

// classifyItems picks the shape of an items value. Anything other than a
// list, string or object, including a missing key, reads as no items.
func classifyItems(v any) itemsShape {
	switch t := v.(type) {
	case []any:
		return itemsList(t)
	case string:
		return itemsText(t)
	case map[string]any:
		return itemsObject(t)
	default:
		return itemsAbsent{}
	}
}

func (itemsAbsent) normalize() ([]domain.Item, error) { return []domain.Item{}, nil }

func (s itemsText) normalize() ([]domain.Item, error) {
	return []domain.Item{{Description: string(s), Quantity: 1, Rate: 0}}, nil
}

func (s itemsObject) normalize() ([]domain.Item, error) {
	it, err := itemFromObject(s, "items")
	if err != nil {
		return nil, err
	}
	return []domain.Item{it}, nil
}

func (s itemsList) normalize() ([]domain.Item, error) {
	out := make([]domain.Item, 0, len(s))
	for i, el := range s {
		m, ok := el.(map[string]any)
		if !ok {
			continue
		}
		it, err := itemFromObject(m, fmt.Sprintf("items[%d]", i))
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, nil
}

func itemFromObject(m map[string]any, path string) (domain.Item, error) {
	it := domain.Item{Quantity: 1}

	if v, ok := lookup(m, "description"); ok {
		it.Description = toText(v)
	}
	if v, ok := lookup(m, "quantity"); ok {
		q, ok := toInt(v)
		if !ok {
			return domain.Item{}, &CoercionError{Path: path + ".quantity", Value: v, Want: "integer"}
		}
		it.Quantity = q
	}
	if v, ok := lookup(m, "rate"); ok {
		r, ok := toFloat(v)
		if !ok {
			return domain.Item{}, &CoercionError{Path: path + ".rate", Value: v, Want: "number"}
		}
		it.Rate = r
	}
	return it, nil
}

// lookup treats an explicit null like a missing key.
func lookup(m map[string]any, key string) (any, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func toText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

// toInt truncates numbers toward zero and parses base-10 integer strings.
func toInt(v any) (int, bool) {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i), true
		}
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return truncate(f)
	case float64:
		return truncate(t)
	case int:
		return t, true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

func truncate(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0, false
	}
	return int(math.Trunc(f)), true
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case json.Number:
		x, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = x
	case float64:
		f = t
	case int:
		f = float64(t)
	case bool:
		if t {
			f = 1
		}
	case string:
		x, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = x
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number, float64, int:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
