package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/tbourn/go-invoice-backend/internal/domain"
)

const schemaURL = "invoice_document.json"

// Patterns for item values given as strings. They match what the item
// coercion accepts: base-10 integers for quantity, decimals for rate.
const (
	integerPattern = `^\s*[+-]?[0-9]+\s*$`
	decimalPattern = `^\s*[+-]?([0-9]+(\.[0-9]*)?|\.[0-9]+)([eE][+-]?[0-9]+)?\s*$`
)

var documentSchema = mustCompileSchema(documentSchemaMap())

// documentSchemaMap describes an extraction document:
//   - every recognized field and its prompt label must be a scalar or null
//   - items may be anything; non-list, non-string, non-object values read as
//     no items, and only object items are checked
//   - quantity and rate must be numeric, boolean, null or a numeric string
//
// Unknown keys are allowed.
func documentSchemaMap() map[string]any {
	scalar := map[string]any{"$ref": "#/definitions/scalar"}
	props := make(map[string]any, len(domain.Fields)+len(aliases)+1)
	for _, f := range domain.Fields {
		props[string(f)] = scalar
	}
	for _, label := range aliases {
		props[label] = scalar
	}
	props[itemsKey] = map[string]any{
		"allOf": []any{map[string]any{"$ref": "#/definitions/item"}},
		"items": map[string]any{"$ref": "#/definitions/item"},
	}

	numeric := func(pattern string) map[string]any {
		return map[string]any{"anyOf": []any{
			map[string]any{"type": []any{"number", "boolean", "null"}},
			map[string]any{"type": "string", "pattern": pattern},
		}}
	}

	return map[string]any{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type":    "object",
		"definitions": map[string]any{
			"scalar": map[string]any{"type": []any{"string", "number", "boolean", "null"}},
			// properties only constrain objects; other list elements pass.
			"item": map[string]any{"properties": map[string]any{
				"quantity": numeric(integerPattern),
				"rate":     numeric(decimalPattern),
			}},
		},
		"properties": props,
	}
}

func mustCompileSchema(m map[string]any) *jsonschema.Schema {
	b, err := json.Marshal(m)
	if err != nil {
		panic(fmt.Sprintf("marshal schema: %v", err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(b)); err != nil {
		panic(fmt.Sprintf("add schema: %v", err))
	}
	return compiler.MustCompile(schemaURL)
}

// checkDocument validates a decoded object against documentSchema. Item
// violations come back as *CoercionError (ErrMalformedResponse); field
// violations wrap ErrInvalidRecord.
func checkDocument(obj map[string]any) error {
	err := documentSchema.Validate(obj)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	leaf := deepestCause(ve)
	tokens := pointerTokens(leaf.InstanceLocation)
	if len(tokens) > 0 && tokens[0] == itemsKey {
		path, val := resolve(obj, tokens)
		return &CoercionError{Path: path, Value: val, Want: wantFor(tokens[len(tokens)-1])}
	}
	return fmt.Errorf("%w: %s: %s", ErrInvalidRecord, strings.Join(tokens, "."), leaf.Message)
}

// deepestCause returns the leaf error with the longest instance location.
func deepestCause(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	best := ve
	for _, c := range ve.Causes {
		if d := deepestCause(c); len(pointerTokens(d.InstanceLocation)) > len(pointerTokens(best.InstanceLocation)) {
			best = d
		}
	}
	return best
}

var pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")

func pointerTokens(ptr string) []string {
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return nil
	}
	parts := strings.Split(ptr, "/")
	for i, p := range parts {
		parts[i] = pointerUnescaper.Replace(p)
	}
	return parts
}

// resolve walks obj along tokens and returns a readable path such as
// items[2].rate together with the value found there.
func resolve(obj map[string]any, tokens []string) (string, any) {
	var b strings.Builder
	var cur any = obj
	for i, tok := range tokens {
		switch c := cur.(type) {
		case []any:
			n, err := strconv.Atoi(tok)
			fmt.Fprintf(&b, "[%s]", tok)
			if err != nil || n < 0 || n >= len(c) {
				cur = nil
				continue
			}
			cur = c[n]
		case map[string]any:
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(tok)
			cur = c[tok]
		default:
			b.WriteByte('.')
			b.WriteString(tok)
			cur = nil
		}
	}
	return b.String(), cur
}

func wantFor(key string) string {
	switch key {
	case "quantity":
		return "integer"
	case "rate":
		return "number"
	default:
		return "item"
	}
}
