package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// ErrInvalidValue is returned when a required field of a raw row cannot be
// coerced into the expected type.
var ErrInvalidValue = errors.New("invalid value")

// The row mapping layer converts loosely-typed rows (decoded JSON from the
// legacy system's export) into typed records. Required identifiers use
// coerce-or-fail, optional numerics use coerce-or-null, booleans coerce via
// truthiness. It is pure and does no I/O.

// toFiniteNumber coerces v into a finite float64 or fails with ErrInvalidValue.
func toFiniteNumber(v any) (float64, error) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidValue, n.String())
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidValue, n)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("%w: %T", ErrInvalidValue, v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: not finite", ErrInvalidValue)
	}
	return f, nil
}

// toNullableFiniteNumber coerces v into a finite float64, or nil when the
// value is missing or not representable.
func toNullableFiniteNumber(v any) *float64 {
	if v == nil {
		return nil
	}
	f, err := toFiniteNumber(v)
	if err != nil {
		return nil
	}
	return &f
}

// truthy coerces v into a boolean the way loosely-typed rows expect.
func truthy(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b != "" && b != "0" && b != "false"
	case nil:
		return false
	default:
		if f, err := toFiniteNumber(v); err == nil {
			return f != 0
		}
		return true
	}
}

func rowString(row map[string]any, key string) string {
	if s, ok := row[key].(string); ok {
		return s
	}
	return ""
}

func rowID(row map[string]any, key string) (uint, error) {
	f, err := toFiniteNumber(row[key])
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if f < 0 || f != math.Trunc(f) {
		return 0, fmt.Errorf("%s: %w: %v", key, ErrInvalidValue, f)
	}
	return uint(f), nil
}

// CategoryFromRow maps a raw category row into a typed record.
func CategoryFromRow(row map[string]any) (Category, error) {
	id, err := rowID(row, "id")
	if err != nil {
		return Category{}, err
	}
	return Category{
		ID:   id,
		Name: rowString(row, "name"),
		Slug: rowString(row, "slug"),
	}, nil
}

// ProductFromRow maps a raw product row into a typed record. The id must
// coerce to a finite number; price and category_id default to null.
func ProductFromRow(row map[string]any) (Product, error) {
	id, err := rowID(row, "id")
	if err != nil {
		return Product{}, err
	}

	p := Product{
		ID:          id,
		Name:        rowString(row, "name"),
		Description: rowString(row, "description"),
		InStock:     truthy(row["in_stock"]),
	}

	if f := toNullableFiniteNumber(row["price"]); f != nil {
		p.Price = decimal.NullDecimal{Decimal: decimal.NewFromFloat(*f), Valid: true}
	}
	if f := toNullableFiniteNumber(row["category_id"]); f != nil && *f >= 0 && *f == math.Trunc(*f) {
		cid := uint(*f)
		p.CategoryID = &cid
	}
	if s := rowString(row, "image"); s != "" {
		p.Image = &s
	}
	return p, nil
}

// RequestFromRow maps a raw inquiry row into a typed record.
func RequestFromRow(row map[string]any) (Request, error) {
	id, err := rowID(row, "id")
	if err != nil {
		return Request{}, err
	}

	r := Request{
		ID:            id,
		ClientName:    rowString(row, "client_name"),
		ClientPhone:   rowString(row, "client_phone"),
		ClientMessage: rowString(row, "client_message"),
	}
	if f := toNullableFiniteNumber(row["product_id"]); f != nil && *f >= 0 && *f == math.Trunc(*f) {
		pid := uint(*f)
		r.ProductID = &pid
	}
	if s := rowString(row, "status"); s != "" {
		r.Status = &s
	}
	return r, nil
}
