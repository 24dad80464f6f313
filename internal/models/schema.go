package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"store/internal/apperr"
)

const fieldBody = "body"

// Reasons reported in validation issues.
const (
	reasonRequired = "field required"
	reasonString   = "must be a string"
	reasonInteger  = "must be an integer"
	reasonNumber   = "must be a number"
	reasonBool     = "must be a boolean"
	reasonEmpty    = "must not be empty"
	reasonObject   = "must be a JSON object"
)

// ParseProductIn decodes and validates a creation payload. Missing status
// defaults to true. Every offending field is reported.
func ParseProductIn(data []byte) (ProductIn, error) {
	fields, err := decodeObject(data)
	if err != nil {
		return ProductIn{}, err
	}

	verr := &apperr.ValidationError{}
	in := ProductIn{Status: true}

	if raw, ok := fields[FieldName]; !ok {
		verr.Add(FieldName, reasonRequired)
	} else if v, err := coerceName(raw); err != nil {
		verr.Add(FieldName, err.Error())
	} else {
		in.Name = v
	}

	if raw, ok := fields[FieldQuantity]; !ok {
		verr.Add(FieldQuantity, reasonRequired)
	} else if v, err := coerceInt(raw); err != nil {
		verr.Add(FieldQuantity, err.Error())
	} else {
		in.Quantity = v
	}

	if raw, ok := fields[FieldPrice]; !ok {
		verr.Add(FieldPrice, reasonRequired)
	} else if v, err := coerceFloat(raw); err != nil {
		verr.Add(FieldPrice, err.Error())
	} else {
		in.Price = v
	}

	if raw, ok := fields[FieldStatus]; ok {
		if v, err := coerceBool(raw); err != nil {
			verr.Add(FieldStatus, err.Error())
		} else {
			in.Status = v
		}
	}

	if verr.HasIssues() {
		return ProductIn{}, verr
	}
	return in, nil
}

// ParseProductUpdate decodes and validates a partial update payload. Keys
// that are not updatable fields, id and created_at included, are ignored.
func ParseProductUpdate(data []byte) (ProductUpdate, error) {
	fields, err := decodeObject(data)
	if err != nil {
		return ProductUpdate{}, err
	}

	verr := &apperr.ValidationError{}
	var u ProductUpdate

	if raw, ok := fields[FieldName]; ok {
		if v, err := coerceName(raw); err != nil {
			verr.Add(FieldName, err.Error())
		} else {
			u.Name = Some(v)
		}
	}
	if raw, ok := fields[FieldQuantity]; ok {
		if v, err := coerceInt(raw); err != nil {
			verr.Add(FieldQuantity, err.Error())
		} else {
			u.Quantity = Some(v)
		}
	}
	if raw, ok := fields[FieldPrice]; ok {
		if v, err := coerceFloat(raw); err != nil {
			verr.Add(FieldPrice, err.Error())
		} else {
			u.Price = Some(v)
		}
	}
	if raw, ok := fields[FieldStatus]; ok {
		if v, err := coerceBool(raw); err != nil {
			verr.Add(FieldStatus, err.Error())
		} else {
			u.Status = Some(v)
		}
	}

	if verr.HasIssues() {
		return ProductUpdate{}, verr
	}
	return u, nil
}

// decodeObject decodes a single JSON object, keeping numbers as json.Number.
func decodeObject(data []byte) (map[string]interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, apperr.Invalid(fieldBody, "malformed JSON: "+err.Error())
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, apperr.Invalid(fieldBody, "unexpected data after JSON object")
	}

	fields, ok := v.(map[string]interface{})
	if !ok {
		return nil, apperr.Invalid(fieldBody, reasonObject)
	}
	return fields, nil
}

func coerceName(raw interface{}) (string, error) {
	s, ok := raw.(string)
	if !ok {
		return "", errors.New(reasonString)
	}
	if s == "" {
		return "", errors.New(reasonEmpty)
	}
	return s, nil
}

func coerceInt(raw interface{}) (int, error) {
	var text string
	switch v := raw.(type) {
	case json.Number:
		text = v.String()
	case string:
		text = strings.TrimSpace(v)
	default:
		return 0, errors.New(reasonInteger)
	}

	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		if n < math.MinInt || n > math.MaxInt {
			return 0, errors.New(reasonInteger)
		}
		return int(n), nil
	}

	// Integral decimals such as 5.0 are accepted.
	d, ok := parseDecimal(text)
	if !ok || !d.IsInteger() {
		return 0, errors.New(reasonInteger)
	}
	if d.LessThan(decimal.NewFromInt(math.MinInt64)) || d.GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return 0, errors.New(reasonInteger)
	}
	return int(d.IntPart()), nil
}

func coerceFloat(raw interface{}) (float64, error) {
	var text string
	switch v := raw.(type) {
	case json.Number:
		text = v.String()
	case string:
		text = strings.TrimSpace(v)
	default:
		return 0, errors.New(reasonNumber)
	}

	d, ok := parseDecimal(text)
	if !ok {
		return 0, errors.New(reasonNumber)
	}
	f, _ := d.Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, errors.New(reasonNumber)
	}
	return f, nil
}

// Bounds on numeric text. Comparing or converting a decimal expands it to
// roughly 10^exponent, so both length and exponent are capped before that.
const (
	maxNumberLength   = 64
	maxNumberExponent = 400
)

// parseDecimal parses text as a decimal within the numeric bounds.
func parseDecimal(text string) (decimal.Decimal, bool) {
	if len(text) > maxNumberLength {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, false
	}
	if exp := d.Exponent(); exp > maxNumberExponent || exp < -maxNumberExponent {
		return decimal.Zero, false
	}
	return d, true
}

var boolWords = map[string]bool{
	"true": true, "t": true, "yes": true, "y": true, "on": true, "1": true,
	"false": false, "f": false, "no": false, "n": false, "off": false, "0": false,
}

func coerceBool(raw interface{}) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case json.Number:
		switch v.String() {
		case "1":
			return true, nil
		case "0":
			return false, nil
		}
	case string:
		if b, ok := boolWords[strings.ToLower(strings.TrimSpace(v))]; ok {
			return b, nil
		}
	}
	return false, errors.New(reasonBool)
}
