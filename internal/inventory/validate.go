package inventory

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"stockroom/internal/models"

	"github.com/shopspring/decimal"
)

// Validation failure reasons, as they appear on the wire.
const (
	ReasonMissing      = "missing_field"
	ReasonInvalidRange = "invalid_range"
	ReasonInvalidEnum  = "invalid_enum"
)

// FieldError names one violated rule on one payload field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Reason)
	}
	return strings.Join(parts, ", ")
}

// Number is a payload numeric that accepts either a JSON number or a numeric
// string as sent by form clients ("12,50", " 3 ", "R$ 4.20").
type Number struct {
	raw string
}

// NumberFromString wraps a raw form value as typed by a user.
func NumberFromString(s string) *Number {
	return &Number{raw: strings.TrimSpace(s)}
}

func (n *Number) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	s := string(b)
	if len(s) >= 2 && s[0] == '"' {
		var unquoted string
		if err := json.Unmarshal(b, &unquoted); err != nil {
			return err
		}
		s = unquoted
	}
	n.raw = strings.TrimSpace(s)
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.raw)
}

// Empty reports whether no usable value was supplied. A literal zero is a
// value, not an absence.
func (n *Number) Empty() bool {
	return n == nil || n.raw == ""
}

// clean strips everything that is not part of a number so "R$ 1.234,56" and
// "12,5" both parse. A decimal comma becomes a decimal point.
func (n Number) clean() string {
	s := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',', r == '-', r == '+':
			return r
		default:
			return -1
		}
	}, n.raw)
	if strings.Contains(s, ",") {
		if strings.Contains(s, ".") {
			// "1.234,56": the dots are thousands separators
			s = strings.ReplaceAll(s, ".", "")
		}
		s = strings.ReplaceAll(s, ",", ".")
	}
	return s
}

func (n Number) Float() (float64, error) {
	return strconv.ParseFloat(n.clean(), 64)
}

func (n Number) Int() (int, error) {
	s := n.clean()
	if i, err := strconv.Atoi(s); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, strconv.ErrSyntax
	}
	return int(f), nil
}

func (n Number) Decimal() (decimal.Decimal, error) {
	return decimal.NewFromString(n.clean())
}

// Payload is the wire shape of a create or update request. Pointer fields
// keep "absent" distinguishable from "present and zero".
type Payload struct {
	Name         *string `json:"name"`
	Quantity     *Number `json:"quantity"`
	Unit         *string `json:"unit"`
	Supplier     *string `json:"supplier"`
	ReorderPoint *Number `json:"reorder_point"`
	UnitCost     *Number `json:"unit_cost"`
	Location     *string `json:"location"`
}

// Validator checks ingredient payloads against the configured option sets.
// With AllowNewLocations set, a location outside the list still passes as
// long as it is non-empty; the store persists whatever string arrives.
type Validator struct {
	Units             []string
	Locations         []string
	AllowNewLocations bool
}

// DefaultValidator carries the option sets the stock room uses.
func DefaultValidator() Validator {
	return Validator{
		Units:             models.Units,
		Locations:         models.Locations,
		AllowNewLocations: true,
	}
}

// Validate checks every rule and returns the normalized record: strings
// trimmed, numbers parsed, cost rounded to two fraction digits. Every
// violated rule is reported, not just the first.
func (v Validator) Validate(p Payload) (models.Ingredient, FieldErrors) {
	var ing models.Ingredient
	var errs FieldErrors

	if name, ok := trimmed(p.Name); !ok {
		errs = append(errs, FieldError{"name", ReasonMissing})
	} else {
		ing.Name = name
	}

	if p.Quantity.Empty() {
		errs = append(errs, FieldError{"quantity", ReasonMissing})
	} else if q, err := p.Quantity.Float(); err != nil || q < 0 {
		errs = append(errs, FieldError{"quantity", ReasonInvalidRange})
	} else {
		ing.Quantity = q
	}

	if unit, ok := trimmed(p.Unit); !ok {
		errs = append(errs, FieldError{"unit", ReasonMissing})
	} else if !contains(v.Units, unit) {
		errs = append(errs, FieldError{"unit", ReasonInvalidEnum})
	} else {
		ing.Unit = unit
	}

	if supplier, ok := trimmed(p.Supplier); !ok {
		errs = append(errs, FieldError{"supplier", ReasonMissing})
	} else {
		ing.Supplier = supplier
	}

	if p.ReorderPoint.Empty() {
		errs = append(errs, FieldError{"reorder_point", ReasonMissing})
	} else if rp, err := p.ReorderPoint.Int(); err != nil || rp < 0 {
		errs = append(errs, FieldError{"reorder_point", ReasonInvalidRange})
	} else {
		ing.ReorderPoint = rp
	}

	if p.UnitCost.Empty() {
		errs = append(errs, FieldError{"unit_cost", ReasonMissing})
	} else if cost, err := p.UnitCost.Decimal(); err != nil || cost.IsNegative() {
		errs = append(errs, FieldError{"unit_cost", ReasonInvalidRange})
	} else {
		ing.UnitCost = cost.Round(2)
	}

	if loc, ok := trimmed(p.Location); !ok {
		errs = append(errs, FieldError{"location", ReasonMissing})
	} else if !contains(v.Locations, loc) && !v.AllowNewLocations {
		errs = append(errs, FieldError{"location", ReasonInvalidEnum})
	} else {
		ing.Location = loc
	}

	if len(errs) > 0 {
		return models.Ingredient{}, errs
	}
	return ing, nil
}

// ValidateUpdate validates only the fields present in the payload and
// applies them to ing. Absent fields keep their stored values.
func (v Validator) ValidateUpdate(p Payload, ing *models.Ingredient) FieldErrors {
	var errs FieldErrors

	if p.Name != nil {
		if name, ok := trimmed(p.Name); !ok {
			errs = append(errs, FieldError{"name", ReasonMissing})
		} else {
			ing.Name = name
		}
	}

	if !p.Quantity.Empty() {
		if q, err := p.Quantity.Float(); err != nil || q < 0 {
			errs = append(errs, FieldError{"quantity", ReasonInvalidRange})
		} else {
			ing.Quantity = q
		}
	}

	if p.Unit != nil {
		if unit, ok := trimmed(p.Unit); !ok {
			errs = append(errs, FieldError{"unit", ReasonMissing})
		} else if !contains(v.Units, unit) {
			errs = append(errs, FieldError{"unit", ReasonInvalidEnum})
		} else {
			ing.Unit = unit
		}
	}

	if p.Supplier != nil {
		if supplier, ok := trimmed(p.Supplier); !ok {
			errs = append(errs, FieldError{"supplier", ReasonMissing})
		} else {
			ing.Supplier = supplier
		}
	}

	if !p.ReorderPoint.Empty() {
		if rp, err := p.ReorderPoint.Int(); err != nil || rp < 0 {
			errs = append(errs, FieldError{"reorder_point", ReasonInvalidRange})
		} else {
			ing.ReorderPoint = rp
		}
	}

	if !p.UnitCost.Empty() {
		if cost, err := p.UnitCost.Decimal(); err != nil || cost.IsNegative() {
			errs = append(errs, FieldError{"unit_cost", ReasonInvalidRange})
		} else {
			ing.UnitCost = cost.Round(2)
		}
	}

	if p.Location != nil {
		if loc, ok := trimmed(p.Location); !ok {
			errs = append(errs, FieldError{"location", ReasonMissing})
		} else if !contains(v.Locations, loc) && !v.AllowNewLocations {
			errs = append(errs, FieldError{"location", ReasonInvalidEnum})
		} else {
			ing.Location = loc
		}
	}

	return errs
}

func trimmed(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	t := strings.TrimSpace(*s)
	return t, t != ""
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
