package tournament

import (
	"strconv"
	"strings"

	"gorm.io/datatypes"
)

// Changes is a validated partial update. Only keys present in the payload
// are carried; a nullable key sent as null carries NULL.
type Changes struct {
	patch  Tournament
	fields []fieldDef
}

// Keys returns the payload keys carried by the update, in field order.
func (c Changes) Keys() []string {
	keys := make([]string, len(c.fields))
	for i, f := range c.fields {
		keys[i] = f.key
	}
	return keys
}

// Columns maps column names to new values, ready for a SQL UPDATE.
func (c Changes) Columns() map[string]any {
	cols := make(map[string]any, len(c.fields))
	for _, f := range c.fields {
		cols[f.column] = f.value(&c.patch)
	}
	return cols
}

// ApplyTo writes the carried fields onto t.
func (c Changes) ApplyTo(t *Tournament) {
	for _, f := range c.fields {
		f.copy(t, &c.patch)
	}
}

// newTournament returns a record holding every documented default.
func newTournament() *Tournament {
	return &Tournament{
		RegistrationFeesCurrency: DefaultCurrency,
		AgeCategories:            datatypes.JSONSlice[AgeCategory]{},
		FoodOptions:              datatypes.JSONSlice[FoodOption]{},
	}
}

// ValidateCreate checks a full payload and returns a record with defaults
// applied. Unknown keys, including id, createdAt and updatedAt, are
// ignored. On failure the error is an Errors report.
func ValidateCreate(raw []byte) (*Tournament, error) {
	errs := Errors{}
	obj, ok := decodeObject(raw)
	if !ok {
		errs.add("", "Expected object, received "+kindOf(raw))
		return nil, errs
	}

	t := newTournament()
	for _, f := range fields {
		v, present := obj[f.key]
		switch {
		case !present:
			if f.required {
				errs.add(f.key, "Required")
			}
		case isNull(v):
			if !f.nullable {
				errs.add(f.key, "Expected "+kindName(f)+", received null")
				continue
			}
			f.clear(t)
		default:
			f.apply(v, t, errs)
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return t, nil
}

// ValidateUpdate checks a partial payload. Absent keys stay untouched and
// nothing becomes required. An empty object yields empty Changes.
func ValidateUpdate(raw []byte) (Changes, error) {
	errs := Errors{}
	obj, ok := decodeObject(raw)
	if !ok {
		errs.add("", "Expected object, received "+kindOf(raw))
		return Changes{}, errs
	}

	var c Changes
	for _, f := range fields {
		v, present := obj[f.key]
		if !present {
			continue
		}
		if isNull(v) {
			if !f.nullable {
				errs.add(f.key, "Expected "+kindName(f)+", received null")
				continue
			}
			f.clear(&c.patch)
		} else {
			before := len(errs[f.key])
			f.apply(v, &c.patch, errs)
			if len(errs[f.key]) > before || hasNested(errs, f.key) {
				continue
			}
		}
		c.fields = append(c.fields, f)
	}

	if len(errs) > 0 {
		return Changes{}, errs
	}
	return c, nil
}

// ParseID converts a path identifier into a positive integer.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id < 1 {
		return 0, ErrInvalidID
	}
	return id, nil
}

func hasNested(errs Errors, key string) bool {
	prefix := key + "."
	for p := range errs {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

// kindName names the JSON type a field expects, for null rejections.
func kindName(f fieldDef) string {
	switch f.value(newTournament()).(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case int:
		return "integer"
	case float64:
		return "number"
	case datatypes.JSONSlice[AgeCategory], datatypes.JSONSlice[FoodOption]:
		return "array"
	}
	return "string"
}
