package tournament

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/datatypes"
)

// --------------------------------------------------------------------------
// Field validators
// --------------------------------------------------------------------------

// check inspects a decoded value and returns a message, or "" when valid.
type check[T any] func(v T) string

// fieldDef pairs one payload key with its column, decoding and rules.
type fieldDef struct {
	key      string
	column   string
	required bool
	nullable bool

	// apply decodes a non-null raw value into t, recording violations.
	apply func(raw json.RawMessage, t *Tournament, errs Errors)
	// clear stores SQL NULL (nullable fields only).
	clear func(t *Tournament)
	// copy moves the field from src to dst.
	copy func(dst, src *Tournament)
	// value returns the column value held by t.
	value func(t *Tournament) any
}

// fields is the single, ordered definition of a valid payload.
var fields = []fieldDef{
	required(scalar("title", "title", func(t *Tournament) *string { return &t.Title },
		nonEmpty("Title is required"), maxLen(100))),
	scalar("fideRated", "fide_rated", func(t *Tournament) *bool { return &t.FideRated }),
	required(scalar("organizerName", "organizer_name", func(t *Tournament) *string { return &t.OrganizerName },
		nonEmpty("Organizer name is required"), maxLen(100))),
	required(scalar("tournamentLevel", "tournament_level", func(t *Tournament) *string { return &t.TournamentLevel },
		oneOf(Levels))),
	required(dateTime("startDate", "start_date", func(t *Tournament) *time.Time { return &t.StartDate })),
	required(dateTime("endDate", "end_date", func(t *Tournament) *time.Time { return &t.EndDate })),
	required(scalar("reportingTime", "reporting_time", func(t *Tournament) *string { return &t.ReportingTime },
		maxLen(20))),
	required(dateTime("registrationDeadline", "registration_deadline", func(t *Tournament) *time.Time { return &t.RegistrationDeadline })),
	required(scalar("registrationDeadlineTime", "registration_deadline_time", func(t *Tournament) *string { return &t.RegistrationDeadlineTime },
		maxLen(20))),
	required(scalar("chiefArbiterName", "chief_arbiter_name", func(t *Tournament) *string { return &t.ChiefArbiterName },
		nonEmpty("Chief arbiter name is required"), maxLen(100))),
	required(scalar("tournamentDirectorName", "tournament_director_name", func(t *Tournament) *string { return &t.TournamentDirectorName },
		nonEmpty("Tournament director name is required"), maxLen(100))),
	scalar("registrationFeesCurrency", "registration_fees_currency", func(t *Tournament) *string { return &t.RegistrationFeesCurrency },
		currencyCode),
	optional("registrationFeesAmount", "registration_fees_amount", func(t *Tournament) **float64 { return &t.RegistrationFeesAmount },
		minFloat(0), decimal(10, 2)),
	optional("numberOfRounds", "number_of_rounds", func(t *Tournament) **int { return &t.NumberOfRounds },
		minInt(1), maxInt(999)),
	optional("timeControlType", "time_control_type", func(t *Tournament) **string { return &t.TimeControlType },
		maxLen(20)),
	optional("timeControlDuration", "time_control_duration", func(t *Tournament) **string { return &t.TimeControlDuration },
		maxLen(20)),
	optional("timeControlIncrement", "time_control_increment", func(t *Tournament) **string { return &t.TimeControlIncrement },
		maxLen(20)),
	optional("tournamentType", "tournament_type", func(t *Tournament) **string { return &t.TournamentType },
		oneOf(Types)),
	scalar("nationalApproval", "national_approval", func(t *Tournament) *bool { return &t.NationalApproval }),
	scalar("stateApproval", "state_approval", func(t *Tournament) *bool { return &t.StateApproval }),
	scalar("districtApproval", "district_approval", func(t *Tournament) *bool { return &t.DistrictApproval }),

	required(scalar("contactPersonName", "contact_person_name", func(t *Tournament) *string { return &t.ContactPersonName },
		nonEmpty("Contact person name is required"), maxLen(100))),
	optional("emailId", "email_id", func(t *Tournament) **string { return &t.EmailID },
		email, maxLen(100)),
	optional("contactNumber", "contact_number", func(t *Tournament) **string { return &t.ContactNumber },
		maxLen(20)),
	optional("alternateContact", "alternate_contact", func(t *Tournament) **string { return &t.AlternateContact },
		maxLen(20)),

	scalar("numberOfTrophiesMale", "number_of_trophies_male", func(t *Tournament) *int { return &t.NumberOfTrophiesMale },
		minInt(0), maxInt(32767)),
	scalar("numberOfTrophiesFemale", "number_of_trophies_female", func(t *Tournament) *int { return &t.NumberOfTrophiesFemale },
		minInt(0), maxInt(32767)),
	scalar("totalCashPrize", "total_cash_prize", func(t *Tournament) *float64 { return &t.TotalCashPrize },
		minFloat(0), decimal(12, 2)),

	optional("country", "country", func(t *Tournament) **string { return &t.Country }, maxLen(60)),
	optional("state", "state", func(t *Tournament) **string { return &t.State }, maxLen(60)),
	optional("district", "district", func(t *Tournament) **string { return &t.District }, maxLen(60)),
	optional("city", "city", func(t *Tournament) **string { return &t.City }, maxLen(60)),
	optional("pincode", "pincode", func(t *Tournament) **string { return &t.Pincode }, maxLen(10)),
	optional("venueAddress", "venue_address", func(t *Tournament) **string { return &t.VenueAddress }),
	optional("nearestLandmark", "nearest_landmark", func(t *Tournament) **string { return &t.NearestLandmark }, maxLen(100)),
	optional("brochureUrl", "brochure_url", func(t *Tournament) **string { return &t.BrochureURL }, maxLen(255)),
	optional("locationLatitude", "location_latitude", func(t *Tournament) **float64 { return &t.LocationLatitude },
		minFloat(-90), maxFloat(90), decimal(10, 8)),
	optional("locationLongitude", "location_longitude", func(t *Tournament) **float64 { return &t.LocationLongitude },
		minFloat(-180), maxFloat(180), decimal(11, 8)),

	scalar("chessboardProvided", "chessboard_provided", func(t *Tournament) *bool { return &t.ChessboardProvided }),
	scalar("timerProvided", "timer_provided", func(t *Tournament) *bool { return &t.TimerProvided }),
	scalar("parkingFacility", "parking_facility", func(t *Tournament) *int { return &t.ParkingFacility },
		minInt(0), maxInt(MaxParkingFacility)),
	scalar("hasFoodFacility", "has_food_facility", func(t *Tournament) *bool { return &t.HasFoodFacility }),

	list("ageCategories", "age_categories", func(t *Tournament) *datatypes.JSONSlice[AgeCategory] { return &t.AgeCategories },
		ageCategory),
	list("foodOptions", "food_options", func(t *Tournament) *datatypes.JSONSlice[FoodOption] { return &t.FoodOptions },
		foodOption),
}

func required(f fieldDef) fieldDef {
	f.required = true
	return f
}

// scalar defines a non-nullable field.
func scalar[T any](key, column string, get func(*Tournament) *T, checks ...check[T]) fieldDef {
	return fieldDef{
		key:    key,
		column: column,
		apply: func(raw json.RawMessage, t *Tournament, errs Errors) {
			if v, ok := decodeChecked(raw, key, errs, checks); ok {
				*get(t) = v
			}
		},
		copy:  func(dst, src *Tournament) { *get(dst) = *get(src) },
		value: func(t *Tournament) any { return *get(t) },
	}
}

// optional defines a nullable field; JSON null stores NULL.
func optional[T any](key, column string, get func(*Tournament) **T, checks ...check[T]) fieldDef {
	return fieldDef{
		key:      key,
		column:   column,
		nullable: true,
		apply: func(raw json.RawMessage, t *Tournament, errs Errors) {
			if v, ok := decodeChecked(raw, key, errs, checks); ok {
				*get(t) = &v
			}
		},
		clear: func(t *Tournament) { *get(t) = nil },
		copy:  func(dst, src *Tournament) { *get(dst) = clonePtr(*get(src)) },
		value: func(t *Tournament) any {
			if p := *get(t); p != nil {
				return *p
			}
			return nil
		},
	}
}

// dateTime defines a required timestamp sent as an RFC 3339 string.
func dateTime(key, column string, get func(*Tournament) *time.Time) fieldDef {
	return fieldDef{
		key:    key,
		column: column,
		apply: func(raw json.RawMessage, t *Tournament, errs Errors) {
			s, ok := decodeChecked[string](raw, key, errs, nil)
			if !ok {
				return
			}
			ts, err := ParseDateTime(s)
			if err != nil {
				errs.add(key, "Invalid datetime")
				return
			}
			*get(t) = ts
		},
		copy:  func(dst, src *Tournament) { *get(dst) = *get(src) },
		value: func(t *Tournament) any { return *get(t) },
	}
}

// list defines an embedded collection whose entries are validated one by one.
func list[T any](key, column string, get func(*Tournament) *datatypes.JSONSlice[T], item func(obj object, path string, errs Errors) (T, bool)) fieldDef {
	return fieldDef{
		key:    key,
		column: column,
		apply: func(raw json.RawMessage, t *Tournament, errs Errors) {
			var entries []json.RawMessage
			if err := json.Unmarshal(raw, &entries); err != nil {
				errs.add(key, fmt.Sprintf("Expected array, received %s", kindOf(raw)))
				return
			}
			out := make(datatypes.JSONSlice[T], 0, len(entries))
			valid := true
			for i, entry := range entries {
				path := key + "." + strconv.Itoa(i)
				obj, ok := decodeObject(entry)
				if !ok {
					errs.add(path, fmt.Sprintf("Expected object, received %s", kindOf(entry)))
					valid = false
					continue
				}
				v, ok := item(obj, path, errs)
				if !ok {
					valid = false
					continue
				}
				out = append(out, v)
			}
			if valid {
				*get(t) = out
			}
		},
		copy: func(dst, src *Tournament) {
			*get(dst) = append(datatypes.JSONSlice[T]{}, (*get(src))...)
		},
		value: func(t *Tournament) any { return *get(t) },
	}
}

func ageCategory(obj object, path string, errs Errors) (AgeCategory, bool) {
	gender, ok1 := member(obj, path, "gender", errs, oneOf(Genders))
	category, ok2 := member(obj, path, "category", errs, nonEmpty("Category is required"))
	return AgeCategory{Gender: gender, Category: category}, ok1 && ok2
}

func foodOption(obj object, path string, errs Errors) (FoodOption, bool) {
	typ, ok1 := member(obj, path, "type", errs, oneOf(FoodTypes))
	available, ok2 := member[bool](obj, path, "available", errs)
	return FoodOption{Type: typ, Available: available}, ok1 && ok2
}

// member decodes a required key of an embedded entry.
func member[T any](obj object, path, name string, errs Errors, checks ...check[T]) (T, bool) {
	var zero T
	key := path + "." + name
	raw, ok := obj[name]
	if !ok {
		errs.add(key, "Required")
		return zero, false
	}
	if isNull(raw) {
		errs.add(key, fmt.Sprintf("Expected %s, received null", typeName[T]()))
		return zero, false
	}
	return decodeChecked(raw, key, errs, checks)
}

// --------------------------------------------------------------------------
// Rules
// --------------------------------------------------------------------------

func nonEmpty(msg string) check[string] {
	return func(v string) string {
		if strings.TrimSpace(v) == "" {
			return msg
		}
		return ""
	}
}

func maxLen(n int) check[string] {
	return func(v string) string {
		if utf8.RuneCountInString(v) > n {
			return fmt.Sprintf("String must contain at most %d character(s)", n)
		}
		return ""
	}
}

func oneOf(values []string) check[string] {
	return func(v string) string {
		for _, allowed := range values {
			if v == allowed {
				return ""
			}
		}
		return fmt.Sprintf("Invalid enum value. Expected '%s', received '%s'", strings.Join(values, "' | '"), v)
	}
}

func minInt(n int) check[int] {
	return func(v int) string {
		if v < n {
			return fmt.Sprintf("Number must be greater than or equal to %d", n)
		}
		return ""
	}
}

func maxInt(n int) check[int] {
	return func(v int) string {
		if v > n {
			return fmt.Sprintf("Number must be less than or equal to %d", n)
		}
		return ""
	}
}

func minFloat(n float64) check[float64] {
	return func(v float64) string {
		if v < n {
			return fmt.Sprintf("Number must be greater than or equal to %g", n)
		}
		return ""
	}
}

func maxFloat(n float64) check[float64] {
	return func(v float64) string {
		if v > n {
			return fmt.Sprintf("Number must be less than or equal to %g", n)
		}
		return ""
	}
}

// decimal accepts only values a numeric(precision, scale) column stores
// exactly, so the stored record reads back as it was sent.
func decimal(precision, scale int) check[float64] {
	largest := strings.Repeat("9", precision-scale) + "." + strings.Repeat("9", scale)
	limit, _ := strconv.ParseFloat(largest, 64)
	return func(v float64) string {
		if v > limit {
			return "Number must be less than or equal to " + largest
		}
		if v < -limit {
			return "Number must be greater than or equal to -" + largest
		}
		digits := strconv.FormatFloat(v, 'f', -1, 64)
		if i := strings.IndexByte(digits, '.'); i >= 0 && len(digits)-i-1 > scale {
			return fmt.Sprintf("Number must have at most %d decimal places", scale)
		}
		return ""
	}
}

func email(v string) string {
	if !IsValidEmail(v) {
		return "Invalid email"
	}
	return ""
}

func currencyCode(v string) string {
	if len(v) != 3 {
		return "Currency must be a 3-letter code"
	}
	for _, r := range v {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return "Currency must be a 3-letter code"
		}
	}
	return ""
}

// IsValidEmail reports whether s is a bare addr-spec: no display name, no
// whitespace, no leading, trailing or consecutive dots in either part.
func IsValidEmail(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndex(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	for _, part := range []string{s[:at], s[at+1:]} {
		if strings.HasPrefix(part, ".") || strings.HasSuffix(part, ".") || strings.Contains(part, "..") {
			return false
		}
	}
	return true
}

// ParseDateTime accepts RFC 3339 timestamps and bare YYYY-MM-DD dates
// (midnight UTC). Results are normalised to UTC.
func ParseDateTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts.UTC(), nil
	}
	ts, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse datetime %q: %w", s, err)
	}
	return ts.UTC(), nil
}

// --------------------------------------------------------------------------
// JSON decoding helpers
// --------------------------------------------------------------------------

type object map[string]json.RawMessage

func decodeObject(raw []byte) (object, bool) {
	var obj object
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

func decodeChecked[T any](raw json.RawMessage, path string, errs Errors, checks []check[T]) (T, bool) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		errs.add(path, fmt.Sprintf("Expected %s, received %s", typeName[T](), kindOf(raw)))
		return v, false
	}
	ok := true
	for _, c := range checks {
		if msg := c(v); msg != "" {
			errs.add(path, msg)
			ok = false
		}
	}
	return v, ok
}

func typeName[T any]() string {
	var zero T
	switch any(zero).(type) {
	case string:
		return "string"
	case int, int64:
		return "integer"
	case float64:
		return "number"
	case bool:
		return "boolean"
	}
	return "value"
}

func isNull(raw json.RawMessage) bool {
	return kindOf(raw) == "null"
}

func kindOf(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if s == "" {
		return "undefined"
	}
	switch s[0] {
	case '"':
		return "string"
	case '{':
		return "object"
	case '[':
		return "array"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	}
	return "number"
}
