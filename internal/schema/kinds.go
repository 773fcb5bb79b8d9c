package schema

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the accepted date format, day.month.year. Single-digit days
// and months are accepted alongside zero-padded ones.
const DateLayout = "2.1.2006"

// MaxBirthdayAge bounds how far in the past a birthday may lie.
const MaxBirthdayAge = 70 * 365 * 24 * time.Hour

// Genders are the accepted gender codes.
const (
	GenderUnknown = 0
	GenderMale    = 1
	GenderFemale  = 2
)

// Kind is a reusable value rule: a dynamic type check, an emptiness
// predicate, and an extra rule applied to present non-empty values only.
type Kind interface {
	Check(v any) error
	Empty(v any) bool
	Validate(v any, now time.Time) error
}

// String accepts any JSON string.
type String struct{}

func (String) Check(v any) error {
	if _, ok := v.(string); !ok {
		return errors.New("must be a string")
	}
	return nil
}

func (String) Empty(v any) bool {
	s, _ := v.(string)
	return s == ""
}

func (String) Validate(any, time.Time) error { return nil }

// Email accepts strings containing an "@".
type Email struct{}

func (Email) Check(v any) error { return String{}.Check(v) }
func (Email) Empty(v any) bool  { return String{}.Empty(v) }

func (Email) Validate(v any, _ time.Time) error {
	if !strings.Contains(v.(string), "@") {
		return errors.New("must contain @")
	}
	return nil
}

// Phone accepts a string or a number whose canonical string form is 11 digits
// starting with 7.
type Phone struct{}

func (Phone) Check(v any) error {
	switch v.(type) {
	case string, float64, int, int64:
		return nil
	}
	return errors.New("must be a string or a number")
}

func (Phone) Empty(v any) bool {
	switch n := v.(type) {
	case string:
		return n == ""
	case float64:
		return n == 0
	case int:
		return n == 0
	case int64:
		return n == 0
	}
	return false
}

func (Phone) Validate(v any, _ time.Time) error {
	s := PhoneString(v)
	if !strings.HasPrefix(s, "7") {
		return errors.New("must start with 7")
	}
	if len(s) != 11 {
		return errors.New("must contain 11 digits")
	}
	return nil
}

// PhoneString returns the canonical string form of a phone value.
func PhoneString(v any) string {
	switch n := v.(type) {
	case string:
		return n
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	}
	return ""
}

// Date accepts strings parseable under DateLayout.
type Date struct{}

func (Date) Check(v any) error { return String{}.Check(v) }
func (Date) Empty(v any) bool  { return String{}.Empty(v) }

func (Date) Validate(v any, _ time.Time) error {
	if _, err := time.Parse(DateLayout, v.(string)); err != nil {
		return errors.New("must be a date in DD.MM.YYYY format")
	}
	return nil
}

// Birthday is a Date lying no more than MaxBirthdayAge before now.
type Birthday struct{}

func (Birthday) Check(v any) error { return String{}.Check(v) }
func (Birthday) Empty(v any) bool  { return String{}.Empty(v) }

func (Birthday) Validate(v any, now time.Time) error {
	d, err := time.Parse(DateLayout, v.(string))
	if err != nil {
		return errors.New("must be a date in DD.MM.YYYY format")
	}
	if now.Sub(d) > MaxBirthdayAge {
		return errors.New("must be no more than 70 years in the past")
	}
	return nil
}

// Gender accepts the integer codes 0, 1 or 2. The zero code counts as empty,
// so it passes on nullable fields without reaching the range rule.
type Gender struct{}

func (Gender) Check(v any) error {
	switch n := v.(type) {
	case float64:
		if n != float64(int64(n)) {
			return errors.New("must be an integer")
		}
		return nil
	case int, int64:
		return nil
	}
	return errors.New("must be an integer")
}

func (Gender) Empty(v any) bool {
	return genderValue(v) == GenderUnknown
}

func (Gender) Validate(v any, _ time.Time) error {
	switch genderValue(v) {
	case GenderUnknown, GenderMale, GenderFemale:
		return nil
	}
	return errors.New("must be one of 0, 1 or 2")
}

func genderValue(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	}
	return -1
}

// ClientIDs accepts a JSON array whose every element is a number.
type ClientIDs struct{}

func (ClientIDs) Check(v any) error {
	list, ok := v.([]any)
	if !ok {
		return errors.New("must be a list")
	}
	for _, el := range list {
		switch el.(type) {
		case float64, int, int64:
		default:
			return errors.New("must contain only numbers")
		}
	}
	return nil
}

func (ClientIDs) Empty(v any) bool {
	list, _ := v.([]any)
	return len(list) == 0
}

func (ClientIDs) Validate(any, time.Time) error { return nil }

// Arguments accepts a JSON object.
type Arguments struct{}

func (Arguments) Check(v any) error {
	if _, ok := v.(map[string]any); !ok {
		return errors.New("must be an object")
	}
	return nil
}

func (Arguments) Empty(v any) bool {
	m, _ := v.(map[string]any)
	return len(m) == 0
}

func (Arguments) Validate(any, time.Time) error { return nil }
