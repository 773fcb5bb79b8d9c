package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validateOne(t *testing.T, kind Kind, v any) error {
	t.Helper()
	fields := Fields{{Name: "f", Required: true, Nullable: false, Kind: kind}}
	return fields.Validate(map[string]any{"f": v}, testNow)
}

func TestEmail(t *testing.T) {
	assert.NoError(t, validateOne(t, Email{}, "a@b"))
	assert.NoError(t, validateOne(t, Email{}, "@"))

	err := validateOne(t, Email{}, "nobody.example.com")
	require.Error(t, err)
	assert.Equal(t, "field f must contain @", err.Error())
}

func TestPhone(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		wantErr string
	}{
		{name: "string form", value: "79175002040"},
		{name: "number form", value: float64(79175002040)},
		{name: "wrong leading digit", value: "89175002040", wantErr: "field f must start with 7"},
		{name: "too short", value: "791750020", wantErr: "field f must contain 11 digits"},
		{name: "too long", value: "791750020401", wantErr: "field f must contain 11 digits"},
		{name: "fractional number", value: float64(7917500204.5), wantErr: "field f must contain 11 digits"},
		{name: "wrong type", value: true, wantErr: "field f must be a string or a number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateOne(t, Phone{}, tt.value)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestDate(t *testing.T) {
	assert.NoError(t, validateOne(t, Date{}, "01.01.2000"))
	assert.NoError(t, validateOne(t, Date{}, "1.1.2000"))
	assert.Error(t, validateOne(t, Date{}, "2000-01-01"))
	assert.Error(t, validateOne(t, Date{}, "31.02.2000"))
	assert.Error(t, validateOne(t, Date{}, 20000101.0))
}

func TestBirthday(t *testing.T) {
	assert.NoError(t, validateOne(t, Birthday{}, "01.01.2000"))

	err := validateOne(t, Birthday{}, "01.01.1900")
	require.Error(t, err)
	assert.Equal(t, "field f must be no more than 70 years in the past", err.Error())

	// Future dates are not rejected by the age bound.
	assert.NoError(t, validateOne(t, Birthday{}, "01.01.2030"))
}

func TestBirthday_Bound(t *testing.T) {
	// Midnight base so the parsed date differs from now by whole days.
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	fields := Fields{{Name: "birthday", Required: true, Nullable: false, Kind: Birthday{}}}

	justInside := base.Add(-MaxBirthdayAge).Format(DateLayout)
	assert.NoError(t, fields.Validate(map[string]any{"birthday": justInside}, base))

	justOutside := base.Add(-MaxBirthdayAge - 24*time.Hour).Format(DateLayout)
	assert.Error(t, fields.Validate(map[string]any{"birthday": justOutside}, base))
}

func TestGender(t *testing.T) {
	fields := Fields{{Name: "gender", Required: false, Nullable: true, Kind: Gender{}}}

	for _, v := range []float64{0, 1, 2} {
		assert.NoError(t, fields.Validate(map[string]any{"gender": v}, testNow), "gender %v", v)
	}

	err := fields.Validate(map[string]any{"gender": 3.0}, testNow)
	require.Error(t, err)
	assert.Equal(t, "field gender must be one of 0, 1 or 2", err.Error())

	assert.Error(t, fields.Validate(map[string]any{"gender": 1.5}, testNow))
	assert.Error(t, fields.Validate(map[string]any{"gender": "1"}, testNow))
}

func TestClientIDs(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		wantErr string
	}{
		{name: "numbers", value: []any{1.0, 2.0, 3.0}},
		{name: "floats allowed", value: []any{1.5}},
		{name: "empty list", value: []any{}, wantErr: "field f must not be empty"},
		{name: "mixed types", value: []any{1.0, "2"}, wantErr: "field f must contain only numbers"},
		{name: "not a list", value: "1,2", wantErr: "field f must be a list"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateOne(t, ClientIDs{}, tt.value)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestArguments(t *testing.T) {
	assert.NoError(t, validateOne(t, Arguments{}, map[string]any{"k": "v"}))
	assert.Error(t, validateOne(t, Arguments{}, []any{}))

	fields := Fields{{Name: "arguments", Required: true, Nullable: true, Kind: Arguments{}}}
	assert.NoError(t, fields.Validate(map[string]any{"arguments": map[string]any{}}, testNow))
}

func TestPhoneString(t *testing.T) {
	assert.Equal(t, "79175002040", PhoneString("79175002040"))
	assert.Equal(t, "79175002040", PhoneString(float64(79175002040)))
	assert.Equal(t, "79175002040", PhoneString(int64(79175002040)))
}
