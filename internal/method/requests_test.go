package method

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestParseMethodRequest(t *testing.T) {
	body := map[string]any{
		"account":   "horns&hoofs",
		"login":     "h&f",
		"token":     "sdd",
		"arguments": map[string]any{"phone": "79175002040"},
		"method":    "online_score",
	}

	req, err := ParseMethodRequest(body, testNow)
	require.NoError(t, err)
	assert.Equal(t, "horns&hoofs", req.Account)
	assert.Equal(t, "h&f", req.Login)
	assert.Equal(t, "online_score", req.Method)
	assert.Equal(t, map[string]any{"phone": "79175002040"}, req.Arguments)
	assert.False(t, req.IsAdmin())
}

func TestParseMethodRequest_Failures(t *testing.T) {
	tests := []struct {
		name    string
		body    map[string]any
		wantErr string
	}{
		{
			name:    "missing login",
			body:    map[string]any{"token": "", "arguments": map[string]any{}, "method": "x"},
			wantErr: "field login is required",
		},
		{
			name:    "missing token",
			body:    map[string]any{"login": "", "arguments": map[string]any{}, "method": "x"},
			wantErr: "field token is required",
		},
		{
			name:    "missing arguments",
			body:    map[string]any{"login": "", "token": "", "method": "x"},
			wantErr: "field arguments is required",
		},
		{
			name:    "empty method",
			body:    map[string]any{"login": "", "token": "", "arguments": map[string]any{}, "method": ""},
			wantErr: "field method must not be empty",
		},
		{
			name:    "arguments not an object",
			body:    map[string]any{"login": "", "token": "", "arguments": "x=1", "method": "x"},
			wantErr: "field arguments must be an object",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMethodRequest(tt.body, testNow)
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestParseMethodRequest_AdminIdentity(t *testing.T) {
	req, err := ParseMethodRequest(map[string]any{
		"login": "admin", "token": "", "arguments": map[string]any{}, "method": "x",
	}, testNow)
	require.NoError(t, err)
	assert.True(t, req.IsAdmin())
}

func TestParseOnlineScoreRequest_Groups(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		ok   bool
	}{
		{name: "email and phone", args: map[string]any{"email": "a@b", "phone": "79175002040"}, ok: true},
		{name: "gender and birthday", args: map[string]any{"gender": 1.0, "birthday": "01.01.2000"}, ok: true},
		{name: "unknown gender and birthday", args: map[string]any{"gender": 0.0, "birthday": "01.01.2000"}, ok: true},
		{name: "name pair", args: map[string]any{"first_name": "a", "last_name": "b"}, ok: true},
		{name: "first name alone", args: map[string]any{"first_name": "a"}, ok: false},
		{name: "email without phone", args: map[string]any{"email": "a@b"}, ok: false},
		{name: "email and zero phone", args: map[string]any{"email": "a@b", "phone": 0.0}, ok: false},
		{name: "email and empty phone string", args: map[string]any{"email": "a@b", "phone": ""}, ok: false},
		{name: "gender without birthday", args: map[string]any{"gender": 1.0}, ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOnlineScoreRequest(tt.args, testNow)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestParseOnlineScoreRequest_Normalization(t *testing.T) {
	r, err := ParseOnlineScoreRequest(map[string]any{
		"phone":    float64(79175002040),
		"email":    "a@b",
		"birthday": "01.01.2000",
		"gender":   0.0,
	}, testNow)
	require.NoError(t, err)

	assert.Equal(t, "79175002040", r.Phone)
	assert.True(t, r.HasBirthday)
	assert.Equal(t, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), r.Birthday)
	assert.True(t, r.HasGender)
	assert.Equal(t, 0, r.Gender)
}

func TestParseOnlineScoreRequest_ZeroPhoneStaysUnset(t *testing.T) {
	r, err := ParseOnlineScoreRequest(map[string]any{
		"phone":      0.0,
		"first_name": "a",
		"last_name":  "b",
	}, testNow)
	require.NoError(t, err)
	assert.Empty(t, r.Phone)
}

func TestParseOnlineScoreRequest_FieldFailure(t *testing.T) {
	_, err := ParseOnlineScoreRequest(map[string]any{
		"email": "a@b", "phone": "89175002040",
	}, testNow)
	require.Error(t, err)
	assert.Equal(t, "field phone must start with 7", err.Error())
}

func TestParseClientsInterestsRequest(t *testing.T) {
	r, err := ParseClientsInterestsRequest(map[string]any{
		"client_ids": []any{1.0, 2.0, 3.0},
		"date":       "19.07.2017",
	}, testNow)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, r.ClientIDs)
	assert.Equal(t, "19.07.2017", r.Date)

	_, err = ParseClientsInterestsRequest(map[string]any{"client_ids": []any{}}, testNow)
	require.Error(t, err)
	assert.Equal(t, "field client_ids must not be empty", err.Error())

	_, err = ParseClientsInterestsRequest(map[string]any{"date": "19.07.2017"}, testNow)
	require.Error(t, err)
	assert.Equal(t, "field client_ids is required", err.Error())
}
