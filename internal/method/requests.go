package method

import (
	"time"

	"scoreapi/internal/schema"
	"scoreapi/pkg/apperrors"
)

// Supported method names.
const (
	MethodOnlineScore      = "online_score"
	MethodClientsInterests = "clients_interests"
)

// AdminLogin is the distinguished identity that bypasses the score
// computation and authenticates with a time-windowed token.
const AdminLogin = "admin"

var methodRequestFields = schema.Fields{
	{Name: "account", Required: false, Nullable: true, Kind: schema.String{}},
	{Name: "login", Required: true, Nullable: true, Kind: schema.String{}},
	{Name: "token", Required: true, Nullable: true, Kind: schema.String{}},
	{Name: "arguments", Required: true, Nullable: true, Kind: schema.Arguments{}},
	{Name: "method", Required: true, Nullable: false, Kind: schema.String{}},
}

var onlineScoreFields = schema.Fields{
	{Name: "first_name", Required: false, Nullable: true, Kind: schema.String{}},
	{Name: "last_name", Required: false, Nullable: true, Kind: schema.String{}},
	{Name: "email", Required: false, Nullable: true, Kind: schema.Email{}},
	{Name: "phone", Required: false, Nullable: true, Kind: schema.Phone{}},
	{Name: "birthday", Required: false, Nullable: true, Kind: schema.Birthday{}},
	{Name: "gender", Required: false, Nullable: true, Kind: schema.Gender{}},
}

var clientsInterestsFields = schema.Fields{
	{Name: "client_ids", Required: true, Nullable: false, Kind: schema.ClientIDs{}},
	{Name: "date", Required: false, Nullable: true, Kind: schema.Date{}},
}

// MethodRequest is the outer envelope every call arrives in.
type MethodRequest struct {
	Account   string
	Login     string
	Token     string
	Arguments map[string]any
	Method    string
}

// IsAdmin reports whether the envelope names the admin identity.
func (r *MethodRequest) IsAdmin() bool {
	return r.Login == AdminLogin
}

// ParseMethodRequest validates the decoded body against the envelope schema
// and extracts the field values.
func ParseMethodRequest(body map[string]any, now time.Time) (*MethodRequest, error) {
	if err := methodRequestFields.Validate(body, now); err != nil {
		return nil, err
	}
	req := &MethodRequest{
		Account: stringField(body, "account"),
		Login:   stringField(body, "login"),
		Token:   stringField(body, "token"),
		Method:  stringField(body, "method"),
	}
	if args, ok := body["arguments"].(map[string]any); ok {
		req.Arguments = args
	}
	return req, nil
}

// OnlineScoreRequest carries the normalized score arguments. Phone holds the
// canonical string form regardless of the wire type; HasGender distinguishes
// the zero gender code from an absent one.
type OnlineScoreRequest struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Birthday    time.Time
	HasBirthday bool
	Gender      int
	HasGender   bool
}

// ParseOnlineScoreRequest validates score arguments, including the
// cross-field rule: at least one of (email and phone), (gender and birthday),
// (first and last name) must be populated.
func ParseOnlineScoreRequest(args map[string]any, now time.Time) (*OnlineScoreRequest, error) {
	if err := onlineScoreFields.Validate(args, now); err != nil {
		return nil, err
	}
	r := &OnlineScoreRequest{
		FirstName: stringField(args, "first_name"),
		LastName:  stringField(args, "last_name"),
		Email:     stringField(args, "email"),
	}
	if v, ok := args["phone"]; ok && v != nil && !(schema.Phone{}).Empty(v) {
		r.Phone = schema.PhoneString(v)
	}
	if v, ok := args["birthday"].(string); ok && v != "" {
		if d, err := time.Parse(schema.DateLayout, v); err == nil {
			r.Birthday = d
			r.HasBirthday = true
		}
	}
	if v, ok := args["gender"]; ok && v != nil {
		r.Gender = genderOf(v)
		r.HasGender = true
	}
	if !r.scorable() {
		return nil, apperrors.New(apperrors.CodeValidation, "invalid request: no argument group is populated")
	}
	return r, nil
}

// scorable reports whether at least one argument group is populated. A
// present gender counts even when it is the unknown code.
func (r *OnlineScoreRequest) scorable() bool {
	switch {
	case r.Email != "" && r.Phone != "":
		return true
	case r.HasGender && r.HasBirthday:
		return true
	case r.FirstName != "" && r.LastName != "":
		return true
	}
	return false
}

// ClientsInterestsRequest carries the interest lookup arguments.
type ClientsInterestsRequest struct {
	ClientIDs []float64
	Date      string
}

// ParseClientsInterestsRequest validates interest arguments and keeps the
// client ids in input order.
func ParseClientsInterestsRequest(args map[string]any, now time.Time) (*ClientsInterestsRequest, error) {
	if err := clientsInterestsFields.Validate(args, now); err != nil {
		return nil, err
	}
	r := &ClientsInterestsRequest{Date: stringField(args, "date")}
	if list, ok := args["client_ids"].([]any); ok {
		r.ClientIDs = make([]float64, 0, len(list))
		for _, el := range list {
			r.ClientIDs = append(r.ClientIDs, numberOf(el))
		}
	}
	return r, nil
}

func stringField(values map[string]any, name string) string {
	s, _ := values[name].(string)
	return s
}

func genderOf(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	}
	return 0
}

func numberOf(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}
