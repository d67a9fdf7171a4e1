// Package forms implements schema-driven validation of submitted form
// payloads. A schema is an ordered list of field rules; validating a payload
// yields either a coerced record or the accumulated per-field error messages.
package forms

import (
	"regexp"
	"strconv"
	"strings"
)

// Values holds the raw submitted fields. String fields carry string values,
// file fields carry *Upload or []*Upload.
type Values map[string]interface{}

// Upload is a file read out of a multipart form. It is consumed once by the
// mutation pipeline and never persisted as an entity.
type Upload struct {
	Name    string
	Type    string // MIME type as declared by the client
	Size    int64
	Content []byte
}

// FieldErrors maps a field name to its error messages in rule evaluation
// order. A nil FieldErrors means validation succeeded.
type FieldErrors map[string][]string

func (fe FieldErrors) Add(field, message string) {
	fe[field] = append(fe[field], message)
}

// Record holds coerced values produced by rules on success.
type Record map[string]interface{}

// Rule validates a single field, writing the coerced value into rec or one or
// more messages into fe.
type Rule interface {
	Validate(v Values, rec Record, fe FieldErrors)
}

type Schema struct {
	rules []Rule
}

func NewSchema(rules ...Rule) *Schema {
	return &Schema{rules: rules}
}

// Validate runs every rule in order. It returns (record, nil) on success and
// (nil, errors) when any rule failed; there is no partial success.
func (s *Schema) Validate(v Values) (Record, FieldErrors) {
	rec := Record{}
	fe := FieldErrors{}
	for _, rule := range s.rules {
		rule.Validate(v, rec, fe)
	}
	if len(fe) > 0 {
		return nil, fe
	}
	return rec, nil
}

// RequiredString fails on a missing, non-string or blank value.
type RequiredString struct {
	Field   string
	Message string
}

func (r RequiredString) Validate(v Values, rec Record, fe FieldErrors) {
	s, ok := v[r.Field].(string)
	if !ok || strings.TrimSpace(s) == "" {
		fe.Add(r.Field, r.Message)
		return
	}
	rec[r.Field] = s
}

// Amount coerces a string or numeric value to float64 and requires it to be
// greater than zero.
type Amount struct {
	Field   string
	Message string
}

func (r Amount) Validate(v Values, rec Record, fe FieldErrors) {
	var amount float64
	switch t := v[r.Field].(type) {
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			fe.Add(r.Field, r.Message)
			return
		}
		amount = f
	case float64:
		amount = t
	case int:
		amount = float64(t)
	default:
		fe.Add(r.Field, r.Message)
		return
	}
	if amount <= 0 {
		fe.Add(r.Field, r.Message)
		return
	}
	rec[r.Field] = amount
}

// OneOf requires the value to be exactly one of the allowed strings.
type OneOf struct {
	Field   string
	Allowed []string
	Message string
}

func (r OneOf) Validate(v Values, rec Record, fe FieldErrors) {
	s, ok := v[r.Field].(string)
	if !ok {
		fe.Add(r.Field, r.Message)
		return
	}
	for _, a := range r.Allowed {
		if s == a {
			rec[r.Field] = s
			return
		}
	}
	fe.Add(r.Field, r.Message)
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Email requires the value to be a string in email format.
type Email struct {
	Field   string
	Message string
}

func (r Email) Validate(v Values, rec Record, fe FieldErrors) {
	s, ok := v[r.Field].(string)
	if !ok || !emailPattern.MatchString(s) {
		fe.Add(r.Field, r.Message)
		return
	}
	rec[r.Field] = s
}

// ImageFile validates an uploaded image. A value that is not file-like fails
// with NotAFileMessage and skips the remaining checks for the field; size and
// MIME type issues accumulate. On success the coerced value is the single
// file, unwrapped from a list when several were supplied.
type ImageFile struct {
	Field           string
	MaxSize         int64
	AllowedTypes    []string
	NotAFileMessage string
	SizeMessage     string
	TypeMessage     string
}

func (r ImageFile) Validate(v Values, rec Record, fe FieldErrors) {
	var up *Upload
	switch t := v[r.Field].(type) {
	case *Upload:
		up = t
	case []*Upload:
		if len(t) > 0 {
			up = t[0]
		}
	}
	if up == nil {
		fe.Add(r.Field, r.NotAFileMessage)
		return
	}
	failed := false
	if up.Size > r.MaxSize {
		fe.Add(r.Field, r.SizeMessage)
		failed = true
	}
	allowed := false
	for _, t := range r.AllowedTypes {
		if strings.EqualFold(up.Type, t) {
			allowed = true
			break
		}
	}
	if !allowed {
		fe.Add(r.Field, r.TypeMessage)
		failed = true
	}
	if !failed {
		rec[r.Field] = up
	}
}
