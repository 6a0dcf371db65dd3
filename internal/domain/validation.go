package domain

import (
	"fmt"
	"regexp"
)

// FieldError represents a single field's validation error.
type FieldError struct {
	Field string `json:"field"`
	Msg   string `json:"message"`
}

func (e FieldError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Msg) }

// rule binds a field to the pattern it must match and the messages reported
// when the value is invalid or absent.
type rule struct {
	field   string
	pattern *regexp.Regexp
	invalid string
	missing string
}

// rules is evaluated in order, so the error list is always
// first_name, second_name, email, phone_number, eircode.
var rules = []rule{
	{FieldFirstName, regexp.MustCompile(`^[A-Za-z0-9]{1,20}$`), "Invalid first name", "Missing first name"},
	{FieldSecondName, regexp.MustCompile(`^[A-Za-z0-9]{1,20}$`), "Invalid second name", "Missing second name"},
	{FieldEmail, regexp.MustCompile(`^\S+@\S+\.\S+$`), "Invalid email", "Missing email"},
	{FieldPhoneNumber, regexp.MustCompile(`^[0-9]{10}$`), "Invalid phone number", "Missing phone number"},
	{FieldEircode, regexp.MustCompile(`^[0-9][A-Za-z0-9]{5}$`), "Invalid eircode", "Missing eircode"},
}

// Validate checks every field against its rule and reports all violations.
// Keys outside the rule table are ignored.
func Validate(f Fields) []FieldError {
	var errs []FieldError
	for _, r := range rules {
		v, ok := f[r.field]
		switch {
		case !ok:
			errs = append(errs, FieldError{r.field, r.missing})
		case !r.pattern.MatchString(v):
			errs = append(errs, FieldError{r.field, r.invalid})
		}
	}
	return errs
}

// Messages flattens errors into the human-readable strings returned to callers.
func Messages(errs []FieldError) []string {
	out := make([]string, 0, len(errs))
	for _, fe := range errs {
		out = append(out, fe.Msg)
	}
	return out
}

// FieldNames lists the validated fields in rule order.
func FieldNames() []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.field
	}
	return out
}
