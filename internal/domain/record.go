package domain

import "time"

// Field names as they appear in JSON bodies, CSV headers and table columns.
const (
	FieldFirstName   = "first_name"
	FieldSecondName  = "second_name"
	FieldEmail       = "email"
	FieldPhoneNumber = "phone_number"
	FieldEircode     = "eircode"
)

// Fields is the raw payload of one submission: a form body or one CSV row,
// keyed by field name. It is transient; only a validated Fields becomes a Record.
type Fields map[string]string

// Record is the persisted entity. ID and CreatedAt are assigned by the store.
type Record struct {
	ID          int64     `json:"id"`
	FirstName   string    `json:"first_name"`
	SecondName  string    `json:"second_name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	Eircode     string    `json:"eircode"`
	CreatedAt   time.Time `json:"created_at"`
}

// Record projects the five caller-supplied fields onto a Record.
// Call it only after Validate returned no errors.
func (f Fields) Record() Record {
	return Record{
		FirstName:   f[FieldFirstName],
		SecondName:  f[FieldSecondName],
		Email:       f[FieldEmail],
		PhoneNumber: f[FieldPhoneNumber],
		Eircode:     f[FieldEircode],
	}
}
